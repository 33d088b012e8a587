package assessor

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

type openaiClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient builds a Client over the Responses API. baseURL is
// optional and supports OpenAI-compatible gateways.
func NewOpenAIClient(apiKey, baseURL, model string) (Client, error) {
	if apiKey == "" {
		return nil, errors.New("assessor: api key is required")
	}
	if model == "" {
		return nil, errors.New("assessor: model is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(opts...)
	return &openaiClient{
		client: &client,
		model:  model,
	}, nil
}

func (c *openaiClient) Complete(ctx context.Context, prompt string, gen Generation) (string, error) {
	// The Responses API exposes no top-k control; gen.TopK is carried for
	// providers that honor it and ignored here.
	params := responses.ResponseNewParams{
		Model:       c.model,
		Temperature: openai.Float(gen.Temperature),
		TopP:        openai.Float(gen.TopP),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
	}
	if gen.MaxOutputTokens > 0 {
		params.MaxOutputTokens = openai.Int(gen.MaxOutputTokens)
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return "", err
	}
	return resp.OutputText(), nil
}
