package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/barometerhq/barometer/pkg/formatting"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const analyzerInstructions = `You classify the overall sentiment of a personal journal text. Assign a probability to each of Positive, Neutral, and Negative (non-negative values summing to roughly 1) and pick the dominant label. Judge only the text provided.`

type analysisResponse struct {
	Label    string  `json:"label" jsonschema:"enum=Positive,enum=Neutral,enum=Negative"`
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

var analysisSchema = generateSchema[analysisResponse]()

type openaiAnalyzer struct {
	client    *openai.Client
	model     string
	maxTokens int64
}

// NewOpenAIAnalyzer builds an Analyzer over the Responses API with a
// strict JSON schema output format.
func NewOpenAIAnalyzer(apiKey, baseURL, model string, maxTokens int64) (Analyzer, error) {
	if apiKey == "" {
		return nil, errors.New("sentiment: api key is required")
	}
	if model == "" {
		return nil, errors.New("sentiment: model is required")
	}
	if maxTokens <= 0 {
		maxTokens = 512
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(opts...)
	return &openaiAnalyzer{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (a *openaiAnalyzer) Analyze(ctx context.Context, text string) (Prediction, error) {
	params := responses.ResponseNewParams{
		Model:           a.model,
		MaxOutputTokens: openai.Int(a.maxTokens),
		Instructions:    openai.String(analyzerInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        "SentimentAnalysis",
					Schema:      analysisSchema,
					Strict:      openai.Bool(true),
					Description: openai.String("Sentiment label with probability distribution"),
					Type:        "json_schema",
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return Prediction{}, fmt.Errorf("sentiment analysis: %w", err)
	}

	parsed, err := formatting.Parse[analysisResponse](resp.OutputText())
	if err != nil {
		return Prediction{}, fmt.Errorf("sentiment analysis: %w", err)
	}

	dist := Distribution{
		Positive: parsed.Positive,
		Neutral:  parsed.Neutral,
		Negative: parsed.Negative,
	}
	label := Label(parsed.Label)
	if !label.Valid() {
		label = LabelFor(dist)
	}

	return Prediction{Label: label, Distribution: dist}, nil
}

// generateSchema reflects a JSON schema for the structured output format,
// tightened to what the Responses API accepts in strict mode: every object
// closes additionalProperties and requires all of its properties.
func generateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}

	var v T
	raw, err := reflector.Reflect(v).MarshalJSON()
	if err != nil {
		panic(err)
	}

	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		panic(err)
	}
	tightenSchema(schema)
	return schema
}

func tightenSchema(schema map[string]any) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false

		if props, ok := schema["properties"].(map[string]any); ok {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			if len(required) > 0 {
				schema["required"] = required
			}
		}
	}

	if props, ok := schema["properties"].(map[string]any); ok {
		for _, prop := range props {
			if m, ok := prop.(map[string]any); ok {
				tightenSchema(m)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		tightenSchema(items)
	}
}
