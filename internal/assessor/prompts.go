package assessor

import (
	"fmt"
	"strings"

	"github.com/barometerhq/barometer/internal/scoring"
)

const batchTemplate = `You are a psychiatrist who diagnoses depression. The following paragraph was concatenated from a user's journal entries. Read the posts and assess ALL 21 symptoms listed below. For each symptom, determine the level (0, 1, 2, or 3) based on the user's text only and explain why.

Symptoms to assess:
%s

Respond strictly in the following format for EACH symptom:
Q1_LEVEL: <0/1/2/3>
Q1_REASON: <explanation>
Q2_LEVEL: <0/1/2/3>
Q2_REASON: <explanation>
...
Q21_LEVEL: <0/1/2/3>
Q21_REASON: <explanation>

User's text:
%s`

const symptomTemplate = `You are a psychiatrist who prefers to give minor diagnoses rather than serious ones. The following paragraph was concatenated from a user's journal entries or social media posts. Read the posts as a whole, determine the level of "%s" and give a number in 0, 1, 2, or 3.

Respond strictly in the following format:
LEVEL: <number>
REASON: <short explanation>

User's text:
%s`

// BatchPrompt builds the single-request prompt that enumerates the full
// symptom catalog and demands the tagged line response format.
func BatchPrompt(text string) string {
	var list strings.Builder
	for i, sym := range scoring.Symptoms() {
		if i > 0 {
			list.WriteByte('\n')
		}
		fmt.Fprintf(&list, "%d. %s", i+1, sym.Phrase)
	}
	return fmt.Sprintf(batchTemplate, list.String(), text)
}

// SymptomPrompt builds the fallback prompt assessing a single symptom in
// the bare LEVEL / REASON format.
func SymptomPrompt(sym scoring.Symptom, text string) string {
	return fmt.Sprintf(symptomTemplate, sym.Phrase, text)
}
