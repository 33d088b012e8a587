// Package scoring implements the symptom scoring core for Barometer.
// It defines the fixed 21-indicator symptom catalog, the score map produced
// by an assessment, response parsing for the tagged completion format, and
// severity banding over total scores.
package scoring

// Symptom is one indicator in the fixed assessment catalog. ID is the wire
// identifier used in completion tags (Q1..Q21), Name is the display name,
// and Phrase is the behavioral description embedded in prompts.
type Symptom struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phrase string `json:"phrase"`
}

// SymptomCount is the size of the catalog. Every score map carries exactly
// this many entries.
const SymptomCount = 21

var catalog = []Symptom{
	{ID: "Q1", Name: "Sadness", Phrase: "how sad the user feels"},
	{ID: "Q2", Name: "Pessimism", Phrase: "how discouraged the user is about future"},
	{ID: "Q3", Name: "Past Failure", Phrase: "how much the user feels like a failure"},
	{ID: "Q4", Name: "Loss of Pleasure", Phrase: "how much the user loses pleasure from things"},
	{ID: "Q5", Name: "Guilty Feelings", Phrase: "how often the user feels guilty"},
	{ID: "Q6", Name: "Punishment Feelings", Phrase: "how much the user feels punished"},
	{ID: "Q7", Name: "Self-Dislike", Phrase: "how much the user feels disappointed about him/herself"},
	{ID: "Q8", Name: "Self Criticalness", Phrase: "how often the user criticizes or blames him/herself"},
	{ID: "Q9", Name: "Suicidal Thoughts or Wishes", Phrase: "how much the user thinks about killing him/herself"},
	{ID: "Q10", Name: "Crying", Phrase: "how often the user cries"},
	{ID: "Q11", Name: "Agitation", Phrase: "how much the user feels restless or agitated"},
	{ID: "Q12", Name: "Loss of Interest", Phrase: "how much the user loses interest in things"},
	{ID: "Q13", Name: "Indecisiveness", Phrase: "how difficult the user to make decisions"},
	{ID: "Q14", Name: "Worthlessness", Phrase: "how much the user feels worthless"},
	{ID: "Q15", Name: "Loss of Energy", Phrase: "how much the user loses energy"},
	{ID: "Q16", Name: "Changes in Sleeping Pattern", Phrase: "how much the user experienced changes in sleeping"},
	{ID: "Q17", Name: "Irritability", Phrase: "how much the user feels irritable"},
	{ID: "Q18", Name: "Changes in Appetite", Phrase: "how much the user experienced changes in appetite"},
	{ID: "Q19", Name: "Concentration Difficulty", Phrase: "how difficult the user to concentrate"},
	{ID: "Q20", Name: "Tiredness or Fatigue", Phrase: "how much the user feels tired or fatigued"},
	{ID: "Q21", Name: "Loss of Interest in Sex", Phrase: "how much the user loses interest in sex"},
}

var byID = func() map[string]Symptom {
	m := make(map[string]Symptom, len(catalog))
	for _, s := range catalog {
		m[s.ID] = s
	}
	return m
}()

// Symptoms returns the catalog in its canonical order.
func Symptoms() []Symptom {
	return catalog
}

// SymptomByID looks up a catalog entry by wire identifier.
func SymptomByID(id string) (Symptom, bool) {
	s, ok := byID[id]
	return s, ok
}

// SymptomName resolves a wire identifier to its display name, falling back
// to the identifier itself for unknown keys.
func SymptomName(id string) string {
	if s, ok := byID[id]; ok {
		return s.Name
	}
	return id
}
