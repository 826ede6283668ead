package evaluation

import "strings"

// Band is a performance level on the rubric.
type Band string

const (
	BandOutstanding  Band = "OUTSTANDING"
	BandMastering    Band = "MASTERING"
	BandDeveloping   Band = "DEVELOPING"
	BandBeginning    Band = "BEGINNING"
	BandNotAvailable Band = "Not Available"
)

// MaxScore is the top of the rubric range.
const MaxScore = 40

// BandRange is a closed score interval belonging to a band.
type BandRange struct {
	Band     Band
	Min, Max float64
	Criteria string
}

// Rubric lists the bands from best to worst.
var Rubric = []BandRange{
	{
		Band: BandOutstanding, Min: 32, Max: 40,
		Criteria: "Presentation done with the display of the enhanced ability of nonverbal skills (creativity, tone, empathy), " +
			"vocal skills (enthusiasm, elocution - evaluate via text tone), structure (logical progression of points and coherence), " +
			"relevant application and illustration of the legal content (subject coverage, depth of understanding, evaluation analysis and research) " +
			"and professionalism. This shows enhanced ability to emotional literacy, consistent ability to perform under pressure situations, " +
			"consistent grit or resilience, consistent adaptability with behavioural flexibilities.",
	},
	{
		Band: BandMastering, Min: 25, Max: 31,
		Criteria: "Presentation done with the demonstration of sufficient non-verbal/written skills, structure (logical progression of points and coherence), " +
			"relevant application and illustration of the legal content and professionalism. This shows sufficient ability to emotional literacy, " +
			"sufficient ability to perform under pressure situations, sufficient grit or resilience, sufficient adaptability.",
	},
	{
		Band: BandDeveloping, Min: 16, Max: 24,
		Criteria: "Presentation done with limited non-verbal/written skills, structure, relevant application and illustration of the legal content. " +
			"This shows developing ability to emotional literacy, some ability to perform under pressure situations, shows some grit or resilience, " +
			"some adaptability with behavioural inflexibility.",
	},
	{
		Band: BandBeginning, Min: 0, Max: 15,
		Criteria: "Presentation lacks sufficient structure, content knowledge, or professional tone. The student struggled to maintain the " +
			"attorney-client relationship, failed to gather basic facts, or did not progress the interview.",
	},
}

// ParseBand matches a rubric band label case-insensitively.
func ParseBand(raw string) (Band, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	for _, r := range Rubric {
		if string(r.Band) == normalized {
			return r.Band, true
		}
	}
	return "", false
}

// BandForScore returns the band whose range contains score. Fractional scores
// between two integer ranges belong to the lower band.
func BandForScore(score float64) Band {
	for _, r := range Rubric {
		if score >= r.Min {
			return r.Band
		}
	}
	return BandBeginning
}

// MessageCounts holds the turn statistics of a transcript.
type MessageCounts struct {
	Total int `json:"total"`
	User  int `json:"user"`
	Agent int `json:"agent"`
}

// WordCounts holds the word statistics of a transcript.
type WordCounts struct {
	Total int `json:"total"`
	User  int `json:"user"`
}

// Result is the assessment of a finished session.
type Result struct {
	Score           float64       `json:"score"`
	Level           Band          `json:"level"`
	Summary         string        `json:"summary"`
	Overview        string        `json:"overview"`
	Rationale       string        `json:"rationale"`
	ToneNote        string        `json:"toneNote"`
	IssueNote       string        `json:"issueNote"`
	ImprovementNote string        `json:"improvementNote"`
	MessageCounts   MessageCounts `json:"messageCounts"`
	WordCounts      WordCounts    `json:"wordCounts"`
}

// Degraded is the placeholder assessment used when the evaluator is unusable.
func Degraded(messages MessageCounts, words WordCounts) Result {
	return Result{
		Score:           0,
		Level:           BandNotAvailable,
		Summary:         "Could not generate AI analysis at this time.",
		Overview:        "N/A",
		Rationale:       "N/A",
		ToneNote:        "N/A",
		IssueNote:       "N/A",
		ImprovementNote: "Please try again later.",
		MessageCounts:   messages,
		WordCounts:      words,
	}
}
