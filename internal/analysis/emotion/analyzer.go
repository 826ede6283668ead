package emotion

import (
	"math"
	"sort"
	"strings"

	"github.com/zhouzirui/interview-sim/backend/internal/model/chat"
)

// Label is the tone category shown next to the persona.
type Label string

const (
	Neutral  Label = "neutral"
	Happy    Label = "happy"
	Sad      Label = "sad"
	Angry    Label = "angry"
	Fear     Label = "fear"
	Confused Label = "confused"
)

// noiseFloor drops weights the backend reports for nearly absent emotions.
const noiseFloor = 0.01

// maxSecondary is the number of emotions listed after the dominant one.
const maxSecondary = 3

// Reading is one emotion with its weight.
type Reading struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Tone  Label   `json:"tone"`
}

// Summary condenses a snapshot for display.
type Summary struct {
	Dominant *Reading  `json:"dominant,omitempty"`
	Others   []Reading `json:"others,omitempty"`
}

// Checked in order; the first bucket with a matching keyword wins.
var keywordBuckets = []struct {
	label    Label
	keywords []string
}{
	{Angry, []string{"angry", "anger", "annoyed"}},
	{Happy, []string{"happy", "joy", "excited"}},
	{Sad, []string{"sad", "grief", "disappointed"}},
	{Fear, []string{"fear", "scared", "nervous"}},
	{Confused, []string{"confused", "puzzled", "uncertain"}},
}

// Classify maps a backend emotion name to a tone category.
func Classify(name string) Label {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, bucket := range keywordBuckets {
		for _, word := range bucket.keywords {
			if strings.Contains(normalized, word) {
				return bucket.label
			}
		}
	}
	return Neutral
}

// Normalize clamps weights into [0,1] and drops non-finite values. A nil
// input stays nil.
func Normalize(raw map[string]float64) chat.Emotion {
	if raw == nil {
		return nil
	}
	out := make(chat.Emotion, len(raw))
	for name, value := range raw {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		out[name] = math.Max(0, math.Min(1, value))
	}
	return out
}

// Summarize picks the dominant emotion and up to three runners-up.
func Summarize(snapshot chat.Emotion) Summary {
	if len(snapshot) == 0 {
		return Summary{}
	}

	readings := make([]Reading, 0, len(snapshot))
	for name, value := range snapshot {
		if value <= noiseFloor {
			continue
		}
		readings = append(readings, Reading{Name: name, Value: value, Tone: Classify(name)})
	}
	if len(readings) == 0 {
		return Summary{}
	}

	sort.Slice(readings, func(i, j int) bool {
		if readings[i].Value != readings[j].Value {
			return readings[i].Value > readings[j].Value
		}
		return readings[i].Name < readings[j].Name
	})

	dominant := readings[0]
	others := readings[1:]
	if len(others) > maxSecondary {
		others = others[:maxSecondary]
	}
	return Summary{Dominant: &dominant, Others: append([]Reading(nil), others...)}
}
