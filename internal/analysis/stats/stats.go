// Package stats computes deterministic transcript statistics.
package stats

import (
	"strings"

	"github.com/zhouzirui/interview-sim/backend/internal/model/chat"
	"github.com/zhouzirui/interview-sim/backend/internal/model/evaluation"
)

// CountWords returns the number of maximal non-whitespace runs in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Compute tallies turns and words per speaker.
func Compute(transcript []chat.Turn) (evaluation.MessageCounts, evaluation.WordCounts) {
	var (
		messages evaluation.MessageCounts
		words    evaluation.WordCounts
	)
	for _, turn := range transcript {
		n := CountWords(turn.Text)
		messages.Total++
		words.Total += n
		switch turn.Speaker {
		case chat.SpeakerUser:
			messages.User++
			words.User += n
		case chat.SpeakerAgent:
			messages.Agent++
		}
	}
	return messages, words
}
