package stats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/interview-sim/backend/internal/model/chat"
)

func TestCountWordsIgnoresWhitespaceShape(t *testing.T) {
	base := CountWords("objection your honour")
	require.Equal(t, 3, base)
	require.Equal(t, base, CountWords("   objection your honour \n\t"))
	require.Equal(t, base, CountWords("objection \t\n  your    honour"))
	require.Equal(t, 0, CountWords(" \n\t "))
	require.Equal(t, 0, CountWords(""))
}

func TestComputeFinishedSession(t *testing.T) {
	transcript := []chat.Turn{
		{ID: "1", Speaker: chat.SpeakerAgent, Text: "Welcome to the consultation"},
		{ID: "2", Speaker: chat.SpeakerUser, Text: "a b"},
		{ID: "3", Speaker: chat.SpeakerAgent, Text: "Sure"},
		{ID: "4", Speaker: chat.SpeakerUser, Text: "c"},
	}

	messages, words := Compute(transcript)
	require.Equal(t, 4, messages.Total)
	require.Equal(t, 2, messages.User)
	require.Equal(t, 2, messages.Agent)
	require.Equal(t, 3, words.User)
	require.Equal(t, 8, words.Total)
}
