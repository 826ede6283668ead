package report

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/interview-sim/backend/internal/model/chat"
	evalmodel "github.com/zhouzirui/interview-sim/backend/internal/model/evaluation"
	"github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
	"github.com/zhouzirui/interview-sim/backend/internal/service/simulation"
)

func sampleInput() Input {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	sc, _ := scenario.NewMemoryStore(scenario.Seed()).Find(scenario.Copyright)
	return Input{
		Scenario:  sc,
		SessionID: "sess-1",
		Transcript: []chat.Turn{
			{ID: "1", Speaker: chat.SpeakerAgent, Text: "Hi, I'm Dave.", CreatedAt: at},
			{ID: "2", Speaker: chat.SpeakerUser, Text: "How can I help?", CreatedAt: at.Add(time.Minute)},
		},
		Result: evalmodel.Result{
			Score:           27.5,
			Level:           evalmodel.BandMastering,
			Summary:         "• Good start",
			Overview:        "• Built rapport",
			Rationale:       "• Gathered facts",
			ToneNote:        "• Calm",
			IssueNote:       "• No statute cited",
			ImprovementNote: "• Cite the Act",
			MessageCounts:   evalmodel.MessageCounts{Total: 2, User: 1, Agent: 1},
			WordCounts:      evalmodel.WordCounts{Total: 7, User: 4},
		},
		GeneratedAt: at.Add(2 * time.Minute),
	}
}

func TestRender(t *testing.T) {
	out := Render(sampleInput())

	require.True(t, strings.HasPrefix(out, "CONVAI CHAT ANALYSIS REPORT\n===========================\n"))
	require.Contains(t, out, "Date: 2026-03-14 09:32:00\n")
	require.Contains(t, out, "Topic: Copyright Law\n")
	require.Contains(t, out, "Session ID: sess-1\n")
	require.Contains(t, out, "Character: Dave (40d1e4d6-afc2-11f0-9b3c-42010a7be025)\n")
	require.Contains(t, out, "Score: 27.5 / 40\nLevel: MASTERING\n")
	require.Contains(t, out, "What to Improve:\n• Cite the Act\n")
	require.Contains(t, out, "User Messages: 1\nCharacter Messages: 1\nTotal Words: 7\nUser Words: 4\n")
	require.True(t, strings.HasSuffix(out, "[AGENT - 09:30:00]: Hi, I'm Dave.\n\n[USER - 09:31:00]: How can I help?"))
}

func TestFilename(t *testing.T) {
	in := sampleInput()
	require.Equal(t, "analysis-Copyright_Law-sess-1.txt", Filename(in.Scenario, in.SessionID))
}

func TestMailIntent(t *testing.T) {
	link := MailIntent(sampleInput())
	require.True(t, strings.HasPrefix(link, "mailto:?subject=Conversation%20Analysis%20-%20Copyright%20Law&body="))
	require.NotContains(t, link, "+")

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	query, err := url.ParseQuery(parsed.RawQuery)
	require.NoError(t, err)
	body := query.Get("body")
	require.True(t, strings.HasPrefix(body, "Here is the analysis of my conversation with Dave regarding Copyright Law.\n\nSession ID: sess-1"))
	require.Contains(t, body, "-- Assessment --\nScore: 27.5/40\nLevel: MASTERING\n\nSummary: • Good start")
	require.True(t, strings.HasSuffix(body, "Performance Overview:\n• Built rapport"))
}

func TestFromView(t *testing.T) {
	at := time.Now()
	_, err := FromView(simulation.View{}, at)
	require.ErrorIs(t, err, simulation.ErrNoActiveSession)

	in := sampleInput()
	session := chat.Session{ID: in.SessionID, ScenarioKey: in.Scenario.Key, Transcript: in.Transcript}
	view := simulation.View{Active: true, Scenario: &in.Scenario, Session: &session}
	_, err = FromView(view, at)
	require.ErrorIs(t, err, simulation.ErrNotEvaluated)

	view.Evaluation = &in.Result
	got, err := FromView(view, at)
	require.NoError(t, err)
	require.Equal(t, in.SessionID, got.SessionID)
	require.Equal(t, in.Result, got.Result)
	require.Len(t, got.Transcript, 2)
}
