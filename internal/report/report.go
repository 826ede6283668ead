// Package report renders the downloadable assessment report and the mail
// intent for a finished simulation.
package report

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/zhouzirui/interview-sim/backend/internal/model/chat"
	evalmodel "github.com/zhouzirui/interview-sim/backend/internal/model/evaluation"
	"github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
	"github.com/zhouzirui/interview-sim/backend/internal/service/simulation"
)

const (
	dateLayout = "2006-01-02 15:04:05"
	timeLayout = "15:04:05"
)

// Input is everything a report is derived from.
type Input struct {
	Scenario    scenario.Scenario
	SessionID   string
	Transcript  []chat.Turn
	Result      evalmodel.Result
	GeneratedAt time.Time
}

// FromView collects the report input of an evaluated simulation.
func FromView(view simulation.View, at time.Time) (Input, error) {
	if !view.Active || view.Session == nil || view.Scenario == nil {
		return Input{}, simulation.ErrNoActiveSession
	}
	if view.Evaluation == nil {
		return Input{}, simulation.ErrNotEvaluated
	}
	return Input{
		Scenario:    *view.Scenario,
		SessionID:   view.Session.ID,
		Transcript:  view.Session.Transcript,
		Result:      *view.Evaluation,
		GeneratedAt: at,
	}, nil
}

// Render produces the plain text report.
func Render(in Input) string {
	var b strings.Builder
	r := in.Result

	b.WriteString("CONVAI CHAT ANALYSIS REPORT\n")
	b.WriteString("===========================\n")
	fmt.Fprintf(&b, "Date: %s\n", in.GeneratedAt.Format(dateLayout))
	fmt.Fprintf(&b, "Topic: %s\n", in.Scenario.TopicName)
	fmt.Fprintf(&b, "Session ID: %s\n", in.SessionID)
	fmt.Fprintf(&b, "Character: %s (%s)\n\n", in.Scenario.CharacterName, in.Scenario.CharacterID)

	b.WriteString("ASSESSMENT\n----------\n")
	fmt.Fprintf(&b, "Score: %s / %d\n", formatScore(r.Score), evalmodel.MaxScore)
	fmt.Fprintf(&b, "Level: %s\n\n", r.Level)
	section(&b, "Summary", r.Summary)
	section(&b, "Performance Overview", r.Overview)
	section(&b, "Score Rationale", r.Rationale)
	section(&b, "Tone Analysis", r.ToneNote)
	section(&b, "Issue Addressing", r.IssueNote)
	section(&b, "What to Improve", r.ImprovementNote)

	b.WriteString("STATISTICS\n----------\n")
	fmt.Fprintf(&b, "Total Messages: %d\n", r.MessageCounts.Total)
	fmt.Fprintf(&b, "User Messages: %d\n", r.MessageCounts.User)
	fmt.Fprintf(&b, "Character Messages: %d\n", r.MessageCounts.Agent)
	fmt.Fprintf(&b, "Total Words: %d\n", r.WordCounts.Total)
	fmt.Fprintf(&b, "User Words: %d\n\n", r.WordCounts.User)

	b.WriteString("TRANSCRIPT\n----------\n")
	lines := make([]string, 0, len(in.Transcript))
	for _, turn := range in.Transcript {
		lines = append(lines, fmt.Sprintf("[%s - %s]: %s", turn.Speaker, turn.CreatedAt.Format(timeLayout), turn.Text))
	}
	b.WriteString(strings.Join(lines, "\n\n"))

	return strings.TrimSpace(b.String())
}

func section(b *strings.Builder, title, body string) {
	fmt.Fprintf(b, "%s:\n%s\n\n", title, body)
}

// Filename names the report attachment.
func Filename(sc scenario.Scenario, sessionID string) string {
	return fmt.Sprintf("analysis-%s-%s.txt", strings.ReplaceAll(sc.TopicName, " ", "_"), sessionID)
}

// MailIntent builds a mailto link carrying the headline of the assessment.
func MailIntent(in Input) string {
	subject := fmt.Sprintf("Conversation Analysis - %s", in.Scenario.TopicName)
	body := fmt.Sprintf(
		"Here is the analysis of my conversation with %s regarding %s.\n\n"+
			"Session ID: %s\n\n"+
			"-- Assessment --\n"+
			"Score: %s/%d\n"+
			"Level: %s\n\n"+
			"Summary: %s\n\n"+
			"Performance Overview:\n%s",
		in.Scenario.CharacterName, in.Scenario.TopicName,
		in.SessionID,
		formatScore(in.Result.Score), evalmodel.MaxScore,
		in.Result.Level,
		in.Result.Summary,
		in.Result.Overview,
	)
	return "mailto:?subject=" + escape(subject) + "&body=" + escape(strings.TrimSpace(body))
}

// escape percent-encodes like a URI component: spaces become %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func formatScore(score float64) string {
	return fmt.Sprintf("%g", score)
}
