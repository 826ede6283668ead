package main

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/zhouzirui/interview-sim/backend/internal/analysis/emotion"
	"github.com/zhouzirui/interview-sim/backend/internal/model/chat"
	evalmodel "github.com/zhouzirui/interview-sim/backend/internal/model/evaluation"
	"github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFDF5")).Background(lipgloss.Color("62")).Padding(0, 1)
	userStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	agentStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	noticeStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#888888"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#AFAFAF"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	toneColors = map[emotion.Label]string{
		emotion.Angry:    "196",
		emotion.Happy:    "42",
		emotion.Sad:      "33",
		emotion.Fear:     "214",
		emotion.Confused: "141",
		emotion.Neutral:  "245",
	}
)

func printScenarios(w io.Writer, items []scenario.Scenario) {
	fmt.Fprintln(w, titleStyle.Render("Scenarios"))
	for _, sc := range items {
		fmt.Fprintf(w, "  %s  %s (%s) with %s\n", keyStyle.Render(string(sc.Key)), sc.Title, sc.Difficulty, sc.CharacterName)
		if sc.Description != "" {
			fmt.Fprintf(w, "      %s\n", noticeStyle.Render(sc.Description))
		}
	}
}

func printTurn(w io.Writer, sc *scenario.Scenario, turn chat.Turn) {
	label := userStyle.Render("You")
	if turn.Speaker == chat.SpeakerAgent {
		name := "Client"
		if sc != nil {
			name = sc.CharacterName
		}
		label = agentStyle.Render(name)
	}
	text := turn.Text
	if turn.IsProvisional {
		text = noticeStyle.Render(text)
	}
	fmt.Fprintf(w, "%s %s\n%s\n\n", label, keyStyle.Render(turn.CreatedAt.Local().Format("15:04")), text)
}

func printEmotion(w io.Writer, summary emotion.Summary) {
	if summary.Dominant == nil {
		return
	}
	parts := []string{toneStyle(*summary.Dominant).Bold(true).Render(reading(*summary.Dominant))}
	for _, other := range summary.Others {
		parts = append(parts, toneStyle(other).Render(reading(other)))
	}
	fmt.Fprintf(w, "%s %s\n\n", keyStyle.Render("mood:"), strings.Join(parts, "  "))
}

func toneStyle(r emotion.Reading) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(toneColors[r.Tone]))
}

func reading(r emotion.Reading) string {
	return fmt.Sprintf("%s %d%%", r.Name, int(r.Value*100+0.5))
}

func printResult(w io.Writer, r evalmodel.Result) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Score %g / %d  %s", r.Score, evalmodel.MaxScore, r.Level)))
	for _, s := range []struct{ title, body string }{
		{"Summary", r.Summary},
		{"Performance Overview", r.Overview},
		{"Score Rationale", r.Rationale},
		{"Tone Analysis", r.ToneNote},
		{"Issue Addressing", r.IssueNote},
		{"What to Improve", r.ImprovementNote},
	} {
		fmt.Fprintf(w, "\n%s\n%s\n", sectionStyle.Render(s.title), s.body)
	}
	fmt.Fprintf(w, "\n%s %d messages (%d yours), %d words (%d yours)\n\n",
		keyStyle.Render("stats:"), r.MessageCounts.Total, r.MessageCounts.User, r.WordCounts.Total, r.WordCounts.User)
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render(err.Error()))
}

func printNotice(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, noticeStyle.Render(fmt.Sprintf(format, args...)))
}
