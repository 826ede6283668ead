package evaluation

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/interview-sim/backend/internal/model/chat"
	evalmodel "github.com/zhouzirui/interview-sim/backend/internal/model/evaluation"
	"github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
)

// RubricPromptBuilder renders the evaluator instructions for a scenario.
type RubricPromptBuilder struct {
	formattingRules []string
	fieldRules      []string
}

// NewRubricPromptBuilder returns a builder with the standard output rules.
func NewRubricPromptBuilder() *RubricPromptBuilder {
	return &RubricPromptBuilder{
		formattingRules: []string{
			"Keep all text sections CONCISE.",
			"Use bullet points (•) for clarity.",
			"Ensure EVERY bullet point is on a NEW LINE.",
			"Do NOT write long paragraphs.",
		},
		fieldRules: []string{
			fmt.Sprintf("score: A number between 0 and %d.", evalmodel.MaxScore),
			"performanceLevel: One of \"OUTSTANDING\", \"MASTERING\", \"DEVELOPING\", or \"BEGINNING\".",
			"summary: A concise executive summary (Separate points with newlines).",
			"performanceOverview: Bullet points discussing what was performed well (Separate points with newlines).",
			"scoreRationale: Explain the score using bullet points. IMPORTANT: If the user failed to address the core issue or made no meaningful progress in helping the client, state this EXPLICITLY as the first bullet point.",
			"toneAnalysis: Bullet points on professionalism, empathy, and emotional literacy.",
			"issueAddressing: Bullet points. YOU MUST EXPLICITLY STATE whether the user cited specific laws and whether they applied them correctly.",
			"improvementSuggestions: Short, actionable bullet points on what to improve.",
		},
	}
}

// BuildInstructions creates the system prompt for the evaluator.
func (b *RubricPromptBuilder) BuildInstructions(sc scenario.Scenario) string {
	var builder strings.Builder

	builder.WriteString("You are an expert legal instructor evaluating a law student's interview performance.\n")
	builder.WriteString(fmt.Sprintf(
		"The student played the role of a legal consultant interviewing a client named %s regarding a %s matter.\n\n",
		sc.CharacterName, strings.ToLower(sc.TopicName),
	))

	builder.WriteString("Rubric for Assessment:\n\n")
	for _, band := range evalmodel.Rubric {
		builder.WriteString(fmt.Sprintf("%s (%g - %g points):\n%s\n\n", band.Band, band.Min, band.Max, band.Criteria))
	}

	builder.WriteString("Task:\nAnalyze the conversation transcript provided by the user based on the rubric above.\n\n")
	builder.WriteString("CRITICAL FORMATTING INSTRUCTIONS:\n")
	for _, rule := range b.formattingRules {
		builder.WriteString("- ")
		builder.WriteString(rule)
		builder.WriteString("\n")
	}

	builder.WriteString("\nReturn only a JSON object containing these fields, all mandatory:\n")
	for _, rule := range b.fieldRules {
		builder.WriteString("- ")
		builder.WriteString(rule)
		builder.WriteString("\n")
	}
	return builder.String()
}

// RenderTranscript labels each turn by role, one blank line between turns.
func RenderTranscript(sc scenario.Scenario, transcript []chat.Turn) string {
	lines := make([]string, 0, len(transcript))
	clientLabel := fmt.Sprintf("Client (%s)", sc.CharacterName)
	for _, turn := range transcript {
		label := clientLabel
		if turn.Speaker == chat.SpeakerUser {
			label = "Student (User)"
		}
		lines = append(lines, label+": "+turn.Text)
	}
	return strings.Join(lines, "\n\n")
}
