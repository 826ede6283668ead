// Package evaluation scores a finished transcript against the interview
// rubric. Evaluator problems never escape: they degrade the result.
package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/interview-sim/backend/internal/analysis/stats"
	"github.com/zhouzirui/interview-sim/backend/internal/model/chat"
	evalmodel "github.com/zhouzirui/interview-sim/backend/internal/model/evaluation"
	"github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
)

// Service runs the evaluator chain.
type Service struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	prompts *RubricPromptBuilder
}

// NewService compiles the evaluator chain around chatModel. A nil chatModel
// yields a service whose every evaluation is degraded.
func NewService(ctx context.Context, chatModel model.BaseChatModel) (*Service, error) {
	svc := &Service{prompts: NewRubricPromptBuilder()}
	if chatModel == nil {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{instructions}"),
		schema.UserMessage("Transcript:\n{transcript}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile evaluation chain: %w", err)
	}

	svc.chain = runnable
	return svc, nil
}

// Enabled reports whether an evaluator model is wired.
func (s *Service) Enabled() bool {
	return s != nil && s.chain != nil
}

// Evaluate scores transcript. It makes exactly one evaluator attempt and
// always returns a result.
func (s *Service) Evaluate(ctx context.Context, sc scenario.Scenario, transcript []chat.Turn) evalmodel.Result {
	messages, words := stats.Compute(transcript)

	if !s.Enabled() {
		log.Warn().Str("component", "evaluation").Msg("evaluator unavailable, returning degraded result")
		return evalmodel.Degraded(messages, words)
	}

	input := map[string]any{
		"instructions": s.prompts.BuildInstructions(sc),
		"transcript":   RenderTranscript(sc, transcript),
	}

	msg, err := s.chain.Invoke(ctx, input)
	if err != nil {
		log.Error().Str("component", "evaluation").Err(err).Msg("evaluator invoke failed")
		return evalmodel.Degraded(messages, words)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		log.Error().Str("component", "evaluation").Msg("evaluator returned no content")
		return evalmodel.Degraded(messages, words)
	}

	assessment, err := parseEvaluatorOutput(msg.Content)
	if err != nil {
		log.Error().Str("component", "evaluation").Err(err).Msg("evaluator output rejected")
		return evalmodel.Degraded(messages, words)
	}

	result := assessment.toResult()
	result.MessageCounts = messages
	result.WordCounts = words

	log.Info().
		Str("component", "evaluation").
		Str("scenario", string(sc.Key)).
		Float64("score", result.Score).
		Str("level", string(result.Level)).
		Msg("transcript evaluated")
	return result
}

type evaluatorPayload struct {
	Score                  *float64 `json:"score"`
	PerformanceLevel       *string  `json:"performanceLevel"`
	Summary                *string  `json:"summary"`
	PerformanceOverview    *string  `json:"performanceOverview"`
	ScoreRationale         *string  `json:"scoreRationale"`
	ToneAnalysis           *string  `json:"toneAnalysis"`
	IssueAddressing        *string  `json:"issueAddressing"`
	ImprovementSuggestions *string  `json:"improvementSuggestions"`
}

// parseEvaluatorOutput extracts the JSON object from the model output and
// checks that every mandatory field is present.
func parseEvaluatorOutput(content string) (*evaluatorPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := &evaluatorPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}

	missing := make([]string, 0)
	for name, present := range map[string]bool{
		"score":                  payload.Score != nil,
		"performanceLevel":       payload.PerformanceLevel != nil,
		"summary":                payload.Summary != nil,
		"performanceOverview":    payload.PerformanceOverview != nil,
		"scoreRationale":         payload.ScoreRationale != nil,
		"toneAnalysis":           payload.ToneAnalysis != nil,
		"issueAddressing":        payload.IssueAddressing != nil,
		"improvementSuggestions": payload.ImprovementSuggestions != nil,
	} {
		if !present {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}

	if *payload.Score < 0 || *payload.Score > evalmodel.MaxScore {
		return nil, fmt.Errorf("score %v outside 0..%d", *payload.Score, evalmodel.MaxScore)
	}
	return payload, nil
}

func (p *evaluatorPayload) toResult() evalmodel.Result {
	level, ok := evalmodel.ParseBand(*p.PerformanceLevel)
	if !ok {
		level = evalmodel.BandForScore(*p.Score)
		log.Warn().
			Str("component", "evaluation").
			Str("reported", *p.PerformanceLevel).
			Str("derived", string(level)).
			Msg("unknown performance level, derived from score")
	}

	return evalmodel.Result{
		Score:           *p.Score,
		Level:           level,
		Summary:         strings.TrimSpace(*p.Summary),
		Overview:        strings.TrimSpace(*p.PerformanceOverview),
		Rationale:       strings.TrimSpace(*p.ScoreRationale),
		ToneNote:        strings.TrimSpace(*p.ToneAnalysis),
		IssueNote:       strings.TrimSpace(*p.IssueAddressing),
		ImprovementNote: strings.TrimSpace(*p.ImprovementSuggestions),
	}
}
