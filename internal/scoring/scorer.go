// Package scoring turns lead submissions into quality assessments using an LLM.
//
// ScoreLead is total: any failure of the upstream model (missing client,
// network error, timeout, unusable reply) yields Fallback() instead of an error.
package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/jonathan/lead-intel/internal/llm"
	"github.com/jonathan/lead-intel/internal/prompts"
	"github.com/jonathan/lead-intel/internal/schemas"
	"github.com/jonathan/lead-intel/internal/types"
)

// DefaultTimeout bounds a single scoring call.
const DefaultTimeout = 20 * time.Second

// FallbackSummary is the summary reported when scoring is unavailable.
const FallbackSummary = "Scoring unavailable."

const promptFile = "scoring.json"

// Fallback returns the result substituted for any scoring failure.
func Fallback() types.LeadScoreResult {
	return types.LeadScoreResult{
		Score:    0,
		Priority: types.PriorityLow,
		Summary:  FallbackSummary,
	}
}

// ResponseSchema is the JSON shape requested from the model.
func ResponseSchema() *llm.ResponseSchema {
	return &llm.ResponseSchema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.ResponseSchema{
			"score":    {Type: llm.TypeNumber},
			"priority": {Type: llm.TypeString, Description: "LOW, MEDIUM, or HIGH"},
			"summary":  {Type: llm.TypeString},
		},
		Required: []string{"score", "priority", "summary"},
	}
}

// Options configures a Scorer.
type Options struct {
	Tier    llm.ModelTier
	Timeout time.Duration
}

// Scorer requests lead assessments from an LLM client.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	client  llm.Client
	tier    llm.ModelTier
	timeout time.Duration
}

// New creates a Scorer. A nil client is allowed: every call then falls back.
func New(client llm.Client, opts Options) *Scorer {
	if opts.Tier == "" {
		opts.Tier = llm.TierStandard
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Scorer{
		client:  client,
		tier:    opts.Tier,
		timeout: opts.Timeout,
	}
}

// ScoreLead scores a lead. It never returns an error: failures are logged and
// the fixed Fallback() result is returned instead.
func (s *Scorer) ScoreLead(ctx context.Context, data types.LeadFormData) types.LeadScoreResult {
	result, err := s.score(ctx, data)
	if err != nil {
		log.Printf("[scoring] Lead scoring failed: %v", err)
		return Fallback()
	}
	return result
}

func (s *Scorer) score(ctx context.Context, data types.LeadFormData) (result types.LeadScoreResult, err error) {
	// A panicking client must not escape ScoreLead
	defer func() {
		if r := recover(); r != nil {
			err = &APICallError{Message: fmt.Sprintf("LLM client panicked: %v", r)}
		}
	}()

	if s == nil || s.client == nil {
		return types.LeadScoreResult{}, &APICallError{Message: "no LLM client configured"}
	}

	req, err := buildRequest(data, s.tier)
	if err != nil {
		return types.LeadScoreResult{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.client.GenerateJSON(callCtx, req)
	if err != nil {
		return types.LeadScoreResult{}, &APICallError{
			Message: "failed to generate score from LLM",
			Cause:   err,
		}
	}

	return parseScoreResponse(text)
}

// buildRequest assembles the prompt, system instruction and schema for a lead.
func buildRequest(data types.LeadFormData, tier llm.ModelTier) (llm.Request, error) {
	system, err := prompts.Get(promptFile, "score-lead-system")
	if err != nil {
		return llm.Request{}, err
	}
	prompt, err := prompts.Render(promptFile, "score-lead", map[string]string{
		"Name":    data.Name,
		"Company": data.Company,
		"Budget":  data.Budget,
		"Message": data.Message,
	})
	if err != nil {
		return llm.Request{}, err
	}

	return llm.Request{
		Prompt:            prompt,
		SystemInstruction: system,
		Schema:            ResponseSchema(),
		Tier:              tier,
	}, nil
}

// scoreReply mirrors the requested schema; score may arrive as a float.
type scoreReply struct {
	Score    float64 `json:"score"`
	Priority string  `json:"priority"`
	Summary  string  `json:"summary"`
}

// parseScoreResponse validates a raw model reply and normalizes it.
func parseScoreResponse(text string) (types.LeadScoreResult, error) {
	text = llm.CleanJSONBlock(text)
	if text == "" {
		return types.LeadScoreResult{}, &ParseError{Message: "empty reply"}
	}

	if err := schemas.Validate(schemas.LeadScore, text); err != nil {
		return types.LeadScoreResult{}, &ParseError{
			Message: "reply does not match score schema",
			Cause:   err,
		}
	}

	var reply scoreReply
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		return types.LeadScoreResult{}, &ParseError{
			Message: "failed to parse JSON reply",
			Cause:   err,
		}
	}

	return normalize(reply), nil
}

// normalize clamps the score to [0,100], coerces unknown priorities to LOW
// and fills an empty summary.
func normalize(reply scoreReply) types.LeadScoreResult {
	score := reply.Score
	if math.IsNaN(score) {
		score = 0
	}
	score = math.Max(0, math.Min(100, math.Round(score)))

	priority, ok := types.ParsePriority(reply.Priority)
	if !ok {
		if reply.Priority != "" {
			log.Printf("[scoring] Unrecognized priority %q, using %s", reply.Priority, types.PriorityLow)
		}
		priority = types.PriorityLow
	}

	summary := strings.TrimSpace(reply.Summary)
	if summary == "" {
		summary = FallbackSummary
	}

	return types.LeadScoreResult{
		Score:    int(score),
		Priority: priority,
		Summary:  summary,
	}
}
