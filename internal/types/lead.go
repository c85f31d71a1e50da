// Package types provides type definitions for structured data used throughout the lead intelligence system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

// LeadFormData is a raw contact-form submission.
type LeadFormData struct {
	Name    string `json:"name" validate:"required,min=1"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company"`
	Budget  string `json:"budget"`
	Message string `json:"message" validate:"required,min=10"`
}

// LeadScoreResult is the quality assessment produced for a lead.
// A returned result always has all three fields populated.
type LeadScoreResult struct {
	Score    int      `json:"score"`
	Priority Priority `json:"priority"`
	Summary  string   `json:"summary"`
}

// PersistedLead is a scored lead as stored in the lead collection.
// The JSON layout matches the legacy browser-stored records (camelCase createdAt).
type PersistedLead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Budget    string    `json:"budget"`
	Message   string    `json:"message"`
	Score     int       `json:"score"`
	Priority  Priority  `json:"priority"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewPersistedLead merges form data and its score into a stored record.
func NewPersistedLead(id string, createdAt time.Time, data LeadFormData, result LeadScoreResult) PersistedLead {
	return PersistedLead{
		ID:        id,
		Name:      data.Name,
		Email:     data.Email,
		Company:   data.Company,
		Budget:    data.Budget,
		Message:   data.Message,
		Score:     result.Score,
		Priority:  result.Priority,
		Summary:   result.Summary,
		CreatedAt: createdAt,
	}
}

// UnmarshalJSON accepts legacy records: a fractional score is rounded and a
// missing or unparsable createdAt decodes as the zero time.
func (l *PersistedLead) UnmarshalJSON(data []byte) error {
	type plain PersistedLead
	aux := struct {
		*plain
		Score     float64 `json:"score"`
		CreatedAt string  `json:"createdAt"`
	}{plain: (*plain)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	l.Score = int(math.Round(aux.Score))
	l.CreatedAt = time.Time{}
	if t, err := time.Parse(time.RFC3339Nano, aux.CreatedAt); err == nil {
		l.CreatedAt = t
	}
	return nil
}

// FormData returns the caller-supplied part of the record.
func (l PersistedLead) FormData() LeadFormData {
	return LeadFormData{
		Name:    l.Name,
		Email:   l.Email,
		Company: l.Company,
		Budget:  l.Budget,
		Message: l.Message,
	}
}

// ScoreResult returns the scoring part of the record.
func (l PersistedLead) ScoreResult() LeadScoreResult {
	return LeadScoreResult{Score: l.Score, Priority: l.Priority, Summary: l.Summary}
}

// Validate validates the LeadFormData using the validator.
func (d *LeadFormData) Validate() error {
	validate := validator.New()
	return validate.Struct(d)
}

// BudgetOptions lists the range labels offered by the contact form.
// Budget is free text; these are suggestions, not an enforced set.
var BudgetOptions = []string{
	"< $10k",
	"$10k - $50k",
	"$50k - $100k",
	"$100k+",
}
