//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Priority is the coarse sales-value classification of a lead.
type Priority string

// Priority values.
const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// PriorityFilterAll selects leads of every priority.
const PriorityFilterAll = "ALL"

// Priorities returns the valid priorities from highest to lowest.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// IsValid reports whether p is one of LOW, MEDIUM or HIGH.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority parses a priority case-insensitively, ignoring surrounding whitespace.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", false
	}
	return p, true
}

// ParsePriorityFilter parses an admin list filter: ALL (or empty) or a priority.
// It returns an empty Priority for ALL.
func ParsePriorityFilter(s string) (Priority, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.EqualFold(trimmed, PriorityFilterAll) {
		return "", true
	}
	return ParsePriority(trimmed)
}
