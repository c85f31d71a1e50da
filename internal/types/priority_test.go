//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input  string
		want   Priority
		wantOK bool
	}{
		{"HIGH", PriorityHigh, true},
		{"medium", PriorityMedium, true},
		{"  Low ", PriorityLow, true},
		{"URGENT", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParsePriority(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePriorityFilter(t *testing.T) {
	p, ok := ParsePriorityFilter("")
	assert.True(t, ok)
	assert.Equal(t, Priority(""), p)

	p, ok = ParsePriorityFilter("all")
	assert.True(t, ok)
	assert.Equal(t, Priority(""), p)

	p, ok = ParsePriorityFilter("high")
	assert.True(t, ok)
	assert.Equal(t, PriorityHigh, p)

	_, ok = ParsePriorityFilter("none")
	assert.False(t, ok)
}

func TestPriorities_Order(t *testing.T) {
	assert.Equal(t, []Priority{PriorityHigh, PriorityMedium, PriorityLow}, Priorities())
	for _, p := range Priorities() {
		assert.True(t, p.IsValid())
	}
	assert.False(t, Priority("low").IsValid())
}
