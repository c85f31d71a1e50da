package scoring

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonathan/lead-intel/internal/llm"
	"github.com/jonathan/lead-intel/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreBatch_PreservesOrderAndFallsBackPerLead(t *testing.T) {
	client := &fakeClient{reply: func(_ context.Context, req llm.Request) (string, error) {
		switch {
		case strings.Contains(req.Prompt, "Name: Ann"):
			return `{"score": 82, "priority": "HIGH", "summary": "Strong fit"}`, nil
		case strings.Contains(req.Prompt, "Name: Bo"):
			return "", errors.New("upstream unavailable")
		default:
			return `{"score": 40, "priority": "MEDIUM", "summary": "Maybe"}`, nil
		}
	}}
	scorer := New(client, Options{})

	leads := []types.LeadFormData{
		{Name: "Ann", Message: "need a portal"},
		{Name: "Bo", Message: "just browsing"},
		{Name: "Cy", Message: "migrating to cloud"},
	}

	results := scorer.ScoreBatch(context.Background(), leads, 2)

	require.Len(t, results, 3)
	assert.Equal(t, types.PriorityHigh, results[0].Priority)
	assert.Equal(t, Fallback(), results[1])
	assert.Equal(t, 40, results[2].Score)
}

func TestScoreBatch_RespectsConcurrencyLimit(t *testing.T) {
	var inFlight, maxInFlight int32
	client := &fakeClient{reply: func(context.Context, llm.Request) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			m := atomic.LoadInt32(&maxInFlight)
			if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return `{"score": 1, "priority": "LOW", "summary": "x"}`, nil
	}}
	scorer := New(client, Options{})

	leads := make([]types.LeadFormData, 10)
	for i := range leads {
		leads[i] = types.LeadFormData{Name: "Lead", Message: "hello there"}
	}

	results := scorer.ScoreBatch(context.Background(), leads, 3)

	assert.Len(t, results, 10)
	assert.LessOrEqual(t, atomic.LoadInt32(&maxInFlight), int32(3))
}

func TestScoreBatch_Empty(t *testing.T) {
	scorer := New(nil, Options{})
	assert.Empty(t, scorer.ScoreBatch(context.Background(), nil, 0))
}
