package leadstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/lead-intel/internal/kv"
	"github.com/jonathan/lead-intel/internal/types"
)

// failingWriter reads from memory but refuses writes and removes.
type failingWriter struct {
	*kv.Memory
	err error
}

func (f *failingWriter) Write(context.Context, string, string) error { return f.err }
func (f *failingWriter) Remove(context.Context, string) error        { return f.err }

// failingReader fails every read.
type failingReader struct {
	*kv.Memory
}

func (f *failingReader) Read(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk unavailable")
}

func newTestStore(t *testing.T) (*Store, kv.Store) {
	t.Helper()
	backend := kv.NewMemory()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	store := New(backend, Options{
		Now: func() time.Time {
			n++
			return base.Add(time.Duration(n) * time.Second)
		},
		NewID: func(time.Time) string { return fmt.Sprintf("lead-%d", n) },
	})
	return store, backend
}

func sampleLead(name string) types.LeadFormData {
	return types.LeadFormData{
		Name:    name,
		Email:   name + "@example.com",
		Message: "Looking for a new customer portal",
	}
}

func TestSaveLead_AnnScenario(t *testing.T) {
	store := New(kv.NewMemory(), Options{})
	ctx := context.Background()

	data := types.LeadFormData{
		Name:    "Ann",
		Email:   "a@x.com",
		Company: "Acme",
		Budget:  "10-50k",
		Message: "need a portal",
	}
	result := types.LeadScoreResult{Score: 82, Priority: types.PriorityHigh, Summary: "Strong fit"}

	saved, err := store.SaveLead(ctx, data, result)
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, data, saved.FormData())
	assert.Equal(t, result, saved.ScoreResult())
	assert.Equal(t, types.Priority("HIGH"), saved.Priority)

	leads := store.GetLeads(ctx)
	require.Len(t, leads, 1)
	assert.Equal(t, saved.ID, leads[0].ID)
	assert.Equal(t, "Ann", leads[0].Name)
	assert.Equal(t, 82, leads[0].Score)
	assert.True(t, saved.CreatedAt.Equal(leads[0].CreatedAt))
}

func TestSaveLead_NewestFirst(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	result := types.LeadScoreResult{Score: 50, Priority: types.PriorityMedium, Summary: "ok"}

	var ids []string
	for i := 0; i < 5; i++ {
		before := len(store.GetLeads(ctx))
		saved, err := store.SaveLead(ctx, sampleLead(fmt.Sprintf("lead%d", i)), result)
		require.NoError(t, err)
		ids = append(ids, saved.ID)

		leads := store.GetLeads(ctx)
		assert.Len(t, leads, before+1)
		assert.Equal(t, saved.ID, leads[0].ID)
	}

	leads := store.GetLeads(ctx)
	require.Len(t, leads, 5)
	seen := map[string]bool{}
	for i, lead := range leads {
		assert.Equal(t, ids[len(ids)-1-i], lead.ID)
		assert.False(t, seen[lead.ID], "duplicate id %s", lead.ID)
		seen[lead.ID] = true
	}
}

func TestSaveLead_DefaultIDsAreUnique(t *testing.T) {
	store := New(kv.NewMemory(), Options{
		Now: func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) },
	})
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		saved, err := store.SaveLead(ctx, sampleLead("same"), types.LeadScoreResult{Priority: types.PriorityLow})
		require.NoError(t, err)
		assert.Len(t, saved.ID, 26)
		assert.False(t, seen[saved.ID])
		seen[saved.ID] = true
	}
}

func TestSaveLead_WriteFailure(t *testing.T) {
	writeErr := errors.New("quota exceeded")
	store := New(&failingWriter{Memory: kv.NewMemory(), err: writeErr}, Options{})

	_, err := store.SaveLead(context.Background(), sampleLead("ann"), types.LeadScoreResult{Priority: types.PriorityLow})
	require.Error(t, err)
	assert.ErrorIs(t, err, writeErr)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "save", storeErr.Op)
}

func TestDeleteLead(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	result := types.LeadScoreResult{Score: 10, Priority: types.PriorityLow, Summary: "meh"}

	for _, name := range []string{"a", "b", "c"} {
		_, err := store.SaveLead(ctx, sampleLead(name), result)
		require.NoError(t, err)
	}
	before := store.GetLeads(ctx)
	require.Len(t, before, 3)

	t.Run("existing id", func(t *testing.T) {
		require.NoError(t, store.DeleteLead(ctx, before[1].ID))
		after := store.GetLeads(ctx)
		require.Len(t, after, 2)
		assert.Equal(t, before[0].ID, after[0].ID)
		assert.Equal(t, before[2].ID, after[1].ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		snapshot := store.GetLeads(ctx)
		require.NoError(t, store.DeleteLead(ctx, "does-not-exist"))
		assert.Equal(t, snapshot, store.GetLeads(ctx))
	})
}

func TestDeleteLead_WriteFailure(t *testing.T) {
	writeErr := errors.New("read-only")
	store := New(&failingWriter{Memory: kv.NewMemory(), err: writeErr}, Options{})

	err := store.DeleteLead(context.Background(), "x")
	assert.ErrorIs(t, err, writeErr)
}

func TestClearLeads(t *testing.T) {
	store, backend := newTestStore(t)
	ctx := context.Background()

	_, err := store.SaveLead(ctx, sampleLead("a"), types.LeadScoreResult{Priority: types.PriorityLow})
	require.NoError(t, err)

	require.NoError(t, store.ClearLeads(ctx))
	assert.Empty(t, store.GetLeads(ctx))

	_, ok, err := backend.Read(ctx, CollectionKey)
	require.NoError(t, err)
	assert.False(t, ok, "collection key removed")

	// clearing twice is fine
	assert.NoError(t, store.ClearLeads(ctx))
}

func TestGetLeads_Degrades(t *testing.T) {
	ctx := context.Background()

	t.Run("absent", func(t *testing.T) {
		store := New(kv.NewMemory(), Options{})
		leads := store.GetLeads(ctx)
		assert.NotNil(t, leads)
		assert.Empty(t, leads)
	})

	tests := []struct {
		name string
		raw  string
	}{
		{"corrupt json", "{not json"},
		{"wrong shape", `{"id":"x"}`},
		{"null", "null"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := kv.NewMemory()
			require.NoError(t, backend.Write(ctx, CollectionKey, tt.raw))
			leads := New(backend, Options{}).GetLeads(ctx)
			assert.NotNil(t, leads)
			assert.Empty(t, leads)
		})
	}

	t.Run("read error", func(t *testing.T) {
		store := New(&failingReader{Memory: kv.NewMemory()}, Options{})
		assert.Empty(t, store.GetLeads(ctx))
	})
}

const legacyCollection = `[{"name":"Ann","email":"a@x.com","company":"Acme","budget":"$10k - $50k","message":"need a portal",` +
	`"score":82.5,"priority":"HIGH","summary":"Strong fit","id":"k3j9x2a1b","createdAt":"2024-06-01T09:30:00.000Z"},` +
	`{"name":"Bo","email":"b@y.com","company":"","budget":"","message":"just browsing",` +
	`"score":12,"priority":"LOW","summary":"Unclear intent","id":"p0q8w7e6r"}]`

func TestGetLeads_LegacyLayout(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Write(ctx, CollectionKey, legacyCollection))

	leads := New(backend, Options{}).GetLeads(ctx)
	require.Len(t, leads, 2)

	assert.Equal(t, "k3j9x2a1b", leads[0].ID)
	assert.Equal(t, types.PriorityHigh, leads[0].Priority)
	assert.Equal(t, 83, leads[0].Score)
	assert.Equal(t, 2024, leads[0].CreatedAt.Year())

	assert.Equal(t, "p0q8w7e6r", leads[1].ID)
	assert.True(t, leads[1].CreatedAt.IsZero())
}

func TestGetLeads_SkipsUnreadableRecords(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	raw := `[{"id":"good-1","score":70,"priority":"MEDIUM"},{"id":"bad","score":"lots"},"oops",{"id":"good-2","score":5,"priority":"LOW"}]`
	require.NoError(t, backend.Write(ctx, CollectionKey, raw))

	leads := New(backend, Options{}).GetLeads(ctx)
	require.Len(t, leads, 2)
	assert.Equal(t, "good-1", leads[0].ID)
	assert.Equal(t, "good-2", leads[1].ID)
}

func TestSaveLead_KeepsLegacyRecordsVerbatim(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Write(ctx, CollectionKey, legacyCollection))
	store := New(backend, Options{})

	saved, err := store.SaveLead(ctx, sampleLead("cy"), types.LeadScoreResult{Score: 55, Priority: types.PriorityMedium, Summary: "ok"})
	require.NoError(t, err)

	leads := store.GetLeads(ctx)
	require.Len(t, leads, 3)
	assert.Equal(t, saved.ID, leads[0].ID)
	assert.Equal(t, "k3j9x2a1b", leads[1].ID)
	assert.Equal(t, "p0q8w7e6r", leads[2].ID)

	raw, _, err := backend.Read(ctx, CollectionKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"score":82.5`)
	assert.True(t, strings.HasSuffix(raw, legacyCollection[1:]))
}

func TestSaveLead_UnreadableCollectionIsPreserved(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	seed := New(backend, Options{})
	for _, name := range []string{"a", "b", "c"} {
		_, err := seed.SaveLead(ctx, sampleLead(name), types.LeadScoreResult{Score: 60, Priority: types.PriorityMedium, Summary: "s"})
		require.NoError(t, err)
	}
	before, _, err := backend.Read(ctx, CollectionKey)
	require.NoError(t, err)

	store := New(&failingReader{Memory: backend}, Options{})
	_, err = store.SaveLead(ctx, sampleLead("d"), types.LeadScoreResult{Score: 90, Priority: types.PriorityHigh, Summary: "hot"})
	require.Error(t, err)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "save", storeErr.Op)

	after, _, err := backend.Read(ctx, CollectionKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Len(t, seed.GetLeads(ctx), 3)
}

func TestSaveLead_CorruptCollectionIsPreserved(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", `{"id":"x"}`} {
		backend := kv.NewMemory()
		require.NoError(t, backend.Write(ctx, CollectionKey, raw))

		_, err := New(backend, Options{}).SaveLead(ctx, sampleLead("a"), types.LeadScoreResult{Priority: types.PriorityLow})
		var storeErr *StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "save", storeErr.Op)

		after, _, err := backend.Read(ctx, CollectionKey)
		require.NoError(t, err)
		assert.Equal(t, raw, after)
	}
}

func TestDeleteLead_CorruptCollectionIsPreserved(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Write(ctx, CollectionKey, "{not json"))

	err := New(backend, Options{}).DeleteLead(ctx, "x")
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "delete", storeErr.Op)

	after, _, err := backend.Read(ctx, CollectionKey)
	require.NoError(t, err)
	assert.Equal(t, "{not json", after)
}

func TestDeleteLead_UnreadableCollectionIsPreserved(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Write(ctx, CollectionKey, legacyCollection))

	err := New(&failingReader{Memory: backend}, Options{}).DeleteLead(ctx, "k3j9x2a1b")
	assert.Error(t, err)

	after, _, err := backend.Read(ctx, CollectionKey)
	require.NoError(t, err)
	assert.Equal(t, legacyCollection, after)
}

func TestDeleteLead_KeepsUndecodableRecords(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Write(ctx, CollectionKey, `[{"id":"a","score":1},"oops",{"id":"b","score":2}]`))

	require.NoError(t, New(backend, Options{}).DeleteLead(ctx, "a"))

	after, _, err := backend.Read(ctx, CollectionKey)
	require.NoError(t, err)
	assert.Equal(t, `["oops",{"id":"b","score":2}]`, after)
}

func TestGetLeads_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b"} {
		_, err := store.SaveLead(ctx, sampleLead(name), types.LeadScoreResult{Score: 70, Priority: types.PriorityMedium, Summary: "s"})
		require.NoError(t, err)
	}

	assert.Equal(t, store.GetLeads(ctx), store.GetLeads(ctx))
}

func TestGetLead(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	saved, err := store.SaveLead(ctx, sampleLead("a"), types.LeadScoreResult{Priority: types.PriorityLow})
	require.NoError(t, err)

	got, ok := store.GetLead(ctx, saved.ID)
	assert.True(t, ok)
	assert.Equal(t, saved.ID, got.ID)

	_, ok = store.GetLead(ctx, "missing")
	assert.False(t, ok)
}

func TestFilterByPriority(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, p := range []types.Priority{types.PriorityHigh, types.PriorityLow, types.PriorityHigh, types.PriorityMedium} {
		_, err := store.SaveLead(ctx, sampleLead(string(p)), types.LeadScoreResult{Priority: p})
		require.NoError(t, err)
	}

	assert.Len(t, store.FilterByPriority(ctx, ""), 4)
	high := store.FilterByPriority(ctx, types.PriorityHigh)
	require.Len(t, high, 2)
	for _, lead := range high {
		assert.Equal(t, types.PriorityHigh, lead.Priority)
	}
	assert.Len(t, store.FilterByPriority(ctx, types.PriorityMedium), 1)
	assert.Len(t, store.FilterByPriority(ctx, types.PriorityLow), 1)
}

func TestWithFileBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	backend, err := kv.NewFile(dir)
	require.NoError(t, err)
	saved, err := New(backend, Options{}).SaveLead(ctx, sampleLead("ann"), types.LeadScoreResult{Score: 90, Priority: types.PriorityHigh, Summary: "hot"})
	require.NoError(t, err)

	reopened, err := kv.NewFile(dir)
	require.NoError(t, err)
	leads := New(reopened, Options{}).GetLeads(ctx)
	require.Len(t, leads, 1)
	assert.Equal(t, saved.ID, leads[0].ID)
}
