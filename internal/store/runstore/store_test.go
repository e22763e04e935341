package runstore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndGetRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	forecasts, err := json.Marshal(map[string][]float64{"BTC": {1, 2, 3, 4, 5, 6, 7}})
	require.NoError(t, err)
	run := &RunRecord{
		ID:          "run-1",
		StartedAt:   time.Now().UTC().Add(-time.Minute),
		FinishedAt:  time.Now().UTC(),
		SymbolCount: 2,
		Approved:    true,
		Forecasts:   forecasts,
	}
	decisions := []DecisionRecord{
		{Symbol: "BTC", Action: "buy", Metric: 71000, OrderStatus: "SIMULATED"},
		{Symbol: "ETH", Action: "hold", Metric: 4000},
	}
	require.NoError(t, store.SaveRun(ctx, run, decisions))

	got, gotDecisions, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.SymbolCount)
	assert.True(t, got.Approved)
	require.Len(t, gotDecisions, 2)
	assert.Equal(t, "BTC", gotDecisions[0].Symbol)
	assert.Equal(t, "run-1", gotDecisions[0].RunID)

	var payload map[string][]float64
	require.NoError(t, json.Unmarshal(got.Forecasts, &payload))
	assert.Len(t, payload["BTC"], 7)
}

func TestListRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		run := &RunRecord{
			ID:        []string{"old", "mid", "new"}[i],
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, store.SaveRun(ctx, run, nil))
	}
	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "mid", runs[1].ID)
}

func TestGetMissingRun(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.GetRun(context.Background(), "nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestNewRejectsEmptyPath(t *testing.T) {
	_, err := New("  ")
	assert.Error(t, err)
}
