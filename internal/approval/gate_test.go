package approval

import (
	"context"
	"sync"
	"testing"
	"time"

	"coinpilot/internal/decision"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	mu      sync.Mutex
	sent    []string
	replies [][]string
	polls   int
}

func (f *fakeChannel) SendText(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeChannel) PollReplies(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.polls >= len(f.replies) {
		f.polls++
		return nil, nil
	}
	out := f.replies[f.polls]
	f.polls++
	return out, nil
}

var testDecisions = map[string]decision.Action{
	"BTC": decision.ActionBuy,
	"ETH": decision.ActionHold,
}

func TestGateNoChannel(t *testing.T) {
	t.Run("fail open approves immediately", func(t *testing.T) {
		gate := NewGate(nil, time.Second, time.Second, true)
		approved, err := gate.Request(context.Background(), testDecisions)
		require.NoError(t, err)
		assert.True(t, approved)
	})

	t.Run("fail closed rejects immediately", func(t *testing.T) {
		gate := NewGate(nil, time.Second, time.Second, false)
		approved, err := gate.Request(context.Background(), testDecisions)
		require.NoError(t, err)
		assert.False(t, approved)
	})
}

func TestGateReplies(t *testing.T) {
	t.Run("yes approves", func(t *testing.T) {
		ch := &fakeChannel{replies: [][]string{{"sure?", "YES"}}}
		gate := NewGate(ch, time.Second, time.Millisecond, true)
		approved, err := gate.Request(context.Background(), testDecisions)
		require.NoError(t, err)
		assert.True(t, approved)
	})

	t.Run("no rejects even with fail open", func(t *testing.T) {
		ch := &fakeChannel{replies: [][]string{nil, {" No "}}}
		gate := NewGate(ch, time.Second, time.Millisecond, true)
		approved, err := gate.Request(context.Background(), testDecisions)
		require.NoError(t, err)
		assert.False(t, approved)
	})

	t.Run("unrelated replies are ignored until timeout", func(t *testing.T) {
		ch := &fakeChannel{replies: [][]string{{"maybe"}, {"later"}}}
		gate := NewGate(ch, 30*time.Millisecond, 5*time.Millisecond, true)
		approved, err := gate.Request(context.Background(), testDecisions)
		require.NoError(t, err)
		assert.True(t, approved)
	})
}

func TestGateTimeout(t *testing.T) {
	t.Run("fail open approves after the configured duration", func(t *testing.T) {
		ch := &fakeChannel{}
		timeout := 50 * time.Millisecond
		gate := NewGate(ch, timeout, 5*time.Millisecond, true)
		start := time.Now()
		approved, err := gate.Request(context.Background(), testDecisions)
		require.NoError(t, err)
		assert.True(t, approved)
		assert.GreaterOrEqual(t, time.Since(start), timeout)
	})

	t.Run("fail closed rejects after timeout", func(t *testing.T) {
		ch := &fakeChannel{}
		gate := NewGate(ch, 30*time.Millisecond, 5*time.Millisecond, false)
		approved, err := gate.Request(context.Background(), testDecisions)
		require.NoError(t, err)
		assert.False(t, approved)
	})
}

func TestGateCancellable(t *testing.T) {
	ch := &fakeChannel{}
	gate := NewGate(ch, time.Hour, time.Millisecond, true)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	approved, err := gate.Request(ctx, testDecisions)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, approved)
}

func TestSummaryListsAllDecisions(t *testing.T) {
	ch := &fakeChannel{replies: [][]string{{"yes"}}}
	gate := NewGate(ch, time.Second, time.Millisecond, true)
	_, err := gate.Request(context.Background(), testDecisions)
	require.NoError(t, err)
	require.Len(t, ch.sent, 1)
	assert.Contains(t, ch.sent[0], "BTC: buy")
	assert.Contains(t, ch.sent[0], "ETH: hold")
	assert.Contains(t, ch.sent[0], "YES or NO")
}
