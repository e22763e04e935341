// Package approval implements the optional bounded human-confirmation
// step in front of order execution.
package approval

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"coinpilot/internal/decision"
	"coinpilot/internal/gateway/notifier"
	"coinpilot/internal/logger"
)

// Gate asks a human to confirm the pending decisions over a notification
// channel. FailOpen is the named policy from the design notes: it decides
// the outcome whenever confirmation cannot be obtained, both when no
// channel is configured and when the timeout elapses without a reply.
type Gate struct {
	channel  notifier.Channel
	timeout  time.Duration
	interval time.Duration
	failOpen bool
}

func NewGate(channel notifier.Channel, timeout, pollInterval time.Duration, failOpen bool) *Gate {
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Gate{channel: channel, timeout: timeout, interval: pollInterval, failOpen: failOpen}
}

// Request sends the decision summary and polls for a YES/NO reply until
// one arrives, the timeout elapses, or ctx is cancelled. Replies are
// matched case-insensitively.
func (g *Gate) Request(ctx context.Context, decisions map[string]decision.Action) (bool, error) {
	if g.channel == nil {
		logger.Infof("approval: no channel configured, fail_open=%t", g.failOpen)
		return g.failOpen, nil
	}
	if err := g.channel.SendText(ctx, Summary(decisions)); err != nil {
		logger.Warnf("approval: sending summary failed: %v, fail_open=%t", err, g.failOpen)
		return g.failOpen, nil
	}

	deadline := time.NewTimer(g.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return g.failOpen, ctx.Err()
		case <-deadline.C:
			logger.Infof("approval: timed out after %s, fail_open=%t", g.timeout, g.failOpen)
			return g.failOpen, nil
		case <-ticker.C:
			replies, err := g.channel.PollReplies(ctx)
			if err != nil {
				logger.Warnf("approval: polling replies failed: %v", err)
				continue
			}
			for _, reply := range replies {
				switch strings.ToLower(strings.TrimSpace(reply)) {
				case "yes":
					logger.Infof("approval: approved by reply")
					return true, nil
				case "no":
					logger.Infof("approval: rejected by reply")
					return false, nil
				}
			}
		}
	}
}

// Summary renders the decision set as the message a human approves.
func Summary(decisions map[string]decision.Action) string {
	symbols := make([]string, 0, len(decisions))
	for s := range decisions {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	var b strings.Builder
	b.WriteString("Please approve or reject these trades (reply YES or NO):\n")
	for _, s := range symbols {
		fmt.Fprintf(&b, "%s: %s\n", s, decisions[s])
	}
	return b.String()
}
