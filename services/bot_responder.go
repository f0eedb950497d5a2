package services

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

var defaultBotReplies = []string{
	"That's really interesting! Tell me more.",
	"I know exactly what you mean.",
	"That sounds like a great time!",
	"I've always wondered about that too.",
	"You seem like a really thoughtful person.",
	"I love that way of looking at it!",
	"That's just how I feel about it.",
	"Thanks for telling me that.",
	"What made you feel that way?",
	"I'd love to hear more about it.",
}

// BotResponder schedules one delayed reply per user message on bot matches.
// Pending replies are keyed by match id so they can be dropped when the
// match stops being active.
type BotResponder struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	Replies  []string
	Logger   *zap.Logger

	mu      sync.Mutex
	rng     *rand.Rand
	deliver func(matchID, content string)
	pending map[string]map[*time.Timer]struct{}
	stopped bool
}

func NewBotResponder(minDelay, maxDelay time.Duration, logger *zap.Logger) *BotResponder {
	return &BotResponder{
		MinDelay: minDelay,
		MaxDelay: maxDelay,
		Replies:  defaultBotReplies,
		Logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		pending:  make(map[string]map[*time.Timer]struct{}),
	}
}

// OnReply sets the function that applies a fired reply.
func (b *BotResponder) OnReply(deliver func(matchID, content string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deliver = deliver
}

// Schedule queues exactly one reply for matchID after a delay drawn from
// [MinDelay, MaxDelay).
func (b *BotResponder) Schedule(matchID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return
	}

	delay := b.MinDelay
	if spread := b.MaxDelay - b.MinDelay; spread > 0 {
		delay += time.Duration(b.rng.Int63n(int64(spread)))
	}
	content := b.Replies[b.rng.Intn(len(b.Replies))]

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() { b.fire(matchID, timer, content) })

	if b.pending[matchID] == nil {
		b.pending[matchID] = make(map[*time.Timer]struct{})
	}
	b.pending[matchID][timer] = struct{}{}

	b.Logger.Debug("bot reply scheduled", zap.String("matchId", matchID), zap.Duration("delay", delay))
}

func (b *BotResponder) fire(matchID string, timer *time.Timer, content string) {
	b.mu.Lock()
	timers := b.pending[matchID]
	if _, ok := timers[timer]; !ok || b.stopped {
		b.mu.Unlock()
		return
	}
	delete(timers, timer)
	if len(timers) == 0 {
		delete(b.pending, matchID)
	}
	deliver := b.deliver
	b.mu.Unlock()

	if deliver != nil {
		deliver(matchID, content)
	}
}

// Cancel drops every reply still pending for matchID.
func (b *BotResponder) Cancel(matchID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for timer := range b.pending[matchID] {
		timer.Stop()
	}
	if n := len(b.pending[matchID]); n > 0 {
		b.Logger.Info("pending bot replies discarded", zap.String("matchId", matchID), zap.Int("count", n))
	}
	delete(b.pending, matchID)
}

// Pending reports how many replies are waiting for matchID.
func (b *BotResponder) Pending(matchID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending[matchID])
}

// Stop cancels everything and refuses new work.
func (b *BotResponder) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopped = true
	for matchID, timers := range b.pending {
		for timer := range timers {
			timer.Stop()
		}
		delete(b.pending, matchID)
	}
}
