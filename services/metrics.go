package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// matchRequestsTotal counts daily match requests by outcome
	matchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loneton_match_requests_total",
		Help: "Daily match requests by result",
	}, []string{"result"})

	matchesEndedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loneton_matches_ended_total",
		Help: "Matches that left the active state, by reason",
	}, []string{"reason"})

	messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loneton_messages_total",
		Help: "Messages counted against matches, by sender kind",
	}, []string{"sender"})

	videoUnlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loneton_video_unlocks_total",
		Help: "Matches that reached the video call threshold",
	})

	botRepliesDiscardedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loneton_bot_replies_discarded_total",
		Help: "Bot replies dropped because their match was no longer active",
	})

	reconcileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "loneton_reconcile_duration_seconds",
		Help:    "Duration of one reconciliation pass",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
	})
)

const (
	resultMatched    = "matched"
	resultBot        = "bot"
	resultNone       = "none"
	resultIneligible = "ineligible"
	resultPending    = "pending"
	resultError      = "error"
)
