// Package watch is the polling loop: on a jittered interval it re-evaluates
// every active subscription against a fresh availability snapshot and hands
// matches to the dispatcher.
package watch

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand"
	"time"

	"github.com/makxca/monitorzd/internal/match"
	"github.com/makxca/monitorzd/internal/model"
)

// Policy decides what happens when a subscription keeps matching cycle
// after cycle.
type Policy string

const (
	// PolicyOnChange suppresses a notification whose report is identical
	// to the previous one sent to the same owner. The memory is
	// process-local only.
	PolicyOnChange Policy = "on-change"
	// PolicyEveryCycle re-sends on every matching cycle.
	PolicyEveryCycle Policy = "every-cycle"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyOnChange, PolicyEveryCycle:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown notify policy %q", s)
}

type Store interface {
	ListActive() ([]model.Subscription, error)
}

type Feed interface {
	FindTrains(ctx context.Context, origin, dest model.Station, date string) ([]model.TrainOffer, error)
}

type Dispatcher interface {
	Notify(ctx context.Context, telegramID string, text string) error
}

type Scheduler struct {
	store      Store
	feed       Feed
	dispatcher Dispatcher
	logger     *slog.Logger

	interval  time.Duration
	jitterPct int
	policy    Policy

	// test hooks
	sleep func(ctx context.Context, d time.Duration) bool
	randf func() float64

	lastSent map[string]uint64
}

func NewScheduler(store Store, feed Feed, dispatcher Dispatcher, logger *slog.Logger, interval time.Duration, jitterPct int, policy Policy) *Scheduler {
	return &Scheduler{
		store:      store,
		feed:       feed,
		dispatcher: dispatcher,
		logger:     logger,
		interval:   interval,
		jitterPct:  jitterPct,
		policy:     policy,
		sleep:      sleepCtx,
		randf:      rand.Float64,
		lastSent:   make(map[string]uint64),
	}
}

// Run loops until ctx is cancelled. The current subscription's evaluation
// finishes before shutdown; the loop never sleeps after cancellation.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler started", "interval", s.interval, "jitter_pct", s.jitterPct, "policy", string(s.policy))
	for {
		s.cycle(ctx)
		if ctx.Err() != nil {
			s.logger.Info("scheduler stopped")
			return
		}
		if !s.sleep(ctx, s.nextDelay()) {
			s.logger.Info("scheduler stopped")
			return
		}
	}
}

// cycle evaluates every active subscription once. A failure on one
// subscription is logged and skipped; it never aborts the rest.
func (s *Scheduler) cycle(ctx context.Context) {
	subs, err := s.store.ListActive()
	if err != nil {
		s.logger.Error("load subscriptions failed", "err", err)
		return
	}

	for _, sub := range subs {
		if ctx.Err() != nil {
			return
		}

		res, err := s.Evaluate(ctx, sub)
		if err != nil {
			s.logger.Warn("subscription check failed", "telegram_id", sub.TelegramID, "err", err)
			continue
		}
		if !res.Matched {
			continue
		}

		text := "Я нашёл такие билеты:\n\n" + res.Report
		digest := reportDigest(text)
		if s.policy == PolicyOnChange && s.lastSent[sub.TelegramID] == digest {
			continue
		}

		if err := s.dispatcher.Notify(ctx, sub.TelegramID, text); err != nil {
			s.logger.Warn("notify failed", "telegram_id", sub.TelegramID, "err", err)
			continue
		}
		s.lastSent[sub.TelegramID] = digest
	}
}

// Evaluate fetches fresh offers for every origin×destination pair of the
// subscription's filter and runs the matching engine over the combined
// snapshot. Pair order (and feed order within a pair) is preserved.
func (s *Scheduler) Evaluate(ctx context.Context, sub model.Subscription) (match.Result, error) {
	var offers []model.TrainOffer
	for _, origin := range sub.Filter.Origin {
		for _, dest := range sub.Filter.Destination {
			found, err := s.feed.FindTrains(ctx, origin, dest, sub.Filter.DepartureDate)
			if err != nil {
				return match.Result{}, fmt.Errorf("fetch %s->%s: %w", origin.ExpressCode, dest.ExpressCode, err)
			}
			offers = append(offers, found...)
		}
	}
	return match.Evaluate(sub.Filter, offers), nil
}

// nextDelay is interval ± jitterPct%, uniformly distributed.
func (s *Scheduler) nextDelay() time.Duration {
	if s.jitterPct <= 0 {
		return s.interval
	}
	spread := float64(s.interval) * float64(s.jitterPct) / 100
	offset := (s.randf()*2 - 1) * spread
	return s.interval + time.Duration(offset)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func reportDigest(text string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(text))
	return h.Sum64()
}
