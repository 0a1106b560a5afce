package reminder_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prepmate/prepmate-api/internal/config"
	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/service/reminder"
	"github.com/prepmate/prepmate-api/internal/service/review"
	"github.com/prepmate/prepmate-api/internal/store"
	"github.com/prepmate/prepmate-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects notifications and can fail for chosen tokens.
type recorder struct {
	mu     sync.Mutex
	sent   []reminder.Notification
	failOn map[string]bool
}

func (r *recorder) Notify(_ context.Context, n reminder.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn[n.To] {
		return errors.New("push service unavailable")
	}
	r.sent = append(r.sent, n)
	return nil
}

func seedReminder(ctx context.Context, t *testing.T, reminders store.ReminderStore, userID string, enabled bool) {
	t.Helper()
	require.NoError(t, reminders.Upsert(ctx, &domain.Reminder{
		UserID:    userID,
		PushToken: "token-" + userID,
		TimeOfDay: "08:00",
		Enabled:   enabled,
		UpdatedAt: now,
	}))
}

func newReviewService(t *testing.T, stores store.Stores, tx store.Transactor) review.Service {
	t.Helper()
	return review.NewService(stores, tx, nil, testutils.NewClock(now), review.Config{}, logger.DiscardLogger())
}

func TestSweep_NotifiesUsersWithDueCards(t *testing.T) {
	ctx := context.Background()
	stores, tx := testutils.NewSQLiteStores(t)

	// u1 has two due records, u2 only a deck, u3 nothing, u4 is disabled.
	seedReminder(ctx, t, stores.Reminders, "u1", true)
	seedReminder(ctx, t, stores.Reminders, "u2", true)
	seedReminder(ctx, t, stores.Reminders, "u3", true)
	seedReminder(ctx, t, stores.Reminders, "u4", false)
	testutils.MustInsertProgress(ctx, t, stores.Progress, "u1", "a", domain.ScoreForgot, 2, now.Add(-time.Hour))
	testutils.MustInsertProgress(ctx, t, stores.Progress, "u1", "b", domain.ScoreUnsure, 12, now)
	testutils.MustInsertDeck(ctx, t, stores.Decks, "u2", "Optics", 4, now)
	testutils.MustInsertProgress(ctx, t, stores.Progress, "u4", "a", domain.ScoreForgot, 2, now.Add(-time.Hour))

	rec := &recorder{}
	sw := reminder.NewSweeper(stores.Reminders, newReviewService(t, stores, tx), rec,
		reminder.SweepConfig{BatchSize: 2, Interval: -1}, logger.DiscardLogger())

	res, err := sw.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, reminder.Result{Sent: 1, Skipped: 2}, res)

	require.Len(t, rec.sent, 1)
	assert.Equal(t, "token-u1", rec.sent[0].To)
	assert.Equal(t, 2, rec.sent[0].DueCount)
	assert.Equal(t, reminder.DueMessage(2), rec.sent[0].Body)
	assert.Equal(t, reminder.DefaultTitle, rec.sent[0].Title)
}

func TestSweep_DeckFallbackNeverNotifies(t *testing.T) {
	ctx := context.Background()
	stores, tx := testutils.NewSQLiteStores(t)
	seedReminder(ctx, t, stores.Reminders, "u2", true)
	testutils.MustInsertDeck(ctx, t, stores.Decks, "u2", "Optics", 4, now)

	rec := &recorder{}
	sw := reminder.NewSweeper(stores.Reminders, newReviewService(t, stores, tx), rec,
		reminder.SweepConfig{Interval: -1}, logger.DiscardLogger())

	for i := 0; i < 3; i++ {
		res, err := sw.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, reminder.Result{Skipped: 1}, res)
	}
	assert.Empty(t, rec.sent)
}

func TestSweep_CountsOnlyRealDueItems(t *testing.T) {
	ctx := context.Background()
	stores, _ := testutils.NewSQLiteStores(t)
	seedReminder(ctx, t, stores.Reminders, "u1", true)

	due := resolverFunc(func(context.Context, string, int) ([]review.DueItem, error) {
		return []review.DueItem{
			{CardID: "c1"},
			{CardID: "d1_0", Fallback: true},
			{CardID: "c2"},
		}, nil
	})
	rec := &recorder{}
	sw := reminder.NewSweeper(stores.Reminders, due, rec, reminder.SweepConfig{Interval: -1}, logger.DiscardLogger())

	res, err := sw.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, reminder.Result{Sent: 1}, res)
	require.Len(t, rec.sent, 1)
	assert.Equal(t, 2, rec.sent[0].DueCount)
}

func TestSweep_FailuresDoNotAbort(t *testing.T) {
	ctx := context.Background()
	stores, tx := testutils.NewSQLiteStores(t)
	for i := 0; i < 5; i++ {
		user := fmt.Sprintf("u%d", i)
		seedReminder(ctx, t, stores.Reminders, user, true)
		testutils.MustInsertProgress(ctx, t, stores.Progress, user, "a", domain.ScoreForgot, 2, now.Add(-time.Hour))
	}

	rec := &recorder{failOn: map[string]bool{"token-u1": true, "token-u3": true}}
	sw := reminder.NewSweeper(stores.Reminders, newReviewService(t, stores, tx), rec,
		reminder.SweepConfig{BatchSize: 2, Interval: -1}, logger.DiscardLogger())

	res, err := sw.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, reminder.Result{Sent: 3, Failed: 2}, res)
}

type resolverFunc func(ctx context.Context, userID string, limit int) ([]review.DueItem, error)

func (f resolverFunc) DueCards(ctx context.Context, userID string, limit int) ([]review.DueItem, error) {
	return f(ctx, userID, limit)
}

func TestSweep_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stores, _ := testutils.NewSQLiteStores(t)
	for i := 0; i < 4; i++ {
		seedReminder(ctx, t, stores.Reminders, fmt.Sprintf("u%d", i), true)
	}

	calls := 0
	due := resolverFunc(func(_ context.Context, userID string, limit int) ([]review.DueItem, error) {
		calls++
		assert.Equal(t, reminder.DefaultDueLimit, limit)
		if calls == 2 {
			cancel()
		}
		return []review.DueItem{{CardID: "c"}}, nil
	})

	rec := &recorder{}
	sw := reminder.NewSweeper(stores.Reminders, due, rec, reminder.SweepConfig{Interval: -1}, logger.DiscardLogger())

	res, err := sw.Sweep(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 2, calls)
	assert.Len(t, rec.sent, 1)
}

func TestSweep_ResolverFailureIsCounted(t *testing.T) {
	ctx := context.Background()
	stores, _ := testutils.NewSQLiteStores(t)
	seedReminder(ctx, t, stores.Reminders, "u1", true)
	seedReminder(ctx, t, stores.Reminders, "u2", true)

	due := resolverFunc(func(_ context.Context, userID string, _ int) ([]review.DueItem, error) {
		if userID == "u1" {
			return nil, errors.New("store offline")
		}
		return []review.DueItem{{CardID: "c"}}, nil
	})

	rec := &recorder{}
	sw := reminder.NewSweeper(stores.Reminders, due, rec, reminder.SweepConfig{Interval: -1}, logger.DiscardLogger())
	res, err := sw.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, reminder.Result{Sent: 1, Failed: 1}, res)
}

func TestSweep_PacesNotifications(t *testing.T) {
	ctx := context.Background()
	stores, _ := testutils.NewSQLiteStores(t)
	for i := 0; i < 3; i++ {
		seedReminder(ctx, t, stores.Reminders, fmt.Sprintf("u%d", i), true)
	}
	due := resolverFunc(func(context.Context, string, int) ([]review.DueItem, error) {
		return []review.DueItem{{CardID: "c"}}, nil
	})

	sw := reminder.NewSweeper(stores.Reminders, due, &recorder{},
		reminder.SweepConfig{Interval: 30 * time.Millisecond}, logger.DiscardLogger())

	start := time.Now()
	res, err := sw.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Sent)
	assert.GreaterOrEqual(t, time.Since(start), 55*time.Millisecond)
}

func TestScheduler_RunsSweep(t *testing.T) {
	stores, _ := testutils.NewSQLiteStores(t)
	seedReminder(context.Background(), t, stores.Reminders, "u1", true)

	notified := make(chan reminder.Notification, 4)
	notifier := reminder.NotifierFunc(func(_ context.Context, n reminder.Notification) error {
		select {
		case notified <- n:
		default:
		}
		return nil
	})
	due := resolverFunc(func(context.Context, string, int) ([]review.DueItem, error) {
		return []review.DueItem{{CardID: "c"}}, nil
	})
	sw := reminder.NewSweeper(stores.Reminders, due, notifier, reminder.SweepConfig{Interval: -1}, logger.DiscardLogger())

	sched := reminder.NewScheduler(time.UTC, logger.DiscardLogger())
	_, err := sched.ScheduleSweep("* * * * * *", sw, 5*time.Second)
	require.NoError(t, err)
	sched.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.NoError(t, sched.Stop(ctx))
	}()

	select {
	case n := <-notified:
		assert.Equal(t, "token-u1", n.To)
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled sweep did not run")
	}
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	stores, _ := testutils.NewSQLiteStores(t)
	sw := reminder.NewSweeper(stores.Reminders, resolverFunc(nil), &recorder{}, reminder.SweepConfig{}, logger.DiscardLogger())

	_, err := reminder.NewScheduler(nil, nil).ScheduleSweep("not a schedule", sw, time.Second)
	assert.Error(t, err)
}

func TestSweepConfigFrom(t *testing.T) {
	cfg := reminder.SweepConfigFrom(config.ReminderConfig{
		BatchSize:  50,
		DueLimit:   10,
		IntervalMS: 250,
		Title:      "Revise now",
	})
	assert.Equal(t, reminder.SweepConfig{
		BatchSize: 50,
		DueLimit:  10,
		Interval:  250 * time.Millisecond,
		Title:     "Revise now",
	}, cfg)

	unpaced := reminder.SweepConfigFrom(config.ReminderConfig{})
	assert.True(t, unpaced.Interval < 0, "zero interval disables pacing")
}
