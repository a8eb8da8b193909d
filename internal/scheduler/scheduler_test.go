package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nurture/internal/services"
)

type sent struct {
	userID  string
	message string
}

// fakeNotifications implements services.NotificationServicer in memory.
type fakeNotifications struct {
	mu sync.Mutex

	usersToNotify []string
	usersErr      error
	due           []services.ConsultationReminder
	failFor       map[string]bool

	claimed  map[string]bool
	released []string
	sent     []sent
	gotNow   time.Time
}

var _ services.NotificationServicer = (*fakeNotifications)(nil)

func newFakeNotifications() *fakeNotifications {
	return &fakeNotifications{failFor: map[string]bool{}, claimed: map[string]bool{}}
}

func (f *fakeNotifications) GetUsersToNotify(_ context.Context, now time.Time) ([]string, error) {
	f.gotNow = now
	return f.usersToNotify, f.usersErr
}

func (f *fakeNotifications) SendNotificationToUser(_ context.Context, userID, message string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[userID] {
		return false
	}
	f.sent = append(f.sent, sent{userID: userID, message: message})
	return true
}

func (f *fakeNotifications) GetDueConsultationReminders(_ context.Context, _ time.Time) ([]services.ConsultationReminder, error) {
	return f.due, nil
}

func (f *fakeNotifications) ClaimConsultationReminder(_ context.Context, consultationID string, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimed[consultationID] {
		return false, nil
	}
	f.claimed[consultationID] = true
	return true, nil
}

func (f *fakeNotifications) ReleaseConsultationReminder(_ context.Context, consultationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.claimed, consultationID)
	f.released = append(f.released, consultationID)
	return nil
}

func newTestScheduler(t *testing.T, f *fakeNotifications, opts Options) *Scheduler {
	t.Helper()
	s, err := New(f, opts, zap.NewNop().Sugar())
	require.NoError(t, err)
	return s
}

func TestNewRejectsInvalidSpecs(t *testing.T) {
	_, err := New(newFakeNotifications(), Options{DailyCron: "every morning"}, zap.NewNop().Sugar())
	assert.Error(t, err)

	s, err := New(newFakeNotifications(), Options{DailyCron: "0 10,19 * * *", ConsultationCron: "0 * * * *"}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 2)

	s, err = New(newFakeNotifications(), Options{}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Empty(t, s.cron.Entries(), "empty specs disable their jobs")
}

func TestRunDailyReminder(t *testing.T) {
	loc := time.FixedZone("PHT", 8*60*60)
	f := newFakeNotifications()
	f.usersToNotify = []string{"u1", "u2", "u3"}
	f.failFor["u2"] = true

	s := newTestScheduler(t, f, Options{Location: loc})
	s.now = func() time.Time { return time.Date(2025, 3, 14, 2, 0, 0, 0, time.UTC) }

	result, err := s.RunDailyReminder(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Candidates)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, loc, f.gotNow.Location(), "today is judged in the app time zone")
	require.Len(t, f.sent, 2)
	assert.Equal(t, dailyReminderMessage, f.sent[0].message)
}

func TestRunDailyReminderPropagatesQueryErrors(t *testing.T) {
	f := newFakeNotifications()
	f.usersErr = errors.New("connection refused")

	_, err := newTestScheduler(t, f, Options{}).RunDailyReminder(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestRunConsultationReminders(t *testing.T) {
	clinic := "City Clinic"
	at := time.Date(2025, 4, 2, 14, 0, 0, 0, time.UTC)

	t.Run("sends each reminder once", func(t *testing.T) {
		f := newFakeNotifications()
		f.due = []services.ConsultationReminder{
			{ConsultationID: "c1", UserID: "u1", Title: "Anatomy scan", Date: at, Location: &clinic},
			{ConsultationID: "c2", UserID: "u2", Title: "Glucose test", Date: at},
		}
		s := newTestScheduler(t, f, Options{})

		first, err := s.RunConsultationReminders(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, first.Sent)

		second, err := s.RunConsultationReminders(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, second.Skipped)
		assert.Len(t, f.sent, 2)

		assert.True(t, strings.Contains(f.sent[0].message, "Anatomy scan"))
		assert.True(t, strings.Contains(f.sent[0].message, "City Clinic"))
		assert.False(t, strings.Contains(f.sent[1].message, " at City"))
	})

	t.Run("failed send releases the claim for the next run", func(t *testing.T) {
		f := newFakeNotifications()
		f.due = []services.ConsultationReminder{{ConsultationID: "c1", UserID: "u1", Title: "Checkup", Date: at}}
		f.failFor["u1"] = true
		s := newTestScheduler(t, f, Options{})

		result, err := s.RunConsultationReminders(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, []string{"c1"}, f.released)

		f.failFor["u1"] = false
		result, err = s.RunConsultationReminders(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, result.Sent)
	})

	t.Run("reminders claimed elsewhere are skipped", func(t *testing.T) {
		f := newFakeNotifications()
		f.due = []services.ConsultationReminder{{ConsultationID: "c1", UserID: "u1", Title: "Checkup", Date: at}}
		s := newTestScheduler(t, f, Options{})

		f.claimed["c1"] = true

		result, err := s.RunConsultationReminders(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 0, result.Sent)
		assert.Empty(t, f.sent)
	})
}

func TestStopWaitsForContext(t *testing.T) {
	s := newTestScheduler(t, newFakeNotifications(), Options{DailyCron: "0 10 * * *"})
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
