// Package scheduler runs the periodic reminder jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"nurture/internal/metrics"
	"nurture/internal/services"
)

const (
	JobDailyReminder        = "daily_reminder"
	JobConsultationReminder = "consultation_reminder"

	dailyReminderMessage = "Don't forget to check in with Nurture today. Log how you and your baby are doing!"

	// Upper bound for one job run; the next tick starts fresh.
	runTimeout = 10 * time.Minute
)

// Options configures the schedules. An empty spec disables that job.
type Options struct {
	Location         *time.Location
	DailyCron        string
	ConsultationCron string
	Metrics          *metrics.Metrics
}

// RunResult contains the outcome of one job run.
type RunResult struct {
	Candidates int
	Sent       int
	Skipped    int
	Failed     int
	Duration   time.Duration
}

// Scheduler owns the cron runner and the reminder jobs.
type Scheduler struct {
	cron          *cron.Cron
	notifications services.NotificationServicer
	metrics       *metrics.Metrics
	loc           *time.Location
	logger        *zap.SugaredLogger
	now           func() time.Time
}

// New creates a Scheduler and registers its jobs. Jobs are skipped, not
// queued, while a previous run of the same job is still going.
func New(notifications services.NotificationServicer, opts Options, logger *zap.SugaredLogger) (*Scheduler, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	cronLog := cronLogger{logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		notifications: notifications,
		metrics:       opts.Metrics,
		loc:           loc,
		logger:        logger,
		now:           time.Now,
	}

	if opts.DailyCron != "" {
		if err := s.register(JobDailyReminder, opts.DailyCron, s.RunDailyReminder); err != nil {
			return nil, err
		}
	}
	if opts.ConsultationCron != "" {
		if err := s.register(JobConsultationReminder, opts.ConsultationCron, s.RunConsultationReminders); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) register(name, spec string, run func(context.Context) (*RunResult, error)) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		result, err := run(ctx)
		if err != nil {
			s.metrics.RecordJobRun(name, false, 0)
			s.logger.Errorw("scheduled job failed", "job", name, "error", err)
			return
		}
		s.metrics.RecordJobRun(name, result.Failed == 0, result.Duration)
		s.logger.Infow("scheduled job completed",
			"job", name,
			"candidates", result.Candidates,
			"sent", result.Sent,
			"skipped", result.Skipped,
			"failed", result.Failed,
			"duration", result.Duration.String(),
		)
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec %q for %s: %w", spec, name, err)
	}
	return nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Infow("scheduler started", "jobs", len(s.cron.Entries()), "timezone", s.loc.String())
}

// Stop stops scheduling new runs and waits for running jobs to finish or ctx
// to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunDailyReminder nudges every user who has not opened the app today.
func (s *Scheduler) RunDailyReminder(ctx context.Context) (*RunResult, error) {
	start := s.now()
	result := &RunResult{}

	userIDs, err := s.notifications.GetUsersToNotify(ctx, start.In(s.loc))
	if err != nil {
		return nil, fmt.Errorf("failed to select users to notify: %w", err)
	}
	result.Candidates = len(userIDs)

	for _, userID := range userIDs {
		if ctx.Err() != nil {
			break
		}
		if s.notifications.SendNotificationToUser(ctx, userID, dailyReminderMessage) {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	result.Duration = s.now().Sub(start)
	return result, nil
}

// RunConsultationReminders reminds users of consultations in the next 24
// hours. Each reminder is claimed before sending so overlapping runs never
// send it twice; a failed send releases the claim for the next run.
func (s *Scheduler) RunConsultationReminders(ctx context.Context) (*RunResult, error) {
	start := s.now()
	result := &RunResult{}

	due, err := s.notifications.GetDueConsultationReminders(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("failed to select due consultations: %w", err)
	}
	result.Candidates = len(due)

	for _, r := range due {
		if ctx.Err() != nil {
			break
		}

		claimed, err := s.notifications.ClaimConsultationReminder(ctx, r.ConsultationID, start)
		if err != nil {
			result.Failed++
			s.logger.Warnw("failed to claim consultation reminder", "consultation_id", r.ConsultationID, "error", err)
			continue
		}
		if !claimed {
			result.Skipped++
			continue
		}

		if s.notifications.SendNotificationToUser(ctx, r.UserID, s.consultationMessage(r)) {
			result.Sent++
			continue
		}

		result.Failed++
		if err := s.notifications.ReleaseConsultationReminder(ctx, r.ConsultationID); err != nil {
			s.logger.Errorw("failed to release consultation reminder", "consultation_id", r.ConsultationID, "error", err)
		}
	}

	result.Duration = s.now().Sub(start)
	return result, nil
}

func (s *Scheduler) consultationMessage(r services.ConsultationReminder) string {
	when := r.Date.In(s.loc).Format("Mon 2 Jan at 15:04")
	if r.Location != nil && *r.Location != "" {
		return fmt.Sprintf("Reminder: %s on %s at %s.", r.Title, when, *r.Location)
	}
	return fmt.Sprintf("Reminder: %s on %s.", r.Title, when)
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
