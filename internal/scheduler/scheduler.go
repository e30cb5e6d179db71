package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/AnshRaj112/wordstreak-backend/internal/models"
	"github.com/AnshRaj112/wordstreak-backend/internal/services"
	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// RiskSource lists users whose streak ends tonight.
type RiskSource interface {
	StreakAtRisk(ctx context.Context, today models.Date) ([]services.AtRisk, error)
}

// Notifier delivers a streak reminder to one user.
type Notifier interface {
	NotifyStreakAtRisk(ctx context.Context, r services.AtRisk) error
}

// LogNotifier writes reminders to the log.
type LogNotifier struct {
	Logger *logrus.Entry
}

func (n LogNotifier) NotifyStreakAtRisk(ctx context.Context, r services.AtRisk) error {
	n.Logger.WithFields(logrus.Fields{
		"user_id":     r.User.ID,
		"streak":      r.User.Streak,
		"today_count": r.TodayCount,
		"remaining":   r.Remaining,
	}).Info(fmt.Sprintf("🔥 %s: add %d more word(s) today to keep your %d-day streak", r.User.Name, r.Remaining, r.User.Streak))
	return nil
}

// Scheduler manages the daily streak reminder.
type Scheduler struct {
	scheduler *gocron.Scheduler
	source    RiskSource
	notifier  Notifier
	clock     services.Clock
	logger    *logrus.Entry
}

// New creates a scheduler in the given location (local time when nil).
func New(source RiskSource, notifier Notifier, clock services.Clock, loc *time.Location, logger *logrus.Entry) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		source:    source,
		notifier:  notifier,
		clock:     clock,
		logger:    logger,
	}
}

// Start schedules the reminder every day at hour:00 and runs the scheduler
// in the background.
func (s *Scheduler) Start(hour int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("reminder hour out of range: %d", hour)
	}
	_, err := s.scheduler.Every(1).Day().At(fmt.Sprintf("%02d:00", hour)).Do(func() {
		if _, err := s.RunReminders(context.Background()); err != nil {
			s.logger.WithError(err).Error("Streak reminder run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}
	s.scheduler.StartAsync()
	s.logger.WithField("hour", hour).Info("✅ Streak reminder scheduled")
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunReminders notifies every at-risk user once and returns how many were
// notified. A failing notification is logged and doesn't stop the others.
func (s *Scheduler) RunReminders(ctx context.Context) (int, error) {
	today := s.clock.Today()
	atRisk, err := s.source.StreakAtRisk(ctx, today)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, r := range atRisk {
		if err := s.notifier.NotifyStreakAtRisk(ctx, r); err != nil {
			s.logger.WithError(err).WithField("user_id", r.User.ID).Warn("Failed to send streak reminder")
			continue
		}
		sent++
	}
	s.logger.WithFields(logrus.Fields{"today": today.String(), "at_risk": len(atRisk), "sent": sent}).Debug("Streak reminders processed")
	return sent, nil
}
