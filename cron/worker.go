// Package cron runs the scheduled reminder jobs: the daily digest and the
// pre-meeting reminder. Both poll on a fixed grid and rely on the notify-log
// ledger for at-most-once delivery.
package cron

import (
	"time"

	bookingRepo "roombook/database/repository/booking"
	groupRepo "roombook/database/repository/group"
	notifyLogRepo "roombook/database/repository/notifylog"
	"roombook/services/notify"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Polling grid and tolerance windows. The jobs fire on a grid rather than at
// the exact target instant, so each run accepts anything within tolerance
// and the ledger suppresses the duplicates the overlap would otherwise
// produce.
const (
	dailySpec         = "*/30 * * * *"
	dailyFallbackSpec = "5 * * * *"
	preMeetingSpec    = "*/3 * * * *"

	dailyToleranceMin      = 15
	preMeetingToleranceMin = 2
)

// ReminderWorker owns the cron schedule and the job logic.
type ReminderWorker struct {
	Groups   groupRepo.GroupRepository
	Bookings bookingRepo.BookingRepository
	Ledger   notifyLogRepo.NotifyLogRepository
	Notifier notify.Service
	Loc      *time.Location

	Now  func() time.Time
	cron *cron.Cron
}

func NewReminderWorker(
	groups groupRepo.GroupRepository,
	bookings bookingRepo.BookingRepository,
	ledger notifyLogRepo.NotifyLogRepository,
	notifier notify.Service,
	loc *time.Location,
) *ReminderWorker {
	return &ReminderWorker{
		Groups:   groups,
		Bookings: bookings,
		Ledger:   ledger,
		Notifier: notifier,
		Loc:      loc,
		Now:      time.Now,
	}
}

// Start registers the jobs and starts the scheduler in the background.
func (w *ReminderWorker) Start() {
	w.cron = cron.New(cron.WithLocation(w.Loc))

	w.cron.AddFunc(dailySpec, func() { w.RunDaily(w.Now()) })
	w.cron.AddFunc(dailyFallbackSpec, func() { w.RunDailyFallback(w.Now()) })
	w.cron.AddFunc(preMeetingSpec, func() { w.RunPreMeeting(w.Now()) })

	w.cron.Start()
	zap.L().Info("reminder worker started",
		zap.String("daily", dailySpec),
		zap.String("fallback", dailyFallbackSpec),
		zap.String("preMeeting", preMeetingSpec))
}

// Stop halts the scheduler; running jobs finish on their own.
func (w *ReminderWorker) Stop() {
	if w.cron != nil {
		w.cron.Stop()
	}
}
