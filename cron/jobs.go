package cron

import (
	"context"
	"errors"
	"time"

	notifyLogRepo "roombook/database/repository/notifylog"
	"roombook/models"
	"roombook/services/messages"
	"roombook/utils"

	"go.uber.org/zap"
)

// RunDaily sends the daily digest to every active group whose configured
// time falls within tolerance of now.
func (w *ReminderWorker) RunDaily(now time.Time) {
	w.runDaily(now, false)
}

// RunDailyFallback re-covers groups still at the default reminder time. It
// shares the ledger key with RunDaily, so the two jobs are idempotent with
// each other by construction.
func (w *ReminderWorker) RunDailyFallback(now time.Time) {
	w.runDaily(now, true)
}

func (w *ReminderWorker) runDaily(now time.Time, defaultTimeOnly bool) {
	ctx := context.Background()
	local := now.In(w.Loc)
	date := local.Format("2006-01-02")
	nowMin := local.Hour()*60 + local.Minute()

	groups, err := w.Groups.ListActive()
	if err != nil {
		zap.L().Error("daily digest: failed to list groups", zap.Error(err))
		return
	}

	for _, g := range groups {
		if !g.Settings.DailyEnabled {
			continue
		}
		if defaultTimeOnly && g.Settings.DailyTime != models.DefaultDailyTime {
			continue
		}

		target, err := utils.MinuteOfDay(g.Settings.DailyTime)
		if err != nil {
			zap.L().Warn("daily digest: group has invalid reminder time",
				zap.String("groupId", g.ID), zap.String("time", g.Settings.DailyTime))
			continue
		}
		if abs(nowMin-target) > dailyToleranceMin {
			continue
		}

		w.sendDigest(ctx, g, date)
	}
}

// sendDigest reserves the (group, day) ledger key before sending. Reserving
// first closes the near-miss race between two polling runs inside the same
// tolerance window; a failed send releases the reservation so a later run
// retries.
func (w *ReminderWorker) sendDigest(ctx context.Context, g models.Group, date string) {
	key := models.DailyKey(g.ID, date)
	if err := w.Ledger.Reserve(key, g.ID, models.NotifyKindDaily, date); err != nil {
		if !errors.Is(err, notifyLogRepo.ErrDuplicate) {
			zap.L().Error("daily digest: ledger reserve failed",
				zap.String("key", key), zap.Error(err))
		}
		return
	}

	bookings, err := w.Bookings.ListApprovedOn(date)
	if err != nil {
		zap.L().Error("daily digest: failed to load bookings",
			zap.String("date", date), zap.Error(err))
		w.release(key)
		return
	}

	if err := w.Notifier.Send(ctx, g.ID, messages.Digest(date, bookings)); err != nil {
		zap.L().Error("daily digest: send failed",
			zap.String("groupId", g.ID), zap.Error(err))
		w.release(key)
		return
	}

	zap.L().Info("daily digest sent",
		zap.String("groupId", g.ID), zap.String("date", date), zap.Int("meetings", len(bookings)))
}

// RunPreMeeting sends a reminder for each (group, approved meeting today)
// pair whose minutes-until-start is within tolerance of the group's lead
// time.
func (w *ReminderWorker) RunPreMeeting(now time.Time) {
	ctx := context.Background()
	local := now.In(w.Loc)
	date := local.Format("2006-01-02")
	nowMin := local.Hour()*60 + local.Minute()

	groups, err := w.Groups.ListActive()
	if err != nil {
		zap.L().Error("pre-meeting: failed to list groups", zap.Error(err))
		return
	}

	var enabled []models.Group
	for _, g := range groups {
		if g.Settings.PreMeetingEnabled {
			enabled = append(enabled, g)
		}
	}
	if len(enabled) == 0 {
		return
	}

	bookings, err := w.Bookings.ListApprovedOn(date)
	if err != nil {
		zap.L().Error("pre-meeting: failed to load bookings",
			zap.String("date", date), zap.Error(err))
		return
	}

	for _, b := range bookings {
		startMin, err := utils.MinuteOfDay(b.StartTime)
		if err != nil {
			zap.L().Warn("pre-meeting: booking has invalid start time",
				zap.String("bookingId", b.ID), zap.String("startTime", b.StartTime))
			continue
		}
		minutesLeft := startMin - nowMin
		if minutesLeft < 0 {
			continue
		}

		for _, g := range enabled {
			if abs(minutesLeft-g.Settings.PreMeetingLeadMin) > preMeetingToleranceMin {
				continue
			}
			w.sendPreMeeting(ctx, g, b, minutesLeft)
		}
	}
}

func (w *ReminderWorker) sendPreMeeting(ctx context.Context, g models.Group, b models.Booking, minutesLeft int) {
	key := models.BeforeKey(g.ID, b.ID)
	if err := w.Ledger.Reserve(key, g.ID, models.NotifyKindBefore, b.ID); err != nil {
		if !errors.Is(err, notifyLogRepo.ErrDuplicate) {
			zap.L().Error("pre-meeting: ledger reserve failed",
				zap.String("key", key), zap.Error(err))
		}
		return
	}

	if err := w.Notifier.Send(ctx, g.ID, messages.PreMeetingReminder(&b, minutesLeft)); err != nil {
		zap.L().Error("pre-meeting: send failed",
			zap.String("groupId", g.ID), zap.String("bookingId", b.ID), zap.Error(err))
		w.release(key)
		return
	}

	zap.L().Info("pre-meeting reminder sent",
		zap.String("groupId", g.ID), zap.String("bookingId", b.ID), zap.Int("minutesLeft", minutesLeft))
}

func (w *ReminderWorker) release(key string) {
	if err := w.Ledger.Release(key); err != nil {
		zap.L().Error("failed to release notify-log reservation",
			zap.String("key", key), zap.Error(err))
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
