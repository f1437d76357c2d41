package cron

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	notifyLogRepo "roombook/database/repository/notifylog"
	"roombook/models"
	"roombook/services/notify"
	"roombook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGroupRepo struct {
	groups []models.Group
}

func (f *fakeGroupRepo) Get(string) (*models.Group, error)         { return nil, errors.New("unused") }
func (f *fakeGroupRepo) EnsureGroup(string) (*models.Group, error) { return nil, errors.New("unused") }
func (f *fakeGroupRepo) ListActive() ([]models.Group, error)       { return f.groups, nil }
func (f *fakeGroupRepo) UpdateSettings(string, models.GroupSettings) error {
	return nil
}
func (f *fakeGroupRepo) SetActive(string, bool) error { return nil }

type fakeBookingRepo struct {
	approved map[string][]models.Booking
}

func (f *fakeBookingRepo) Create(*models.Booking) error            { return nil }
func (f *fakeBookingRepo) GetByID(string) (*models.Booking, error) { return nil, errors.New("unused") }
func (f *fakeBookingRepo) UpdateStatusIfPending(string, string, string) (*models.Booking, error) {
	return nil, errors.New("unused")
}
func (f *fakeBookingRepo) SetAdminNotified(string, bool) error { return nil }
func (f *fakeBookingRepo) ListByStatus(string, int, int) ([]models.Booking, int64, error) {
	return nil, 0, nil
}
func (f *fakeBookingRepo) ListApprovedOn(date string) ([]models.Booking, error) {
	return f.approved[date], nil
}
func (f *fakeBookingRepo) CountByStatus() (map[string]int64, error) { return nil, nil }

// fakeLedger reproduces the unique-key reserve semantics in memory.
type fakeLedger struct {
	mu       sync.Mutex
	reserved map[string]bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{reserved: make(map[string]bool)}
}

func (f *fakeLedger) Reserve(key, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reserved[key] {
		return notifyLogRepo.ErrDuplicate
	}
	f.reserved[key] = true
	return nil
}

func (f *fakeLedger) Release(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.reserved, key)
	return nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	sends []string // recipient ids in order
	fail  map[string]int
}

func (r *recordingNotifier) Send(_ context.Context, to string, _ notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail[to] > 0 {
		r.fail[to]--
		return errors.New("push down")
	}
	r.sends = append(r.sends, to)
	return nil
}

func (r *recordingNotifier) Broadcast(ctx context.Context, to []string, msg notify.Message) *notify.Report {
	report := &notify.Report{Requested: len(to), Failures: make(map[string]error)}
	for _, recipient := range to {
		if err := r.Send(ctx, recipient, msg); err != nil {
			report.Failed++
			report.Failures[recipient] = err
			continue
		}
		report.Sent++
	}
	return report
}

func group(id, dailyTime string, dailyEnabled bool) models.Group {
	return models.Group{
		ID:     id,
		Active: true,
		Settings: models.GroupSettings{
			DailyEnabled:      dailyEnabled,
			DailyTime:         dailyTime,
			PreMeetingLeadMin: 30,
		},
	}
}

func newTestWorker(groups []models.Group, bookings map[string][]models.Booking) (*ReminderWorker, *fakeLedger, *recordingNotifier) {
	ledger := newFakeLedger()
	notifier := &recordingNotifier{fail: make(map[string]int)}
	w := NewReminderWorker(
		&fakeGroupRepo{groups: groups},
		&fakeBookingRepo{approved: bookings},
		ledger,
		notifier,
		utils.Bangkok(),
	)
	return w, ledger, notifier
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 8, 1, hour, minute, 0, 0, utils.Bangkok())
}

func TestRunDaily(t *testing.T) {
	t.Run("sends once per group per day", func(t *testing.T) {
		w, ledger, notifier := newTestWorker([]models.Group{group("G-1", "08:00", true)}, nil)

		w.RunDaily(at(8, 0))
		w.RunDaily(at(8, 10)) // same tolerance window, next grid tick

		assert.Equal(t, []string{"G-1"}, notifier.sends)
		assert.Len(t, ledger.reserved, 1)
		assert.True(t, ledger.reserved[models.DailyKey("G-1", "2025-08-01")])
	})

	t.Run("outside the tolerance window nothing fires", func(t *testing.T) {
		w, ledger, notifier := newTestWorker([]models.Group{group("G-1", "08:00", true)}, nil)

		w.RunDaily(at(7, 30))
		w.RunDaily(at(8, 30))

		assert.Empty(t, notifier.sends)
		assert.Empty(t, ledger.reserved)
	})

	t.Run("disabled groups are skipped", func(t *testing.T) {
		w, _, notifier := newTestWorker([]models.Group{
			group("G-off", "08:00", false),
			group("G-on", "08:00", true),
		}, nil)

		w.RunDaily(at(8, 0))

		assert.Equal(t, []string{"G-on"}, notifier.sends)
	})

	t.Run("send failure releases the reservation for a retry", func(t *testing.T) {
		w, ledger, notifier := newTestWorker([]models.Group{group("G-1", "08:00", true)}, nil)
		notifier.fail["G-1"] = 1

		w.RunDaily(at(8, 0))
		assert.Empty(t, notifier.sends)
		assert.Empty(t, ledger.reserved)

		w.RunDaily(at(8, 10))
		assert.Equal(t, []string{"G-1"}, notifier.sends)
		assert.Len(t, ledger.reserved, 1)
	})

	t.Run("fallback only covers groups at the default time", func(t *testing.T) {
		w, _, notifier := newTestWorker([]models.Group{
			group("G-default", models.DefaultDailyTime, true),
			group("G-custom", "08:10", true),
		}, nil)

		w.RunDailyFallback(at(8, 5))

		assert.Equal(t, []string{"G-default"}, notifier.sends)
	})

	t.Run("fallback shares the ledger key with the main run", func(t *testing.T) {
		w, _, notifier := newTestWorker([]models.Group{group("G-1", models.DefaultDailyTime, true)}, nil)

		w.RunDaily(at(8, 0))
		w.RunDailyFallback(at(8, 5))

		assert.Equal(t, []string{"G-1"}, notifier.sends)
	})

	t.Run("concurrent runs in the same window send once", func(t *testing.T) {
		w, _, notifier := newTestWorker([]models.Group{group("G-1", "08:00", true)}, nil)

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w.RunDaily(at(8, 0))
			}()
		}
		wg.Wait()

		assert.Equal(t, []string{"G-1"}, notifier.sends)
	})
}

func preMeetingGroup(id string, lead int) models.Group {
	return models.Group{
		ID:     id,
		Active: true,
		Settings: models.GroupSettings{
			PreMeetingEnabled: true,
			PreMeetingLeadMin: lead,
		},
	}
}

func approvedBooking(id, start string) models.Booking {
	return models.Booking{
		ID:        id,
		RoomName:  "A",
		Activity:  "ประชุม",
		Date:      "2025-08-01",
		StartTime: start,
		EndTime:   "15:00",
		Booker:    "สมชาย",
		Status:    models.StatusApproved,
	}
}

func TestRunPreMeeting(t *testing.T) {
	bookings := func(bs ...models.Booking) map[string][]models.Booking {
		return map[string][]models.Booking{"2025-08-01": bs}
	}

	t.Run("fires within tolerance of the lead time, once per pair", func(t *testing.T) {
		w, ledger, notifier := newTestWorker(
			[]models.Group{preMeetingGroup("G-1", 30)},
			bookings(approvedBooking("bk-1", "14:00")),
		)

		w.RunPreMeeting(at(13, 29)) // 31 minutes left
		w.RunPreMeeting(at(13, 32)) // 28 minutes left, same pair

		assert.Equal(t, []string{"G-1"}, notifier.sends)
		assert.True(t, ledger.reserved[models.BeforeKey("G-1", "bk-1")])
	})

	t.Run("outside tolerance nothing fires", func(t *testing.T) {
		w, _, notifier := newTestWorker(
			[]models.Group{preMeetingGroup("G-1", 30)},
			bookings(approvedBooking("bk-1", "14:00")),
		)

		w.RunPreMeeting(at(13, 20)) // 40 minutes left
		w.RunPreMeeting(at(13, 45)) // 15 minutes left

		assert.Empty(t, notifier.sends)
	})

	t.Run("meetings already started are skipped", func(t *testing.T) {
		w, _, notifier := newTestWorker(
			[]models.Group{preMeetingGroup("G-1", 30)},
			bookings(approvedBooking("bk-1", "13:00")),
		)

		w.RunPreMeeting(at(13, 29))

		assert.Empty(t, notifier.sends)
	})

	t.Run("each group applies its own lead time", func(t *testing.T) {
		w, _, notifier := newTestWorker(
			[]models.Group{preMeetingGroup("G-30", 30), preMeetingGroup("G-60", 60)},
			bookings(approvedBooking("bk-1", "14:00")),
		)

		w.RunPreMeeting(at(13, 0)) // 60 minutes left
		assert.Equal(t, []string{"G-60"}, notifier.sends)

		w.RunPreMeeting(at(13, 30)) // 30 minutes left
		assert.Equal(t, []string{"G-60", "G-30"}, notifier.sends)
	})

	t.Run("distinct meetings get distinct reminders", func(t *testing.T) {
		w, ledger, notifier := newTestWorker(
			[]models.Group{preMeetingGroup("G-1", 30)},
			bookings(approvedBooking("bk-1", "14:00"), approvedBooking("bk-2", "14:01")),
		)

		w.RunPreMeeting(at(13, 30))

		assert.Equal(t, []string{"G-1", "G-1"}, notifier.sends)
		assert.Len(t, ledger.reserved, 2)
	})

	t.Run("send failure releases the reservation for a retry", func(t *testing.T) {
		w, ledger, notifier := newTestWorker(
			[]models.Group{preMeetingGroup("G-1", 30)},
			bookings(approvedBooking("bk-1", "14:00")),
		)
		notifier.fail["G-1"] = 1

		w.RunPreMeeting(at(13, 30))
		assert.Empty(t, notifier.sends)
		assert.Empty(t, ledger.reserved)

		w.RunPreMeeting(at(13, 32))
		assert.Equal(t, []string{"G-1"}, notifier.sends)
	})

	t.Run("invalid start time does not stop the rest", func(t *testing.T) {
		bad := approvedBooking("bk-bad", "nonsense")
		good := approvedBooking("bk-good", "14:00")
		w, _, notifier := newTestWorker(
			[]models.Group{preMeetingGroup("G-1", 30)},
			bookings(bad, good),
		)

		w.RunPreMeeting(at(13, 30))

		assert.Equal(t, []string{"G-1"}, notifier.sends)
	})
}

func TestLedgerKeys(t *testing.T) {
	require.Equal(t, "G-1_2025-08-01_daily", models.DailyKey("G-1", "2025-08-01"))
	require.Equal(t, "G-1_bk-1_before", models.BeforeKey("G-1", "bk-1"))

	// Key uniqueness across kinds for the same group.
	keys := map[string]bool{}
	for _, k := range []string{
		models.DailyKey("G-1", "2025-08-01"),
		models.DailyKey("G-1", "2025-08-02"),
		models.BeforeKey("G-1", "bk-1"),
		models.BeforeKey("G-2", "bk-1"),
	} {
		assert.False(t, keys[k], fmt.Sprintf("duplicate key %s", k))
		keys[k] = true
	}
}
