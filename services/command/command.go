// Package command parses free-text chat messages from group conversations
// into notification-setting mutations.
package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	bookingRepo "roombook/database/repository/booking"
	groupRepo "roombook/database/repository/group"
	"roombook/models"
	"roombook/services/messages"
	"roombook/services/notify"
	"roombook/utils"
)

// Lead-time bounds for the pre-meeting reminder, in minutes.
const (
	minLeadMinutes = 5
	maxLeadMinutes = 120
)

// command is one row of the declarative command table. Prefix commands
// receive the trimmed remainder of the input as their argument.
type command struct {
	usage   string
	desc    string
	aliases []string
	prefix  bool
	handle  func(g *models.Group, arg string) (notify.Message, error)
}

// Interpreter matches group messages against the command table. Unrecognized
// input yields a nil reply so normal conversation is never interfered with.
type Interpreter struct {
	Groups   groupRepo.GroupRepository
	Bookings bookingRepo.BookingRepository

	Now      func() time.Time
	commands []command
}

func NewInterpreter(groups groupRepo.GroupRepository, bookings bookingRepo.BookingRepository) *Interpreter {
	i := &Interpreter{
		Groups:   groups,
		Bookings: bookings,
		Now:      time.Now,
	}
	i.commands = []command{
		{
			usage:   "เปิดแจ้งเตือน",
			desc:    "เปิดสรุปการประชุมประจำวัน",
			aliases: []string{"เปิดแจ้งเตือน"},
			handle:  i.enableDaily,
		},
		{
			usage:   "ปิดแจ้งเตือน",
			desc:    "ปิดสรุปการประชุมประจำวัน",
			aliases: []string{"ปิดแจ้งเตือน"},
			handle:  i.disableDaily,
		},
		{
			usage:   "ตั้งเวลาแจ้งเตือน HH:MM",
			desc:    "ตั้งเวลาส่งสรุปประจำวัน",
			aliases: []string{"ตั้งเวลาแจ้งเตือน"},
			prefix:  true,
			handle:  i.setDailyTime,
		},
		{
			usage:   "เปิดแจ้งก่อนประชุม",
			desc:    "เปิดการแจ้งเตือนก่อนเริ่มประชุม",
			aliases: []string{"เปิดแจ้งก่อนประชุม"},
			handle:  i.enablePreMeeting,
		},
		{
			usage:   "ปิดแจ้งก่อนประชุม",
			desc:    "ปิดการแจ้งเตือนก่อนเริ่มประชุม",
			aliases: []string{"ปิดแจ้งก่อนประชุม"},
			handle:  i.disablePreMeeting,
		},
		{
			usage:   fmt.Sprintf("ตั้งแจ้งก่อนประชุม N (%d-%d)", minLeadMinutes, maxLeadMinutes),
			desc:    "ตั้งจำนวนนาทีที่แจ้งล่วงหน้า",
			aliases: []string{"ตั้งแจ้งก่อนประชุม"},
			prefix:  true,
			handle:  i.setLeadMinutes,
		},
		{
			usage:   "สถานะแจ้งเตือน",
			desc:    "แสดงการตั้งค่าปัจจุบัน",
			aliases: []string{"สถานะแจ้งเตือน", "สถานะ"},
			handle:  i.status,
		},
		{
			usage:   "ประชุมวันนี้",
			desc:    "แสดงการประชุมที่อนุมัติแล้วของวันนี้",
			aliases: []string{"ประชุมวันนี้"},
			handle:  i.todayMeetings,
		},
		{
			usage:   "ทดสอบแจ้งเตือน",
			desc:    "ส่งตัวอย่างสรุปประจำวัน",
			aliases: []string{"ทดสอบแจ้งเตือน"},
			handle:  i.testDigest,
		},
		{
			usage:   "ทดสอบแจ้งก่อนประชุม",
			desc:    "ส่งตัวอย่างการแจ้งก่อนประชุม",
			aliases: []string{"ทดสอบแจ้งก่อนประชุม"},
			handle:  i.testPreMeeting,
		},
		{
			usage:   "ช่วยเหลือ",
			desc:    "แสดงคำสั่งทั้งหมด",
			aliases: []string{"ช่วยเหลือ", "help"},
			handle:  i.help,
		},
	}
	return i
}

// Handle runs one inbound group message through the command table. The group
// record is created with defaults on first contact. A nil reply with nil
// error means the input was not a command.
func (i *Interpreter) Handle(groupID, text string) (notify.Message, error) {
	group, err := i.Groups.EnsureGroup(groupID)
	if err != nil {
		return nil, fmt.Errorf("command: %w", err)
	}

	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return nil, nil
	}

	for _, cmd := range i.commands {
		for _, alias := range cmd.aliases {
			if cmd.prefix {
				if strings.HasPrefix(normalized, alias) {
					arg := strings.TrimSpace(strings.TrimPrefix(normalized, alias))
					return cmd.handle(group, arg)
				}
				continue
			}
			if normalized == alias {
				return cmd.handle(group, "")
			}
		}
	}
	return nil, nil
}

func (i *Interpreter) saveSettings(g *models.Group) error {
	if err := i.Groups.UpdateSettings(g.ID, g.Settings); err != nil {
		return fmt.Errorf("command: failed to save settings for group %s: %w", g.ID, err)
	}
	return nil
}

func (i *Interpreter) enableDaily(g *models.Group, _ string) (notify.Message, error) {
	g.Settings.DailyEnabled = true
	if err := i.saveSettings(g); err != nil {
		return nil, err
	}
	return notify.Text(fmt.Sprintf("✅ เปิดการแจ้งเตือนประจำวันแล้ว (เวลา %s)", g.Settings.DailyTime)), nil
}

func (i *Interpreter) disableDaily(g *models.Group, _ string) (notify.Message, error) {
	g.Settings.DailyEnabled = false
	if err := i.saveSettings(g); err != nil {
		return nil, err
	}
	return notify.Text("🔕 ปิดการแจ้งเตือนประจำวันแล้ว"), nil
}

func (i *Interpreter) setDailyTime(g *models.Group, arg string) (notify.Message, error) {
	hour, minute, err := utils.ParseHHMM(arg)
	if err != nil {
		return notify.Text("⚠️ รูปแบบเวลาไม่ถูกต้อง กรุณาระบุเป็น HH:MM เช่น ตั้งเวลาแจ้งเตือน 08:30"), nil
	}
	g.Settings.DailyTime = fmt.Sprintf("%02d:%02d", hour, minute)
	g.Settings.DailyEnabled = true
	if err := i.saveSettings(g); err != nil {
		return nil, err
	}
	return notify.Text(fmt.Sprintf("✅ ตั้งเวลาแจ้งเตือนประจำวันเป็น %s แล้ว", g.Settings.DailyTime)), nil
}

func (i *Interpreter) enablePreMeeting(g *models.Group, _ string) (notify.Message, error) {
	g.Settings.PreMeetingEnabled = true
	if err := i.saveSettings(g); err != nil {
		return nil, err
	}
	return notify.Text(fmt.Sprintf("✅ เปิดการแจ้งเตือนก่อนประชุมแล้ว (ล่วงหน้า %d นาที)", g.Settings.PreMeetingLeadMin)), nil
}

func (i *Interpreter) disablePreMeeting(g *models.Group, _ string) (notify.Message, error) {
	g.Settings.PreMeetingEnabled = false
	if err := i.saveSettings(g); err != nil {
		return nil, err
	}
	return notify.Text("🔕 ปิดการแจ้งเตือนก่อนประชุมแล้ว"), nil
}

func (i *Interpreter) setLeadMinutes(g *models.Group, arg string) (notify.Message, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < minLeadMinutes || n > maxLeadMinutes {
		return notify.Text(fmt.Sprintf(
			"⚠️ กรุณาระบุจำนวนนาทีระหว่าง %d ถึง %d เช่น ตั้งแจ้งก่อนประชุม 30",
			minLeadMinutes, maxLeadMinutes)), nil
	}
	g.Settings.PreMeetingLeadMin = n
	g.Settings.PreMeetingEnabled = true
	if err := i.saveSettings(g); err != nil {
		return nil, err
	}
	return notify.Text(fmt.Sprintf("✅ จะแจ้งเตือนล่วงหน้า %d นาทีก่อนเริ่มประชุม", n)), nil
}

func (i *Interpreter) status(g *models.Group, _ string) (notify.Message, error) {
	onOff := func(enabled bool) string {
		if enabled {
			return "เปิด"
		}
		return "ปิด"
	}
	return notify.Text(fmt.Sprintf(
		"⚙️ การตั้งค่าแจ้งเตือนของกลุ่มนี้\n"+
			"สรุปประจำวัน: %s (เวลา %s)\n"+
			"แจ้งก่อนประชุม: %s (ล่วงหน้า %d นาที)",
		onOff(g.Settings.DailyEnabled), g.Settings.DailyTime,
		onOff(g.Settings.PreMeetingEnabled), g.Settings.PreMeetingLeadMin)), nil
}

func (i *Interpreter) todayMeetings(_ *models.Group, _ string) (notify.Message, error) {
	today := i.Now().In(utils.Bangkok()).Format("2006-01-02")
	bookings, err := i.Bookings.ListApprovedOn(today)
	if err != nil {
		return nil, fmt.Errorf("command: %w", err)
	}
	return messages.Digest(today, bookings), nil
}

func (i *Interpreter) help(_ *models.Group, _ string) (notify.Message, error) {
	var sb strings.Builder
	sb.WriteString("📖 คำสั่งที่ใช้ได้\n")
	for _, cmd := range i.commands {
		fmt.Fprintf(&sb, "\n• %s\n  %s", cmd.usage, cmd.desc)
	}
	return notify.Text(sb.String()), nil
}

func (i *Interpreter) testDigest(_ *models.Group, _ string) (notify.Message, error) {
	today := i.Now().In(utils.Bangkok()).Format("2006-01-02")
	return notify.Sequence{
		notify.Text("🧪 ข้อความทดสอบ"),
		messages.Digest(today, sampleBookings(today)),
	}, nil
}

func (i *Interpreter) testPreMeeting(g *models.Group, _ string) (notify.Message, error) {
	today := i.Now().In(utils.Bangkok()).Format("2006-01-02")
	sample := sampleBookings(today)[0]
	return notify.Sequence{
		notify.Text("🧪 ข้อความทดสอบ"),
		messages.PreMeetingReminder(&sample, g.Settings.PreMeetingLeadMin),
	}, nil
}

func sampleBookings(date string) []models.Booking {
	return []models.Booking{
		{
			RoomName:  "ประชุมใหญ่",
			Activity:  "ประชุมทีม (ตัวอย่าง)",
			Date:      date,
			StartTime: "10:00",
			EndTime:   "11:00",
			Booker:    "สมชาย",
		},
		{
			RoomName:  "ประชุมเล็ก",
			Activity:  "สัมภาษณ์งาน (ตัวอย่าง)",
			Date:      date,
			StartTime: "14:00",
			EndTime:   "15:30",
			Booker:    "สมหญิง",
		},
	}
}
