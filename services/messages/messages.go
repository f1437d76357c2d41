// Package messages builds the chat message bodies shared by the booking
// lifecycle, the command interpreter and the reminder jobs.
package messages

import (
	"fmt"
	"strings"

	"roombook/models"
	"roombook/services/notify"
)

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// BookingConfirmation is sent to the requester right after submission.
func BookingConfirmation(b *models.Booking) notify.Message {
	return notify.Text(fmt.Sprintf(
		"📅 รายละเอียดการจอง:\n"+
			"ห้อง: %s\n"+
			"กิจกรรม: %s\n"+
			"วันที่: %s\n"+
			"เวลา: %s - %s\n"+
			"ผู้จอง: %s\n"+
			"โทร: %s\n"+
			"จำนวนผู้เข้าร่วม: %d\n"+
			"คำขอพิเศษ: %s\n\n"+
			"รอการอนุมัติจากผู้ดูแลระบบ",
		orDash(b.RoomName), b.Activity, b.Date, b.StartTime, b.EndTime,
		b.Booker, orDash(b.Phone), b.Attendees, orDash(b.SpecialRequests)))
}

// AdminAlert is the rich card broadcast to the admin fan-out set, carrying
// the signed approve/reject links.
func AdminAlert(b *models.Booking, approveURL, rejectURL string) notify.Message {
	return notify.Card{
		Title: "🔔 คำขอจองห้องประชุมใหม่",
		Lines: []string{
			"ห้อง: " + orDash(b.RoomName),
			"กิจกรรม: " + b.Activity,
			fmt.Sprintf("วันที่: %s เวลา %s - %s", b.Date, b.StartTime, b.EndTime),
			"ผู้จอง: " + b.Booker,
			"โทร: " + orDash(b.Phone),
		},
		Buttons: []notify.Button{
			{Label: "อนุมัติ", URI: approveURL, Style: "primary"},
			{Label: "ไม่อนุมัติ", URI: rejectURL, Style: "danger"},
		},
	}
}

// DecisionNotice tells the requester the outcome of an admin decision.
func DecisionNotice(b *models.Booking) notify.Message {
	if b.Status == models.StatusApproved {
		return notify.Text(fmt.Sprintf(
			"✅ การจองห้อง %s วันที่ %s เวลา %s - %s ได้รับการอนุมัติแล้ว",
			orDash(b.RoomName), b.Date, b.StartTime, b.EndTime))
	}
	return notify.Text(fmt.Sprintf(
		"❌ การจองห้อง %s วันที่ %s เวลา %s - %s ไม่ได้รับการอนุมัติ",
		orDash(b.RoomName), b.Date, b.StartTime, b.EndTime))
}

// CancelledNotice informs the admin set that the requester withdrew a
// pending booking.
func CancelledNotice(b *models.Booking) notify.Message {
	return notify.Text(fmt.Sprintf(
		"🚫 ยกเลิกการจอง: ห้อง %s วันที่ %s เวลา %s - %s โดย %s",
		orDash(b.RoomName), b.Date, b.StartTime, b.EndTime, b.Booker))
}

// Digest renders the daily summary of approved meetings. Bookings must
// already be sorted by start time.
func Digest(date string, bookings []models.Booking) notify.Message {
	if len(bookings) == 0 {
		return notify.Text(fmt.Sprintf("📋 วันนี้ (%s) ไม่มีการประชุมที่อนุมัติแล้ว", date))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 การประชุมวันนี้ (%s) ทั้งหมด %d รายการ\n", date, len(bookings))
	for i, b := range bookings {
		fmt.Fprintf(&sb, "\n%d. %s - %s ห้อง%s\n   %s (%s)",
			i+1, b.StartTime, b.EndTime, orDash(b.RoomName), b.Activity, b.Booker)
	}
	return notify.Text(sb.String())
}

// PreMeetingReminder names the meeting and the minutes remaining before it
// starts.
func PreMeetingReminder(b *models.Booking, minutesLeft int) notify.Message {
	return notify.Text(fmt.Sprintf(
		"⏰ อีก %d นาที จะมีการประชุม\nห้อง: %s\nเวลา: %s - %s\nกิจกรรม: %s\nผู้จอง: %s",
		minutesLeft, orDash(b.RoomName), b.StartTime, b.EndTime, b.Activity, b.Booker))
}
