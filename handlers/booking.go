package handlers

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"

	"roombook/models"
	"roombook/services/booking"
	"roombook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenVerifier checks a decision-link token against a (booking, status)
// pair. Wired to utils.VerifyDecisionToken in production.
type TokenVerifier func(token, bookingID, status string) error

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Svc         booking.Service
	VerifyToken TokenVerifier
}

func NewBookingHandler(svc booking.Service, verify TokenVerifier) *BookingHandler {
	return &BookingHandler{Svc: svc, VerifyToken: verify}
}

// SubmitHandler accepts a booking submission and reports the created id plus
// notification flags.
func (h *BookingHandler) SubmitHandler(c *gin.Context) {
	var input models.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Svc.Submit(c.Request.Context(), input)
	if err != nil {
		var vErr *booking.ValidationError
		if errors.As(err, &vErr) {
			utils.JSONError(c, http.StatusBadRequest, "validation failed", vErr.Error())
			return
		}
		zap.L().Error("submit failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to create booking", err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":             result.Booking.ID,
		"status":         result.Booking.Status,
		"userNotified":   result.UserNotified,
		"adminsNotified": result.AdminsNotified,
	})
}

// DecideHandler applies an admin decision arriving from a chat link and
// renders a small HTML outcome page for the admin's browser.
func (h *BookingHandler) DecideHandler(c *gin.Context) {
	id := c.Param("id")
	status := c.Query("status")
	token := c.Query("token")

	if err := h.VerifyToken(token, id, status); err != nil {
		htmlPage(c, http.StatusUnauthorized, "ลิงก์ไม่ถูกต้อง",
			"ลิงก์นี้ไม่ถูกต้องหรือหมดอายุแล้ว กรุณาใช้ลิงก์จากข้อความแจ้งเตือนล่าสุด")
		return
	}

	result, err := h.Svc.Decide(c.Request.Context(), id, status)
	if err != nil {
		var (
			vErr *booking.ValidationError
			nErr *booking.NotFoundError
			cErr *booking.ConflictError
		)
		switch {
		case errors.As(err, &vErr):
			htmlPage(c, http.StatusBadRequest, "คำขอไม่ถูกต้อง", vErr.Error())
		case errors.As(err, &nErr):
			htmlPage(c, http.StatusNotFound, "ไม่พบรายการจอง",
				"ไม่พบรายการจองนี้ในระบบ")
		case errors.As(err, &cErr):
			htmlPage(c, http.StatusBadRequest, "รายการนี้ถูกตัดสินแล้ว",
				fmt.Sprintf("รายการจองนี้ถูกตัดสินไปแล้ว (สถานะปัจจุบัน: %s)", statusThai(cErr.Status)))
		default:
			zap.L().Error("decide failed", zap.String("bookingId", id), zap.Error(err))
			htmlPage(c, http.StatusInternalServerError, "เกิดข้อผิดพลาด",
				"ไม่สามารถบันทึกการตัดสินได้ กรุณาลองใหม่อีกครั้ง")
		}
		return
	}

	b := result.Booking
	detail := fmt.Sprintf("ห้อง %s วันที่ %s เวลา %s - %s (%s)",
		b.RoomName, b.Date, b.StartTime, b.EndTime, b.Booker)

	if b.Status == models.StatusApproved {
		if result.CalendarCreated {
			htmlPage(c, http.StatusOK, "✅ อนุมัติเรียบร้อย",
				detail+" — สร้างนัดหมายในปฏิทินแล้ว")
			return
		}
		htmlPage(c, http.StatusOK, "✅ อนุมัติเรียบร้อย (ปฏิทินล้มเหลว)",
			detail+" — อนุมัติแล้ว แต่สร้างนัดหมายในปฏิทินไม่สำเร็จ")
		return
	}
	htmlPage(c, http.StatusOK, "❌ ไม่อนุมัติ", detail)
}

// CancelHandler is the requester-initiated cancellation path.
func (h *BookingHandler) CancelHandler(c *gin.Context) {
	id := c.Param("id")

	b, err := h.Svc.Cancel(c.Request.Context(), id)
	if err != nil {
		var (
			nErr *booking.NotFoundError
			cErr *booking.ConflictError
		)
		switch {
		case errors.As(err, &nErr):
			utils.JSONError(c, http.StatusNotFound, "booking not found", nErr.Error())
		case errors.As(err, &cErr):
			utils.JSONError(c, http.StatusBadRequest, "booking already decided",
				fmt.Sprintf("current status: %s", cErr.Status))
		default:
			zap.L().Error("cancel failed", zap.String("bookingId", id), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to cancel booking", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": b.ID, "status": b.Status})
}

// GetHandler returns one booking.
func (h *BookingHandler) GetHandler(c *gin.Context) {
	b, err := h.Svc.Get(c.Param("id"))
	if err != nil {
		var nErr *booking.NotFoundError
		if errors.As(err, &nErr) {
			utils.JSONError(c, http.StatusNotFound, "booking not found", nErr.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListHandler returns a status-filtered page of bookings.
func (h *BookingHandler) ListHandler(c *gin.Context) {
	status := c.Query("status")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	bookings, total, err := h.Svc.List(status, page, limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list bookings", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// StatsHandler returns the per-status booking counts.
func (h *BookingHandler) StatsHandler(c *gin.Context) {
	counts, err := h.Svc.StatusCounts()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to count bookings", err.Error())
		return
	}
	c.JSON(http.StatusOK, counts)
}

func statusThai(status string) string {
	switch status {
	case models.StatusApproved:
		return "อนุมัติแล้ว"
	case models.StatusRejected:
		return "ไม่อนุมัติ"
	case models.StatusCancelled:
		return "ยกเลิกแล้ว"
	default:
		return status
	}
}

// htmlPage renders a minimal standalone outcome page for links opened from
// chat.
func htmlPage(c *gin.Context, code int, title, body string) {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="th"><head><meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<style>body{font-family:sans-serif;max-width:28rem;margin:3rem auto;padding:0 1rem}h1{font-size:1.3rem}</style>
</head><body><h1>%s</h1><p>%s</p></body></html>`,
		html.EscapeString(title), html.EscapeString(title), html.EscapeString(body))
	c.Data(code, "text/html; charset=utf-8", []byte(page))
}
