package handlers

import (
	"errors"
	"net/http"

	"roombook/services/command"
	"roombook/services/notify"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v7/linebot"
	"go.uber.org/zap"
)

// WebhookHandler receives LINE platform events. Group text messages run
// through the command interpreter; everything else is acknowledged and
// dropped.
type WebhookHandler struct {
	Bot      *linebot.Client
	Interp   *command.Interpreter
	Notifier notify.Service
}

func NewWebhookHandler(bot *linebot.Client, interp *command.Interpreter, notifier notify.Service) *WebhookHandler {
	return &WebhookHandler{Bot: bot, Interp: interp, Notifier: notifier}
}

// WebhookHandler validates the signature, then handles each event
// independently. A failing event never aborts the batch; LINE retries the
// whole delivery on non-200.
func (h *WebhookHandler) WebhookHandler(c *gin.Context) {
	events, err := h.Bot.ParseRequest(c.Request)
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	for _, event := range events {
		h.handleEvent(c, event)
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *WebhookHandler) handleEvent(c *gin.Context, event *linebot.Event) {
	if event.Source == nil || event.Source.Type != linebot.EventSourceTypeGroup {
		return
	}
	groupID := event.Source.GroupID

	switch event.Type {
	case linebot.EventTypeJoin:
		// First contact with a new group: register it and introduce the
		// commands.
		reply, err := h.Interp.Handle(groupID, "ช่วยเหลือ")
		if err != nil {
			zap.L().Error("webhook: failed to greet group",
				zap.String("groupId", groupID), zap.Error(err))
			return
		}
		h.reply(c, groupID, reply)

	case linebot.EventTypeMessage:
		textMessage, ok := event.Message.(*linebot.TextMessage)
		if !ok {
			return
		}
		reply, err := h.Interp.Handle(groupID, textMessage.Text)
		if err != nil {
			zap.L().Error("webhook: command handling failed",
				zap.String("groupId", groupID), zap.Error(err))
			return
		}
		// A nil reply means the text was ordinary conversation.
		h.reply(c, groupID, reply)
	}
}

func (h *WebhookHandler) reply(c *gin.Context, groupID string, reply notify.Message) {
	if reply == nil {
		return
	}
	if err := h.Notifier.Send(c.Request.Context(), groupID, reply); err != nil {
		zap.L().Error("webhook: reply failed",
			zap.String("groupId", groupID), zap.Error(err))
	}
}
