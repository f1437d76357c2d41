package handlers

import (
	"net/http"

	roomRepo "roombook/database/repository/room"
	"roombook/utils"

	"github.com/gin-gonic/gin"
)

// RoomHandler serves the room reference data.
type RoomHandler struct {
	Rooms roomRepo.RoomRepository
}

func NewRoomHandler(rooms roomRepo.RoomRepository) *RoomHandler {
	return &RoomHandler{Rooms: rooms}
}

// ListRoomsHandler returns all rooms.
func (h *RoomHandler) ListRoomsHandler(c *gin.Context) {
	rooms, err := h.Rooms.List()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list rooms", err.Error())
		return
	}
	c.JSON(http.StatusOK, rooms)
}
