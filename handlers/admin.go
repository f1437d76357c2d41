package handlers

import (
	"errors"
	"net/http"

	adminRepo "roombook/database/repository/admin"
	"roombook/models"
	"roombook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler manages the admin chat identities behind the bearer-token
// guard.
type AdminHandler struct {
	Admins adminRepo.AdminRepository
}

func NewAdminHandler(admins adminRepo.AdminRepository) *AdminHandler {
	return &AdminHandler{Admins: admins}
}

// ListAdminsHandler returns all admins, active and inactive.
func (h *AdminHandler) ListAdminsHandler(c *gin.Context) {
	admins, err := h.Admins.List()
	if err != nil {
		zap.L().Error("failed to list admins", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list admins", err.Error())
		return
	}
	c.JSON(http.StatusOK, admins)
}

// AddAdminHandler registers a new active admin.
func (h *AdminHandler) AddAdminHandler(c *gin.Context) {
	var input struct {
		UserID      string `json:"userId" binding:"required"`
		DisplayName string `json:"displayName"`
		Role        string `json:"role"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	admin := &models.Admin{
		UserID:      input.UserID,
		DisplayName: input.DisplayName,
		Role:        input.Role,
	}
	if err := h.Admins.Create(admin); err != nil {
		zap.L().Error("failed to create admin", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to create admin", err.Error())
		return
	}
	c.JSON(http.StatusCreated, admin)
}

// ActivateAdminHandler re-enables an admin for the fan-out set.
func (h *AdminHandler) ActivateAdminHandler(c *gin.Context) {
	h.setActive(c, true)
}

// DeactivateAdminHandler removes an admin from the fan-out set without
// deleting the record.
func (h *AdminHandler) DeactivateAdminHandler(c *gin.Context) {
	h.setActive(c, false)
}

func (h *AdminHandler) setActive(c *gin.Context, active bool) {
	id := c.Param("id")
	if err := h.Admins.SetActive(id, active); err != nil {
		if errors.Is(err, adminRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "admin not found", id)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to update admin", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "active": active})
}
