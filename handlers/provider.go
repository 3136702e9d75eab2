package handlers

import (
	"net/http"

	"bookingcore/middleware"
	"bookingcore/models"
	"bookingcore/services/booking"
	"bookingcore/utils"

	"github.com/gin-gonic/gin"
)

// ProviderHandler exposes provider registration and calendar endpoints.
type ProviderHandler struct {
	svc *booking.Service
}

func NewProviderHandler(svc *booking.Service) *ProviderHandler {
	return &ProviderHandler{svc: svc}
}

type registerProviderInput struct {
	ID                string              `json:"id"`
	Name              string              `json:"name" binding:"required"`
	Email             string              `json:"email"`
	PhoneNumber       string              `json:"phoneNumber"`
	Address           string              `json:"address"`
	AcceptingBookings bool                `json:"acceptingBookings"`
	AutoConfirm       bool                `json:"autoConfirm"`
	Schedule          []models.WorkingDay `json:"schedule"`
}

// Register creates a provider. Without an explicit id the caller registers itself.
func (h *ProviderHandler) Register(c *gin.Context) {
	var input registerProviderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	actor := middleware.ActorID(c)
	if input.ID == "" {
		input.ID = actor
	}

	p, err := h.svc.RegisterProvider(c.Request.Context(), actor, models.Provider{
		ID:                input.ID,
		Name:              input.Name,
		Email:             input.Email,
		PhoneNumber:       input.PhoneNumber,
		Address:           input.Address,
		AcceptingBookings: input.AcceptingBookings,
		AutoConfirm:       input.AutoConfirm,
		Schedule:          input.Schedule,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

type preferencesInput struct {
	AcceptingBookings *bool `json:"acceptingBookings" binding:"required"`
	AutoConfirm       *bool `json:"autoConfirm" binding:"required"`
}

func (h *ProviderHandler) SetPreferences(c *gin.Context) {
	var input preferencesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	err := h.svc.SetProviderPreferences(c.Request.Context(), middleware.ActorID(c), c.Param("id"),
		*input.AcceptingBookings, *input.AutoConfirm)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"providerId":        c.Param("id"),
		"acceptingBookings": *input.AcceptingBookings,
		"autoConfirm":       *input.AutoConfirm,
	})
}

// Calendar lists the provider's materialized slots for ?date=YYYY-MM-DD.
func (h *ProviderHandler) Calendar(c *gin.Context) {
	date := c.Query("date")
	slots, err := h.svc.Calendar(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providerId": c.Param("id"), "date": date, "slots": slots})
}
