package handlers

import (
	"context"
	"net/http"
	"time"

	"bookingcore/middleware"
	"bookingcore/models"
	"bookingcore/services/booking"
	"bookingcore/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	svc *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// Create books an appointment for the calling client.
func (h *BookingHandler) Create(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	req.ClientID = middleware.ActorID(c)

	b, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) History(c *gin.Context) {
	entries, err := h.svc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": c.Param("id"), "entries": entries})
}

// Confirm accepts optional confirmation options in the body.
func (h *BookingHandler) Confirm(c *gin.Context) {
	var opts models.ConfirmationOptions
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&opts); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
	}

	b, err := h.svc.Confirm(c.Request.Context(), c.Param("id"), middleware.ActorID(c), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type cancelInput struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	var input cancelInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
	}

	b, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), middleware.ActorID(c), input.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) Start(c *gin.Context) {
	h.transition(c, h.svc.Start)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, h.svc.Complete)
}

func (h *BookingHandler) NoShow(c *gin.Context) {
	h.transition(c, h.svc.MarkNoShow)
}

type transitionFunc func(ctx context.Context, bookingID, actorID string) (*models.Booking, error)

func (h *BookingHandler) transition(c *gin.Context, fn transitionFunc) {
	b, err := fn(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Availability reports whether the provider is free in [start, end).
// Both query parameters are RFC3339 timestamps.
func (h *BookingHandler) Availability(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid start", err.Error())
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid end", err.Error())
		return
	}

	available, err := h.svc.IsAvailable(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"providerId": c.Param("id"),
		"start":      start,
		"end":        end,
		"available":  available,
	})
}

// Slots lists the calendar blocks materialized for a booking.
func (h *BookingHandler) Slots(c *gin.Context) {
	slots, err := h.svc.Slots(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": c.Param("id"), "slots": slots})
}

func (h *BookingHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), middleware.ActorID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
