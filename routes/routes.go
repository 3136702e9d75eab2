package routes

import (
	"bookingcore/handlers"
	"bookingcore/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterBookingRoutes sets up the endpoints of the booking lifecycle.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	api.Use(middleware.RequireActor())
	{
		bookings := api.Group("/bookings")
		bookings.POST("", hb.CreateBooking)
		bookings.GET("/:id", hb.GetBooking)
		bookings.GET("/:id/history", hb.BookingHistory)
		bookings.POST("/:id/confirm", hb.ConfirmBooking)
		bookings.POST("/:id/cancel", hb.CancelBooking)
		bookings.POST("/:id/start", hb.StartBooking)
		bookings.POST("/:id/complete", hb.CompleteBooking)
		bookings.POST("/:id/no-show", hb.MarkNoShow)
		bookings.GET("/:id/slots", hb.BookingSlots)
		bookings.DELETE("/:id", hb.DeleteBooking)

		providers := api.Group("/providers")
		providers.POST("", hb.RegisterProvider)
		providers.PUT("/:id/preferences", hb.ProviderPreferences)
		providers.GET("/:id/availability", hb.ProviderAvailable)
		providers.GET("/:id/calendar", hb.ProviderCalendar)
	}
}

// RegisterOpsRoutes registers the health-check and metrics endpoints.
func RegisterOpsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	RegisterOpsRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
}
