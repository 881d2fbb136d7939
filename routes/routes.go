package routes

import (
	"time"

	"flightdesk/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterFlightRoutes registers the search pass-through.
func RegisterFlightRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	r.GET("/flights/search", hb.Booking.SearchFlights)
}

// RegisterBookingRoutes sets up the endpoints for the booking session workflow.
func RegisterBookingRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/booking")
	{
		bookingGroup.POST("/session", hb.Booking.InitiateSession)
		bookingGroup.GET("/session/:sessionID", hb.Booking.GetSession)
		bookingGroup.DELETE("/session/:sessionID", hb.Booking.CancelSession)
		bookingGroup.POST("/session/:sessionID/travelers", hb.Booking.SubmitTravelers)

		ancillaries := bookingGroup.Group("/session/:sessionID/ancillaries")
		ancillaries.POST("/seat", hb.Booking.ToggleSeat)
		ancillaries.POST("/baggage", hb.Booking.ToggleBaggage)
		ancillaries.POST("/meal", hb.Booking.ToggleMeal)
		ancillaries.POST("/confirm", hb.Booking.ConfirmAncillaries)
		ancillaries.POST("/close", hb.Booking.CloseAncillaries)

		bookingGroup.POST("/session/:sessionID/reconcile", hb.Booking.Reconcile)
		bookingGroup.POST("/session/:sessionID/book", hb.Booking.Book)
		bookingGroup.GET("/session/:sessionID/confirmation", hb.Booking.GetSessionConfirmation)
		bookingGroup.GET("/confirmations", hb.Booking.ListConfirmations)
		bookingGroup.GET("/confirmations/:reference", hb.Booking.GetConfirmation)
	}
}

// RegisterHealthRoute registers the health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", handlers.HealthHandler)
	if hb.Metrics != nil {
		r.GET("/metrics", gin.WrapH(hb.Metrics))
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Agent-ID", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	api := r.Group("/api/v1")
	RegisterFlightRoutes(api, hb)
	RegisterBookingRoutes(api, hb)
}
