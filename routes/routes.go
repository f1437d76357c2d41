package routes

import (
	"net/http"
	"time"

	"roombook/handlers"
	"roombook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle collects the assembled handlers for route registration.
type HandlerBundle struct {
	Booking *handlers.BookingHandler
	Rooms   *handlers.RoomHandler
	Admins  *handlers.AdminHandler
	Webhook *handlers.WebhookHandler

	AdminAPIToken string
}

// RegisterBookingRoutes sets up the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("", hb.Booking.SubmitHandler)
		api.GET("", hb.Booking.ListHandler)
		api.GET("/stats", hb.Booking.StatsHandler)
		api.GET("/:id", hb.Booking.GetHandler)
		api.GET("/:id/decide", hb.Booking.DecideHandler)
		api.POST("/:id/cancel", hb.Booking.CancelHandler)
	}
}

// RegisterRoomRoutes sets up the room reference endpoints.
func RegisterRoomRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.GET("/api/rooms", hb.Rooms.ListRoomsHandler)
}

// RegisterAdminRoutes sets up the admin management endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/admins")
	{
		api.Use(middleware.AdminAuthMiddleware(hb.AdminAPIToken))
		api.GET("", hb.Admins.ListAdminsHandler)
		api.POST("", hb.Admins.AddAdminHandler)
		api.PUT("/:id/activate", hb.Admins.ActivateAdminHandler)
		api.PUT("/:id/deactivate", hb.Admins.DeactivateAdminHandler)
	}
}

// RegisterWebhookRoute sets up the LINE platform webhook.
func RegisterWebhookRoute(r *gin.Engine, hb *HandlerBundle) {
	r.POST("/webhook", hb.Webhook.WebhookHandler)
}

// RegisterHealthRoutes registers the root and health-check endpoints.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Booking Room Backend is running!")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Line-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoutes(r)
	RegisterBookingRoutes(r, hb)
	RegisterRoomRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterWebhookRoute(r, hb)
}
