package routes

import (
	"net/http"
	"time"

	"ecofix/handlers"
	"ecofix/middleware"
	"ecofix/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Hi, I'm Eco-Fix Connect",
			"health":  utils.GetHealthStatus(),
		})
	})
}

// RegisterBookingRoutes registers the homeowner's booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.POST("", hb.Bookings.CreateBookingHandler)
		api.GET("", hb.Bookings.GetBookingsHandler)
		api.GET("/:id", hb.Bookings.GetBookingHandler)
		api.PUT("/:id/cancel", hb.Bookings.CancelBookingHandler)
		api.PUT("/:id/complete", hb.Bookings.CompleteBookingHandler)
		api.PUT("/:id/confirm", hb.Bookings.ConfirmBookingHandler)
		api.POST("/:id/pay", hb.Bookings.PayBookingHandler)
		api.GET("/:id/receipt", hb.Bookings.ReceiptHandler)
		api.GET("/:id/review", hb.Reviews.GetBookingReviewHandler)
	}
}

// RegisterReviewRoutes registers review submission and provider review endpoints.
func RegisterReviewRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	reviews := r.Group("/api/reviews")
	{
		reviews.Use(middleware.JWTAuthUserMiddleware())
		reviews.POST("", hb.Reviews.SubmitReviewHandler)
	}

	providers := r.Group("/api/providers")
	{
		providers.Use(middleware.JWTAuthUserMiddleware())
		providers.GET("/:id/bookings", hb.Bookings.GetProviderBookingsHandler)
		providers.GET("/:id/reviews", hb.Reviews.GetProviderReviewsHandler)
		providers.GET("/:id/reviews/stats", hb.Reviews.GetReviewStatsHandler)
		providers.GET("/:id/reviews/summary", hb.Reviews.GetReviewSummaryHandler)
	}
}

// RegisterPaymentRoutes registers the card helper endpoint.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.POST("/card-info", hb.Payments.CardInfoHandler)
	}
}

// RegisterCheckoutRoutes sets up the endpoints for the booking dialog.
func RegisterCheckoutRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/checkout")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.POST("", hb.Checkout.StartCheckoutHandler)
		api.GET("/:id", hb.Checkout.GetCheckoutHandler)
		api.PUT("/:id/schedule", hb.Checkout.SelectScheduleHandler)
		api.POST("/:id/proceed", hb.Checkout.ProceedHandler)
		api.POST("/:id/back", hb.Checkout.BackHandler)
		api.POST("/:id/submit", hb.Checkout.SubmitCheckoutHandler)
	}
}

func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.GET("", hb.Notifications.ListNotificationsHandler)
		api.PUT("/:id/read", hb.Notifications.MarkReadHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterCheckoutRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
}
