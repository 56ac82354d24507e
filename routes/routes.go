package routes

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"sitterbid-backend/config"
	"sitterbid-backend/controllers"
	"sitterbid-backend/utils"
)

func allowedOrigins() []string {
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		return strings.Split(env, ",")
	}
	return []string{"http://localhost:3000"}
}

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := allowedOrigins()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
		auth.PUT("/password", controllers.ChangePassword)
	}

	// Public customer-facing surface
	api := r.Group("/api")
	{
		api.GET("/availability", controllers.GetAvailability)

		bookings := api.Group("/bookings")
		{
			bookings.GET("", controllers.GetPublicBookings)
			bookings.GET("/minimum", controllers.GetMinimumBid)
			bookings.POST("", controllers.SubmitBid)
			bookings.GET("/status", controllers.GetBookingStatus)
			bookings.GET("/:id/cancellation-fee", controllers.PreviewCancellation)
			bookings.POST("/:id/cancel", controllers.CancelBooking)
			bookings.POST("/:id/withdraw", controllers.WithdrawBid)
		}

		api.GET("/referrals/check", controllers.CheckReferral)
		api.GET("/reviews", controllers.GetVisibleReviews)
	}

	// Admin surface
	admin := r.Group("/api/admin")
	admin.Use(utils.AuthMiddleware())
	{
		availability := admin.Group("/availability")
		{
			availability.POST("", controllers.CreateSlot)
			availability.DELETE("/:id", controllers.RemoveSlot)
		}

		bookings := admin.Group("/bookings")
		{
			bookings.GET("", controllers.GetAllBookings)
			bookings.POST("/:id/accept", controllers.AcceptBid)
			bookings.POST("/:id/decline", controllers.DeclineBid)
			bookings.POST("/:id/cancel", controllers.AdminCancelBooking)
		}

		referrals := admin.Group("/referrals")
		{
			referrals.GET("", controllers.GetReferrals)
			referrals.POST("", controllers.CreateReferral)
			referrals.PUT("/:id", controllers.ToggleReferral)
		}

		reviews := admin.Group("/reviews")
		{
			reviews.GET("", controllers.GetAllReviews)
			reviews.POST("", controllers.CreateReview)
			reviews.PUT("/:id", controllers.ToggleReview)
			reviews.DELETE("/:id", controllers.DeleteReview)
		}

		admin.GET("/dashboard", controllers.GetDashboardOverview)
	}

	return r
}
