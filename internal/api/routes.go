package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inkmatch-backend/internal/config"
	"inkmatch-backend/internal/core"
	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/middleware"
)

// Services bundles everything SetupRoutes wires into handlers. StencilService
// may be nil when image generation is not configured; its routes are then
// not registered.
type Services struct {
	Profile      core.ProfileService
	Thread       core.ThreadService
	Message      core.MessageService
	Lead         core.LeadService
	Booking      core.BookingService
	Payment      core.PaymentService
	Subscription core.SubscriptionService
	Stencil      core.StencilService
	Aftercare    core.AftercareService
	Favorite     core.FavoriteService
	Admin        core.AdminService
	Webhook      core.WebhookVerifier
}

// SetupRoutes configures all the application routes with their handlers and
// middleware. Global middleware (Logging, Recovery, CORS) are applied to the
// router instance before this function is called, in main.go.
func SetupRoutes(router *gin.Engine, appConfig *config.Config, logger *zap.Logger, svcs Services) {
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		logger.Fatal("CRITICAL_SETUP_ERROR: Firebase Auth client is not initialized. AuthMiddleware cannot be created, and routes will not be set up.")
		panic("Firebase Auth client is nil during route setup. Ensure db.InitFirestore() was called and succeeded.")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient)

	profileHandler := NewProfileHandler(svcs.Profile)
	threadHandler := NewThreadHandler(svcs.Thread)
	messageHandler := NewMessageHandler(svcs.Message, appConfig.ClientURL)
	leadHandler := NewLeadHandler(svcs.Lead)
	bookingHandler := NewBookingHandler(svcs.Booking)
	paymentHandler := NewPaymentHandler(svcs.Payment, svcs.Subscription, svcs.Webhook)
	aftercareHandler := NewAftercareHandler(svcs.Aftercare)
	favoriteHandler := NewFavoriteHandler(svcs.Favorite)
	adminHandler := NewAdminHandler(svcs.Admin)

	apiGroup := router.Group("/api")
	{
		// --- Profiles and discovery ---
		profilesGroup := apiGroup.Group("/profiles", authMW.VerifyToken())
		{
			// Called after client-side Firebase login/signup to ensure backend
			// records exist.
			profilesGroup.POST("/initialize", profileHandler.InitializeProfile)
			profilesGroup.GET("/me", profileHandler.GetMyProfile)
			profilesGroup.PATCH("/me", profileHandler.UpdateMyProfile)
			profilesGroup.GET("/:uid", profileHandler.GetProfile)
		}
		apiGroup.GET("/artists", authMW.VerifyToken(), profileHandler.ListArtists)

		// --- Threads and messages ---
		threadsGroup := apiGroup.Group("/threads", authMW.VerifyToken())
		{
			threadsGroup.POST("", threadHandler.CreateThread)
			threadsGroup.GET("", threadHandler.ListInbox)
			threadsGroup.DELETE("/:threadId", threadHandler.RemoveFromInbox)

			threadsGroup.POST("/:threadId/messages", messageHandler.SendMessage)
			threadsGroup.GET("/:threadId/messages", messageHandler.ListMessages)
			threadsGroup.GET("/:threadId/stream", messageHandler.StreamMessages)
		}

		// --- Leads ---
		leadsGroup := apiGroup.Group("/leads", authMW.VerifyToken())
		{
			leadsGroup.GET("", leadHandler.ListLeads)
			leadsGroup.PATCH("/:leadId", leadHandler.UpdateLead)
		}

		// --- Bookings and appointments ---
		bookingsGroup := apiGroup.Group("/bookings", authMW.VerifyToken())
		{
			bookingsGroup.POST("", bookingHandler.RequestBooking)
			bookingsGroup.GET("", bookingHandler.ListBookings)
			bookingsGroup.PATCH("/:bookingId", bookingHandler.UpdateBooking)
		}
		apiGroup.GET("/appointments", authMW.VerifyToken(), bookingHandler.ListAppointments)
		apiGroup.DELETE("/appointments/:apptId", authMW.VerifyToken(), bookingHandler.DeleteAppointment)

		// --- Deposits ---
		paymentsGroup := apiGroup.Group("/payments", authMW.VerifyToken())
		{
			paymentsGroup.POST("/create-intent", paymentHandler.CreateIntent)
			paymentsGroup.POST("/record-success", paymentHandler.RecordSuccess)
		}

		// --- Subscriptions ---
		subscriptionsGroup := apiGroup.Group("/subscriptions")
		{
			subscriptionsGroup.POST("/create-checkout", authMW.VerifyToken(), paymentHandler.CreateCheckout)
			// Stripe redirects the browser here after checkout; no bearer
			// token is available, the session id alone identifies the buyer.
			subscriptionsGroup.GET("/checkout-success", paymentHandler.CheckoutSuccess)
			// Public webhook endpoint (no VerifyToken); the processor
			// authenticates via payload signature.
			subscriptionsGroup.POST("/webhook", paymentHandler.HandleWebhook)
		}

		// --- Stencils ---
		if svcs.Stencil != nil {
			stencilHandler := NewStencilHandler(svcs.Stencil)
			stencilsGroup := apiGroup.Group("/stencils", authMW.VerifyToken())
			{
				stencilsGroup.POST("/generate", stencilHandler.GenerateStencil)
				stencilsGroup.GET("", stencilHandler.ListStencils)
			}
		} else {
			logger.Warn("Stencil generation is not configured; /api/stencils routes disabled.")
		}

		// --- Aftercare ---
		aftercareGroup := apiGroup.Group("/aftercare", authMW.VerifyToken())
		{
			aftercareGroup.POST("", aftercareHandler.CreatePlan)
			aftercareGroup.GET("", aftercareHandler.ListPlans)
			aftercareGroup.GET("/:planId", aftercareHandler.GetPlan)
			aftercareGroup.PATCH("/:planId", aftercareHandler.UpdatePlan)
		}

		// --- Favorites ---
		favoritesGroup := apiGroup.Group("/favorites", authMW.VerifyToken())
		{
			favoritesGroup.GET("", favoriteHandler.ListFavorites)
			favoritesGroup.PUT("/:artistUid", favoriteHandler.AddFavorite)
			favoritesGroup.DELETE("/:artistUid", favoriteHandler.RemoveFavorite)
		}

		// --- Admin (custom claim gated) ---
		adminGroup := apiGroup.Group("/admin", authMW.VerifyToken(), authMW.RequireAdmin())
		{
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.PATCH("/users/:uid", adminHandler.UpdateProfile)
			adminGroup.POST("/users/:uid/disable", adminHandler.DisableUser)
			adminGroup.GET("/users/:uid/leads", adminHandler.ListLeads)
			adminGroup.GET("/users/:uid/bookings", adminHandler.ListBookings)
			adminGroup.PATCH("/users/:uid/bookings/:bookingId", adminHandler.UpdateBookingStatus)
			adminGroup.GET("/audit-logs", adminHandler.ListAuditLogs)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "InkMatch backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api and /health.")
}
