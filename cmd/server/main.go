package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	gcstorage "cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"inkmatch-backend/internal/api"
	"inkmatch-backend/internal/config"
	"inkmatch-backend/internal/core"
	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/genimage"
	"inkmatch-backend/internal/middleware"
	"inkmatch-backend/internal/payments"
	"inkmatch-backend/internal/storage"
)

func main() {
	// --- 1. Initialize Logger (Zap) ---
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Zap logger initialized successfully.")

	// --- 2. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 3. Initialize Firebase Admin SDK (includes Firestore and Auth clients) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirestore(initCtx, appConfig); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firestore and Firebase Admin SDK", zap.Error(err))
	}
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth) initialized successfully.")

	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firestoreClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firestore client is nil after initialization. Application cannot start.")
	}
	if firebaseAuthClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firebase Auth client is nil after initialization. Application cannot start.")
	}

	// --- 4. Initialize Repositories ---
	profileRepo := db.NewFirestoreProfileRepository(firestoreClient)
	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	threadRepo := db.NewFirestoreThreadRepository(firestoreClient)
	messageRepo := db.NewFirestoreMessageRepository(firestoreClient)
	leadRepo := db.NewFirestoreLeadRepository(firestoreClient)
	bookingRepo := db.NewFirestoreBookingRepository(firestoreClient)
	aftercareRepo := db.NewFirestoreAftercareRepository(firestoreClient)
	favoriteRepo := db.NewFirestoreFavoriteRepository(firestoreClient)
	appointmentRepo := db.NewFirestoreAppointmentRepository(firestoreClient)
	stencilRepo := db.NewFirestoreStencilRepository(firestoreClient)
	auditRepo := db.NewFirestoreAuditRepository(firestoreClient)
	zapLogger.Info("Repositories initialized successfully.")

	// --- 5. Initialize External Providers ---
	stripeProvider := payments.NewStripeProvider(appConfig.StripeSecretKey, appConfig.StripeWebhookSecret)

	// --- 6. Initialize Services ---
	auditService := core.NewAuditService(auditRepo, zapLogger)
	profileService := core.NewProfileService(profileRepo, userRepo, zapLogger)
	threadService := core.NewThreadService(threadRepo, profileRepo, zapLogger)
	messageService := core.NewMessageService(threadRepo, messageRepo, profileRepo, leadRepo, zapLogger)
	leadService := core.NewLeadService(leadRepo)
	bookingService := core.NewBookingService(bookingRepo, profileRepo, appointmentRepo, zapLogger)
	paymentService := core.NewPaymentService(bookingRepo, stripeProvider, zapLogger)
	subscriptionService := core.NewSubscriptionService(profileRepo, stripeProvider, appConfig, zapLogger)
	aftercareService := core.NewAftercareService(aftercareRepo, profileRepo, zapLogger)
	favoriteService := core.NewFavoriteService(favoriteRepo, profileRepo)
	adminService := core.NewAdminService(profileRepo, userRepo, leadRepo, bookingRepo, auditService, zapLogger)

	// Stencil generation is optional: it needs both the OpenAI key and a
	// bucket for the rendered images.
	var stencilService core.StencilService
	if appConfig.OpenAIAPIKey != "" && appConfig.StencilBucket != "" {
		var storageOpts []option.ClientOption
		if appConfig.GoogleApplicationCredentials != "" {
			storageOpts = append(storageOpts, option.WithCredentialsFile(appConfig.GoogleApplicationCredentials))
		}
		storageClient, err := gcstorage.NewClient(initCtx, storageOpts...)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Cloud Storage client", zap.Error(err))
		}
		defer storageClient.Close()

		stencilService = core.NewStencilService(
			stencilRepo,
			genimage.NewOpenAIGenerator(appConfig.OpenAIAPIKey),
			storage.NewGCSStore(storageClient, appConfig.StencilBucket),
			zapLogger,
		)
	} else {
		zapLogger.Warn("OPENAI_API_KEY or STENCIL_BUCKET not set; stencil generation disabled.")
	}
	zapLogger.Info("Core services initialized successfully.")

	// --- 7. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
		zapLogger.Info("Gin mode set to 'release'.")
	} else {
		gin.SetMode(gin.DebugMode)
		zapLogger.Info("Gin mode set to 'debug'.")
	}
	router := gin.New()

	// --- 8. Apply Global Middleware (Order is important) ---
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig))
	zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))

	// --- 9. Setup API Routes ---
	api.SetupRoutes(router, appConfig, zapLogger, api.Services{
		Profile:      profileService,
		Thread:       threadService,
		Message:      messageService,
		Lead:         leadService,
		Booking:      bookingService,
		Payment:      paymentService,
		Subscription: subscriptionService,
		Stencil:      stencilService,
		Aftercare:    aftercareService,
		Favorite:     favoriteService,
		Admin:        adminService,
		Webhook:      stripeProvider,
	})

	// --- 10. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 11. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	zapLogger.Info("Attempting graceful shutdown of HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
