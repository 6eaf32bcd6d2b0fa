// Entry point for the REST API
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fieldops.service/internal/api"
	"fieldops.service/internal/api/handler"
	"fieldops.service/internal/config"
	"fieldops.service/internal/core"
	"fieldops.service/internal/ports/messaging"
	"fieldops.service/internal/ports/store"
	"fieldops.service/pkg/aws"
	"fieldops.service/pkg/logger"
	"fieldops.service/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Configure structured logging
	logger.Setup(cfg.IsLocalDev)

	// Configure OpenTelemetry tracing
	shutdownTracer, err := telemetry.InitTracer("fieldops-api", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	// Workbook backend
	rowStore := newRowStore(cfg)
	adapter := store.NewAdapter(rowStore, store.NewHeaderCache(time.Duration(cfg.HeaderCacheTTLSec)*time.Second))

	// AWS SDK config for the notification queue
	awsCfg, err := aws.NewAWSConfig(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load SDK config")
	}
	sqsClient := sqs.NewFromConfig(awsCfg)
	producer := messaging.NewSQSProducer(sqsClient, cfg.NotifySQSQueueURL)

	// Wire up the services
	tables := cfg.TableNames()
	activities := core.NewActivityService(adapter, tables)
	attendance := core.NewAttendanceService(adapter, tables, activities)
	summary := core.NewSummaryService(adapter, tables, activities)
	checkins := core.NewCheckinService(adapter, tables, activities, producer, cfg.GeofenceMaxKm)
	leaves := core.NewLeaveService(adapter, tables)

	router := api.NewRouter(&handler.Handler{
		Activities: activities,
		Attendance: attendance,
		Summary:    summary,
		Checkins:   checkins,
		Leaves:     leaves,
	})

	// Middleware to inject logger with trace ID
	loggerMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.EnrichContextWithLogger(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	// Wrap the router with OpenTelemetry middleware to create spans per request
	h := otelhttp.NewHandler(loggerMiddleware(router), "api")

	serverAddr := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: h,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.ServerPort).Str("backend", cfg.StoreBackend).Msg("API Service starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

// newRowStore selects the workbook backend from config.
func newRowStore(cfg config.Config) store.RowStore {
	if cfg.StoreBackend == "excel" {
		log.Info().Str("path", cfg.LocalWorkbookPath).Msg("Using local workbook backend")
		return store.NewExcelStore(cfg.LocalWorkbookPath)
	}

	creds := store.GraphCredentials{
		TenantID:     cfg.GraphTenantID,
		ClientID:     cfg.GraphClientID,
		ClientSecret: cfg.GraphClientSecret,
	}
	if cfg.IsLocalDev && cfg.GraphBaseURL != "https://graph.microsoft.com/v1.0" {
		// Local graph-mock serves both the token and workbook endpoints.
		creds.LoginURL = cfg.GraphBaseURL
	}
	return store.NewGraphClient(cfg.GraphBaseURL, cfg.GraphDriveID, cfg.GraphWorkbookID, creds, store.NewTokenCache())
}
