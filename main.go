package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kaushalkumar0001/StressLess/api"
	"github.com/kaushalkumar0001/StressLess/config"
	"github.com/kaushalkumar0001/StressLess/database"
	"github.com/kaushalkumar0001/StressLess/middleware"
	"github.com/kaushalkumar0001/StressLess/repository"
	"github.com/kaushalkumar0001/StressLess/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

var rootCmd = &cobra.Command{
	Use:   "stressless",
	Short: "StressLess stress assessment API server",
	RunE:  serve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run migrations and start the HTTP server",
	RunE:  serve,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		config.LoadConfig()
		db, err := database.Open(config.AppConfig.Database.DSN)
		if err != nil {
			return err
		}
		return database.Migrate(db)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("FATAL: [Main] %v", err)
	}
}

func serve(cmd *cobra.Command, args []string) error {
	// Load application configuration
	config.LoadConfig()
	cfg := config.AppConfig

	// Initialize database connection
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	handler := buildHandler(db, cfg)
	log.Println("INFO: [Main] API Handler initialized.")

	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}
	r := gin.New()
	r.SetTrustedProxies(nil)

	// Register middlewares
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Cors(cfg.Server.AllowedOrigins, cfg.Server.AllowedOriginPatterns))
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	log.Println("INFO: [Main] Middlewares registered.")

	api.RegisterRoutes(r, handler, cfg.Auth.JWTSecret)
	log.Println("INFO: [Main] Routes registered.")

	port := cfg.Server.Port
	if port == "" {
		log.Println("WARN: [Main] Server port not configured, using default 5000.")
		port = "5000"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("INFO: [Main] Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Printf("INFO: [Main] Received %s, shutting down server...", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: [Main] Server forced to shutdown: %v", err)
		return err
	}
	if err := database.Close(db); err != nil {
		log.Printf("ERROR: [Main] Failed to close database: %v", err)
	}
	log.Println("INFO: [Main] Server exited.")
	return nil
}

// buildHandler wires repositories and services for the HTTP layer.
func buildHandler(db *gorm.DB, cfg config.Config) *api.APIHandler {
	// Initialize Repositories
	userRepo := repository.NewUserRepository(db)
	resultRepo := repository.NewResultRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	chatRepo := repository.NewChatRepository(db)
	sessionRepo := repository.NewSessionHistoryRepository(cfg.Assessment.SessionTTL)
	log.Println("INFO: [Main] Repositories initialized.")

	// Initialize Services
	analysisGenerator := services.NewOpenAIGenerator(cfg.LLM, cfg.LLM.AnalysisModel, "analysis")
	chatCompleter := services.NewOpenAIGenerator(cfg.LLM, cfg.LLM.ChatModel, "chat")

	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	assessmentService := services.NewAssessmentService(sessionRepo, resultRepo, services.DefaultQuestionPool(), cfg.Assessment.QuestionsPerCategory, nil)
	analysisService := services.NewAnalysisService(resultRepo, analysisGenerator)
	appointmentService := services.NewAppointmentService(appointmentRepo)
	progressService := services.NewProgressService(resultRepo)
	chatService := services.NewChatService(chatCompleter, chatRepo, cfg.LLM.ChatHistoryLimit)
	log.Println("INFO: [Main] Services initialized.")

	return api.NewAPIHandler(
		authService,
		assessmentService,
		analysisService,
		appointmentService,
		progressService,
		chatService,
		db,
	)
}
