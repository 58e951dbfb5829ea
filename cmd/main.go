package main

import (
	"fmt"
	"os"

	serverhttp "github.com/yungbote/gazelab-backend/internal/http"
	"github.com/yungbote/gazelab-backend/internal/http/handlers"

	"github.com/yungbote/gazelab-backend/internal/clients/gcp"
	"github.com/yungbote/gazelab-backend/internal/data/db"
	"github.com/yungbote/gazelab-backend/internal/data/repos"
	"github.com/yungbote/gazelab-backend/internal/platform/envutil"
	"github.com/yungbote/gazelab-backend/internal/platform/logger"
	"github.com/yungbote/gazelab-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Database
	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}
	gdb := dbService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	experimentRepo := repos.NewExperimentRepo(gdb, log)
	stepRepo := repos.NewStepRepo(gdb, log)
	precautionRepo := repos.NewPrecautionRepo(gdb, log)

	// Clients
	log.Info("Setting up clients from main...")
	documentClient, err := gcp.NewDocument(log)
	if err != nil {
		log.Error("Could not init Document AI client", "error", err)
		os.Exit(1)
	}
	defer documentClient.Close()
	speechClient, err := gcp.NewSpeech(log)
	if err != nil {
		log.Error("Could not init Speech client", "error", err)
		os.Exit(1)
	}
	defer speechClient.Close()
	llmClient, err := services.NewLLMClient(log)
	if err != nil {
		log.Error("Could not init LLM client", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up services from main...")
	structuringService := services.NewStructuringService(log, llmClient)
	adaptationService := services.NewAdaptationService(log, llmClient)
	transcriptionService := services.NewTranscriptionService(log, speechClient)
	ingestService := services.NewIngestService(log, gdb, documentClient, structuringService, adaptationService, experimentRepo, stepRepo, precautionRepo)
	progressionService := services.NewProgressionService(log, llmClient, experimentRepo, stepRepo, precautionRepo)
	conversationService := services.NewConversationService(log, llmClient, transcriptionService, experimentRepo, stepRepo, precautionRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	manualHandler := handlers.NewManualHandler(log, ingestService)
	actionHandler := handlers.NewActionHandler(log, progressionService)
	chatbotHandler := handlers.NewChatbotHandler(log, conversationService)
	healthHandler := handlers.NewHealthHandler()

	// Router
	server := serverhttp.NewServer(serverhttp.RouterConfig{
		Log:            log,
		ManualHandler:  manualHandler,
		ActionHandler:  actionHandler,
		ChatbotHandler: chatbotHandler,
		HealthHandler:  healthHandler,
	})

	port := envutil.Str("PORT", "8080")
	log.Info("Server listening", "port", port)
	if err := server.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
