package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/TheSummerRain/wutongjiebang/internal/config"
	"github.com/TheSummerRain/wutongjiebang/internal/drafting"
	"github.com/TheSummerRain/wutongjiebang/internal/handlers"
	"github.com/TheSummerRain/wutongjiebang/internal/llm"
	"github.com/TheSummerRain/wutongjiebang/internal/repository"
	"github.com/TheSummerRain/wutongjiebang/internal/router"
	"github.com/TheSummerRain/wutongjiebang/internal/services"
	"github.com/TheSummerRain/wutongjiebang/internal/settings"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	store, err := settings.Open(cfg.SettingsDB)
	if err != nil {
		log.Fatalf("error opening settings store: %v", err)
	}
	defer store.Close()

	logger := log.New(os.Stdout, "INFO: ", log.LstdFlags)

	gateway := llm.NewClient(store, llm.Credentials{
		APIKey: cfg.DeepSeekAPIKey,
		Model:  cfg.DeepSeekModel,
	}, cfg.DeepSeekBaseURL)
	if !gateway.Available() {
		logger.Println("no DeepSeek API key configured, generation will use static fallbacks")
	}
	assistant := drafting.NewAssistant(gateway, logger)

	requirementRepo := repository.NewInMemoryRequirementRepository()
	proposalRepo := repository.NewInMemoryProposalRepository()

	requirementService := services.NewRequirementService(requirementRepo, proposalRepo, assistant)
	proposalService := services.NewProposalService(proposalRepo, requirementRepo)
	draftService := services.NewDraftService(gateway, requirementService, logger)

	requirementHandler := handlers.NewRequirementHandler(requirementService, logger, 5*time.Second)
	proposalHandler := handlers.NewProposalHandler(proposalService, logger, 5*time.Second)
	// Сессия черновика делает два последовательных вызова генерации.
	draftHandler := handlers.NewDraftHandler(draftService, logger, 3*time.Minute)
	assistHandler := handlers.NewAssistHandler(assistant, logger, 3*time.Minute)
	settingsHandler := handlers.NewSettingsHandler(store, logger)

	routes := router.InitRoutes(requirementHandler, proposalHandler, draftHandler, assistHandler, settingsHandler)

	log.Printf("server is listening on %s...", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, routes); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
