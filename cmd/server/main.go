package main

import (
	"log"
	"net/http"

	"github.com/akihiro4321/favefit-sub001/config"
	"github.com/akihiro4321/favefit-sub001/controller"
	"github.com/akihiro4321/favefit-sub001/db"
	"github.com/akihiro4321/favefit-sub001/handler"
	"github.com/akihiro4321/favefit-sub001/llm"
	"github.com/akihiro4321/favefit-sub001/logger"
	"github.com/akihiro4321/favefit-sub001/market"
	"github.com/akihiro4321/favefit-sub001/repository"
	"github.com/akihiro4321/favefit-sub001/route"
	"github.com/akihiro4321/favefit-sub001/service"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load(config.GetEnv("CONFIG_PATH", "config/development.yaml"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Env)
	defer logger.Close()

	gdb, err := db.Open(cfg.Database)
	if err != nil {
		logger.L().Fatal("Failed to connect to database: " + err.Error())
	}
	defer db.Close(gdb)
	if err := db.Migrate(gdb); err != nil {
		logger.L().Fatal("Failed to migrate database: " + err.Error())
	}

	chat := llm.NewClient(cfg.LLM)

	var cache market.Cache
	if cfg.Redis.Addr != "" {
		rc, err := market.NewRedisCache(cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, market list will not be cached", "addr", cfg.Redis.Addr, "error", err)
		} else {
			defer rc.Close()
			cache = rc
		}
	}
	marketService := market.NewService(cfg.Market, cache, chat)

	settingsRepository := repository.NewSettingsRepository(gdb)
	preferenceRepository := repository.NewPreferenceRepository(gdb)
	planRepository := repository.NewPlanRepository(gdb)
	feedbackRepository := repository.NewFeedbackRepository(gdb)
	favoriteRepository := repository.NewFavoriteRepository(gdb)

	profileController := controller.NewProfileController(settingsRepository)
	favoriteController := controller.NewFavoriteController(favoriteRepository)

	planService := service.NewPlanService(chat, settingsRepository, preferenceRepository, planRepository, favoriteRepository, marketService)
	learningService := service.NewLearningService(gdb, chat, preferenceRepository, planRepository, feedbackRepository)

	r := route.SetupRouter(cfg, route.Handlers{
		Profile:  handler.NewProfileHandler(profileController),
		Favorite: handler.NewFavoriteHandler(favoriteController),
		Plan:     handler.NewPlanHandler(planService),
		Feedback: handler.NewFeedbackHandler(learningService),
	})

	logger.Info("Server starting", "port", cfg.Server.Port, "env", cfg.Env)
	if err := http.ListenAndServe(":"+cfg.Server.Port, r); err != nil {
		logger.Error("Server stopped", "error", err)
	}
}
