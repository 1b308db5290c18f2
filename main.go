package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mealplan/auth"
	"mealplan/config"
	"mealplan/controller"
	"mealplan/database"
	"mealplan/route"
	"mealplan/service"
	"mealplan/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger(cfg)

	auth.Setup(cfg.Auth.JWTSecret)

	if err := database.Init(cfg.Database.Driver, cfg.Database.DSN); err != nil {
		logger.Fatal().Err(err).Msg("database initialization failed")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database ready")

	var publisher service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := service.NewKafkaPublisher(cfg.Kafka.Brokers)
		if err != nil {
			logger.Fatal().Err(err).Msg("kafka producer initialization failed")
		}
		defer kafka.Close()
		publisher = kafka
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("order events enabled")
	}

	orderService := service.NewOrderService(database.DB, cfg.Plans, publisher, cfg.Kafka.Topic, logger)
	controller.Setup(cfg, orderService, logger)

	if cfg.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.RequestLogger(logger))

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, origins)
	}
	router.Use(cors.New(corsConfig))

	route.Register(router)

	if err := os.MkdirAll(cfg.Upload.Dir, 0755); err != nil {
		logger.Fatal().Err(err).Msg("failed to create uploads directory")
	}
	router.Static("/uploads/dishes", cfg.Upload.Dir)

	logger.Info().Str("port", cfg.Server.Port).Msg("starting server")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
