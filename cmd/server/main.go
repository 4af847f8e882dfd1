package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"brokerdash/server/config"
	"brokerdash/server/internal/api"
	"brokerdash/server/internal/cache"
	"brokerdash/server/internal/crm"
	"brokerdash/server/internal/dashboard"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	client := crm.NewClient(cfg, logger)
	results := cache.New(time.Duration(cfg.CacheTTLSeconds) * time.Second)
	service := dashboard.NewService(client, cfg, results, logger)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	api.SetupRoutes(router, service, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Infof("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
