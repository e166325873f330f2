package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"checkout-service/checkout"
	"checkout-service/config"
	"checkout-service/consumers"
	"checkout-service/controllers"
	"checkout-service/database"
	"checkout-service/middlewares"
	"checkout-service/rabbitmq"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if err := database.InitDB(&cfg); err != nil {
		log.Fatal().Err(err).Msg("Database initialization failed")
	}
	defer database.CloseDB()

	rmq, err := rabbitmq.NewRabbitMQ(&cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("RabbitMQ initialization failed")
	}
	defer rmq.Close()

	if err := rmq.SetupQueues(); err != nil {
		log.Fatal().Err(err).Msg("Failed to setup RabbitMQ queues")
	}

	consumers.StartOrderConsumer(rmq.Channel, &cfg)

	controllers.SetCheckoutService(checkout.NewService(checkout.NewSQLStore(database.DB)))
	controllers.SetRabbitMQ(rmq)

	r := gin.Default()
	r.Use(middlewares.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/api")
	authGroup.Use(middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		authGroup.POST("/orders/checkout", controllers.Checkout)
		authGroup.GET("/orders", controllers.GetUserOrders)
		authGroup.GET("/orders/:id", controllers.GetOrderDetails)
	}

	r.POST("/dead-letter", controllers.HandleDeadLetter)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Info().Str("addr", addr).Msg("Checkout service starting")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
