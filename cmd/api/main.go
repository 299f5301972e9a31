package main

import (
	"oneshot-backend/internal/shared/utils"
	"oneshot-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// .env is optional; production reads the real environment
	envErr := godotenv.Load()

	env := utils.GetEnvVariable("APP_ENV", "development")
	logger.Init(env)
	if envErr != nil {
		log.Debug().Msg("No .env file found, using system environment variables")
	}

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	Serve()
}
