package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	logging "prepwise/pkg/logger/pkg"
)

func Execute() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	viper.SetConfigFile("./config/config.yaml")
	if err := viper.ReadInConfig(); err != nil {
		log.Printf("No config file loaded: %v", err)
	}
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("rabbitmq.address", "RABBITMQ_ADDRESS")
	viper.BindEnv("rabbitmq.username", "RABBITMQ_USERNAME")
	viper.BindEnv("rabbitmq.password", "RABBITMQ_PASSWORD")
	viper.BindEnv("redis.address", "REDIS_ADDRESS")

	if err := logging.InitLogger(viper.GetBool("log.pretty"), viper.GetString("log.level")); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := logging.Logger(nil)
	defer logger.Sync()

	startServer(logger)
}
