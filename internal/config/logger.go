package config

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

// InitLogger configures the shared logger. Called once at startup by every
// front end.
func InitLogger() {
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	Logger.SetLevel(logrus.InfoLevel)
}

// LoadEnv loads variables from a .env file when one is present. A missing
// file is not an error; real environment variables are used instead.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		Logger.Warnf("No .env file loaded, using environment variables: %v", err)
	}
}
