package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"

	"shootapi/services"
)

const DefaultAgentID = "698f36250f0fd5392ca89bf4"

type Config struct {
	Port         string
	Env          string
	SentryDSN    string
	HistoryStore string

	DBUsername string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string

	GoogleAPIKey string
	AgentID      string
	AgentModel   string
}

// Load reads the optional .env files and then the process environment.
// Variables already set in the environment win over .env values.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	return Config{
		Port:         services.GetEnv("PORT", "8083"),
		Env:          services.GetEnv("ENV", "local"),
		SentryDSN:    services.GetEnv("SENTRY_DSN", ""),
		HistoryStore: services.GetEnv("HISTORY_STORE", "memory"),

		DBUsername: services.GetEnv("DB_USERNAME", ""),
		DBPassword: services.GetEnv("DB_PASSWORD", ""),
		DBHost:     services.GetEnv("DB_HOST", "localhost"),
		DBPort:     services.GetEnv("DB_PORT", "5432"),
		DBName:     services.GetEnv("DB_NAME", ""),

		R2AccountID:       services.GetEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     services.GetEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret: services.GetEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:      services.GetEnv("R2_BUCKET_NAME", ""),

		GoogleAPIKey: services.GetEnv("GOOGLE_API_KEY", ""),
		AgentID:      services.GetEnv("AGENT_ID", DefaultAgentID),
		AgentModel:   services.GetEnv("AGENT_MODEL", services.Flash25Image.String()),
	}, nil
}

func (c Config) UseDatabase() bool {
	return c.HistoryStore == "db"
}
