package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultAIURL = "https://ark.cn-beijing.volces.com/api/v3/chat/completions"
const DefaultAIModel = "doubao-seed-1-6-flash-250828"

type Config struct {
	HTTPAddr             string
	DBDriver             string
	DatabaseURL          string
	DBProbeTimeout       time.Duration
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	EnvFile   string
	ConfigAPI bool

	AI AIConfig
}

type AIConfig struct {
	APIKey    string
	URL       string
	Model     string
	Timeout   time.Duration
	MaxTokens int
}

// Load reads the optional env file into the process environment and resolves
// every setting from env with defaults. DATABASE_URL may be empty: the service
// then runs in degraded mode.
func Load() (Config, error) {
	envFile := getenv("ENV_FILE", ".env")
	_ = godotenv.Load(envFile)

	v := viper.New()
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_PROBE_TIMEOUT_MS", 2000)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("CORS_ALLOW_CREDENTIALS", false)
	v.SetDefault("CONFIG_API_ENABLED", false)
	v.SetDefault("AI_API_KEY", "")
	v.SetDefault("AI_API_URL", DefaultAIURL)
	v.SetDefault("AI_MODEL", DefaultAIModel)
	v.SetDefault("AI_TIMEOUT_MS", 30000)
	v.SetDefault("AI_MAX_TOKENS", 2000)
	v.AutomaticEnv()

	cfg := Config{
		HTTPAddr:             strings.TrimSpace(v.GetString("HTTP_ADDR")),
		DBDriver:             strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DatabaseURL:          strings.TrimSpace(v.GetString("DATABASE_URL")),
		DBProbeTimeout:       millis(v.GetInt("DB_PROBE_TIMEOUT_MS"), 2*time.Second),
		CORSAllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
		EnvFile:              envFile,
		ConfigAPI:            v.GetBool("CONFIG_API_ENABLED"),
		AI: AIConfig{
			APIKey:    strings.TrimSpace(v.GetString("AI_API_KEY")),
			URL:       strings.TrimSpace(v.GetString("AI_API_URL")),
			Model:     strings.TrimSpace(v.GetString("AI_MODEL")),
			Timeout:   millis(v.GetInt("AI_TIMEOUT_MS"), 30*time.Second),
			MaxTokens: v.GetInt("AI_MAX_TOKENS"),
		},
	}
	if cfg.AI.MaxTokens <= 0 {
		cfg.AI.MaxTokens = 2000
	}

	origins := strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	return cfg, nil
}

func millis(n int, def time.Duration) time.Duration {
	if n <= 0 {
		return def
	}
	return time.Duration(n) * time.Millisecond
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
