package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LLMConfig describes the OpenAI-compatible provider used for analysis and chat.
type LLMConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIKeyEnv        string        `mapstructure:"api_key_env"` // Name of the environment variable holding the API key
	APIKey           string        `mapstructure:"api_key"`
	AnalysisModel    string        `mapstructure:"analysis_model"`
	ChatModel        string        `mapstructure:"chat_model"`
	Temperature      float32       `mapstructure:"temperature"`
	MaxTokens        int           `mapstructure:"max_tokens"`
	Timeout          time.Duration `mapstructure:"timeout"`
	ChatHistoryLimit int           `mapstructure:"chat_history_limit"`
}

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port                  string
		RequestTimeout        time.Duration `mapstructure:"request_timeout"`
		AllowedOrigins        []string      `mapstructure:"allowed_origins"`
		AllowedOriginPatterns []string      `mapstructure:"allowed_origin_patterns"`
		GinMode               string        `mapstructure:"gin_mode"`
	}
	Database struct {
		DSN string // "memory" or a file path for SQLite
	}
	Auth struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
	}
	LLM        LLMConfig `mapstructure:"llm"`
	Assessment struct {
		QuestionsPerCategory int           `mapstructure:"questions_per_category"`
		SessionTTL           time.Duration `mapstructure:"session_ttl"` // Idle lifetime of a user's question history
	}
}

// AppConfig is the global configuration instance.
var AppConfig Config

// SetDefaults registers the default values for every key. LoadConfig calls it;
// tests can call it on their own to get a usable AppConfig without a file.
func SetDefaults() {
	viper.SetDefault("server.port", "5000")
	viper.SetDefault("server.request_timeout", 30*time.Second)
	viper.SetDefault("server.allowed_origins", []string{"https://stress-less-omega.vercel.app"})
	viper.SetDefault("server.allowed_origin_patterns", []string{
		`^http://localhost:\d+$`,
		`^http://127\.0\.0\.1:\d+$`,
		`^http://192\.168\.\d+\.\d+:\d+$`,
		`^http://10\.\d+\.\d+\.\d+:\d+$`,
	})
	viper.SetDefault("server.gin_mode", "release")
	viper.SetDefault("database.dsn", "data/stressless.db")
	viper.SetDefault("auth.jwt_secret", "your_secret_key")
	viper.SetDefault("auth.token_ttl", 7*24*time.Hour)
	viper.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	viper.SetDefault("llm.api_key_env", "OPENROUTER_API_KEY")
	viper.SetDefault("llm.analysis_model", "arcee-ai/trinity-large-preview:free")
	viper.SetDefault("llm.chat_model", "stepfun/step-3.5-flash:free")
	viper.SetDefault("llm.temperature", 0.8)
	viper.SetDefault("llm.max_tokens", 1200)
	viper.SetDefault("llm.timeout", 25*time.Second)
	viper.SetDefault("llm.chat_history_limit", 20)
	viper.SetDefault("assessment.questions_per_category", 5)
	viper.SetDefault("assessment.session_ttl", 24*time.Hour)
}

// LoadConfig loads configuration from .env, config.yaml and environment variables.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: [Config] No .env file found, using process environment.")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../config") // For running from locations like tests

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("WARN: [Config] Configuration file (config.yaml) not found. Using environment variables and defaults.")
		} else {
			log.Fatalf("FATAL: [Config] Error reading configuration file: %v", err)
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("FATAL: [Config] Failed to unmarshal configuration into AppConfig struct: %v", err)
	}

	applyEnvOverrides(&AppConfig)
	log.Println("INFO: [Config] Configuration loading complete.")
}

func applyEnvOverrides(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
		log.Printf("INFO: [Config] Server port overridden by environment variable PORT: %s", port)
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
		log.Printf("INFO: [Config] Server port overridden by environment variable SERVER_PORT: %s", port)
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
		log.Println("INFO: [Config] Database DSN overridden by environment variable DATABASE_DSN.")
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	} else if cfg.Auth.JWTSecret == "your_secret_key" {
		log.Println("WARN: [Config] JWT_SECRET is not set. Falling back to the development secret.")
	}

	// The API key is looked up by name so the YAML never has to hold the secret.
	if cfg.LLM.APIKeyEnv != "" {
		if key := os.Getenv(cfg.LLM.APIKeyEnv); key != "" {
			cfg.LLM.APIKey = key
			log.Printf("INFO: [Config] Loaded LLM API key from environment variable '%s'.", cfg.LLM.APIKeyEnv)
		}
	}
	if cfg.LLM.APIKey == "" || strings.HasSuffix(cfg.LLM.APIKey, "_KEY") {
		cfg.LLM.APIKey = ""
		log.Printf("WARN: [Config] LLM API key (env var '%s') is not set. AI analysis and chat will report a configuration error.", cfg.LLM.APIKeyEnv)
	}
}
