package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuracion del API del asistente.
type Config struct {
	HTTPPort         string        `env:"HTTP_PORT" envDefault:"8080"`
	OracleURL        string        `env:"ORACLE_URL" envDefault:"http://127.0.0.1:8000"`
	OracleTimeout    time.Duration `env:"ORACLE_TIMEOUT" envDefault:"30s"`
	SessionSecret    string        `env:"SESSION_SECRET,required,notEmpty"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	SweepInterval    time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	SubmitRateLimit  int           `env:"SUBMIT_RATE_LIMIT" envDefault:"20"`
	SubmitRateWindow time.Duration `env:"SUBMIT_RATE_WINDOW" envDefault:"1m"`
}

// OracleConfig configura el servicio de clasificacion (cmd/oracle).
type OracleConfig struct {
	HTTPPort       string   `env:"ORACLE_PORT" envDefault:"8000"`
	LLMAPIKey      string   `env:"LLM_API_KEY,required,notEmpty"`
	LLMBaseURL     string   `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel       string   `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMMaxTokens   int      `env:"LLM_MAX_TOKENS" envDefault:"80"`
	LLMTemperature float32  `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMStop        []string `env:"LLM_STOP" envSeparator:"|" envDefault:"Symptom description:|Your answer:"`
}

// LoadConfig carga la configuracion desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOracleConfig carga la configuracion del oraculo desde variables de entorno.
func LoadOracleConfig() (*OracleConfig, error) {
	var cfg OracleConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
