package config

import (
	"fmt"
	"net/url"
	"planets-client/internal/shared/utils"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	API         APIConfig
	Logging     LoggingConfig
	RateLimit   RateLimitConfig
}

type APIConfig struct {
	BaseURL string
	Headers map[string]string
	Timeout time.Duration
	Token   string
}

type LoggingConfig struct {
	Level      string
	Format     string
	JSONFormat bool
	File       string
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
}

const (
	DefaultBaseURL = "https://segundo-simulacro.loca.lt"
	DefaultHeaders = "bypass-tunnel-reminder=true"
)

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config, err := Load()
	if err != nil {
		return err
	}

	GlobalConfig = config
	return nil
}

// Load reads the configuration from the environment and validates it.
// Unlike Init it neither reads .env nor touches GlobalConfig.
func Load() (*Config, error) {
	api, err := loadAPIConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	config := &Config{
		Environment: utils.GetEnv("ENVIRONMENT", "development"),
		API:         api,
		Logging:     loadLoggingConfig(),
		RateLimit:   loadRateLimitConfig(),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func loadAPIConfig() (APIConfig, error) {
	headers, err := utils.ParsePairs(utils.GetEnv("PLANETS_API_HEADERS", DefaultHeaders))
	if err != nil {
		return APIConfig{}, fmt.Errorf("PLANETS_API_HEADERS: %w", err)
	}

	timeout, err := strconv.Atoi(utils.GetEnv("PLANETS_API_TIMEOUT_SECONDS", "0"))
	if err != nil {
		return APIConfig{}, fmt.Errorf("PLANETS_API_TIMEOUT_SECONDS: %w", err)
	}

	return APIConfig{
		BaseURL: strings.TrimRight(utils.GetEnv("PLANETS_API_URL", DefaultBaseURL), "/"),
		Headers: headers,
		Timeout: time.Duration(timeout) * time.Second,
		Token:   utils.GetEnv("PLANETS_API_TOKEN", ""),
	}, nil
}

func loadLoggingConfig() LoggingConfig {
	environment := utils.GetEnv("ENVIRONMENT", "development")
	format := utils.GetEnv("LOG_FORMAT", "text")

	return LoggingConfig{
		Level:      utils.GetEnv("LOG_LEVEL", "info"),
		Format:     format,
		JSONFormat: format == "json" || environment == "production",
		File:       utils.GetEnv("LOG_FILE", ""),
	}
}

func loadRateLimitConfig() RateLimitConfig {
	enabled := utils.GetEnv("RATE_LIMIT_ENABLED", "false") == "true"
	requestsPerSecond, _ := strconv.ParseFloat(utils.GetEnv("RATE_LIMIT_REQUESTS_PER_SECOND", "5"), 64)
	burstSize, _ := strconv.Atoi(utils.GetEnv("RATE_LIMIT_BURST_SIZE", "10"))

	return RateLimitConfig{
		Enabled:           enabled,
		RequestsPerSecond: requestsPerSecond,
		BurstSize:         burstSize,
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("PLANETS_API_URL is invalid: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("PLANETS_API_URL must use http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("PLANETS_API_URL must be absolute")
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("PLANETS_API_TIMEOUT_SECONDS must not be negative")
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Logging.Format)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.BurstSize <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS_PER_SECOND and RATE_LIMIT_BURST_SIZE must be positive when rate limiting is enabled")
	}

	return nil
}
