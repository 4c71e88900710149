package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/airport-weather-alerts/internal/weather"
)

// AppConfig is the immutable configuration built once at startup and passed
// to the orchestrator; there is no ambient configuration lookup elsewhere.
type AppConfig struct {
	// Telegram is the primary notification channel and is required.
	TelegramBotToken string `validate:"required"`
	TelegramChatID   string `validate:"required"`

	// SlackWebhookURL enables the optional Markdown channel when set.
	SlackWebhookURL string

	// Corroborating sources; each is enabled only when its key is set.
	OpenWeatherAPIKey string
	WeatherAPIKey     string

	// CheckInterval controls how often the scheduled run fires.
	CheckInterval time.Duration

	// HistoryYears is the depth of the N-year range enrichment.
	HistoryYears int

	// ForecastHorizonDays is how many forward days each message carries.
	ForecastHorizonDays int

	// HTTPTimeout bounds every outbound call.
	HTTPTimeout time.Duration

	StateFile string
	Port      string

	// Locations is the fixed airport table.
	Locations []weather.Location
}

var validate = validator.New()

// Load reads configuration from the environment with sensible defaults.
// Missing notification credentials are a hard error: the process must not
// start a run it cannot deliver.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:    os.Getenv("TELEGRAM_CHAT_ID"),
		SlackWebhookURL:   os.Getenv("SLACK_WEBHOOK_URL"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		WeatherAPIKey:     os.Getenv("WEATHERAPI_API_KEY"),
	}

	interval, err := time.ParseDuration(getenvDefault("CHECK_INTERVAL", "60m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHECK_INTERVAL: %w", err)
	}
	cfg.CheckInterval = interval

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.HistoryYears = getenvInt("HISTORY_YEARS", 5)
	cfg.ForecastHorizonDays = getenvInt("FORECAST_HORIZON_DAYS", 3)
	cfg.StateFile = getenvDefault("STATE_FILE", "weather_state.json")
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.Locations = defaultAirports()

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("missing required configuration: %w", err)
	}

	return cfg, nil
}

// defaultAirports is the fixed location table; coordinates are the airport
// reference points and must not change between runs (state is keyed by code).
func defaultAirports() []weather.Location {
	return []weather.Location{
		{Code: "LGA", Name: "New York", Lat: 40.7769, Lon: -73.8740},
		{Code: "YYZ", Name: "Toronto", Lat: 43.6777, Lon: -79.6248},
		{Code: "LCY", Name: "London", Lat: 51.5053, Lon: 0.0553},
		{Code: "ICN", Name: "Seoul", Lat: 37.4602, Lon: 126.4407},
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
