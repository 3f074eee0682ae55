/**
 * Configuration for the Lingo Lens pipeline
 *
 * Loads configuration from environment variables, optionally seeded
 * from a .env file at startup.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/throttle"
)

// Config holds pipeline configuration
type Config struct {
	// Translation service
	TranslateURL    string
	TranslateAPIKey string
	TranslateStub   bool

	// Optional Redis translation cache
	RedisURL string

	// Optional PostgreSQL for saved translations
	DatabaseURL string

	// Language pair
	SourceLanguage string
	TargetLanguage string

	// Tesseract configuration
	TessdataPrefix string
	OCRLanguages   []string

	// Capture configuration
	CaptureDevice string
	FrameWidth    int
	FrameHeight   int
	FrameRate     int

	// Device class, drives throttle intervals and overlay capacity
	DeviceClass string

	// Viewport size in points
	ViewportWidth  float64
	ViewportHeight float64

	// Node environment
	Env string
}

// Recognized device classes.
const (
	DeviceClassLow  = "low"
	DeviceClassMid  = "mid"
	DeviceClassHigh = "high"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		TranslateURL:    getEnvOrDefault("TRANSLATE_URL", ""),
		TranslateAPIKey: getEnvOrDefault("TRANSLATE_API_KEY", ""),
		TranslateStub:   getEnvAsBoolOrDefault("TRANSLATE_STUB", true),
		RedisURL:        getEnvOrDefault("REDIS_URL", ""),
		DatabaseURL:     getEnvOrDefault("DATABASE_URL", ""),
		SourceLanguage:  getEnvOrDefault("SOURCE_LANGUAGE", "en"),
		TargetLanguage:  getEnvOrDefault("TARGET_LANGUAGE", "es"),
		TessdataPrefix:  getEnvOrDefault("TESSDATA_PREFIX", ""),
		OCRLanguages:    getEnvAsListOrDefault("OCR_LANGUAGES", []string{"eng"}),
		CaptureDevice:   getEnvOrDefault("CAPTURE_DEVICE", ""),
		FrameWidth:      getEnvAsIntOrDefault("FRAME_WIDTH", 1280),
		FrameHeight:     getEnvAsIntOrDefault("FRAME_HEIGHT", 720),
		FrameRate:       getEnvAsIntOrDefault("FRAME_RATE", 30),
		DeviceClass:     getEnvOrDefault("DEVICE_CLASS", DeviceClassMid),
		ViewportWidth:   getEnvAsFloatOrDefault("VIEWPORT_WIDTH", 390),
		ViewportHeight:  getEnvAsFloatOrDefault("VIEWPORT_HEIGHT", 844),
		Env:             getEnvOrDefault("APP_ENV", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if !c.TranslateStub && c.TranslateURL == "" {
		return fmt.Errorf("TRANSLATE_URL is required when TRANSLATE_STUB is false")
	}

	if c.SourceLanguage == "" || c.TargetLanguage == "" {
		return fmt.Errorf("SOURCE_LANGUAGE and TARGET_LANGUAGE are required")
	}

	if c.SourceLanguage == c.TargetLanguage {
		return fmt.Errorf("source and target language must differ, got %q", c.SourceLanguage)
	}

	switch c.DeviceClass {
	case DeviceClassLow, DeviceClassMid, DeviceClassHigh:
	default:
		return fmt.Errorf("DEVICE_CLASS must be low, mid, or high, got %q", c.DeviceClass)
	}

	if c.FrameWidth < 160 || c.FrameWidth > 7680 {
		return fmt.Errorf("FRAME_WIDTH must be between 160 and 7680, got %d", c.FrameWidth)
	}

	if c.FrameHeight < 120 || c.FrameHeight > 4320 {
		return fmt.Errorf("FRAME_HEIGHT must be between 120 and 4320, got %d", c.FrameHeight)
	}

	if c.FrameRate < 1 || c.FrameRate > 240 {
		return fmt.Errorf("FRAME_RATE must be between 1 and 240, got %d", c.FrameRate)
	}

	return nil
}

// Tier maps the device class onto throttle tiers.
func (c *Config) Tier() throttle.Tier {
	if c.DeviceClass == DeviceClassHigh {
		return throttle.TierHigh
	}
	return throttle.TierLow
}

// MaxOverlays scales overlay capacity with the device class.
func (c *Config) MaxOverlays() int {
	switch c.DeviceClass {
	case DeviceClassHigh:
		return 50
	case DeviceClassMid:
		return 35
	default:
		return 25
	}
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsListOrDefault gets environment variable as a list or returns
// default. Entries are separated by "+" (the Tesseract convention, e.g.
// "eng+spa") or ","; empty entries are dropped.
func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	fields := strings.FieldsFunc(valueStr, func(r rune) bool {
		return r == '+' || r == ','
	})
	values := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			values = append(values, f)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsFloatOrDefault gets environment variable as float64 or returns default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBoolOrDefault gets environment variable as bool or returns default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
