package config

import (
	"reflect"
	"testing"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/throttle"
)

func validConfig() *Config {
	return &Config{
		TranslateStub:  true,
		SourceLanguage: "en",
		TargetLanguage: "es",
		DeviceClass:    DeviceClassMid,
		FrameWidth:     1280,
		FrameHeight:    720,
		FrameRate:      30,
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig with empty environment failed: %v", err)
	}
	if cfg.SourceLanguage != "en" || cfg.TargetLanguage != "es" {
		t.Errorf("default languages = %q/%q", cfg.SourceLanguage, cfg.TargetLanguage)
	}
	if !cfg.TranslateStub {
		t.Error("stub engine should be the default")
	}
	if cfg.DeviceClass != DeviceClassMid {
		t.Errorf("default device class = %q", cfg.DeviceClass)
	}
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	t.Setenv("TARGET_LANGUAGE", "fr")
	t.Setenv("DEVICE_CLASS", "high")
	t.Setenv("FRAME_RATE", "60")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TargetLanguage != "fr" {
		t.Errorf("target = %q, want fr", cfg.TargetLanguage)
	}
	if cfg.DeviceClass != DeviceClassHigh {
		t.Errorf("device class = %q, want high", cfg.DeviceClass)
	}
	if cfg.FrameRate != 60 {
		t.Errorf("frame rate = %d, want 60", cfg.FrameRate)
	}
}

func TestLoadConfigParsesOCRLanguageList(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "default", value: "", want: []string{"eng"}},
		{name: "tesseract plus separator", value: "eng+spa", want: []string{"eng", "spa"}},
		{name: "comma separator", value: "eng,spa,jpn", want: []string{"eng", "spa", "jpn"}},
		{name: "stray separators and spaces", value: "eng+ spa+", want: []string{"eng", "spa"}},
		{name: "only separators falls back", value: "++", want: []string{"eng"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("OCR_LANGUAGES", tc.value)
			cfg, err := LoadConfig()
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(cfg.OCRLanguages, tc.want) {
				t.Errorf("OCRLanguages = %v, want %v", cfg.OCRLanguages, tc.want)
			}
		})
	}
}

func TestLoadConfigIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("FRAME_RATE", "not-a-number")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FrameRate != 30 {
		t.Errorf("frame rate = %d, want default 30", cfg.FrameRate)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "real engine without url", mutate: func(c *Config) { c.TranslateStub = false }, wantErr: true},
		{name: "real engine with url", mutate: func(c *Config) {
			c.TranslateStub = false
			c.TranslateURL = "http://localhost:5000"
		}, wantErr: false},
		{name: "missing source language", mutate: func(c *Config) { c.SourceLanguage = "" }, wantErr: true},
		{name: "same source and target", mutate: func(c *Config) { c.TargetLanguage = "en" }, wantErr: true},
		{name: "unknown device class", mutate: func(c *Config) { c.DeviceClass = "ultra" }, wantErr: true},
		{name: "frame rate too high", mutate: func(c *Config) { c.FrameRate = 1000 }, wantErr: true},
		{name: "tiny frame", mutate: func(c *Config) { c.FrameWidth = 10 }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestTierMapping(t *testing.T) {
	cfg := validConfig()
	if cfg.Tier() != throttle.TierLow {
		t.Error("mid device class should map to the low throttle tier")
	}
	cfg.DeviceClass = DeviceClassHigh
	if cfg.Tier() != throttle.TierHigh {
		t.Error("high device class should map to the high throttle tier")
	}
}

func TestMaxOverlaysScalesWithDeviceClass(t *testing.T) {
	testCases := []struct {
		class string
		want  int
	}{
		{class: DeviceClassLow, want: 25},
		{class: DeviceClassMid, want: 35},
		{class: DeviceClassHigh, want: 50},
	}
	for _, tc := range testCases {
		t.Run(tc.class, func(t *testing.T) {
			cfg := validConfig()
			cfg.DeviceClass = tc.class
			if got := cfg.MaxOverlays(); got != tc.want {
				t.Errorf("MaxOverlays() = %d, want %d", got, tc.want)
			}
		})
	}
}
