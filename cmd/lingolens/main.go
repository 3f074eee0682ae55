/**
 * Lingo Lens - Main Entry Point
 *
 * Headless AR translation pipeline.
 *
 * Architecture:
 * - Camera source (GStreamer or synthetic) feeding a non-blocking frame callback
 * - Per-mode throttles with watchdog recovery
 * - Tesseract text recognition, accurate mode for the region of interest
 *   and fast mode for full-frame scanning
 * - Replace-queue translation with memory or Redis caching
 * - Spatial overlay manager with staleness and capacity eviction
 * - PostgreSQL persistence for saved translations
 *
 * The annotation store, gesture handler, and chat translator are
 * UI-driven seams; a UI host constructs them against this pipeline.
 */

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/capture"
	gstsource "github.com/bestfriendai/Lingo-lens-sub002/internal/capture/gst"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/config"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/geometry"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/logging"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/overlay"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/pipeline"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/recognition"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/roi"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/scene"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/session"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/storage"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/translation"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env not found, using system environment variables")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLogger("lingolens")
	defer logger.Sync()

	prefs := storage.DefaultPreferences()
	prefs.SetLanguages(cfg.SourceLanguage, cfg.TargetLanguage)
	srcLang, dstLang := prefs.Languages()

	logger.Info("Lingo Lens starting",
		"source_language", srcLang,
		"target_language", dstLang,
		"device_class", cfg.DeviceClass,
		"max_overlays", cfg.MaxOverlays())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Translation engine: remote server or deterministic stub
	var engine translation.Engine
	if cfg.TranslateStub {
		engine = translation.NewStubEngine(translation.StubEngineConfig{})
		logger.Info("Translation engine: stub")
	} else {
		engine, err = translation.NewHTTPEngine(translation.HTTPEngineConfig{
			BaseURL: cfg.TranslateURL,
			APIKey:  cfg.TranslateAPIKey,
		}, logger.Named("translate"))
		if err != nil {
			logger.Error("Failed to initialize translation engine", "error", err)
			os.Exit(1)
		}
		logger.Info("Translation engine: http", "url", cfg.TranslateURL)
	}

	trSession, err := engine.NewSession(srcLang, dstLang)
	if err != nil {
		logger.Error("Failed to open translation session", "error", err)
		os.Exit(1)
	}
	defer trSession.Close()

	// Language pack: trigger download and wait for availability
	if err := trSession.Prepare(ctx); err != nil {
		logger.Warn("Language pack prepare failed", "error", err)
	}
	if err := translation.AwaitReady(ctx, trSession, srcLang, dstLang,
		500*time.Millisecond, 30*time.Second); err != nil {
		logger.Error("Language pack unavailable", "error", err)
		os.Exit(1)
	}

	// Translation cache: Redis when configured, in-memory otherwise
	var cache translation.Cache
	if cfg.RedisURL != "" {
		redisCache, err := translation.NewRedisCache(cfg.RedisURL, 0, logger.Named("cache"))
		if err != nil {
			logger.Warn("Redis cache unavailable, using memory cache", "error", err)
			cache = translation.NewMemoryCache(0)
		} else {
			defer redisCache.Close()
			cache = redisCache
			logger.Info("Translation cache: redis")
		}
	} else {
		cache = translation.NewMemoryCache(0)
		logger.Info("Translation cache: memory")
	}

	// Saved translations: Postgres when configured
	var store storage.Store
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		store = pg
		logger.Info("Saved translations: postgres")
	} else {
		store = storage.NewMemoryStore()
		logger.Info("Saved translations: memory")
	}
	defer store.Close()

	// Recognizer
	recognizer, err := recognition.NewTesseract(recognition.TesseractConfig{
		Languages:      cfg.OCRLanguages,
		TessdataPrefix: cfg.TessdataPrefix,
	}, logger.Named("ocr"))
	if err != nil {
		logger.Error("Failed to initialize recognizer", "error", err)
		os.Exit(1)
	}

	// Camera source
	var source capture.Source
	if cfg.CaptureDevice != "" {
		source, err = gstsource.New(gstsource.Config{
			Device: cfg.CaptureDevice,
			Width:  cfg.FrameWidth,
			Height: cfg.FrameHeight,
			FPS:    float64(cfg.FrameRate),
		}, logger.Named("capture"))
		if err != nil {
			logger.Error("Failed to initialize camera", "error", err)
			os.Exit(1)
		}
		logger.Info("Capture: gstreamer", "device", cfg.CaptureDevice)
	} else {
		source = capture.NewSyntheticSource(cfg.FrameWidth, cfg.FrameHeight, float64(cfg.FrameRate))
		logger.Info("Capture: synthetic")
	}

	viewport := geometry.Size{Width: cfg.ViewportWidth, Height: cfg.ViewportHeight}
	sc := scene.NewFake()
	ovl := overlay.NewManager(sc, cfg.MaxOverlays(), nil, logger.Named("overlay"))
	region := roi.NewRegion(viewport)

	coord := pipeline.New(pipeline.Config{
		Viewport:       viewport,
		Tier:           cfg.Tier(),
		SourceLanguage: srcLang,
		TargetLanguage: dstLang,
		MaxOverlays:    cfg.MaxOverlays(),
	}, recognizer, trSession, cache, ovl, region, nil, logger.Named("pipeline"))

	life := session.NewManager(
		&captureTracker{source: source, ctx: ctx, log: logger.Named("tracker")},
		coord.ClearAll, nil, logger.Named("session"))

	coord.Start(ctx)
	life.Resume()

	// Frame loop: feed tracking quality and the detection pipeline
	go func() {
		for frame := range source.Frames() {
			life.ObserveFrame(sc.TrackingState())
			coord.OnFrame(frame)
		}
	}()

	logger.Info("===========================================")
	logger.Info("Lingo Lens pipeline is READY")
	logger.Info("===========================================")

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("Received signal, initiating graceful shutdown", "signal", sig.String())

	life.Pause()
	coord.Stop()
	if err := source.Stop(); err != nil {
		logger.Warn("Error stopping capture source", "error", err)
	}
	cancel()

	logger.Info("Shutdown complete")
}

// captureTracker adapts the capture source to the session lifecycle.
type captureTracker struct {
	source capture.Source
	ctx    context.Context
	log    *logging.Logger
}

func (t *captureTracker) Pause() {
	if err := t.source.Stop(); err != nil {
		t.log.Warn("capture stop failed", "error", err)
	}
}

func (t *captureTracker) Resume() {
	if err := t.source.Start(t.ctx); err != nil {
		t.log.Warn("capture start failed", "error", err)
	}
}
