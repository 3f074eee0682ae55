/**
 * HTTP translation engine
 *
 * Speaks a LibreTranslate-compatible API. Session creation is cheap; the
 * server owns the language models, so Prepare asks the server to stage
 * the pair and Ready polls the supported-language list.
 */

package translation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/logging"
)

// HTTPEngineConfig configures the HTTP engine.
type HTTPEngineConfig struct {
	// BaseURL of the translation server, e.g. "http://localhost:5000".
	BaseURL string
	// APIKey is sent when non-empty.
	APIKey string
	// Timeout bounds each request.
	Timeout time.Duration
}

// HTTPEngine creates sessions against a remote translation server.
type HTTPEngine struct {
	cfg  HTTPEngineConfig
	http *resty.Client
	log  *logging.Logger
}

// NewHTTPEngine creates an engine for the given server.
func NewHTTPEngine(cfg HTTPEngineConfig, log *logging.Logger) (*HTTPEngine, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("translation server base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if log == nil {
		log = logging.NewNop()
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)
	return &HTTPEngine{cfg: cfg, http: client, log: log}, nil
}

// NewSession implements Engine.
func (e *HTTPEngine) NewSession(source, target string) (Session, error) {
	if source == "" || target == "" {
		return nil, fmt.Errorf("source and target languages are required")
	}
	return &httpSession{engine: e, source: source, target: target}, nil
}

type httpSession struct {
	engine *HTTPEngine
	source string
	target string
}

func (s *httpSession) Translate(ctx context.Context, text string) (string, error) {
	var result struct {
		TranslatedText string `json:"translatedText"`
	}
	var apiErr struct {
		Error string `json:"error"`
	}
	resp, err := s.engine.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"q":       text,
			"source":  s.source,
			"target":  s.target,
			"format":  "text",
			"api_key": s.engine.cfg.APIKey,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/translate")
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error != "" {
			return "", fmt.Errorf("translate: %s: %s", resp.Status(), apiErr.Error)
		}
		return "", fmt.Errorf("translate: %s", resp.Status())
	}
	return result.TranslatedText, nil
}

func (s *httpSession) Prepare(ctx context.Context) error {
	resp, err := s.engine.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"source":  s.source,
			"target":  s.target,
			"api_key": s.engine.cfg.APIKey,
		}).
		Post("/prepare")
	if err != nil {
		return fmt.Errorf("prepare request: %w", err)
	}
	// Servers without a staging endpoint report 404; the pair is then
	// either already present or Ready will say otherwise.
	if resp.IsError() && resp.StatusCode() != 404 {
		return fmt.Errorf("prepare: %s", resp.Status())
	}
	return nil
}

func (s *httpSession) Ready(ctx context.Context) (bool, error) {
	var languages []struct {
		Code    string   `json:"code"`
		Targets []string `json:"targets"`
	}
	resp, err := s.engine.http.R().
		SetContext(ctx).
		SetResult(&languages).
		Get("/languages")
	if err != nil {
		return false, fmt.Errorf("languages request: %w", err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("languages: %s", resp.Status())
	}
	for _, lang := range languages {
		if lang.Code != s.source {
			continue
		}
		for _, t := range lang.Targets {
			if t == s.target {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *httpSession) Close() error { return nil }
