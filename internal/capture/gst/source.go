/**
 * GStreamer camera source
 *
 * Real frame supply for deployments with an attached camera or network
 * stream. Builds a decode pipeline ending in an appsink and adapts its
 * samples to capture.Frame. Frames are copied out of GStreamer buffers
 * (GStreamer reuses them) and dropped, not queued, when the consumer
 * lags.
 */

package gst

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/capture"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/logging"
)

// Config describes the camera pipeline.
type Config struct {
	// Device is a V4L2 device path (e.g. /dev/video0). Mutually exclusive
	// with URI.
	Device string
	// URI is an RTSP/HTTP stream location.
	URI    string
	Width  int
	Height int
	FPS    float64
}

// Source captures frames through a GStreamer pipeline.
type Source struct {
	cfg Config
	log *logging.Logger

	mu       sync.Mutex
	started  bool
	pipeline *gst.Pipeline
	frames   chan capture.Frame

	seq     uint64
	dropped uint64
}

// New creates a GStreamer source. The pipeline is built on Start.
func New(cfg Config, log *logging.Logger) (*Source, error) {
	if cfg.Device == "" && cfg.URI == "" {
		return nil, fmt.Errorf("gst source: either Device or URI is required")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("gst source: invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Source{
		cfg:    cfg,
		log:    log,
		frames: make(chan capture.Frame, 1),
	}, nil
}

// Start builds and plays the pipeline.
func (s *Source) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("gst source already started")
	}

	gst.Init(nil)

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	src, err := s.buildSourceElement()
	if err != nil {
		return err
	}

	convert, err := gst.NewElement("videoconvert")
	if err != nil {
		return fmt.Errorf("create videoconvert: %w", err)
	}
	scale, err := gst.NewElement("videoscale")
	if err != nil {
		return fmt.Errorf("create videoscale: %w", err)
	}
	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return fmt.Errorf("create capsfilter: %w", err)
	}
	caps := gst.NewCapsFromString(fmt.Sprintf(
		"video/x-raw,format=RGBA,width=%d,height=%d", s.cfg.Width, s.cfg.Height))
	if err := capsfilter.SetProperty("caps", caps); err != nil {
		return fmt.Errorf("set caps: %w", err)
	}

	sink, err := app.NewAppSink()
	if err != nil {
		return fmt.Errorf("create appsink: %w", err)
	}
	// Keep at most one sample buffered in the sink, drop the oldest:
	// recognition cadence is far below camera cadence.
	sink.SetProperty("max-buffers", uint(1))
	sink.SetProperty("drop", true)
	sink.SetProperty("sync", false)

	elements := []*gst.Element{src, convert, scale, capsfilter, sink.Element}
	if err := pipeline.AddMany(elements...); err != nil {
		return fmt.Errorf("add elements: %w", err)
	}
	if err := gst.ElementLinkMany(elements...); err != nil {
		return fmt.Errorf("link elements: %w", err)
	}

	sink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: s.onNewSample,
	})

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return fmt.Errorf("play pipeline: %w", err)
	}

	s.pipeline = pipeline
	s.started = true
	s.log.Info("camera pipeline playing",
		"device", s.cfg.Device, "uri", s.cfg.URI,
		"width", s.cfg.Width, "height", s.cfg.Height)

	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()
	return nil
}

func (s *Source) buildSourceElement() (*gst.Element, error) {
	if s.cfg.Device != "" {
		src, err := gst.NewElement("v4l2src")
		if err != nil {
			return nil, fmt.Errorf("create v4l2src: %w", err)
		}
		if err := src.SetProperty("device", s.cfg.Device); err != nil {
			return nil, fmt.Errorf("set device: %w", err)
		}
		return src, nil
	}
	src, err := gst.NewElement("uridecodebin")
	if err != nil {
		return nil, fmt.Errorf("create uridecodebin: %w", err)
	}
	if err := src.SetProperty("uri", s.cfg.URI); err != nil {
		return nil, fmt.Errorf("set uri: %w", err)
	}
	return src, nil
}

func (s *Source) onNewSample(sink *app.Sink) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		// A single bad sample must not terminate the stream.
		s.log.Warn("failed to pull sample, skipping frame")
		return gst.FlowOK
	}

	buffer := sample.GetBuffer()
	if buffer == nil {
		s.log.Warn("sample without buffer, skipping frame")
		return gst.FlowOK
	}

	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	if len(data) == 0 {
		buffer.Unmap()
		s.log.Warn("empty buffer received")
		return gst.FlowOK
	}

	// Copy out: GStreamer reuses the buffer after this callback returns.
	pixels := make([]byte, len(data))
	copy(pixels, data)
	buffer.Unmap()

	frame := capture.Frame{
		Seq:       atomic.AddUint64(&s.seq, 1),
		Timestamp: time.Now(),
		Width:     s.cfg.Width,
		Height:    s.cfg.Height,
		Data:      pixels,
	}

	select {
	case s.frames <- frame:
	default:
		atomic.AddUint64(&s.dropped, 1)
	}
	return gst.FlowOK
}

// Stop halts the pipeline. Idempotent.
func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	s.started = false
	if err := s.pipeline.SetState(gst.StateNull); err != nil {
		return fmt.Errorf("stop pipeline: %w", err)
	}
	return nil
}

// Frames returns the frame delivery channel.
func (s *Source) Frames() <-chan capture.Frame {
	return s.frames
}

// Dropped reports how many frames were discarded because the consumer
// was busy.
func (s *Source) Dropped() uint64 {
	return atomic.LoadUint64(&s.dropped)
}
