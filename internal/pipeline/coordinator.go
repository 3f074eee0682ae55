/**
 * Detection pipeline coordinator
 *
 * Bridges the camera callback to recognition, translation, and overlay
 * placement. The camera side never blocks: each mode has a throttle and
 * a single-slot job channel, so at most one recognition job per mode is
 * in flight and everything else is dropped. All observable pipeline
 * state (mode, latched label, translation drain) is mutated only on the
 * run loop goroutine; workers post closures to it.
 */

package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/capture"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/detection"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/geometry"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/logging"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/overlay"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/recognition"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/roi"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/session"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/throttle"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/translation"
)

// DetectionMode selects what the pipeline does with frames.
type DetectionMode int

const (
	// ModeROI scans the adjustable region of interest with accurate
	// settings, latches the best label for annotation, and routes
	// confident words into the translation queue.
	ModeROI DetectionMode = iota
	// ModeFullFrame scans the whole frame with fast settings and feeds
	// detections into the translation queue.
	ModeFullFrame
	// ModeObject classifies the dominant object in the region. Available
	// only when the recognizer also implements recognition.Classifier.
	ModeObject
)

// maintenanceInterval paces overlay staleness/capacity sweeps.
const maintenanceInterval = time.Second

// Config carries the pipeline's fixed parameters.
type Config struct {
	Viewport       geometry.Size
	Tier           throttle.Tier
	SourceLanguage string
	TargetLanguage string
	MaxOverlays    int
}

// job pairs a frame with its throttle admission so the worker releases
// exactly the dispatch it was admitted under.
type job struct {
	frame capture.Frame
	gen   uint64
}

// Coordinator owns the frame-to-overlay pipeline.
type Coordinator struct {
	cfg   Config
	log   *logging.Logger
	rec   recognition.Recognizer
	cls   recognition.Classifier // nil when unsupported
	sess  translation.Session
	cache translation.Cache
	ovl   *overlay.Manager
	reg   *roi.Region
	life  *session.Manager // optional

	roiThrottle    *throttle.Throttle
	objectThrottle *throttle.Throttle
	frameThrottle  *throttle.Throttle

	roiJobs    chan job
	objectJobs chan job
	frameJobs  chan job
	tasks      chan func()
	queue      *translation.Queue
	done       chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup

	// run-loop state, read under mu from other goroutines.
	mu           sync.Mutex
	mode         DetectionMode
	suspended    bool
	currentLabel string
	draining     bool
}

// New creates a coordinator. The classifier is discovered from the
// recognizer; life may be nil when no lifecycle manager is wired.
func New(cfg Config, rec recognition.Recognizer, sess translation.Session,
	cache translation.Cache, ovl *overlay.Manager, reg *roi.Region,
	life *session.Manager, log *logging.Logger) *Coordinator {
	if log == nil {
		log = logging.NewNop()
	}
	if cache == nil {
		cache = translation.NewMemoryCache(0)
	}
	cls, _ := rec.(recognition.Classifier)

	roiMode := throttle.ROITextMode(cfg.Tier)
	objMode := throttle.ObjectMode(cfg.Tier)
	ffMode := throttle.FullFrameMode(cfg.Tier)

	return &Coordinator{
		cfg:   cfg,
		log:   log,
		rec:   rec,
		cls:   cls,
		sess:  sess,
		cache: cache,
		ovl:   ovl,
		reg:   reg,
		life:  life,

		roiThrottle:    throttle.New(roiMode.Interval, roiMode.Watchdog, nil, log.Named("throttle.roi")),
		objectThrottle: throttle.New(objMode.Interval, objMode.Watchdog, nil, log.Named("throttle.object")),
		frameThrottle:  throttle.New(ffMode.Interval, ffMode.Watchdog, nil, log.Named("throttle.frame")),

		roiJobs:    make(chan job, 1),
		objectJobs: make(chan job, 1),
		frameJobs:  make(chan job, 1),
		tasks:      make(chan func(), 64),
		queue:      translation.NewQueue(),
		done:       make(chan struct{}),
		mode:       ModeROI,
	}
}

// Start launches the run loop and the per-mode workers. Workers stop
// when ctx is cancelled or Stop is called.
func (c *Coordinator) Start(ctx context.Context) {
	c.wg.Add(4)
	go c.runLoop(ctx)
	go c.roiWorker(ctx)
	go c.objectWorker(ctx)
	go c.frameWorker(ctx)
}

// Stop shuts the pipeline down and waits for workers to drain.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
	c.wg.Wait()
}

func (c *Coordinator) runLoop(ctx context.Context) {
	defer c.wg.Done()
	maint := time.NewTicker(maintenanceInterval)
	defer maint.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case task := <-c.tasks:
			task()
		case <-maint.C:
			c.ovl.Maintain()
		}
	}
}

// post hands a closure to the run loop. Blocks only worker goroutines,
// never the camera callback.
func (c *Coordinator) post(task func()) {
	select {
	case c.tasks <- task:
	case <-c.done:
	}
}

// OnFrame is the camera callback. It must return immediately: frames
// arriving while a job is in flight, inside the throttle interval, or
// while the single job slot is full are dropped, never queued.
func (c *Coordinator) OnFrame(frame capture.Frame) {
	if c.life != nil {
		if c.life.IsLoading() || c.life.State() != session.StateActive {
			return
		}
	}

	c.mu.Lock()
	mode := c.mode
	suspended := c.suspended
	c.mu.Unlock()
	if suspended {
		return
	}

	switch mode {
	case ModeROI:
		c.dispatch(frame, c.roiThrottle, c.roiJobs)
	case ModeObject:
		if c.cls == nil {
			return
		}
		c.dispatch(frame, c.objectThrottle, c.objectJobs)
	case ModeFullFrame:
		c.dispatch(frame, c.frameThrottle, c.frameJobs)
	}
}

func (c *Coordinator) dispatch(frame capture.Frame, t *throttle.Throttle, jobs chan job) {
	gen, ok := t.TryAcquire()
	if !ok {
		return
	}
	select {
	case jobs <- job{frame: frame, gen: gen}:
	default:
		// Slot still occupied; give the admission back.
		t.Release(gen)
	}
}

func (c *Coordinator) roiWorker(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case j := <-c.roiJobs:
			c.scanROI(ctx, j.frame)
			c.roiThrottle.Release(j.gen)
		}
	}
}

// scanROI runs an accurate-mode detection over the region of interest,
// latches the best confident fragment as the current label, and feeds
// this cycle's confident words into the translation queue.
func (c *Coordinator) scanROI(ctx context.Context, frame capture.Frame) {
	region := c.reg.Normalized()
	fragments, err := c.rec.Detect(ctx, frame, &region)
	if err != nil {
		c.log.Debug("roi detection failed", "error", err)
		return
	}

	best := ""
	bestConf := 0.0
	words := make([]detection.DetectedWord, 0, len(fragments))
	for _, f := range fragments {
		text := detection.NormalizeText(f.Text)
		if text == "" || f.Confidence <= detection.ConfidenceThresholdAccurate {
			continue
		}
		if f.Confidence > bestConf {
			best = text
			bestConf = f.Confidence
		}
		words = append(words, detection.NewDetectedWord(text, f.Confidence, f.Box))
	}
	words = detection.Dedupe(words)

	c.post(func() {
		c.mu.Lock()
		c.currentLabel = best
		c.mu.Unlock()
		c.queue.Replace(words)
		c.startDrain()
	})
}

func (c *Coordinator) objectWorker(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case j := <-c.objectJobs:
			c.classifyROI(ctx, j.frame)
			c.objectThrottle.Release(j.gen)
		}
	}
}

func (c *Coordinator) classifyROI(ctx context.Context, frame capture.Frame) {
	label, conf, err := c.cls.Classify(ctx, frame, c.reg.Normalized())
	if err != nil {
		c.log.Debug("object classification failed", "error", err)
		return
	}
	if conf <= detection.ConfidenceThresholdAccurate {
		label = ""
	}
	c.post(func() {
		c.mu.Lock()
		c.currentLabel = label
		c.mu.Unlock()
	})
}

func (c *Coordinator) frameWorker(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case j := <-c.frameJobs:
			c.scanFullFrame(ctx, j.frame)
			c.frameThrottle.Release(j.gen)
		}
	}
}

// scanFullFrame runs a fast-mode detection over the whole frame and
// replaces the translation queue with this cycle's confident words.
func (c *Coordinator) scanFullFrame(ctx context.Context, frame capture.Frame) {
	fragments, err := c.rec.Detect(ctx, frame, nil)
	if err != nil {
		c.log.Debug("full-frame detection failed", "error", err)
		return
	}

	words := make([]detection.DetectedWord, 0, len(fragments))
	for _, f := range fragments {
		w := detection.NewDetectedWord(f.Text, f.Confidence, f.Box)
		if !w.IsConfident(detection.ConfidenceThresholdFast) {
			continue
		}
		words = append(words, w)
	}
	words = detection.Dedupe(words)

	c.post(func() {
		c.queue.Replace(words)
		c.startDrain()
	})
}

// startDrain kicks the serial translation drain if one is not
// already running. Run-loop only.
func (c *Coordinator) startDrain() {
	c.mu.Lock()
	if c.draining || c.queue.Len() == 0 {
		c.mu.Unlock()
		return
	}
	c.draining = true
	c.mu.Unlock()

	c.wg.Add(1)
	go c.drainQueue()
}

// drainQueue translates queued words one at a time, highest confidence
// first, and posts a bind for each result. The cache is consulted
// before the session; failures for individual words are logged and
// skipped, they never abort the drain.
func (c *Coordinator) drainQueue() {
	defer c.wg.Done()
	defer func() {
		c.mu.Lock()
		c.draining = false
		c.mu.Unlock()
	}()

	ctx := context.Background()
	for {
		select {
		case <-c.done:
			return
		default:
		}

		word, ok := c.queue.Pop()
		if !ok {
			return
		}

		translated, hit := c.cache.Get(ctx, c.cfg.SourceLanguage, c.cfg.TargetLanguage, word.Text)
		if !hit {
			var err error
			translated, err = c.sess.Translate(ctx, word.Text)
			if err != nil {
				c.log.Debug("translation failed", "text", word.Text, "error", err)
				continue
			}
			c.cache.Put(ctx, c.cfg.SourceLanguage, c.cfg.TargetLanguage, word.Text, translated)
		}

		w, tr := word, translated
		c.post(func() { c.bind(w, tr) })
	}
}

// bind attaches a finished translation to the scene. The detection's
// bounding-box center becomes the screen anchor; 3D placement is
// attempted first and falls back to a 2D overlay when no surface is
// hit. Run-loop only.
func (c *Coordinator) bind(word detection.DetectedWord, translated string) {
	anchor := word.BoundingBox.ToScreen(c.cfg.Viewport)
	if c.ovl.Place3D(word, translated, anchor) {
		return
	}
	c.ovl.Upsert(word, translated, anchor)
}

// SetMode switches the detection mode. The translation queue and the
// latched label belong to the old mode and are discarded.
func (c *Coordinator) SetMode(mode DetectionMode) {
	c.post(func() {
		c.mu.Lock()
		c.mode = mode
		c.currentLabel = ""
		c.mu.Unlock()
		c.queue.Clear()
		c.log.Info("detection mode changed", "mode", int(mode))
	})
}

// Mode returns the active detection mode.
func (c *Coordinator) Mode() DetectionMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SuspendDetection stops admitting frames, letting UI interactions run
// without detection churn underneath. Implements gesture.Suspender.
func (c *Coordinator) SuspendDetection() {
	c.mu.Lock()
	c.suspended = true
	c.mu.Unlock()
}

// ResumeDetection re-admits frames after a suspension.
func (c *Coordinator) ResumeDetection() {
	c.mu.Lock()
	c.suspended = false
	c.mu.Unlock()
}

// CurrentLabel returns the latched region-of-interest label, empty when
// nothing confident has been seen.
func (c *Coordinator) CurrentLabel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLabel
}

// ClearAll wipes every piece of detection state in one step: the
// translation queue, all overlays with their nodes, and the latched
// label. Used on mode exits and session pauses.
func (c *Coordinator) ClearAll() {
	c.queue.Clear()
	c.ovl.Clear()
	c.mu.Lock()
	c.currentLabel = ""
	c.mu.Unlock()
}

// QueueLen reports the pending translation count.
func (c *Coordinator) QueueLen() int { return c.queue.Len() }
