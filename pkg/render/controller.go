package render

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/MalanSathya/terraformcoder-ai/pkg/cache"
	"github.com/MalanSathya/terraformcoder-ai/pkg/diagram"
	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
)

// State is the render lifecycle phase for the currently tracked spec.
type State string

// Lifecycle states. Rendered and Failed are terminal for a fingerprint;
// the controller re-enters Rendering on a new fingerprint or explicit retry.
const (
	StateIdle      State = "idle"
	StateRendering State = "rendering"
	StateRendered  State = "rendered"
	StateFailed    State = "failed"
)

// Result is a snapshot of the controller's state for one fingerprint.
// Exactly one Result exists per tracked fingerprint; adopting a new
// fingerprint invalidates the previous one.
type Result struct {
	State       State
	Fingerprint string
	Artifact    []byte // vector markup, set when State == StateRendered
	Reason      string // failure reason, set when State == StateFailed
}

// DefaultArtifactTTL bounds how long rendered artifacts stay cached.
const DefaultArtifactTTL = 24 * time.Hour

// Controller orchestrates rendering for a sequence of diagram specs.
//
// At most one render is in flight per controller. Submitting the tracked
// fingerprint while rendering coalesces into the in-flight attempt;
// submitting a different fingerprint supersedes it: the old attempt is
// cancelled and its late resolution, if any, is discarded by fingerprint
// comparison (last-submitted-fingerprint-wins).
//
// All methods are safe for concurrent use.
type Controller struct {
	engine    Engine
	artifacts cache.Cache
	logger    *log.Logger
	ttl       time.Duration

	// onChange, when set, is invoked after every state transition with a
	// snapshot of the new state. Called outside the controller lock.
	onChange func(Result)

	mu          sync.Mutex
	state       State
	fingerprint string
	spec        diagram.Spec
	artifact    []byte
	reason      string
	attempt     uint64             // increments per issued render, guards stale resolutions
	cancel      context.CancelFunc // cancels the in-flight attempt, nil when none
}

// Option configures a Controller.
type Option func(*Controller)

// WithOnChange registers a callback observing every state transition.
func WithOnChange(fn func(Result)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithArtifactTTL overrides the artifact cache TTL.
func WithArtifactTTL(ttl time.Duration) Option {
	return func(c *Controller) { c.ttl = ttl }
}

// NewController creates a controller backed by the given engine. A nil
// artifacts cache disables caching; a nil logger uses the default.
func NewController(engine Engine, artifacts cache.Cache, logger *log.Logger, opts ...Option) *Controller {
	if artifacts == nil {
		artifacts = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	c := &Controller{
		engine:    engine,
		artifacts: artifacts,
		logger:    logger,
		ttl:       DefaultArtifactTTL,
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the current state. The artifact slice is shared, not
// copied; callers must treat it as read-only.
func (c *Controller) Snapshot() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Result {
	return Result{
		State:       c.state,
		Fingerprint: c.fingerprint,
		Artifact:    c.artifact,
		Reason:      c.reason,
	}
}

// Submit adopts spec and starts rendering it if needed.
//
// Same fingerprint: a Rendering state coalesces into the in-flight attempt,
// a Rendered state is returned as-is, and a Failed state stays failed until
// [Controller.Retry] — re-submission is not an implicit retry.
//
// Different fingerprint: any in-flight attempt for the old fingerprint is
// cancelled, the new fingerprint is adopted, and a render is issued (or
// served from the artifact cache).
func (c *Controller) Submit(ctx context.Context, spec diagram.Spec) {
	fp := spec.Fingerprint()

	c.mu.Lock()
	if fp == c.fingerprint && c.state != StateIdle {
		c.mu.Unlock()
		return
	}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	c.fingerprint = fp
	c.spec = spec
	c.artifact = nil
	c.reason = ""
	c.startLocked(ctx)
}

// Retry re-issues the render for the currently tracked fingerprint. It is a
// no-op while Rendering or when no spec has been submitted yet.
func (c *Controller) Retry(ctx context.Context) {
	c.mu.Lock()
	if c.fingerprint == "" || c.state == StateRendering {
		c.mu.Unlock()
		return
	}
	c.artifact = nil
	c.reason = ""
	c.startLocked(ctx)
}

// Cancel aborts any in-flight render and returns the controller to Idle for
// the tracked fingerprint. The aborted attempt's resolution, whether or not
// the underlying engine honored the abort, is discarded silently.
func (c *Controller) Cancel() {
	c.mu.Lock()
	if c.state != StateRendering {
		c.mu.Unlock()
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.attempt++ // invalidate the outstanding resolution
	c.state = StateIdle
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// startLocked transitions to Rendering and launches the render attempt.
// Must be called with c.mu held; it unlocks before returning.
func (c *Controller) startLocked(ctx context.Context) {
	c.attempt++
	attempt := c.attempt
	fp := c.fingerprint
	spec := c.spec
	c.state = StateRendering

	attemptCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	go c.run(attemptCtx, attempt, fp, spec)
}

// run executes one render attempt and applies its outcome, unless the
// attempt has been superseded in the meantime.
func (c *Controller) run(ctx context.Context, attempt uint64, fp string, spec diagram.Spec) {
	key := cache.ArtifactKey(fp)

	if data, hit, err := c.artifacts.Get(ctx, key); err == nil && hit {
		c.logger.Debug("artifact cache hit", "fingerprint", fp[:12])
		c.resolve(attempt, fp, data, nil)
		return
	}

	artifact, err := c.engine.Render(ctx, spec)
	if err == nil {
		// Populate the cache before resolving so a superseding spec that
		// comes back to this fingerprint still benefits.
		if cacheErr := c.artifacts.Set(context.WithoutCancel(ctx), key, artifact, c.ttl); cacheErr != nil {
			c.logger.Warn("artifact cache write failed", "error", cacheErr)
		}
	}
	c.resolve(attempt, fp, artifact, err)
}

// resolve applies a render outcome. Resolutions are applied in
// fingerprint-match order only: a late resolution for a superseded attempt
// is dropped without a state transition.
func (c *Controller) resolve(attempt uint64, fp string, artifact []byte, err error) {
	c.mu.Lock()
	if attempt != c.attempt || fp != c.fingerprint || c.state != StateRendering {
		c.mu.Unlock()
		c.logger.Debug("discarding stale render resolution", "fingerprint", fp[:12])
		return
	}

	c.cancel = nil
	if err != nil {
		c.state = StateFailed
		c.reason = errors.UserMessage(err)
		c.artifact = nil
	} else {
		c.state = StateRendered
		c.artifact = artifact
		c.reason = ""
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("render failed", "fingerprint", fp[:12], "reason", snap.Reason)
	} else {
		c.logger.Debug("render complete", "fingerprint", fp[:12], "bytes", len(artifact))
	}
	c.notify(snap)
}

func (c *Controller) notify(snap Result) {
	if c.onChange != nil {
		c.onChange(snap)
	}
}
