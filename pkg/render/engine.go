// Package render turns diagram specs into visual artifacts.
//
// The package separates the render lifecycle from the rendering itself. An
// [Engine] is a pure artifact-producing function (remote proxy or local
// graphviz); the [Controller] owns the lifecycle: one render in flight at a
// time, coalescing of duplicate submissions, cancellation, stale-resolution
// discard, and a fingerprint-keyed artifact cache.
package render

import (
	"context"
	"time"

	"github.com/MalanSathya/terraformcoder-ai/pkg/cache"
	"github.com/MalanSathya/terraformcoder-ai/pkg/diagram"
)

// Engine converts diagram text into a visual artifact (vector markup).
// Implementations must be safe for concurrent use and must honor ctx
// cancellation; the controller aborts in-flight renders through it.
type Engine interface {
	Render(ctx context.Context, spec diagram.Spec) ([]byte, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, spec diagram.Spec) ([]byte, error)

// Render calls f.
func (f EngineFunc) Render(ctx context.Context, spec diagram.Spec) ([]byte, error) {
	return f(ctx, spec)
}

// CachedEngine wraps an Engine with a fingerprint-keyed artifact cache. It
// serves stateless callers (the HTTP render endpoint) the same cache the
// controller maintains, so both paths share artifacts.
type CachedEngine struct {
	engine    Engine
	artifacts cache.Cache
	ttl       time.Duration
}

// NewCachedEngine wraps engine with the given cache. A zero ttl uses
// [DefaultArtifactTTL].
func NewCachedEngine(engine Engine, artifacts cache.Cache, ttl time.Duration) *CachedEngine {
	if artifacts == nil {
		artifacts = cache.NewNullCache()
	}
	if ttl <= 0 {
		ttl = DefaultArtifactTTL
	}
	return &CachedEngine{engine: engine, artifacts: artifacts, ttl: ttl}
}

// Render returns the cached artifact for the spec's fingerprint when
// present, rendering and populating the cache otherwise. Failures are never
// cached.
func (e *CachedEngine) Render(ctx context.Context, spec diagram.Spec) ([]byte, error) {
	key := cache.ArtifactKey(spec.Fingerprint())
	if data, hit, err := e.artifacts.Get(ctx, key); err == nil && hit {
		return data, nil
	}
	artifact, err := e.engine.Render(ctx, spec)
	if err != nil {
		return nil, err
	}
	// ignore cache write failures, the artifact is already in hand
	_ = e.artifacts.Set(context.WithoutCancel(ctx), key, artifact, e.ttl)
	return artifact, nil
}

var _ Engine = (*CachedEngine)(nil)
