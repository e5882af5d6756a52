// Package router maps file paths and language ids to their per-language
// engine (C6), creating engines lazily on first use.
package router

import (
	"sync"

	"github.com/ingo-eichhorst/echolysis/internal/engine"
	"github.com/ingo-eichhorst/echolysis/internal/lang"
)

// Router owns one Engine per language id, created on first request.
type Router struct {
	mu        sync.Mutex
	engines   map[string]*engine.Engine
	overrides map[string]lang.Profile
}

// New returns an empty Router.
func New() *Router {
	return &Router{
		engines:   make(map[string]*engine.Engine),
		overrides: make(map[string]lang.Profile),
	}
}

// SetProfileOverride replaces the profile used to construct languageID's
// engine, letting project config (a complexity-threshold override, say)
// take effect. It has no effect if an engine for languageID was already
// created -- call it before the first EngineForLanguageID/EngineForPath.
func (r *Router) SetProfileOverride(languageID string, profile lang.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[languageID] = profile
}

// EngineForPath returns the engine for path's language, creating it if this
// is the first file of that language seen, or false if the path's
// extension has no registered language profile.
func (r *Router) EngineForPath(path string) (*engine.Engine, bool) {
	return r.EngineForLanguageID(lang.IDForPath(path))
}

// EngineForLanguageID returns the engine for languageID, creating it if
// needed, or false if languageID has no registered profile.
func (r *Router) EngineForLanguageID(languageID string) (*engine.Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.engines[languageID]; ok {
		return e, true
	}

	profile, ok := r.overrides[languageID]
	if !ok {
		profile, ok = lang.Get(languageID)
		if !ok {
			return nil, false
		}
	}

	e := engine.New(profile)
	r.engines[languageID] = e
	return e, true
}

// IsLanguageSupported reports whether languageID has a registered profile,
// without creating an engine for it.
func IsLanguageSupported(languageID string) bool {
	return lang.IsSupported(languageID)
}

// SupportedLanguages lists every registered language id.
func SupportedLanguages() []string {
	return lang.Supported()
}

// RemoveEngine discards the engine for languageID entirely, along with
// every file and fingerprint it held. A later request for the same
// language id starts a fresh, empty engine.
func (r *Router) RemoveEngine(languageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engines, languageID)
}

// Engines returns a snapshot of every language id currently routed, for
// diagnostics and workspace-wide operations like detect-all.
func (r *Router) Engines() map[string]*engine.Engine {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]*engine.Engine, len(r.engines))
	for k, v := range r.engines {
		out[k] = v
	}
	return out
}
