package lang

import "sync"

// factories maps a language id to a constructor for its Profile. Profiles
// are expensive to build (language handle + compiled query) so Get memoizes
// them.
var factories = map[string]func() Profile{
	"rust":   NewRust,
	"python": NewPython,
}

var (
	mu       sync.Mutex
	profiles = map[string]Profile{}
)

// Get returns the Profile for a language id, constructing and caching it on
// first use. The second return value is false for unsupported ids.
func Get(languageID string) (Profile, bool) {
	factory, ok := factories[languageID]
	if !ok {
		return nil, false
	}

	mu.Lock()
	defer mu.Unlock()
	if p, ok := profiles[languageID]; ok {
		return p, true
	}
	p := factory()
	profiles[languageID] = p
	return p, true
}

// Supported returns the language ids with a registered profile.
func Supported() []string {
	ids := make([]string, 0, len(factories))
	for id := range factories {
		ids = append(ids, id)
	}
	return ids
}

// IsSupported reports whether a language id has a registered profile.
func IsSupported(languageID string) bool {
	_, ok := factories[languageID]
	return ok
}

// thresholdOverride wraps a Profile to replace its ComplexityThreshold,
// letting a project config raise or lower registration sensitivity for
// one language without touching the compiled-in profile.
type thresholdOverride struct {
	Profile
	threshold float64
}

func (o thresholdOverride) ComplexityThreshold() float64 { return o.threshold }

// WithThreshold returns a copy of p whose ComplexityThreshold is
// overridden to threshold; every other method delegates to p unchanged.
func WithThreshold(p Profile, threshold float64) Profile {
	return thresholdOverride{Profile: p, threshold: threshold}
}
