// Package health reports whether the scoring service can do useful work.
// The server registers one probe per dependency it cannot score without,
// such as the loaded model bundle and the record database, and the health
// endpoints aggregate them.
package health

import (
	"context"
	"sync"
)

// Status is the result of probing one dependency. Detail carries the
// failure reason and is empty for healthy probes.
type Status struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Detail  string `json:"detail,omitempty"`
}

// Checker probes a single dependency. Implementations should honor the
// context deadline; a probe that hangs stalls the whole health endpoint.
type Checker func(ctx context.Context) Status

// Registry collects dependency probes. Probes run in registration order
// so health output stays stable across requests.
type Registry struct {
	mu     sync.RWMutex
	probes []probe
}

type probe struct {
	name  string
	check Checker
}

// NewRegistry returns an empty registry. A registry with no probes
// reports healthy, which is the correct answer for the in-memory
// deployment mode where there is nothing external to fail.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a probe under the given name.
func (r *Registry) Register(name string, check Checker) {
	r.mu.Lock()
	r.probes = append(r.probes, probe{name: name, check: check})
	r.mu.Unlock()
}

// CheckAll runs every probe and reports the aggregate. The service is
// healthy only when every dependency is; a single failing probe, model
// or storage alike, degrades the whole service.
func (r *Registry) CheckAll(ctx context.Context) (bool, []Status) {
	r.mu.RLock()
	probes := make([]probe, len(r.probes))
	copy(probes, r.probes)
	r.mu.RUnlock()

	healthy := true
	statuses := make([]Status, 0, len(probes))
	for _, p := range probes {
		st := p.check(ctx)
		if !st.Healthy {
			healthy = false
		}
		statuses = append(statuses, st)
	}
	return healthy, statuses
}
