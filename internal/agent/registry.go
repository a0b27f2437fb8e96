// Package agent routes HTTP paths to survey runners.
package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"survey-agent/internal/survey"
)

// Runner executes one conversational turn.
type Runner interface {
	Run(ctx context.Context, req survey.Request) (*survey.Result, error)
}

// Registry maps route paths to runners. It is built at startup and read concurrently.
type Registry struct {
	mu      sync.RWMutex
	runners map[string]Runner
}

func NewRegistry() *Registry {
	return &Registry{runners: make(map[string]Runner)}
}

// Register binds path to runner. Registering the same path twice is an error.
func (r *Registry) Register(path string, runner Runner) error {
	if runner == nil {
		return fmt.Errorf("nil runner for %q", path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.runners[path]; exists {
		return fmt.Errorf("agent already registered for %q", path)
	}
	r.runners[path] = runner
	return nil
}

// Lookup returns the runner for path, or an AGENT_NOT_FOUND error.
func (r *Registry) Lookup(path string) (Runner, error) {
	r.mu.RLock()
	runner, ok := r.runners[path]
	r.mu.RUnlock()
	if !ok {
		return nil, survey.NewError(survey.CodeAgentNotFound, "Unknown agent: "+path, nil)
	}
	return runner, nil
}

// Paths lists registered paths in sorted order.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	paths := make([]string, 0, len(r.runners))
	for p := range r.runners {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
