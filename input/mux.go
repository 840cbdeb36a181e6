package input

import (
	"context"
	"fmt"
	"io"

	"github.com/funktionslust/boxbulk"
	"github.com/funktionslust/boxbulk/utils"

	"go.uber.org/zap"
)

// NewMux returns a Mux that opens paths without a scheme with def and paths with a scheme with
// the input registered for it.
func NewMux(def boxbulk.Input, routes map[string]boxbulk.Input) *Mux {
	return &Mux{Default: def, Routes: routes}
}

// Mux is an input that routes bulk sources to other inputs by the path scheme.
type Mux struct {
	Default boxbulk.Input
	Routes  map[string]boxbulk.Input
}

// Prepare prepares every routed input.
func (m *Mux) Prepare(ctx context.Context, runID string, logger *zap.Logger) error {
	for _, in := range m.inputs() {
		if err := boxbulk.InitStorage(ctx, in, runID, logger); err != nil {
			return err
		}
	}
	return nil
}

// Setup does nothing since the routed inputs are set up on Prepare.
func (m *Mux) Setup() error { return nil }

// Shutdown shuts every routed input down.
func (m *Mux) Shutdown() {
	for _, in := range m.inputs() {
		in.Shutdown()
	}
}

// Open opens the path with the input registered for its scheme.
func (m *Mux) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	scheme := utils.Scheme(path)
	if scheme == "" {
		if m.Default == nil {
			return nil, fmt.Errorf("no input for local path %s", path)
		}
		return m.Default.Open(ctx, path)
	}
	in, ok := m.Routes[scheme]
	if !ok {
		return nil, fmt.Errorf("no input for scheme %q", scheme)
	}
	return in.Open(ctx, path)
}

func (m *Mux) inputs() []boxbulk.Input {
	inputs := make([]boxbulk.Input, 0, len(m.Routes)+1)
	if m.Default != nil {
		inputs = append(inputs, m.Default)
	}
	for _, in := range m.Routes {
		inputs = append(inputs, in)
	}
	return inputs
}
