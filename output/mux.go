package output

import (
	"context"
	"fmt"

	"github.com/funktionslust/boxbulk"
	"github.com/funktionslust/boxbulk/utils"

	"go.uber.org/zap"
)

// NewMux returns a Mux that saves reports with a local destination with def and reports with a
// scheme destination with the output registered for the scheme.
func NewMux(def boxbulk.Output, routes map[string]boxbulk.Output) *Mux {
	return &Mux{Default: def, Routes: routes}
}

// Mux is an output that routes reports to other outputs by the destination scheme.
type Mux struct {
	Default boxbulk.Output
	Routes  map[string]boxbulk.Output
}

// Prepare prepares every routed output.
func (m *Mux) Prepare(ctx context.Context, runID string, logger *zap.Logger) error {
	for _, out := range m.outputs() {
		if err := boxbulk.InitStorage(ctx, out, runID, logger); err != nil {
			return err
		}
	}
	return nil
}

// Setup does nothing since the routed outputs are set up on Prepare.
func (m *Mux) Setup() error { return nil }

// Shutdown shuts every routed output down.
func (m *Mux) Shutdown() {
	for _, out := range m.outputs() {
		out.Shutdown()
	}
}

// Save saves the report with the output registered for the destination scheme.
func (m *Mux) Save(ctx context.Context, report *boxbulk.Report) (string, error) {
	scheme := utils.Scheme(report.Dir)
	if scheme == "" {
		if m.Default == nil {
			return "", fmt.Errorf("%w: no output for local destination %s", boxbulk.ErrIO, report.Dir)
		}
		return m.Default.Save(ctx, report)
	}
	out, ok := m.Routes[scheme]
	if !ok {
		return "", fmt.Errorf("%w: no output for scheme %q", boxbulk.ErrIO, scheme)
	}
	return out.Save(ctx, report)
}

func (m *Mux) outputs() []boxbulk.Output {
	outputs := make([]boxbulk.Output, 0, len(m.Routes)+1)
	if m.Default != nil {
		outputs = append(outputs, m.Default)
	}
	for _, out := range m.Routes {
		outputs = append(outputs, out)
	}
	return outputs
}
