package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/aretw0/cascade/pkg/domain"
)

// Event is one JSON line written by JSONHandler.
type Event struct {
	Type    string                 `json:"type"`
	Step    *Step                  `json:"step,omitempty"`
	Batch   *domain.Batch          `json:"batch,omitempty"`
	Report  *TickEvent             `json:"report,omitempty"`
	Entity  *domain.EntitySnapshot `json:"entity,omitempty"`
	Attrs   map[string]string      `json:"attributes,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// TickEvent flattens a tick report for JSON output.
type TickEvent struct {
	Tick    uint64          `json:"tick"`
	Batches int             `json:"batches"`
	Applied int             `json:"applied"`
	Dropped int             `json:"dropped"`
	Results []ResultSummary `json:"results,omitempty"`
}

// ResultSummary is one applied or dropped descriptor.
type ResultSummary struct {
	Target domain.EntityID    `json:"target"`
	Kind   domain.AttrKind    `json:"kind"`
	Value  string             `json:"value"`
	Status domain.ApplyStatus `json:"status"`
}

// JSONHandler writes the run as JSON Lines, one event per line.
type JSONHandler struct {
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler writing to w (stdout when nil).
func NewJSONHandler(w io.Writer) *JSONHandler {
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{Encoder: json.NewEncoder(w)}
}

func (h *JSONHandler) Triggered(ctx context.Context, step Step, batch domain.Batch) error {
	return h.Encoder.Encode(Event{Type: "trigger", Step: &step, Batch: &batch})
}

func (h *JSONHandler) Ticked(ctx context.Context, report domain.TickReport) error {
	ev := &TickEvent{
		Tick:    report.Tick,
		Batches: report.Batches,
		Applied: report.Applied(),
		Dropped: report.Dropped(),
	}
	for _, res := range report.Results {
		ev.Results = append(ev.Results, ResultSummary{
			Target: res.Descriptor.Target,
			Kind:   res.Descriptor.Kind,
			Value:  stringOf(res.Descriptor.Value),
			Status: res.Status,
		})
	}
	return h.Encoder.Encode(Event{Type: "tick", Report: ev})
}

func (h *JSONHandler) Inspected(ctx context.Context, snap domain.EntitySnapshot) error {
	attrs := make(map[string]string, len(snap.Attributes))
	for _, a := range snap.Attributes {
		attrs[string(a.Kind())] = a.String()
	}
	return h.Encoder.Encode(Event{Type: "inspect", Entity: &snap, Attrs: attrs})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Event{Type: "system", Message: msg})
}

func stringOf(a domain.Attribute) string {
	if a == nil {
		return ""
	}
	return a.String()
}
