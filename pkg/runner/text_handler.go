package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/cascade/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// TextHandler writes a human readable log of the run.
type TextHandler struct {
	Writer   io.Writer
	Renderer ContentRenderer

	out         *termenv.Output
	interactive bool
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer renders inspect reports as markdown.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler writing to w (stdout when nil).
func NewTextHandler(w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Writer: w,
		out:    termenv.NewOutput(w),
	}
	if f, ok := w.(*os.File); ok {
		h.interactive = term.IsTerminal(int(f.Fd()))
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Interactive reports whether the handler writes to a terminal.
func (h *TextHandler) Interactive() bool { return h.interactive }

// Prompt writes the interactive prompt, only on a terminal.
func (h *TextHandler) Prompt() {
	if h.interactive {
		fmt.Fprint(h.Writer, h.out.String("> ").Faint())
	}
}

func (h *TextHandler) Triggered(ctx context.Context, step Step, batch domain.Batch) error {
	if batch.Empty() {
		_, err := fmt.Fprintf(h.Writer, "%s %s\n", h.out.String("·").Faint(), h.out.String(step.String()+": nothing to do").Faint())
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n", h.out.String("▶").Foreground(h.out.Color("4")), step, h.out.String("["+shortID(batch.ID)+"]").Faint())
	for _, d := range batch.Descriptors {
		fmt.Fprintf(&b, "    %s\n", d)
	}
	_, err := io.WriteString(h.Writer, b.String())
	return err
}

func (h *TextHandler) Ticked(ctx context.Context, report domain.TickReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s tick %d: %d batch(es), %d applied, %d dropped\n",
		h.out.String("⏱").Foreground(h.out.Color("5")), report.Tick, report.Batches, report.Applied(), report.Dropped())
	for _, res := range report.Results {
		mark := h.out.String("✓").Foreground(h.out.Color("2"))
		if !res.Applied() {
			mark = h.out.String("✗").Foreground(h.out.Color("1"))
		}
		fmt.Fprintf(&b, "    %s %s %s = %s", mark, res.Descriptor.Target, res.Descriptor.Kind, res.Descriptor.Value)
		if !res.Applied() {
			fmt.Fprintf(&b, " (%s)", res.Status)
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(h.Writer, b.String())
	return err
}

func (h *TextHandler) Inspected(ctx context.Context, snap domain.EntitySnapshot) error {
	md := Describe(snap)
	if h.Renderer != nil {
		rendered, err := h.Renderer(md)
		if err == nil {
			md = rendered
		}
	}
	_, err := io.WriteString(h.Writer, md)
	return err
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintln(h.Writer, h.out.String(msg).Faint())
	return err
}

// Describe renders a snapshot as a markdown section.
func Describe(snap domain.EntitySnapshot) string {
	var b strings.Builder
	title := snap.ID.String()
	if snap.Name != "" {
		title = fmt.Sprintf("%s (%s)", snap.Name, snap.ID)
	}
	fmt.Fprintf(&b, "### %s\n\n", title)
	if snap.Parent != 0 {
		fmt.Fprintf(&b, "- parent: %s\n", snap.Parent)
	}
	if len(snap.Children) > 0 {
		ids := make([]string, len(snap.Children))
		for i, c := range snap.Children {
			ids[i] = c.String()
		}
		fmt.Fprintf(&b, "- children: %s\n", strings.Join(ids, ", "))
	}
	if len(snap.Groups) > 0 {
		gs := make([]string, len(snap.Groups))
		for i, g := range snap.Groups {
			gs[i] = string(g)
		}
		fmt.Fprintf(&b, "- groups: %s\n", strings.Join(gs, ", "))
	}
	if len(snap.Attributes) > 0 {
		b.WriteString("\n| attribute | value |\n|---|---|\n")
		for _, a := range snap.Attributes {
			fmt.Fprintf(&b, "| %s | %s |\n", a.Kind(), a)
		}
	}
	b.WriteString("\n")
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
