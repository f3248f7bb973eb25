package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text, color string
}{
	{"                             _      ", "#38bdf8"},
	{"  ___ __ _ ___  ___ __ _  __| | ___ ", "#22d3ee"},
	{" / __/ _` / __|/ __/ _` |/ _` |/ _ \\", "#2dd4bf"},
	{"| (_| (_| \\__ \\ (_| (_| | (_| |  __/", "#34d399"},
	{" \\___\\__,_|___/\\___\\__,_|\\__,_|\\___|", "#4ade80"},
}

// PrintBanner writes the cascade banner to w, colored when w is a terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, out.String("  v"+version).Faint())
	}
	fmt.Fprintln(w)
}
