package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"  _ __   __ _  ___ ___ _ __ ", "#818cf8"},
	{" | '_ \\ / _` |/ __/ _ \\ '__|", "#a78bfa"},
	{" | |_) | (_| | (_|  __/ |   ", "#c084fc"},
	{" | .__/ \\__,_|\\___\\___|_|   ", "#e879f9"},
	{" |_|                        ", "#f472b6"},
}

// PrintBanner writes the pacer banner to w using the terminal's color profile.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).ColorProfile()

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
