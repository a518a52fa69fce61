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
	{" _            _   _    _ _   ", "#818cf8"},
	{"| |_ _____  _| |_| | _(_) |_ ", "#a78bfa"},
	{"| __/ _ \\ \\/ / __| |/ / | __|", "#c084fc"},
	{"| ||  __/>  <| |_|   <| | |_ ", "#e879f9"},
	{" \\__\\___/_/\\_\\\\__|_|\\_\\_|\\__|", "#f472b6"},
}

// PrintBanner writes the textkit ASCII banner followed by the version.
// Colors follow the terminal's detected profile.
func PrintBanner(w io.Writer, version string) {
	printBanner(w, termenv.ColorProfile(), version)
}

func printBanner(w io.Writer, p termenv.Profile, version string) {
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, p.String("  v"+version).Foreground(p.Color("#fb7185")))
	}
	fmt.Fprintln(w)
}
