package printer

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Palette (basic ANSI, so it works on 16 color terminals)
var (
	ColorKey    = lipgloss.Color("4") // Blue
	ColorString = lipgloss.Color("2") // Green
	ColorNumber = lipgloss.Color("3") // Yellow
	ColorBool   = lipgloss.Color("5") // Magenta
	ColorNull   = lipgloss.Color("8") // Gray
)

// Theme paints each kind of JSON token.
type Theme struct {
	Key    func(string) string
	String func(string) string
	Number func(string) string
	Bool   func(string) string
	Null   func(string) string
}

func plain(s string) string { return s }

// PlainTheme leaves every token unstyled.
func PlainTheme() Theme {
	return Theme{Key: plain, String: plain, Number: plain, Bool: plain, Null: plain}
}

// ColorTheme styles tokens with ANSI colors rendered for w, regardless of
// whether w is a terminal.
func ColorTheme(w io.Writer) Theme {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI)

	style := func(c lipgloss.Color) func(string) string {
		return r.NewStyle().Foreground(c).Render
	}
	return Theme{
		Key:    style(ColorKey),
		String: style(ColorString),
		Number: style(ColorNumber),
		Bool:   style(ColorBool),
		Null:   style(ColorNull),
	}
}

// DetectColor reports whether output to f should be colored: f must be a
// terminal, NO_COLOR must be unset and TERM must not be "dumb".
func DetectColor(f *os.File) bool {
	// NO_COLOR convention: https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}
