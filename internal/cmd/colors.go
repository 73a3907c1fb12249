package cmd

import (
	"os"
	"runtime"
	"strconv"

	"github.com/muesli/termenv"
)

// Escape sequences used by the one-shot commands. Empty when colors are off.
var (
	colorRed, colorGreen, colorYellow, colorCyan string
	colorDim, colorBold, colorReset              string
)

var palette = [...]struct {
	dst  *string
	code string
}{
	{&colorRed, "\033[0;31m"},
	{&colorGreen, "\033[0;32m"},
	{&colorYellow, "\033[0;33m"},
	{&colorCyan, "\033[0;36m"},
	{&colorDim, "\033[2m"},
	{&colorBold, "\033[1m"},
	{&colorReset, "\033[0m"},
}

// colorMode is set by the --color flag: auto, always or never.
var colorMode = "auto"

func init() {
	setColors(!shouldDisableColors())
}

func setColors(on bool) {
	for _, p := range palette {
		*p.dst = ""
		if on {
			*p.dst = p.code
		}
	}
}

func enableColors()  { setColors(true) }
func disableColors() { setColors(false) }

// applyColorMode resolves colorMode against the environment and stdout.
func applyColorMode() {
	switch colorMode {
	case "always":
		enableColors()
	case "never":
		disableColors()
	default:
		if shouldDisableColors() || termenv.NewOutput(os.Stdout).ColorProfile() == termenv.Ascii {
			disableColors()
		} else {
			enableColors()
		}
	}
}

// shouldDisableColors honors NO_COLOR (https://no-color.org) and TERM=dumb,
// and turns colors off on legacy Windows consoles.
func shouldDisableColors() bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return true
	}
	if runtime.GOOS != "windows" {
		return false
	}
	for _, env := range []string{"WT_SESSION", "TERM_PROGRAM", "ANSICON"} {
		if os.Getenv(env) != "" {
			return false
		}
	}
	return os.Getenv("ConEmuANSI") != "ON"
}

// terminalWidth returns the width of stdout, then $COLUMNS, then 80.
func terminalWidth() int {
	if w := getTermWidthIoctl(); w > 0 {
		return w
	}
	if v, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && v > 0 {
		return v
	}
	return 80
}
