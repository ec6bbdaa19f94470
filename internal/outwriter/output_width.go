package outwriter

import (
	"os"

	"github.com/huangsam/gitpulse/internal/contract"
	"golang.org/x/term"
)

// getTerminalWidth returns the configured width override or the detected terminal width.
func getTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detected
}

// getMaxLabelWidth calculates how wide a free-text column may be once the
// fixed columns of a table take their share.
func getMaxLabelWidth(cfg *contract.Config, fixedWidth int) int {
	available := getTerminalWidth(cfg) - fixedWidth - 20 // borders, separators, padding
	if available < 12 {
		return 12
	}
	if available > 60 {
		return 60
	}
	return available
}
