package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/gitpulse/schema"
	"github.com/mitchellh/go-homedir"
)

// Tier label constants.
const (
	CoreValue       = "Core"
	RegularValue    = "Regular"
	OccasionalValue = "Occasional"
	DriveByValue    = "Drive-by"
)

// Color variables for console output.
var (
	CoreColor       = color.New(color.FgGreen, color.Bold)
	RegularColor    = color.New(color.FgCyan, color.Bold)
	OccasionalColor = color.New(color.FgYellow)
	DriveByColor    = color.New(color.FgHiBlack)

	fatalColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow)
	infoColor  = color.New(color.FgCyan)
)

// cacheDirName is the directory under the home directory holding sqlite files.
const cacheDirName = ".cache/gitpulse"

// GetColorLabel returns a colored tier label for console output (table).
func GetColorLabel(score float64) string {
	text := schema.GetPlainLabel(score)

	switch text {
	case CoreValue:
		return CoreColor.Sprint(text)
	case RegularValue:
		return RegularColor.Sprint(text)
	case OccasionalValue:
		return OccasionalColor.Sprint(text)
	default:
		return DriveByColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output.
// An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fatalColor.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = warnColor.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs an informational message to stderr.
func LogInfo(format string, args ...any) {
	_, _ = infoColor.Fprintf(os.Stderr, format+"\n", args...)
}

// getCacheDir returns ~/.cache/gitpulse, creating it when possible.
func getCacheDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return "."
	}
	dir := filepath.Join(home, cacheDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "."
	}
	return dir
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	return filepath.Join(getCacheDir(), "cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for scan history.
func GetHistoryDBFilePath() string {
	return filepath.Join(getCacheDir(), "history.db")
}

// TruncateLabel shortens a label to maxWidth runes with an ellipsis suffix.
// Widths of 3 or less leave the label untouched.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
