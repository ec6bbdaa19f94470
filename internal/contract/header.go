package contract

import (
	"fmt"
	"io"
	"path/filepath"
	"time"
)

// LogScanHeader prints a concise, 2-line header describing what is being scanned.
func LogScanHeader(w io.Writer, cfg *Config) {
	repoName := filepath.Base(cfg.RepoPath)
	if repoName == "" || repoName == "." {
		repoName = "current"
	}
	_, _ = fmt.Fprintf(w, "🔎 Repo: %s (Ref: %s)\n", repoName, cfg.Scan.BranchLabel())

	f := cfg.Filter
	switch {
	case f.Months > 0:
		_, _ = fmt.Fprintf(w, "📅 Range: last %d months\n", f.Months)
	case !f.Start.IsZero() || !f.End.IsZero():
		_, _ = fmt.Fprintf(w, "📅 Range: %s → %s\n", formatBound(f.Start, "start"), formatBound(f.End, "now"))
	default:
		_, _ = fmt.Fprintln(w, "📅 Range: full history")
	}
}

func formatBound(t time.Time, fallback string) string {
	if t.IsZero() {
		return fallback
	}
	return t.Format(DateFormat)
}
