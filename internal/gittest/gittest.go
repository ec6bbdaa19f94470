// Package gittest builds throwaway git repositories for tests.
package gittest

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Repo is a scratch repository rooted in a test temp dir.
type Repo struct {
	t   testing.TB
	Dir string
}

// Change is one file write in a scripted commit.
type Change struct {
	Path    string
	Content string
}

// SkipIfGitNotAvailable skips the test if git binary is not found in PATH.
func SkipIfGitNotAvailable(t testing.TB) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// NewRepo initializes an empty repository on branch main.
func NewRepo(t testing.TB) *Repo {
	t.Helper()
	SkipIfGitNotAvailable(t)
	r := &Repo{t: t, Dir: t.TempDir()}
	r.Git("init", "-q", "-b", "main")
	r.Git("config", "user.name", "Test Runner")
	r.Git("config", "user.email", "runner@example.com")
	r.Git("config", "commit.gpgsign", "false")
	return r
}

// Git runs a git command in the repository and returns trimmed stdout.
func (r *Repo) Git(args ...string) string {
	r.t.Helper()
	return r.gitEnv(nil, args...)
}

func (r *Repo) gitEnv(env []string, args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", append([]string{"-C", r.Dir}, args...)...)
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// Commit writes the changes and records a commit with a fixed author and date.
// It returns the new commit hash.
func (r *Repo) Commit(name, email string, when time.Time, subject string, changes ...Change) string {
	r.t.Helper()
	for _, c := range changes {
		full := filepath.Join(r.Dir, filepath.FromSlash(c.Path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			r.t.Fatalf("mkdir %s: %v", c.Path, err)
		}
		if err := os.WriteFile(full, []byte(c.Content), 0o644); err != nil {
			r.t.Fatalf("write %s: %v", c.Path, err)
		}
		r.Git("add", c.Path)
	}
	stamp := when.Format(time.RFC3339)
	r.gitEnv([]string{
		"GIT_AUTHOR_NAME=" + name,
		"GIT_AUTHOR_EMAIL=" + email,
		"GIT_AUTHOR_DATE=" + stamp,
		"GIT_COMMITTER_DATE=" + stamp,
	}, "commit", "-q", "--allow-empty", "-m", subject)
	return r.Git("rev-parse", "HEAD")
}

// Lines returns n newline-terminated lines of filler text.
func Lines(n int) string {
	var b strings.Builder
	for i := range n {
		b.WriteString("line ")
		b.WriteString(strings.Repeat("x", i%7))
		b.WriteString("\n")
	}
	return b.String()
}
