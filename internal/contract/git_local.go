package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/schema"
)

// Framing bytes of the commit log stream.
const (
	RecordMarker   = "\x1e"
	FieldSeparator = "\x1f"
)

// LogPrettyFormat emits one marker-framed header per commit: hash, author name,
// author email, author date and subject.
const LogPrettyFormat = "--pretty=format:" + RecordMarker +
	"%H" + FieldSeparator + "%an" + FieldSeparator + "%ae" + FieldSeparator + "%ad" + FieldSeparator + "%s"

// DefaultGitTimeout bounds a single git invocation.
const DefaultGitTimeout = 5 * time.Minute

// BuildLogArgs returns the git log arguments for the given scan options.
func BuildLogArgs(opts schema.ScanOptions) []string {
	args := []string{"log"}
	if !opts.IncludeMerges {
		args = append(args, "--no-merges")
	}
	if opts.AllBranches {
		args = append(args, "--all")
	}
	args = append(args, "--date=iso-strict", LogPrettyFormat, "--numstat", "--no-color")
	if !opts.AllBranches && opts.Branch != "" {
		args = append(args, "--end-of-options", opts.Branch)
	}
	return args
}

// ValidateBranch rejects branch names git would read as an option.
func ValidateBranch(branch string) error {
	if strings.HasPrefix(branch, "-") {
		return fmt.Errorf("invalid branch %q: must not start with '-'", branch)
	}
	return nil
}

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct {
	Timeout time.Duration
}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
// A non-positive timeout falls back to DefaultGitTimeout.
func NewLocalGitClient(timeout time.Duration) *LocalGitClient {
	if timeout <= 0 {
		timeout = DefaultGitTimeout
	}
	return &LocalGitClient{Timeout: timeout}
}

// Run executes a git command against repoPath and returns its stdout.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultGitTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, &RepositoryError{Path: repoPath, Op: "git " + args[0], Detail: "timed out after " + timeout.String(), Err: ctx.Err()}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, &RepositoryError{Path: repoPath, Op: "git " + args[0], Detail: stderr, Err: err}
	}
	return nil, &RepositoryError{Path: repoPath, Op: "git " + args[0], Detail: "ensure Git is installed and available on your PATH", Err: err}
}

// noCommitsYet is how git log reports an unborn HEAD.
const noCommitsYet = "does not have any commits yet"

// GetCommitLog implements the GitClient interface.
// An unborn HEAD yields an empty log.
func (c *LocalGitClient) GetCommitLog(ctx context.Context, repoPath string, opts schema.ScanOptions) ([]byte, error) {
	if err := ValidateBranch(opts.Branch); err != nil {
		return nil, &RepositoryError{Path: repoPath, Op: "git log", Detail: opts.Branch, Err: err}
	}
	out, err := c.Run(ctx, repoPath, BuildLogArgs(opts)...)
	var repoErr *RepositoryError
	if err != nil && opts.Branch == "" && errors.As(err, &repoErr) && strings.Contains(repoErr.Detail, noCommitsYet) {
		return []byte{}, nil
	}
	return out, err
}

// IsInsideWorkTree implements the GitClient interface.
// Any failure is reported as false without an error.
func (c *LocalGitClient) IsInsideWorkTree(ctx context.Context, path string) (bool, error) {
	out, err := c.Run(ctx, path, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return false, nil
	}
	return strings.TrimSpace(string(out)) == "true", nil
}

// ListBranches implements the GitClient interface.
func (c *LocalGitClient) ListBranches(ctx context.Context, repoPath string) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "for-each-ref", "--format=%(refname:short)", "refs/heads")
	if err != nil {
		return []string{}, nil
	}
	branches := []string{}
	for line := range strings.SplitSeq(string(out), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			branches = append(branches, name)
		}
	}
	return branches, nil
}

// GetCurrentBranch implements the GitClient interface.
func (c *LocalGitClient) GetCurrentBranch(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", nil
	}
	return strings.TrimSpace(string(out)), nil
}
