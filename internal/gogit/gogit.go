// Package gogit reads commit history in-process with go-git, without a git binary.
package gogit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// Client implements contract.GitClient on top of go-git.
// It emits the same marker-framed stream as the git CLI.
type Client struct {
	Timeout time.Duration
}

var _ contract.GitClient = &Client{} // Compile-time check

// NewClient creates a go-git backed client. A non-positive timeout falls back
// to contract.DefaultGitTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = contract.DefaultGitTimeout
	}
	return &Client{Timeout: timeout}
}

func open(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
}

// GetCommitLog implements the contract.GitClient interface.
func (c *Client) GetCommitLog(ctx context.Context, repoPath string, opts schema.ScanOptions) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	repo, err := open(repoPath)
	if err != nil {
		return nil, &contract.RepositoryError{Path: repoPath, Op: "open", Err: err}
	}

	logOpts := &git.LogOptions{All: opts.AllBranches}
	if !opts.AllBranches && opts.Branch != "" {
		hash, err := repo.ResolveRevision(plumbing.Revision(opts.Branch))
		if err != nil {
			return nil, &contract.RepositoryError{Path: repoPath, Op: "resolve", Detail: opts.Branch, Err: err}
		}
		logOpts.From = *hash
	}

	iter, err := repo.Log(logOpts)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// Unborn HEAD: no commits yet.
		return []byte{}, nil
	}
	if err != nil {
		return nil, &contract.RepositoryError{Path: repoPath, Op: "log", Err: err}
	}
	defer iter.Close()

	var buf bytes.Buffer
	err = iter.ForEach(func(commit *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !opts.IncludeMerges && commit.NumParents() > 1 {
			return nil
		}
		writeHeader(&buf, commit)
		if commit.NumParents() > 1 {
			return nil
		}
		return writeNumstat(ctx, &buf, commit)
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &contract.RepositoryError{Path: repoPath, Op: "log", Detail: "timed out after " + c.Timeout.String(), Err: err}
		}
		return nil, &contract.RepositoryError{Path: repoPath, Op: "log", Err: err}
	}
	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, commit *object.Commit) {
	subject, _, _ := strings.Cut(commit.Message, "\n")
	if buf.Len() > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString(contract.RecordMarker)
	buf.WriteString(strings.Join([]string{
		commit.Hash.String(),
		commit.Author.Name,
		commit.Author.Email,
		commit.Author.When.Format(time.RFC3339),
		strings.TrimSpace(subject),
	}, contract.FieldSeparator))
}

// writeNumstat diffs the commit against its first parent, or the empty tree for a root commit.
func writeNumstat(ctx context.Context, buf *bytes.Buffer, commit *object.Commit) error {
	tree, err := commit.Tree()
	if err != nil {
		return err
	}
	parentTree := &object.Tree{}
	if commit.NumParents() != 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return err
		}
		if parentTree, err = parent.Tree(); err != nil {
			return err
		}
	}

	patch, err := parentTree.PatchContext(ctx, tree)
	if err != nil {
		return err
	}

	first := true
	for _, fp := range patch.FilePatches() {
		line, ok := numstatLine(fp)
		if !ok {
			continue
		}
		if first {
			buf.WriteString("\n")
			first = false
		}
		buf.WriteString("\n")
		buf.WriteString(line)
	}
	return nil
}

// numstatLine renders one file patch as "added<TAB>deleted<TAB>path".
// Line counting matches go-git's own file stats.
func numstatLine(fp fdiff.FilePatch) (string, bool) {
	from, to := fp.Files()
	var path string
	switch {
	case to != nil:
		path = to.Path()
	case from != nil:
		path = from.Path()
	default:
		return "", false
	}
	if fp.IsBinary() {
		return "-\t-\t" + path, true
	}

	chunks := fp.Chunks()
	if len(chunks) == 0 {
		return "", false
	}
	var added, deleted int
	for _, chunk := range chunks {
		s := chunk.Content()
		if len(s) == 0 {
			continue
		}
		n := strings.Count(s, "\n")
		if s[len(s)-1] != '\n' {
			n++
		}
		switch chunk.Type() {
		case fdiff.Add:
			added += n
		case fdiff.Delete:
			deleted += n
		}
	}
	return fmt.Sprintf("%d\t%d\t%s", added, deleted, path), true
}

// IsInsideWorkTree implements the contract.GitClient interface.
func (c *Client) IsInsideWorkTree(_ context.Context, path string) (bool, error) {
	repo, err := open(path)
	if err != nil {
		return false, nil
	}
	if _, err := repo.Worktree(); err != nil {
		return false, nil
	}
	return true, nil
}

// ListBranches implements the contract.GitClient interface.
func (c *Client) ListBranches(_ context.Context, repoPath string) ([]string, error) {
	branches := []string{}
	repo, err := open(repoPath)
	if err != nil {
		return branches, nil
	}
	iter, err := repo.Branches()
	if err != nil {
		return branches, nil
	}
	_ = iter.ForEach(func(ref *plumbing.Reference) error {
		branches = append(branches, ref.Name().Short())
		return nil
	})
	return branches, nil
}

// GetCurrentBranch implements the contract.GitClient interface.
// A detached HEAD reports "HEAD", like git rev-parse --abbrev-ref.
func (c *Client) GetCurrentBranch(_ context.Context, repoPath string) (string, error) {
	repo, err := open(repoPath)
	if err != nil {
		return "", nil
	}
	head, err := repo.Head()
	if err != nil {
		return "", nil
	}
	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}
	return plumbing.HEAD.String(), nil
}
