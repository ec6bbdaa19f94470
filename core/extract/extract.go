// Package extract reads commit history out of a repository.
package extract

import (
	"context"
	"slices"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// ScanCommits reads the full history selected by opts and parses it.
// A path outside any work tree yields a RepositoryError.
func ScanCommits(ctx context.Context, client contract.GitClient, repoPath string, opts schema.ScanOptions) ([]schema.CommitRecord, error) {
	if !IsRepository(ctx, client, repoPath) {
		return nil, &contract.RepositoryError{Path: repoPath, Op: "scan", Detail: "not a git repository"}
	}
	out, err := client.GetCommitLog(ctx, repoPath, opts)
	if err != nil {
		if contract.IsRepositoryError(err) {
			return nil, err
		}
		return nil, &contract.RepositoryError{Path: repoPath, Op: "scan", Err: err}
	}
	return ParseCommitLog(out), nil
}

// IsRepository reports whether repoPath is inside a git work tree.
// Failed git calls count as false.
func IsRepository(ctx context.Context, client contract.GitClient, repoPath string) bool {
	ok, err := client.IsInsideWorkTree(ctx, repoPath)
	return err == nil && ok
}

// ListBranches returns local branch names, or an empty list outside a repository.
func ListBranches(ctx context.Context, client contract.GitClient, repoPath string) []string {
	if !IsRepository(ctx, client, repoPath) {
		return []string{}
	}
	branches, err := client.ListBranches(ctx, repoPath)
	if err != nil || branches == nil {
		return []string{}
	}
	return branches
}

// CurrentBranch returns the checked out branch name. The second value is false
// outside a repository or when git reports nothing.
func CurrentBranch(ctx context.Context, client contract.GitClient, repoPath string) (string, bool) {
	if !IsRepository(ctx, client, repoPath) {
		return "", false
	}
	name, err := client.GetCurrentBranch(ctx, repoPath)
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

// Branches lists local branches with the current one first.
func Branches(ctx context.Context, client contract.GitClient, repoPath string) []schema.BranchInfo {
	names := ListBranches(ctx, client, repoPath)
	current, _ := CurrentBranch(ctx, client, repoPath)

	infos := make([]schema.BranchInfo, 0, len(names))
	if slices.Contains(names, current) {
		infos = append(infos, schema.BranchInfo{Name: current, Current: true})
	}
	for _, name := range names {
		if name != current {
			infos = append(infos, schema.BranchInfo{Name: name})
		}
	}
	return infos
}
