package contract

import (
	"context"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock type for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// GetCommitLog implements the GitClient interface.
func (m *MockGitClient) GetCommitLog(ctx context.Context, repoPath string, opts schema.ScanOptions) ([]byte, error) {
	ret := m.Called(ctx, repoPath, opts)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// IsInsideWorkTree implements the GitClient interface.
func (m *MockGitClient) IsInsideWorkTree(ctx context.Context, path string) (bool, error) {
	ret := m.Called(ctx, path)
	return ret.Bool(0), ret.Error(1)
}

// ListBranches implements the GitClient interface.
func (m *MockGitClient) ListBranches(ctx context.Context, repoPath string) ([]string, error) {
	ret := m.Called(ctx, repoPath)
	branches, _ := ret.Get(0).([]string)
	return branches, ret.Error(1)
}

// GetCurrentBranch implements the GitClient interface.
func (m *MockGitClient) GetCurrentBranch(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	return ret.String(0), ret.Error(1)
}
