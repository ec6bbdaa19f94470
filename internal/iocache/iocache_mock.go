package iocache

import (
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetActivityStore implements the CacheManager interface.
func (m *MockCacheManager) GetActivityStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetHistoryStore implements the CacheManager interface.
func (m *MockCacheManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginScan implements the HistoryStore interface.
func (m *MockHistoryStore) BeginScan(repoPath, branch string, startTime time.Time, configParams map[string]any) (string, error) {
	args := m.Called(repoPath, branch, startTime, configParams)
	return args.String(0), args.Error(1)
}

// EndScan implements the HistoryStore interface.
func (m *MockHistoryStore) EndScan(runID string, endTime time.Time, totalCommits int) error {
	args := m.Called(runID, endTime, totalCommits)
	return args.Error(0)
}

// RecordAuthorScores implements the HistoryStore interface.
func (m *MockHistoryStore) RecordAuthorScores(runID string, recordedAt time.Time, rows []schema.LeaderboardRow) error {
	args := m.Called(runID, recordedAt, rows)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllScanRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllScanRuns() ([]schema.ScanRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.ScanRunRecord)
	return runs, args.Error(1)
}

// GetAllAuthorScores implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllAuthorScores() ([]schema.AuthorScoreRecord, error) {
	args := m.Called()
	scores, _ := args.Get(0).([]schema.AuthorScoreRecord)
	return scores, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
