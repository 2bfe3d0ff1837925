package contract

import (
	"context"
	"time"

	"github.com/sprintlens/sprintlens/schema"
	"github.com/stretchr/testify/mock"
)

// MockJiraClient is a testify mock for the JiraClient interface.
type MockJiraClient struct {
	mock.Mock
}

var _ JiraClient = &MockJiraClient{} // Compile-time check

// SearchIssues implements the JiraClient interface.
func (m *MockJiraClient) SearchIssues(ctx context.Context, jql string, maxResults int) ([]schema.Issue, error) {
	ret := m.Called(ctx, jql, maxResults)
	issues, _ := ret.Get(0).([]schema.Issue)
	return issues, ret.Error(1)
}

// IssueDetail implements the JiraClient interface.
func (m *MockJiraClient) IssueDetail(ctx context.Context, key string, expandChangelog bool) (*schema.Issue, error) {
	ret := m.Called(ctx, key, expandChangelog)
	issue, _ := ret.Get(0).(*schema.Issue)
	return issue, ret.Error(1)
}

// FieldTable implements the JiraClient interface.
func (m *MockJiraClient) FieldTable(ctx context.Context) (map[string]string, error) {
	ret := m.Called(ctx)
	table, _ := ret.Get(0).(map[string]string)
	return table, ret.Error(1)
}

// MockSnapshotStore is a testify mock for the SnapshotStore interface.
type MockSnapshotStore struct {
	mock.Mock
}

var _ SnapshotStore = &MockSnapshotStore{} // Compile-time check

// Record implements the SnapshotStore interface.
func (m *MockSnapshotStore) Record(ctx context.Context, snap schema.VelocitySnapshot) error {
	ret := m.Called(ctx, snap)
	return ret.Error(0)
}

// Latest implements the SnapshotStore interface.
func (m *MockSnapshotStore) Latest(ctx context.Context, sprint string, before time.Time) (*schema.VelocitySnapshot, error) {
	ret := m.Called(ctx, sprint, before)
	snap, _ := ret.Get(0).(*schema.VelocitySnapshot)
	return snap, ret.Error(1)
}

// List implements the SnapshotStore interface.
func (m *MockSnapshotStore) List(ctx context.Context, sprint string, limit int) ([]schema.VelocitySnapshot, error) {
	ret := m.Called(ctx, sprint, limit)
	snaps, _ := ret.Get(0).([]schema.VelocitySnapshot)
	return snaps, ret.Error(1)
}

// Status implements the SnapshotStore interface.
func (m *MockSnapshotStore) Status(ctx context.Context) (SnapshotStatus, error) {
	ret := m.Called(ctx)
	status, _ := ret.Get(0).(SnapshotStatus)
	return status, ret.Error(1)
}

// Clear implements the SnapshotStore interface.
func (m *MockSnapshotStore) Clear(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}

// Close implements the SnapshotStore interface.
func (m *MockSnapshotStore) Close() error {
	ret := m.Called()
	return ret.Error(0)
}
