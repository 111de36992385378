// Package mocks provides testify mocks for the adapter interfaces.
package mocks

import (
	"context"
	"os"

	"github.com/stretchr/testify/mock"

	"reimport.dev/pkg/reimport/internal/adapter"
	m "reimport.dev/pkg/reimport/internal/model"
)

// MockSourceFSAdapter is a mock implementation of adapter.SourceFSAdapter.
type MockSourceFSAdapter struct {
	mock.Mock
}

var _ adapter.SourceFSAdapter = (*MockSourceFSAdapter)(nil)

// Scan provides a mock function.
func (_m *MockSourceFSAdapter) Scan(ctx context.Context, root m.Path, extensions []string, exclude ...string) (adapter.ScanResult, error) {
	ret := _m.Called(ctx, root, extensions, exclude)

	result, _ := ret.Get(0).(adapter.ScanResult)

	return result, ret.Error(1)
}

// ReadFile provides a mock function.
func (_m *MockSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	ret := _m.Called(ctx, path)

	data, _ := ret.Get(0).([]byte)

	return data, ret.Error(1)
}

// FileInfo provides a mock function.
func (_m *MockSourceFSAdapter) FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error) {
	ret := _m.Called(ctx, path)

	info, _ := ret.Get(0).(os.FileInfo)

	return info, ret.Error(1)
}

// Exists provides a mock function.
func (_m *MockSourceFSAdapter) Exists(ctx context.Context, path m.Path) (bool, error) {
	ret := _m.Called(ctx, path)

	return ret.Bool(0), ret.Error(1)
}

// Rename provides a mock function.
func (_m *MockSourceFSAdapter) Rename(ctx context.Context, from, to m.Path) error {
	ret := _m.Called(ctx, from, to)

	return ret.Error(0)
}

// WriteFileAtomic provides a mock function.
func (_m *MockSourceFSAdapter) WriteFileAtomic(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error {
	ret := _m.Called(ctx, path, content, perm)

	return ret.Error(0)
}

// RelPath provides a mock function.
func (_m *MockSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	ret := _m.Called(base, target)

	rel, _ := ret.Get(0).(m.Path)

	return rel, ret.Error(1)
}

// MockReportStore is a mock implementation of adapter.ReportStore.
type MockReportStore struct {
	mock.Mock
}

var _ adapter.ReportStore = (*MockReportStore)(nil)

// SaveReport provides a mock function.
func (_m *MockReportStore) SaveReport(path m.Path, report m.RunReport) error {
	ret := _m.Called(path, report)

	return ret.Error(0)
}

// LoadReport provides a mock function.
func (_m *MockReportStore) LoadReport(path m.Path) (m.RunReport, error) {
	ret := _m.Called(path)

	report, _ := ret.Get(0).(m.RunReport)

	return report, ret.Error(1)
}
