package compliance

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cert-dashboard/internal/storage"
)

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) ListStores(ctx context.Context) ([]storage.Store, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	stores, ok := args.Get(0).([]storage.Store)
	if !ok {
		return nil, fmt.Errorf("expected []storage.Store, got %T", args.Get(0))
	}

	return stores, args.Error(1)
}

func (m *MockSnapshotRepository) GetStoreEmployees(ctx context.Context, storeID string) ([]storage.EmployeeCertification, error) {
	args := m.Called(ctx, storeID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	employees, ok := args.Get(0).([]storage.EmployeeCertification)
	if !ok {
		return nil, fmt.Errorf("expected []storage.EmployeeCertification, got %T", args.Get(0))
	}

	return employees, args.Error(1)
}

var sampleStores = []storage.Store{
	{ID: "609", DistrictManager: "Benjamin Braasch DM"},
	{ID: "1002", DistrictManager: "Benjamin Braasch DM"},
}

func TestService_StoreSummary(t *testing.T) {
	repo := new(MockSnapshotRepository)
	repo.On("ListStores", mock.Anything).Return(sampleStores, nil)
	repo.On("GetStoreEmployees", mock.Anything, "609").
		Return(employeesWith("609", days(-1), days(42), days(44), nil), nil)

	svc := NewService(repo, NewClassifier(60))

	got, err := svc.StoreSummary(context.Background(), "609")
	require.NoError(t, err)

	assert.Equal(t, "609", got.StoreID)
	assert.Equal(t, "Benjamin Braasch DM", got.DistrictManager)
	assert.Equal(t, 2, got.CriticalCount)
	assert.Equal(t, 2, got.WarningCount)
	assert.Equal(t, StatusCritical, got.Level)

	repo.AssertExpectations(t)
}

func TestService_StoreSummary_NotFound(t *testing.T) {
	repo := new(MockSnapshotRepository)
	repo.On("ListStores", mock.Anything).Return(sampleStores, nil)

	svc := NewService(repo, Classifier{})

	_, err := svc.StoreSummary(context.Background(), "9999")

	assert.ErrorIs(t, err, storage.ErrStoreNotFound)
	repo.AssertNotCalled(t, "GetStoreEmployees", mock.Anything, mock.Anything)
}

func TestService_StoreSummary_FetchFailurePropagates(t *testing.T) {
	upstream := errors.New("workbook locked")

	repo := new(MockSnapshotRepository)
	repo.On("ListStores", mock.Anything).Return(sampleStores, nil)
	repo.On("GetStoreEmployees", mock.Anything, "1002").Return(nil, upstream)

	svc := NewService(repo, Classifier{})

	got, err := svc.StoreSummary(context.Background(), "1002")

	assert.ErrorIs(t, err, upstream)
	assert.Equal(t, StoreSummary{}, got)
}

func TestService_StoreEmployees(t *testing.T) {
	repo := new(MockSnapshotRepository)
	repo.On("ListStores", mock.Anything).Return(sampleStores, nil)
	repo.On("GetStoreEmployees", mock.Anything, "609").
		Return(employeesWith("609", nil, days(75)), nil)

	svc := NewService(repo, Classifier{})

	got, err := svc.StoreEmployees(context.Background(), "609")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "NOT CERTIFIED", got[0].Label)
	assert.Equal(t, StatusGood, got[1].Status)
	assert.Equal(t, "75 DAYS LEFT", got[1].Label)
}

func TestService_Dashboard(t *testing.T) {
	repo := new(MockSnapshotRepository)
	repo.On("ListStores", mock.Anything).Return(sampleStores, nil)
	repo.On("GetStoreEmployees", mock.Anything, "609").
		Return(employeesWith("609", days(-1), days(42), days(44), nil), nil)
	repo.On("GetStoreEmployees", mock.Anything, "1002").
		Return(employeesWith("1002", days(100), days(200)), nil)

	svc := NewService(repo, Classifier{})

	got, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	require.Len(t, got.Stores, 2)
	assert.Equal(t, "609", got.Stores[0].StoreID)
	assert.Equal(t, "1002", got.Stores[1].StoreID)

	assert.Equal(t, 2, got.Franchise.TotalStores)
	assert.Equal(t, 6, got.Franchise.TotalEmployees)
	assert.Equal(t, 33, got.Franchise.OverallCompliance)
	assert.Equal(t, 1, got.Franchise.CriticalStoreCount)

	repo.AssertExpectations(t)
}

func TestService_Dashboard_NoPartialSummary(t *testing.T) {
	upstream := errors.New("connection reset")

	repo := new(MockSnapshotRepository)
	repo.On("ListStores", mock.Anything).Return(sampleStores, nil)
	repo.On("GetStoreEmployees", mock.Anything, "609").
		Return(employeesWith("609", days(100)), nil).Maybe()
	repo.On("GetStoreEmployees", mock.Anything, "1002").Return(nil, upstream)

	svc := NewService(repo, Classifier{})

	got, err := svc.Dashboard(context.Background())

	assert.ErrorIs(t, err, upstream)
	assert.Equal(t, Dashboard{}, got)
}

func TestService_Dashboard_ListFailure(t *testing.T) {
	repo := new(MockSnapshotRepository)
	repo.On("ListStores", mock.Anything).Return(nil, assert.AnError)

	svc := NewService(repo, Classifier{})

	_, err := svc.Dashboard(context.Background())

	assert.ErrorIs(t, err, assert.AnError)
}

func TestService_Dashboard_NoStores(t *testing.T) {
	repo := new(MockSnapshotRepository)
	repo.On("ListStores", mock.Anything).Return([]storage.Store{}, nil)

	svc := NewService(repo, Classifier{})

	got, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Empty(t, got.Stores)
	assert.Equal(t, 100, got.Franchise.OverallCompliance)
}

func TestService_Attention(t *testing.T) {
	repo := new(MockSnapshotRepository)
	repo.On("ListStores", mock.Anything).Return(sampleStores, nil)
	repo.On("GetStoreEmployees", mock.Anything, "609").Return([]storage.EmployeeCertification{
		{Name: "CENDEJAS, DEANNA", StoreID: "609", DaysUntilExpiry: nil},
		{Name: "MORALES, ANDY", StoreID: "609", DaysUntilExpiry: days(-1)},
		{Name: "CUGUA, MYNOR", StoreID: "609", DaysUntilExpiry: days(42)},
		{Name: "LEE, SAM", StoreID: "609", DaysUntilExpiry: days(-30)},
	}, nil)
	repo.On("GetStoreEmployees", mock.Anything, "1002").Return([]storage.EmployeeCertification{
		{Name: "HERNANDEZ, BRYAN", StoreID: "1002", DaysUntilExpiry: days(0)},
	}, nil)

	svc := NewService(repo, Classifier{})

	got, err := svc.Attention(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "LEE, SAM", got[0].Name)
	assert.Equal(t, "MORALES, ANDY", got[1].Name)
	assert.Equal(t, "CENDEJAS, DEANNA", got[2].Name)
	assert.Equal(t, "NOT CERTIFIED", got[2].Label)
	assert.Equal(t, "HERNANDEZ, BRYAN", got[3].Name)
	assert.Equal(t, "EXPIRED", got[3].Label)
}

func TestService_Report_SingleFetch(t *testing.T) {
	repo := new(MockSnapshotRepository)
	repo.On("ListStores", mock.Anything).Return(sampleStores, nil).Once()
	repo.On("GetStoreEmployees", mock.Anything, "609").
		Return(employeesWith("609", days(-1), nil, days(42), days(90)), nil).Once()
	repo.On("GetStoreEmployees", mock.Anything, "1002").
		Return(employeesWith("1002", days(100), days(0)), nil).Once()

	svc := NewService(repo, Classifier{})

	report, err := svc.Report(context.Background())
	require.NoError(t, err)

	d := report.Dashboard
	require.Len(t, d.Stores, 2)
	assert.Equal(t, 6, d.Franchise.TotalEmployees)
	assert.Equal(t, 3, d.Franchise.CriticalEmployeeCount)
	assert.Equal(t, 2, d.Franchise.CriticalStoreCount)

	require.Len(t, report.Attention, d.Franchise.CriticalEmployeeCount)
	assert.Equal(t, "609", report.Attention[0].StoreID)
	assert.Equal(t, StatusCritical, report.Attention[0].Status)
	assert.Equal(t, StatusMissing, report.Attention[1].Status)
	assert.Equal(t, "1002", report.Attention[2].StoreID)

	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "ListStores", 1)
	repo.AssertNumberOfCalls(t, "GetStoreEmployees", 2)
}

func TestService_Report_FetchFailure(t *testing.T) {
	repo := new(MockSnapshotRepository)
	repo.On("ListStores", mock.Anything).Return(sampleStores, nil)
	repo.On("GetStoreEmployees", mock.Anything, "609").Return(employeesWith("609", days(10)), nil).Maybe()
	repo.On("GetStoreEmployees", mock.Anything, "1002").Return(nil, assert.AnError)

	report, err := NewService(repo, Classifier{}).Report(context.Background())

	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, report.Dashboard.Stores)
	assert.Nil(t, report.Attention)
}

func TestService_ConcurrentCalls(t *testing.T) {
	repo := new(MockSnapshotRepository)
	repo.On("ListStores", mock.Anything).Return(sampleStores, nil)
	repo.On("GetStoreEmployees", mock.Anything, "609").Return(employeesWith("609", days(10)), nil)
	repo.On("GetStoreEmployees", mock.Anything, "1002").Return(employeesWith("1002", days(100)), nil)

	svc := NewService(repo, Classifier{})

	results := make(chan Dashboard, 8)
	for i := 0; i < 8; i++ {
		go func() {
			d, err := svc.Dashboard(context.Background())
			assert.NoError(t, err)
			results <- d
		}()
	}

	for i := 0; i < 8; i++ {
		d := <-results
		assert.Equal(t, 50, d.Franchise.OverallCompliance)
		assert.Equal(t, 1, d.Franchise.WarningStoreCount)
	}
}
