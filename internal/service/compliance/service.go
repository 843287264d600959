package compliance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"cert-dashboard/internal/metrics"
	"cert-dashboard/internal/storage"
)

// Dashboard is the franchise view together with the store summaries it was built from.
type Dashboard struct {
	Franchise FranchiseSummary `json:"franchise"`
	Stores    []StoreSummary   `json:"stores"`
}

// Service pulls snapshots from a repository and runs them through the classifier.
// It neither caches nor retries; repository errors are returned wrapped with %w.
type Service struct {
	repo       storage.SnapshotRepository
	classifier Classifier
}

func NewService(repo storage.SnapshotRepository, classifier Classifier) *Service {
	return &Service{repo: repo, classifier: classifier}
}

func (s *Service) Classifier() Classifier {
	return s.classifier
}

func (s *Service) StoreSummary(ctx context.Context, storeID string) (StoreSummary, error) {
	const op = "service.compliance.StoreSummary"

	store, err := s.findStore(ctx, storeID)
	if err != nil {
		return StoreSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	employees, err := s.fetchEmployees(ctx, store.ID)
	if err != nil {
		return StoreSummary{}, fmt.Errorf("%s: store %s: %w", op, store.ID, err)
	}

	return s.summarize(store, employees), nil
}

func (s *Service) StoreEmployees(ctx context.Context, storeID string) ([]ClassifiedEmployee, error) {
	const op = "service.compliance.StoreEmployees"

	store, err := s.findStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	employees, err := s.fetchEmployees(ctx, store.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: store %s: %w", op, store.ID, err)
	}

	return s.classifier.ClassifyEmployees(employees), nil
}

// Report is a dashboard and attention list taken from the same repository snapshot.
type Report struct {
	Dashboard Dashboard            `json:"dashboard"`
	Attention []ClassifiedEmployee `json:"attention"`
}

// Dashboard summarizes every store and the franchise. A single store that fails to
// load fails the whole call so totals are never understated.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	const op = "service.compliance.Dashboard"

	stores, perStore, err := s.fetchAll(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.dashboard(stores, perStore), nil
}

// Attention lists every critical or never-certified employee across all stores,
// grouped by store in repository order; within a store the longest expired come first
// and never-certified employees last.
func (s *Service) Attention(ctx context.Context) ([]ClassifiedEmployee, error) {
	const op = "service.compliance.Attention"

	stores, perStore, err := s.fetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.attention(stores, perStore), nil
}

// Report fetches every store once and derives both the dashboard and the attention list
// from that single fetch.
func (s *Service) Report(ctx context.Context) (Report, error) {
	const op = "service.compliance.Report"

	stores, perStore, err := s.fetchAll(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", op, err)
	}

	return Report{
		Dashboard: s.dashboard(stores, perStore),
		Attention: s.attention(stores, perStore),
	}, nil
}

func (s *Service) dashboard(stores []storage.Store, perStore [][]storage.EmployeeCertification) Dashboard {
	summaries := make([]StoreSummary, len(stores))
	for i, store := range stores {
		summaries[i] = s.summarize(store, perStore[i])
	}

	return Dashboard{
		Franchise: SummarizeFranchise(summaries),
		Stores:    summaries,
	}
}

func (s *Service) attention(stores []storage.Store, perStore [][]storage.EmployeeCertification) []ClassifiedEmployee {
	var out []ClassifiedEmployee
	for i := range stores {
		var group []ClassifiedEmployee
		for _, emp := range s.classifier.ClassifyEmployees(perStore[i]) {
			if emp.Status.NeedsAttention() {
				group = append(group, emp)
			}
		}

		sort.SliceStable(group, func(a, b int) bool {
			da, db := group[a].DaysUntilExpiry, group[b].DaysUntilExpiry
			if da == nil || db == nil {
				return da != nil && db == nil
			}
			return *da < *db
		})

		out = append(out, group...)
	}

	return out
}

func (s *Service) summarize(store storage.Store, employees []storage.EmployeeCertification) StoreSummary {
	summary := s.classifier.SummarizeStore(store, employees)
	metrics.StoreSummariesComputed.WithLabelValues(string(summary.Level)).Inc()
	return summary
}

func (s *Service) fetchAll(ctx context.Context) ([]storage.Store, [][]storage.EmployeeCertification, error) {
	stores, err := s.listStores(ctx)
	if err != nil {
		return nil, nil, err
	}

	perStore := make([][]storage.EmployeeCertification, len(stores))

	g, gCtx := errgroup.WithContext(ctx)
	for i, store := range stores {
		i, store := i, store
		g.Go(func() error {
			employees, err := s.fetchEmployees(gCtx, store.ID)
			if err != nil {
				return fmt.Errorf("store %s: %w", store.ID, err)
			}
			perStore[i] = employees
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return stores, perStore, nil
}

func (s *Service) findStore(ctx context.Context, storeID string) (storage.Store, error) {
	stores, err := s.listStores(ctx)
	if err != nil {
		return storage.Store{}, err
	}

	for _, store := range stores {
		if store.ID == storeID {
			return store, nil
		}
	}

	return storage.Store{}, fmt.Errorf("store %s: %w", storeID, storage.ErrStoreNotFound)
}

func (s *Service) listStores(ctx context.Context) ([]storage.Store, error) {
	start := time.Now()
	stores, err := s.repo.ListStores(ctx)
	observe("list_stores", start, err)
	return stores, err
}

func (s *Service) fetchEmployees(ctx context.Context, storeID string) ([]storage.EmployeeCertification, error) {
	start := time.Now()
	employees, err := s.repo.GetStoreEmployees(ctx, storeID)
	observe("get_store_employees", start, err)
	return employees, err
}

func observe(operation string, start time.Time, err error) {
	metrics.SnapshotFetchDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, storage.ErrStoreNotFound) {
		metrics.SnapshotFetchFailures.WithLabelValues(operation).Inc()
	}
}
