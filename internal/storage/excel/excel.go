// Package excel reads certification snapshots from the workbooks dropped into the data
// folder: one MDC report per store and an optional franchise workbook with store metadata.
package excel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"cert-dashboard/internal/service/compliance"
	"cert-dashboard/internal/storage"
)

var ErrReportMissing = errors.New("no MDC report for store")

var (
	storeNumberRe = regexp.MustCompile(`(\d{3,4})`)
	storeIDRe     = regexp.MustCompile(`^\d{3,4}$`)
)

var (
	nameHeaders     = []string{"name", "employee", "employee name"}
	positionHeaders = []string{"position", "role", "job title"}
	daysHeaders     = []string{"days until expiry", "days left", "days"}
	storeHeaders    = []string{"store", "store number", "store #"}
	managerHeaders  = []string{"district manager", "dm"}
)

type Storage struct {
	dir string
}

func New(dir string) (*Storage, error) {
	const op = "storage.excel.New"

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %s is not a directory", op, dir)
	}

	return &Storage{dir: dir}, nil
}

// catalog is the set of workbooks currently in the data folder.
type catalog struct {
	franchise string
	reports   map[string]string
}

// scan keeps only the lexically latest file per store, which is the newest one since
// synced files carry a YYYY-MM-DD suffix.
func (s *Storage) scan() (catalog, error) {
	const op = "storage.excel.scan"

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	cat := catalog{reports: make(map[string]string)}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".xlsx") || strings.HasPrefix(name, "~$") {
			continue
		}

		switch {
		case strings.Contains(name, "CertPercent") || strings.Contains(name, "Franchise"):
			if name > cat.franchise {
				cat.franchise = name
			}
		case strings.Contains(name, "MDCReport"):
			m := storeNumberRe.FindStringSubmatch(name)
			if m == nil {
				continue
			}
			if name > cat.reports[m[1]] {
				cat.reports[m[1]] = name
			}
		}
	}

	return cat, nil
}

func (s *Storage) ListStores(ctx context.Context) ([]storage.Store, error) {
	const op = "storage.excel.ListStores"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cat, err := s.scan()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var stores []storage.Store
	seen := make(map[string]bool)

	if cat.franchise != "" {
		stores, err = s.readFranchise(cat.franchise)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		for _, st := range stores {
			seen[st.ID] = true
		}
	}

	var extra []string
	for id := range cat.reports {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return lessStoreID(extra[i], extra[j]) })

	for _, id := range extra {
		stores = append(stores, storage.Store{ID: id})
	}

	return stores, nil
}

func (s *Storage) GetStoreEmployees(ctx context.Context, storeID string) ([]storage.EmployeeCertification, error) {
	const op = "storage.excel.GetStoreEmployees"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	storeID = strings.TrimSpace(storeID)

	cat, err := s.scan()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	file, ok := cat.reports[storeID]
	if !ok {
		stores, err := s.ListStores(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		for _, st := range stores {
			if st.ID == storeID {
				return nil, fmt.Errorf("%s: store %s: %w", op, storeID, ErrReportMissing)
			}
		}
		return nil, fmt.Errorf("%s: store %s: %w", op, storeID, storage.ErrStoreNotFound)
	}

	employees, err := s.readReport(file, storeID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return employees, nil
}

func (s *Storage) readFranchise(name string) ([]storage.Store, error) {
	rows, err := s.firstSheetRows(name)
	if err != nil {
		return nil, err
	}

	headerIdx, cols := findHeader(rows, storeHeaders, managerHeaders)
	if headerIdx < 0 {
		return nil, fmt.Errorf("%s: no store header row", name)
	}

	var stores []storage.Store
	seen := make(map[string]bool)
	for _, row := range rows[headerIdx+1:] {
		// totals and footer rows carry no store number
		id := cell(row, cols[0])
		if !storeIDRe.MatchString(id) || seen[id] {
			continue
		}
		seen[id] = true

		stores = append(stores, storage.Store{
			ID:              id,
			DistrictManager: cell(row, cols[1]),
		})
	}

	return stores, nil
}

func (s *Storage) readReport(name, storeID string) ([]storage.EmployeeCertification, error) {
	rows, err := s.firstSheetRows(name)
	if err != nil {
		return nil, err
	}

	headerIdx, cols := findHeader(rows, nameHeaders, positionHeaders, daysHeaders)
	if headerIdx < 0 || cols[2] < 0 {
		return nil, fmt.Errorf("%s: no employee header row with a days column", name)
	}

	employees := make([]storage.EmployeeCertification, 0, len(rows)-headerIdx-1)
	for i, row := range rows[headerIdx+1:] {
		empName := cell(row, cols[0])
		if empName == "" {
			continue
		}

		days, err := compliance.ParseDaysUntilExpiry(cell(row, cols[2]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", name, headerIdx+i+2, err)
		}

		employees = append(employees, storage.EmployeeCertification{
			Name:            empName,
			StoreID:         storeID,
			Position:        cell(row, cols[1]),
			DaysUntilExpiry: days,
		})
	}

	return employees, nil
}

func (s *Storage) firstSheetRows(name string) ([][]string, error) {
	f, err := excelize.OpenFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", name)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return rows, nil
}

// findHeader returns the first row where the first alias group matches a cell, and the
// column index of each group in that row (-1 when absent).
func findHeader(rows [][]string, groups ...[]string) (int, []int) {
	for i, row := range rows {
		cols := make([]int, len(groups))
		for g := range cols {
			cols[g] = -1
		}

		for c, value := range row {
			key := strings.ToLower(strings.TrimSpace(value))
			for g, aliases := range groups {
				if cols[g] < 0 && slices.Contains(aliases, key) {
					cols[g] = c
				}
			}
		}

		if cols[0] >= 0 {
			return i, cols
		}
	}

	return -1, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// lessStoreID orders numeric store ids by value and everything else lexically after them.
func lessStoreID(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)

	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
