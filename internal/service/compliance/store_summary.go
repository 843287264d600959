package compliance

import (
	"math"

	"cert-dashboard/internal/storage"
)

// StoreSummary is a computed view over one store's employees. It holds no state of its own.
type StoreSummary struct {
	StoreID         string `json:"store_id"`
	DistrictManager string `json:"district_manager"`
	TotalEmployees  int    `json:"total_employees"`
	// CriticalCount includes never-certified employees; MissingCount is that subset.
	CriticalCount   int    `json:"critical_count"`
	MissingCount    int    `json:"missing_count"`
	WarningCount    int    `json:"warning_count"`
	GoodCount       int    `json:"good_count"`
	ComplianceScore int    `json:"compliance_score"`
	Level           Status `json:"level"`
}

// SummarizeStore classifies every employee and counts them per bucket.
// An empty store is valid and scores 100.
func (c Classifier) SummarizeStore(store storage.Store, employees []storage.EmployeeCertification) StoreSummary {
	summary := StoreSummary{
		StoreID:         store.ID,
		DistrictManager: store.DistrictManager,
		TotalEmployees:  len(employees),
	}

	for _, emp := range employees {
		switch c.Classify(emp.DaysUntilExpiry) {
		case StatusMissing:
			summary.MissingCount++
			summary.CriticalCount++
		case StatusCritical:
			summary.CriticalCount++
		case StatusWarning:
			summary.WarningCount++
		case StatusGood:
			summary.GoodCount++
		}
	}

	summary.ComplianceScore = percent(summary.GoodCount, summary.TotalEmployees)
	summary.Level = storeLevel(summary.CriticalCount, summary.WarningCount)

	return summary
}

func SummarizeStore(store storage.Store, employees []storage.EmployeeCertification) StoreSummary {
	return Classifier{}.SummarizeStore(store, employees)
}

// storeLevel escalates: one critical employee makes the whole store critical.
func storeLevel(criticalCount, warningCount int) Status {
	switch {
	case criticalCount > 0:
		return StatusCritical
	case warningCount > 0:
		return StatusWarning
	default:
		return StatusGood
	}
}

// percent rounds part/total*100 half away from zero; an empty total is 100.
func percent(part, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}
