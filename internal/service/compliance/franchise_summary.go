package compliance

type FranchiseSummary struct {
	TotalStores           int `json:"total_stores"`
	TotalEmployees        int `json:"total_employees"`
	OverallCompliance     int `json:"overall_compliance"`
	CriticalStoreCount    int `json:"critical_store_count"`
	WarningStoreCount     int `json:"warning_store_count"`
	GoodStoreCount        int `json:"good_store_count"`
	CriticalEmployeeCount int `json:"critical_employee_count"`
	WarningEmployeeCount  int `json:"warning_employee_count"`
}

// SummarizeFranchise rolls store summaries up. OverallCompliance is weighted by
// employee count, not averaged across store scores.
func SummarizeFranchise(stores []StoreSummary) FranchiseSummary {
	summary := FranchiseSummary{TotalStores: len(stores)}

	good := 0
	for _, s := range stores {
		summary.TotalEmployees += s.TotalEmployees
		summary.CriticalEmployeeCount += s.CriticalCount
		summary.WarningEmployeeCount += s.WarningCount
		good += s.GoodCount

		switch storeLevel(s.CriticalCount, s.WarningCount) {
		case StatusCritical:
			summary.CriticalStoreCount++
		case StatusWarning:
			summary.WarningStoreCount++
		default:
			summary.GoodStoreCount++
		}
	}

	summary.OverallCompliance = percent(good, summary.TotalEmployees)

	return summary
}
