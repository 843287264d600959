// Package compliance classifies employee certification records and rolls them up into
// store and franchise summaries.
package compliance

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cert-dashboard/internal/storage"
)

const DefaultWarningThresholdDays = 60

var ErrInvalidRecord = errors.New("invalid certification record")

type Status string

const (
	StatusCritical Status = "critical"
	StatusWarning  Status = "warning"
	StatusGood     Status = "good"
	StatusMissing  Status = "missing"
)

// NeedsAttention reports whether the status counts towards a critical total.
func (s Status) NeedsAttention() bool {
	return s == StatusCritical || s == StatusMissing
}

// Classifier holds the warning boundary. The zero value uses DefaultWarningThresholdDays.
type Classifier struct {
	WarningThresholdDays int
}

func NewClassifier(warningThresholdDays int) Classifier {
	return Classifier{WarningThresholdDays: warningThresholdDays}
}

func (c Classifier) threshold() int {
	if c.WarningThresholdDays <= 0 {
		return DefaultWarningThresholdDays
	}
	return c.WarningThresholdDays
}

// Classify maps days until expiry to a status. First match wins:
// nil is missing, <= 0 is critical, <= threshold is warning, anything else is good.
func (c Classifier) Classify(daysUntilExpiry *int) Status {
	if daysUntilExpiry == nil {
		return StatusMissing
	}

	days := *daysUntilExpiry
	switch {
	case days <= 0:
		return StatusCritical
	case days <= c.threshold():
		return StatusWarning
	default:
		return StatusGood
	}
}

// Classify uses the default 60 day threshold.
func Classify(daysUntilExpiry *int) Status {
	return Classifier{}.Classify(daysUntilExpiry)
}

// ClassifiedEmployee is a record paired with its derived status and display label.
type ClassifiedEmployee struct {
	storage.EmployeeCertification
	Status Status `json:"status"`
	Label  string `json:"label"`
}

func (c Classifier) ClassifyEmployee(emp storage.EmployeeCertification) ClassifiedEmployee {
	status := c.Classify(emp.DaysUntilExpiry)

	return ClassifiedEmployee{
		EmployeeCertification: emp,
		Status:                status,
		Label:                 Label(status, emp.DaysUntilExpiry),
	}
}

func (c Classifier) ClassifyEmployees(employees []storage.EmployeeCertification) []ClassifiedEmployee {
	out := make([]ClassifiedEmployee, 0, len(employees))
	for _, emp := range employees {
		out = append(out, c.ClassifyEmployee(emp))
	}
	return out
}

// Label is the per-employee display text. Missing and critical stay distinct here
// even though both fold into the critical count.
func Label(status Status, daysUntilExpiry *int) string {
	switch status {
	case StatusMissing:
		return "NOT CERTIFIED"
	case StatusCritical:
		return "EXPIRED"
	}

	if daysUntilExpiry == nil {
		return ""
	}
	if *daysUntilExpiry == 1 {
		return "1 DAY LEFT"
	}
	return fmt.Sprintf("%d DAYS LEFT", *daysUntilExpiry)
}

// ParseDaysUntilExpiry converts a raw cell into days until expiry.
// Blank input means never certified and yields nil. Anything that is not a whole
// number is rejected with ErrInvalidRecord instead of being coerced.
func ParseDaysUntilExpiry(raw string) (*int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	days, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("%w: days until expiry %q is not an integer", ErrInvalidRecord, raw)
	}

	return &days, nil
}
