package generate_excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"cert-dashboard/internal/service/compliance"
)

const (
	sheetStores    = "Stores"
	sheetAttention = "Attention"
)

type ReportSource interface {
	Report(ctx context.Context) (compliance.Report, error)
}

type GenerateExcelService struct {
	source ReportSource
}

func NewGenerateService(source ReportSource) *GenerateExcelService {
	return &GenerateExcelService{source: source}
}

// GenerateExcel builds a workbook with one row per store plus a franchise totals row,
// and a second sheet listing every employee that needs attention.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context) ([]byte, error) {
	const op = "service.generate_excel.GenerateExcel"

	report, err := g.source.Report(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch report: %w", op, err)
	}
	dashboard, attention := report.Dashboard, report.Attention

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetStores); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := f.NewSheet(sheetAttention); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: header style: %w", op, err)
	}

	storeHeaders := []interface{}{"Store", "District Manager", "Employees", "Critical/Missing", "Not Certified", "Expiring Soon", "Good", "Compliance %", "Level"}
	if err := writeRow(f, sheetStores, 1, storeHeaders); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	row := 2
	for _, s := range dashboard.Stores {
		values := []interface{}{s.StoreID, s.DistrictManager, s.TotalEmployees, s.CriticalCount, s.MissingCount, s.WarningCount, s.GoodCount, s.ComplianceScore, string(s.Level)}
		if err := writeRow(f, sheetStores, row, values); err != nil {
			return nil, fmt.Errorf("%s: store %s: %w", op, s.StoreID, err)
		}
		row++
	}

	fr := dashboard.Franchise
	totals := []interface{}{"Franchise", fmt.Sprintf("%d stores", fr.TotalStores), fr.TotalEmployees, fr.CriticalEmployeeCount, "", fr.WarningEmployeeCount, "", fr.OverallCompliance,
		fmt.Sprintf("%d critical / %d warning", fr.CriticalStoreCount, fr.WarningStoreCount)}
	if err := writeRow(f, sheetStores, row, totals); err != nil {
		return nil, fmt.Errorf("%s: totals: %w", op, err)
	}

	if err := styleRow(f, sheetStores, 1, len(storeHeaders), headerStyle); err != nil {
		return nil, fmt.Errorf("%s: store header style: %w", op, err)
	}
	if err := styleRow(f, sheetStores, row, len(storeHeaders), headerStyle); err != nil {
		return nil, fmt.Errorf("%s: totals style: %w", op, err)
	}

	attentionHeaders := []interface{}{"Store", "Name", "Position", "Days Until Expiry", "Status"}
	if err := writeRow(f, sheetAttention, 1, attentionHeaders); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i, emp := range attention {
		var days interface{} = ""
		if emp.DaysUntilExpiry != nil {
			days = *emp.DaysUntilExpiry
		}
		values := []interface{}{emp.StoreID, emp.Name, emp.Position, days, emp.Label}
		if err := writeRow(f, sheetAttention, i+2, values); err != nil {
			return nil, fmt.Errorf("%s: attention row %d: %w", op, i, err)
		}
	}

	if err := styleRow(f, sheetAttention, 1, len(attentionHeaders), headerStyle); err != nil {
		return nil, fmt.Errorf("%s: attention header style: %w", op, err)
	}

	for _, sheet := range []string{sheetStores, sheetAttention} {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
		}); err != nil {
			return nil, fmt.Errorf("%s: freeze %s header: %w", op, sheet, err)
		}
	}
	if err := f.SetColWidth(sheetStores, "A", "I", 16); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := f.SetColWidth(sheetAttention, "A", "E", 20); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: write workbook: %w", op, err)
	}

	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}
