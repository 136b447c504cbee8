// Package export produces XLSX workbooks from stored orders.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/amara-nwosu/patient-intake/internal/store"
)

// exportLimit caps how many orders one workbook may contain.
const exportLimit = 10000

// Service is a tiny façade over the store that produces XLSX bytes.
type Service struct {
	store  *store.Store
	logger *slog.Logger
}

func NewService(st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger}
}

// ExportOrdersXLSX returns an XLSX workbook (as bytes) listing all orders.
func (s *Service) ExportOrdersXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	orders, err := s.store.ListOrders(ctx, 0, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Orders"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"ID",
		"First Name",
		"Last Name",
		"Date of Birth",
		"Description",
		"Created At",
		"Updated At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, o := range orders {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, o.ID)
		write(2, deref(o.FirstName))
		write(3, deref(o.LastName))
		write(4, deref(o.DateOfBirth))
		write(5, deref(o.Description))
		write(6, o.CreatedAt.Format(time.RFC3339))
		if o.UpdatedAt != nil {
			write(7, o.UpdatedAt.Format(time.RFC3339))
		} else {
			write(7, "")
		}

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 8)
	_ = f.SetColWidth(sheet, "B", "C", 18)
	_ = f.SetColWidth(sheet, "D", "D", 14)
	_ = f.SetColWidth(sheet, "E", "E", 48)
	_ = f.SetColWidth(sheet, "F", "G", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(orders),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
