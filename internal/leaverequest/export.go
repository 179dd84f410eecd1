package leaverequest

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"mohr/internal/domain"
)

const exportSheet = "Leave Requests"

var exportHeader = []string{
	"Employee", "Email", "Leave Type", "Start Date", "End Date",
	"Days", "Status", "Reason", "Submitted At",
}

// ExportXLSX renders the filtered leave requests as a spreadsheet.
// Non-admin callers only ever export their own records.
func (s *service) ExportXLSX(ctx context.Context, caller domain.Identity, f ListFilter) ([]byte, error) {
	if !caller.IsAdmin() {
		f.EmployeeID = caller.EmployeeID
	}

	list, err := s.repo.FindAll(ctx, f)
	if err != nil {
		s.logger.Error("export leave requests failed", zap.Error(err))
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet, err := file.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	file.SetActiveSheet(sheet)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(exportSheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i := range list {
		l := &list[i]
		name, email := "", ""
		if l.Employee != nil {
			name = l.Employee.FullName()
			email = l.Employee.Email
		}
		row := []any{
			name,
			email,
			l.LeaveType,
			l.StartDate.Format(DateLayout),
			l.EndDate.Format(DateLayout),
			l.DaysRequested,
			l.Status,
			l.Reason,
			l.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := file.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
