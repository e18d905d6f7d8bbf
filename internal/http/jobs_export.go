package httpapi

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

var jobsExportHeader = []string{
	"Job ID",
	"Title",
	"Company",
	"Type",
	"Location",
	"Remote",
	"Featured",
	"Backfilled",
	"Salary Min",
	"Salary Max",
	"Application Link",
	"Date Posted",
	"Created At",
}

// GenerateJobsExport renders a tenant's listings as an XLSX workbook.
func GenerateJobsExport(jobs []*domain.Job) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open; Close only on the error paths.

	sheetName := "Jobs"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range jobsExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for rowIdx, job := range jobs {
		row := rowIdx + 2
		values := []any{
			job.JobID,
			job.Title,
			job.Company,
			job.JobType,
			job.Location,
			yesNo(job.Remote),
			yesNo(job.Featured),
			yesNo(job.Backfilled),
			job.SalaryMin,
			job.SalaryMax,
			job.ApplicationLink,
			job.DatePosted.Format("2006-01-02 15:04:05"),
			job.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func exportFilename(tenantName string) string {
	name := strings.ReplaceAll(strings.TrimSpace(tenantName), " ", "_")
	if name == "" {
		name = "jobs"
	}
	return name + "_jobs.xlsx"
}
