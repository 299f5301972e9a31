package service

import (
	"context"
	"strings"

	"oneshot-backend/internal/domains/profile/model"
	"oneshot-backend/internal/shared/apperror"
	"oneshot-backend/internal/shared/utils"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const rosterSheet = "Roster"

var rosterHeaders = []string{
	"Name",
	"Jersey",
	"Position",
	"Secondary Position",
	"School",
	"State",
	"Class",
	"GPA",
	"Height",
	"Weight",
	"40 Yard",
	"Vertical",
	"Email",
	"Phone",
	"Coach",
	"Coach Phone",
	"Profile Page",
}

// ExportProfilesToExcel builds a roster workbook of the public profiles
// matching filter. It returns the workbook and the number of data rows.
func (s *ProfileService) ExportProfilesToExcel(ctx context.Context, filter model.ListFilter) (*excelize.File, int, error) {
	profiles, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	f, err := buildRosterFile(profiles)
	if err != nil {
		return nil, 0, apperror.Internal(model.CodeExportFailed, "Failed to build roster export", err)
	}
	return f, len(profiles), nil
}

func buildRosterFile(profiles []*model.AthleteProfile) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", rosterSheet); err != nil {
		return nil, err
	}

	for colIdx, header := range rosterHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(rosterSheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(rosterHeaders), 1)
		f.SetCellStyle(rosterSheet, "A1", last, headerStyle)
	}

	for i, p := range profiles {
		row := make([]interface{}, 0, len(rosterHeaders))
		row = append(row,
			p.FullName,
			p.JerseyNumber,
			p.PrimaryPosition,
			p.SecondaryPosition,
			p.HighSchoolName,
			p.State,
			nilIfZero(p.GraduationYear),
			decimalCell(p.GPA),
			p.Height,
			intCell(p.Weight),
			decimalCell(p.FortyYardDashSeconds),
			decimalCell(p.VerticalJumpInches),
			p.Email,
			p.Phone,
			p.CoachName,
			p.CoachPhone,
			model.HTMLPath(p.Slug),
		)

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(rosterSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// RosterFileName is the attachment name for an export, e.g. "roster-wide-receiver.xlsx".
func RosterFileName(filter model.ListFilter) string {
	parts := []string{"roster"}
	for _, v := range []string{filter.Position, filter.School} {
		if slug := utils.GenerateSlug(v); slug != "" {
			parts = append(parts, slug)
		}
	}
	return strings.Join(parts, "-") + ".xlsx"
}

func nilIfZero(v int) interface{} {
	if v == 0 {
		return nil
	}
	return v
}

func intCell(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func decimalCell(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.InexactFloat64()
}
