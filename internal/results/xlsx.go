package results

import (
	"fmt"

	"github.com/hyperjump/vinagrid/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet = "Results"
	runSheet     = "Run"
)

// WriteXLSX writes the result table to a "Results" sheet, with mean and std dev as numeric
// cells, and the run parameters to a "Run" sheet.
func WriteXLSX(path string, run *models.Run) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return err
	}
	header := CSVHeader(run.WithRMSD)
	if err := setRow(f, resultsSheet, 1, toAny(header)); err != nil {
		return err
	}
	for i, p := range run.Points {
		cells := p.Cells(run.WithRMSD)
		row := toAny(cells)
		if p.HasPose {
			row[2] = p.Mean
			row[3] = p.StdDev
		}
		if err := setRow(f, resultsSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(resultsSheet, "A", "B", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(resultsSheet, "E", "F", 40); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return err
	}
	if len(run.Points) > 0 {
		end := fmt.Sprintf("D%d", len(run.Points)+1)
		if err := f.SetCellStyle(resultsSheet, "C2", end, style); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(runSheet); err != nil {
		return err
	}
	p := run.Params
	info := [][]interface{}{
		{"Run ID", run.ID},
		{"Started", run.StartedAt.Format(models.TimestampLayout)},
		{"Finished", run.FinishedAt.Format(models.TimestampLayout)},
		{"Receptor", p.Receptor},
		{"Ligand", p.Ligand},
		{"Box Size", p.Box.String()},
		{"Exhaustiveness", p.Exhaustiveness},
		{"Poses", p.NumPoses},
		{"Repeats", p.Repeats},
		{"Points", len(run.Points)},
	}
	for i, r := range info {
		if err := setRow(f, runSheet, i+1, r); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toAny(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
