// Package report renders sweep results as spreadsheet and CSV tables.
package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/app"
)

// Headers is the column layout shared by both output formats.
func Headers() []string {
	return []string{
		"temperature_c",
		"voltage_ratio",
		"storage_pattern",
		"ecc_scheme",
		"ecc_t",
		"ecc_m",
		"devices",
		"enroll_failures",
		"ecc_failures",
		"avg_stable_fraction",
		"avg_corrected_ber",
		"reliability",
		"exact_recovery_rate",
		"avg_effective_entropy_bits",
		"avg_helper_bits",
		"avg_secret_bits",
	}
}

// Rows flattens every sweep point into formatted strings matching Headers.
func Rows(r *app.SweepReport) [][]string {
	rows := make([][]string, len(r.Points))
	for i, p := range r.Points {
		rows[i] = []string{
			fToStr(p.Temperature, 1),
			fToStr(p.VoltageRatio, 2),
			string(p.Pattern),
			string(p.ECC.Scheme),
			strconv.Itoa(p.ECC.T),
			strconv.Itoa(p.ECC.M),
			strconv.Itoa(p.Devices),
			strconv.Itoa(p.EnrollFailures),
			strconv.Itoa(p.ECCFailures),
			fToStr(p.AvgStableFraction, 6),
			fToStr(p.AvgCorrectedBER, 6),
			fToStr(p.Reliability, 6),
			fToStr(p.ExactRecoveryRate, 6),
			fToStr(p.AvgEffectiveBits, 2),
			fToStr(p.AvgHelperSizeBits, 1),
			fToStr(p.AvgSecretBits, 1),
		}
	}
	return rows
}

// WriteCSV writes the point table to path.
func WriteCSV(path string, r *app.SweepReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(Headers()); err != nil {
		return err
	}
	for _, row := range Rows(r) {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteXLSX writes the point table to Sheet1 plus a Summary sheet with the
// run metadata.
func WriteXLSX(path string, r *app.SweepReport) error {
	f := excelize.NewFile()

	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	for i, h := range Headers() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for rowNum, row := range Rows(r) {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowNum+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := writeSummarySheet(f, r); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeSummarySheet(f *excelize.File, r *app.SweepReport) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	meta := [][2]string{
		{"sweep_id", r.ID.String()},
		{"seed", strconv.FormatInt(r.Seed, 10)},
		{"num_cells", strconv.Itoa(r.NumCells)},
		{"grid_points", strconv.Itoa(len(r.Points))},
		{"started_at", r.StartedAt.Time().Format(time.RFC3339)},
		{"runtime_ms", strconv.FormatInt(r.RuntimeMs, 10)},
	}
	for i, pair := range meta {
		keyCell := fmt.Sprintf("A%d", i+1)
		valCell := fmt.Sprintf("B%d", i+1)
		if err := f.SetCellValue(sheet, keyCell, pair[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, valCell, pair[1]); err != nil {
			return err
		}
	}
	return nil
}

func fToStr(x float64, decimals int) string {
	p := math.Pow10(decimals)
	x = math.Round(x*p) / p
	return strconv.FormatFloat(x, 'f', decimals, 64)
}
