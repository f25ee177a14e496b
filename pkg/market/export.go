package market

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

var ErrUnknownFormat = errors.New("unknown export format")

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", CSV:
		return CSV, nil
	case XLSX:
		return XLSX, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
}

func (f Format) ContentType() string {
	if f == XLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

var header = []string{
	"Commodity", "Variety", "Category", "Market", "District", "State",
	"Min Price", "Max Price", "Modal Price", "Change", "Change %", "Date",
}

func row(p Price) []interface{} {
	return []interface{}{
		p.Commodity, p.Variety, p.Category, p.Market, p.District, p.State,
		p.MinPrice, p.MaxPrice, p.ModalPrice, p.Change, p.ChangePercent, p.Date,
	}
}

// Write renders prices in format f.
func Write(w io.Writer, f Format, prices []Price) error {
	if f == XLSX {
		return WriteXLSX(w, prices)
	}
	return WriteCSV(w, prices)
}

func WriteCSV(w io.Writer, prices []Price) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "csv header")
	}
	rec := make([]string, len(header))
	for _, p := range prices {
		for i, v := range row(p) {
			switch x := v.(type) {
			case float64:
				rec[i] = strconv.FormatFloat(x, 'f', -1, 64)
			default:
				rec[i] = x.(string)
			}
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "csv flush")
}

// WriteXLSX writes a workbook with a Prices sheet and a Summary sheet.
func WriteXLSX(w io.Writer, prices []Price) error {
	x := excelize.NewFile()
	defer x.Close()

	const sheet = "Prices"
	if err := x.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "xlsx sheet")
	}
	bold, err := x.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "xlsx style")
	}

	head := make([]interface{}, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := x.SetSheetRow(sheet, "A1", &head); err != nil {
		return errors.Wrap(err, "xlsx header")
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := x.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return errors.Wrap(err, "xlsx header style")
	}
	for i, p := range prices {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		r := row(p)
		if err := x.SetSheetRow(sheet, cell, &r); err != nil {
			return errors.Wrapf(err, "xlsx row %d", i+2)
		}
	}

	const sumSheet = "Summary"
	if _, err := x.NewSheet(sumSheet); err != nil {
		return errors.Wrap(err, "xlsx summary sheet")
	}
	sumHead := []interface{}{"Commodity", "Average Modal", "Min Price", "Max Price", "Markets"}
	if err := x.SetSheetRow(sumSheet, "A1", &sumHead); err != nil {
		return errors.Wrap(err, "xlsx summary header")
	}
	if err := x.SetCellStyle(sumSheet, "A1", "E1", bold); err != nil {
		return errors.Wrap(err, "xlsx summary style")
	}
	for i, s := range Summarize(prices) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		r := []interface{}{s.Commodity, s.AverageModal, s.MinPrice, s.MaxPrice, s.Markets}
		if err := x.SetSheetRow(sumSheet, cell, &r); err != nil {
			return errors.Wrapf(err, "xlsx summary row %d", i+2)
		}
	}
	return errors.Wrap(x.Write(w), "xlsx write")
}
