package renderer

import (
	"fmt"
	"io"

	"github.com/etnz/equity"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook.
const (
	LotsSheet   = "Lots"
	EventsSheet = "Events"
	TaxesSheet  = "Taxes"
)

// Workbook writes the lots, the events and the tax reports of a portfolio as
// an xlsx workbook. Amounts are numbers, dates are ISO strings.
func Workbook(w io.Writer, p *equity.Portfolio, reports []*equity.TaxReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", LotsSheet); err != nil {
		return err
	}
	for _, name := range []string{EventsSheet, TaxesSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	sheet := sheetWriter{f: f, name: LotsSheet}
	sheet.row("Lot", "Ticker", "Units", "Granted", "Strike", "Exercised", "FMV", "Sold", "Price", "Gain")
	for lc := range p.Ledger.Lifecycles() {
		row := []any{lc.ID.String(), lc.Ticker, lc.Units(), lc.Option.Date.String(), lc.Option.Price.Float64(), nil, nil, nil, nil, nil}
		if lc.Stock != nil {
			row[5], row[6] = lc.Stock.Date.String(), lc.Stock.FMV.Float64()
		}
		if lc.Sale != nil {
			row[7], row[8], row[9] = lc.Sale.Date.String(), lc.Sale.Price.Float64(), equity.Gain(lc).Float64()
		}
		sheet.row(row...)
	}

	events := sheetWriter{f: f, name: EventsSheet}
	events.row("Date", "Action", "Lot", "Ticker", "Units", "Price", "FMV")
	for _, e := range p.Events() {
		events.row(e.Date.String(), e.Action.String(), e.Lot.String(), e.Ticker, e.Units, e.Price.Float64(), e.FMV.Float64())
	}

	taxes := sheetWriter{f: f, name: TaxesSheet}
	taxes.row("Year", "Social security", "Medicare", "Federal income", "State income", "Short-term gain", "Long-term gain", "Capital gains tax", "AMT", "Total")
	for _, r := range reports {
		taxes.row(r.Year,
			r.Payroll.SocialSecurity.Float64(),
			r.Payroll.Medicare.Float64(),
			r.Income.Federal.Float64(),
			r.Income.State.Float64(),
			r.CapitalGains.ShortTermGain.Float64(),
			r.CapitalGains.LongTermGain.Float64(),
			r.CapitalGains.Total().Float64(),
			r.AMT.Owed.Float64(),
			r.Total().Float64(),
		)
	}

	for _, s := range []sheetWriter{sheet, events, taxes} {
		if s.err != nil {
			return fmt.Errorf("cannot write sheet %q: %w", s.name, s.err)
		}
	}
	return f.Write(w)
}

// sheetWriter appends rows to a sheet and keeps the first error.
type sheetWriter struct {
	f    *excelize.File
	name string
	next int // last row written, rows are 1-based.
	err  error
}

func (s *sheetWriter) row(values ...any) {
	if s.err != nil {
		return
	}
	s.next++
	cell, err := excelize.CoordinatesToCellName(1, s.next)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetSheetRow(s.name, cell, &values)
}
