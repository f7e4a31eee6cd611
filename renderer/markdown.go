package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/equity"
)

// ScheduleMarkdown renders the chunks vested by a schedule.
func ScheduleMarkdown(s equity.Schedule, chunks []equity.Chunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Vesting of %d %s at %s\n\n", s.Units, s.Ticker, s.Price)

	fmt.Fprintln(&b, "| Date | Units | Vested |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	var vested int64
	for _, c := range chunks {
		vested += c.Units
		fmt.Fprintf(&b, "| %s | %d | %d |\n", c.Date, c.Units, vested)
	}
	fmt.Fprintf(&b, "\nTotal vested: %d of %d.\n", vested, s.Units)
	return b.String()
}

// LotsMarkdown renders the position of every ticker then every lot of the
// ledger in consumption order.
func LotsMarkdown(l *equity.Ledger) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Lots\n\n")

	fmt.Fprintln(&b, "| Ticker | Unexercised | Held | Sold | Total |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	for _, ticker := range l.Tickers() {
		p := l.Position(ticker)
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %d |\n", ticker, p.Unexercised, p.Held, p.Sold, p.Total())
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "| Lot | Ticker | Units | Granted | Strike | Exercised | FMV | Sold | Price | Gain |")
	fmt.Fprintln(&b, "|:---|:---|---:|:---|---:|:---|---:|:---|---:|---:|")
	for lc := range l.Lifecycles() {
		exercised, fmv, sold, price, gain := "", "", "", "", ""
		if lc.Stock != nil {
			exercised, fmv = lc.Stock.Date.String(), lc.Stock.FMV.String()
		}
		if lc.Sale != nil {
			sold, price, gain = lc.Sale.Date.String(), lc.Sale.Price.String(), equity.Gain(lc).SignedString()
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
			short(lc.ID), lc.Ticker, lc.Units(),
			lc.Option.Date, lc.Option.Price,
			exercised, fmv,
			sold, price, gain,
		)
	}
	return b.String()
}

// EventsMarkdown renders events as a journal.
func EventsMarkdown(events []equity.Event) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Events\n\n")
	fmt.Fprintln(&b, "| Date | Action | Lot | Ticker | Units | Price | FMV |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|---:|---:|")
	for _, e := range events {
		fmv := ""
		if !e.FMV.IsZero() {
			fmv = e.FMV.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %s | %s |\n", e.Date, e.Action, short(e.Lot), e.Ticker, e.Units, e.Price, fmv)
	}
	return b.String()
}

// TaxReportMarkdown renders the taxes of a year. Sections without amounts
// are skipped.
func TaxReportMarkdown(r *equity.TaxReport) string {
	var b strings.Builder
	f := r.Filing
	fmt.Fprintf(&b, "# Taxes for %d\n\n", r.Year)
	fmt.Fprintf(&b, "Filing %s in %s, gross income %s, AGI %s.\n\n", f.Status, f.State, f.GrossIncome, f.AGI())

	fmt.Fprint(&b, "## Income\n\n")
	fmt.Fprintln(&b, "| Tax | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Social security | %s |\n", r.Payroll.SocialSecurity)
	fmt.Fprintf(&b, "| Medicare | %s |\n", r.Payroll.Medicare)
	fmt.Fprintf(&b, "| Federal income | %s |\n", r.Income.Federal)
	fmt.Fprintf(&b, "| State income | %s |\n", r.Income.State)
	fmt.Fprintln(&b)

	cg := r.CapitalGains
	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Capital Gains\n\n")
		fmt.Fprintln(w, "| Term | Gain | Federal | State |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|")
		fmt.Fprintf(w, "| Short | %s | %s | %s |\n", cg.ShortTermGain.SignedString(), cg.ShortTerm.Federal, cg.ShortTerm.State)
		fmt.Fprintf(w, "| Long | %s | %s | %s |\n", cg.LongTermGain.SignedString(), cg.LongTerm, equity.Money{})
		fmt.Fprintln(w)
		return !cg.ShortTermGain.IsZero() || !cg.LongTermGain.IsZero()
	})

	amt := r.AMT
	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Alternative Minimum Tax\n\n")
		fmt.Fprintln(w, "| Item | Amount |")
		fmt.Fprintln(w, "|:---|---:|")
		fmt.Fprintf(w, "| Exercise spread | %s |\n", amt.Spread)
		fmt.Fprintf(w, "| AMT base | %s |\n", amt.Base)
		fmt.Fprintf(w, "| Tentative minimum tax | %s |\n", amt.Tentative)
		fmt.Fprintf(w, "| Regular federal tax | %s |\n", amt.Regular)
		fmt.Fprintf(w, "| **AMT owed** | **%s** |\n", amt.Owed)
		fmt.Fprintln(w)
		return !amt.Spread.IsZero()
	})

	fmt.Fprintf(&b, "**Total taxes: %s**\n", r.Total())
	return b.String()
}
