// Package report renders yields and totals as aligned, locale-aware text.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/xtding233/relic-planner/internal/relic"
	"github.com/xtding233/relic-planner/internal/simulate"
)

const (
	relicDigits = 3
	totalDigits = 1
)

// Printer formats numbers for one locale.
type Printer struct {
	p *message.Printer
}

// New returns a printer for locale, e.g. "en" or "pt-BR". Unknown locales
// fall back to English.
func New(locale string) *Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Printer{p: message.NewPrinter(tag)}
}

func (pr *Printer) num(v float64, digits int) string {
	return pr.p.Sprint(number.Decimal(v, number.MaxFractionDigits(digits)))
}

// Relic writes one relic's yields in priority order.
func (pr *Printer) Relic(w io.Writer, name string, run relic.Run, amount int, yields []relic.ItemYield) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\tx%d\n", name, run.Code(), amount)
	fmt.Fprintln(tw, "Item\tSet\tRarity\tExpected")
	for _, y := range yields {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", y.Item.Name, y.Item.Category, y.Rarity, pr.num(y.Expected, relicDigits))
	}
	return tw.Flush()
}

// Totals writes the per-set recap.
func (pr *Printer) Totals(w io.Writer, t relic.Totals) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Set\tPart\tExpected")
	for _, c := range t.Categories() {
		for _, item := range t.Items(c) {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", c, item, pr.num(t[c][item], totalDigits))
		}
	}
	return tw.Flush()
}

// Simulation writes Monte Carlo estimates next to the closed form values.
func (pr *Printer) Simulation(w io.Writer, stats []simulate.RewardStats, expected []relic.ItemYield) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Item\tExpected\tSimulated\tStdDev\tP90")
	for i, s := range stats {
		want := ""
		if i < len(expected) {
			want = pr.num(expected[i].Expected, relicDigits)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Item.Name, want,
			pr.num(s.Mean, relicDigits), pr.num(s.StdDev, relicDigits), pr.num(s.P90, relicDigits))
	}
	return tw.Flush()
}
