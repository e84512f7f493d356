// Package renderer turns portfolio snapshots into markdown reports.
package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	rebal "github.com/mkrall/rebal"
)

// StatusMarkdown renders the current state of the portfolio: one row per
// asset class with its distance from target, and the holdings behind it.
func StatusMarkdown(p *rebal.Portfolio) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio Status")

	total := p.CurrentValue()
	doc.PlainText(fmt.Sprintf("Total value: %s", md.Bold(total.String())))

	classes := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Class", "Value", "Holdings", "Target", "Deviation"},
	}
	for _, a := range p.Allocations() {
		holdings, deviation := "-", "-"
		if !total.IsZero() {
			holdings = a.PercentHoldings(total).Percent()
			deviation = a.Deviation(total).SignedPercent()
		}
		classes.Rows = append(classes.Rows, []string{
			a.Class().String(),
			a.CurrentValue().String(),
			holdings,
			a.TargetRatio().Percent(),
			deviation,
		})
	}
	doc.Table(classes)

	if assets := allAssets(p); len(assets) > 0 {
		doc.H2("Holdings")
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignLeft,
			},
			Header: []string{"Account", "Symbol", "Quantity", "Price", "Value", "Priced"},
		}
		for _, asset := range assets {
			table.Rows = append(table.Rows, []string{
				asset.Name,
				asset.Symbol,
				asset.Quantity.StringFixed(3),
				asset.Price.String(),
				asset.Value.String(),
				asset.PricedAt.Format("2006-01-02"),
			})
		}
		doc.Table(table)
	}

	doc.Build()
	return buf.String()
}

// MinimumMarkdown renders the smallest deposit that brings every class
// back to or under its target weight.
func MinimumMarkdown(min rebal.Money) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	if min.IsZero() {
		doc.PlainText("Every class is at or under its target. No deposit needed.")
	} else {
		doc.PlainText(fmt.Sprintf("Minimum to bring all assets to target: %s", md.Bold(min.String())))
	}
	doc.Build()
	return buf.String()
}

// StatsMarkdown renders lifetime income and giving figures.
func StatsMarkdown(afterTax, charity rebal.Money) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Lifetime Stats")
	share := "-"
	if !afterTax.IsZero() {
		share = charity.DivMoney(afterTax).Percent()
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"After-tax income", afterTax.String()},
		Rows: [][]string{
			{"Charitable giving", fmt.Sprintf("%s (%s of after-tax income)", charity, share)},
		},
	})

	doc.Build()
	return buf.String()
}

func allAssets(p *rebal.Portfolio) []rebal.Asset {
	var assets []rebal.Asset
	for _, a := range p.Allocations() {
		assets = append(assets, a.Assets()...)
	}
	return assets
}
