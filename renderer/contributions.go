package renderer

import (
	"bytes"

	md "github.com/nao1215/markdown"

	rebal "github.com/mkrall/rebal"
)

// ContributionsMarkdown renders the engine's verdict after a lump sum has
// been allocated: what to contribute to (or withdraw from) each class, and
// where each class lands relative to target.
func ContributionsMarkdown(p *rebal.Portfolio) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	before := p.CurrentValue()
	after := p.FutureValue()

	doc.H1("Contributions")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Value after"), md.Bold(after.String())},
		Rows: [][]string{
			{"Value before", before.String()},
		},
	})

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Class", "Contribute", "Target", "Start", "Final"},
	}
	for _, a := range p.Allocations() {
		start := "-"
		if !before.IsZero() {
			start = a.CurrentValue().DivMoney(before).Percent()
		}
		table.Rows = append(table.Rows, []string{
			a.Class().String(),
			a.FutureContribution().SignedString(),
			a.TargetRatio().Percent(),
			start,
			a.PercentHoldings(after).Percent(),
		})
	}
	doc.Table(table)

	doc.Build()
	return buf.String()
}
