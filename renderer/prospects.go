package renderer

import (
	"bytes"
	"fmt"
	"log"

	md "github.com/nao1215/markdown"

	rebal "github.com/mkrall/rebal"
	"github.com/mkrall/rebal/date"
)

// ProspectsMarkdown renders net worth projected to a handful of candidate
// retirement ages, with the annual income each supports under the 4% rule.
//
// Projections start at age 50 or five years out, whichever is later, and
// step by five years.
func ProspectsMarkdown(birthday date.Date, total rebal.Money, realAPY float64) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2(fmt.Sprintf("Worth at Retirement (assuming %.0f%% growth)", realAPY*100))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Age", "Worth", "SWR Income"},
	}

	today := date.Today()
	approxAge := today.Year() - birthday.Year()
	table.Rows = append(table.Rows, []string{
		fmt.Sprint(approxAge),
		total.String(),
		rebal.SafeWithdrawalIncome(total).String(),
	})

	startAge := max(50, approxAge+5)
	for age := startAge; age <= startAge+15; age += 5 {
		retirement := birthday.AddYears(age)
		worth, err := rebal.Compound(total, realAPY, retirement)
		if err != nil {
			// a projection that cannot be computed is dropped, not fatal
			log.Printf("skipping projection to age %d: %v", age, err)
			continue
		}
		table.Rows = append(table.Rows, []string{
			fmt.Sprint(age),
			worth.String(),
			rebal.SafeWithdrawalIncome(worth).String(),
		})
	}
	doc.Table(table)

	doc.Build()
	return buf.String()
}
