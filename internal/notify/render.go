package notify

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	PlaceholderName    = "{name}"
	PlaceholderAmount  = "{amount}"
	PlaceholderBalance = "{balance}"
)

type Vars struct {
	Name    string
	Amount  *decimal.Decimal
	Balance decimal.Decimal
}

// Render substitutes every occurrence of the known placeholders. {amount} is
// left untouched when Amount is nil.
func Render(content string, v Vars) string {
	pairs := []string{
		PlaceholderName, v.Name,
		PlaceholderBalance, FormatMoney(v.Balance),
	}
	if v.Amount != nil {
		pairs = append(pairs, PlaceholderAmount, FormatMoney(*v.Amount))
	}
	return strings.NewReplacer(pairs...).Replace(content)
}

func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
