package payroll

import (
	"github.com/shopspring/decimal"
)

var (
	overtimeTier1Limit = decimal.NewFromInt(2)
	overtimeTier1Share = decimal.New(5, -1)
)

// Overtime is the pay for hours beyond the month norm. The first two hours
// earn half the line rate on top, the rest the full line rate.
type Overtime struct {
	Tier1Hours decimal.Decimal
	Tier1Money decimal.Decimal
	Tier2Hours decimal.Decimal
	Tier2Money decimal.Decimal
	Total      decimal.Decimal
}

// OvertimePay always prices at the line rate, whatever the shift types that
// produced the hours. Non-positive hours pay nothing.
func OvertimePay(hours decimal.Decimal, s Settings) Overtime {
	if !hours.IsPositive() {
		return Overtime{
			Tier1Hours: decimal.Zero,
			Tier1Money: decimal.Zero,
			Tier2Hours: decimal.Zero,
			Tier2Money: decimal.Zero,
			Total:      decimal.Zero,
		}
	}

	tier1 := decimal.Min(hours, overtimeTier1Limit)
	tier2 := hours.Sub(tier1)

	out := Overtime{
		Tier1Hours: tier1,
		Tier1Money: tier1.Mul(s.Rate).Mul(overtimeTier1Share),
		Tier2Hours: tier2,
		Tier2Money: tier2.Mul(s.Rate),
	}
	out.Total = out.Tier1Money.Add(out.Tier2Money)
	return out
}
