package subscriptions

import (
	"github.com/shopspring/decimal"

	"github.com/watchhubtv/watchhub/internal/pkg/entitlements"
)

// PlanPrice describes a purchasable monthly plan.
type PlanPrice struct {
	Plan        entitlements.Plan
	DisplayName string
	Amount      decimal.Decimal
	Currency    string
}

var planPricing = map[entitlements.Plan]PlanPrice{
	entitlements.PlanBasic: {
		Plan:        entitlements.PlanBasic,
		DisplayName: "Plan Básico",
		Amount:      decimal.NewFromFloat(9.99),
		Currency:    "USD",
	},
	entitlements.PlanStandard: {
		Plan:        entitlements.PlanStandard,
		DisplayName: "Plan Estándar",
		Amount:      decimal.NewFromFloat(14.99),
		Currency:    "USD",
	},
	entitlements.PlanPremium: {
		Plan:        entitlements.PlanPremium,
		DisplayName: "Plan Premium",
		Amount:      decimal.NewFromFloat(19.99),
		Currency:    "USD",
	},
}

// PriceFor resolves a plan identifier to its pricing. The identifier is
// normalized first, so "Premium" and "premium" both resolve.
func PriceFor(plan string) (PlanPrice, bool) {
	p, ok := planPricing[entitlements.Normalize(plan)]
	return p, ok
}

// Plans returns all purchasable plans ordered from cheapest to priciest.
func Plans() []PlanPrice {
	return []PlanPrice{
		planPricing[entitlements.PlanBasic],
		planPricing[entitlements.PlanStandard],
		planPricing[entitlements.PlanPremium],
	}
}

// MonthlyRevenue estimates recurring revenue from a tier -> subscriber
// count mapping. Unknown tiers contribute nothing.
func MonthlyRevenue(tierCounts map[string]int64) decimal.Decimal {
	total := decimal.Zero
	for tier, count := range tierCounts {
		price, ok := PriceFor(tier)
		if !ok {
			continue
		}
		total = total.Add(price.Amount.Mul(decimal.NewFromInt(count)))
	}
	return total
}
