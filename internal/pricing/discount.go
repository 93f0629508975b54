package pricing

import (
	"math"

	"github.com/google/uuid"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// Discount is the outcome of pricing one tariff.
type Discount struct {
	Price int

	// AppliedOffer is set when the offer carried a formula.
	AppliedOffer uuid.NullUUID

	// AppliedLoyalty is the guest's label when a loyalty discount was applied.
	AppliedLoyalty string

	// FormulaUsed is the offer's raw formula text whenever one was present,
	// including when it failed to evaluate.
	FormulaUsed string
}

// CalculateDiscount prices base for a guest with loyalty label, given the
// resolved offer (nil when none applies).
//
// The offer formula, if any, runs first; a formula that cannot be evaluated
// leaves the price unchanged but is still reported in FormulaUsed. The
// loyalty percentage is then applied to the post-formula price, unless an
// offer was selected and is not loyalty-compatible. Both steps round half
// to even.
func CalculateDiscount(base int, loyalty string, table domain.LoyaltyTable, offer *domain.SpecialOffer) Discount {
	d := Discount{Price: base}

	if offer != nil && offer.Formula != "" {
		d.Price, _ = ApplyFormula(offer.Formula, base)
		d.FormulaUsed = offer.Formula
		d.AppliedOffer = uuid.NullUUID{UUID: offer.ID, Valid: true}
	}

	percent := table.Percent(loyalty)
	if percent == 0 {
		return d
	}
	if offer != nil && !offer.LoyaltyCompatible {
		return d
	}
	d.Price = applyPercent(d.Price, percent)
	d.AppliedLoyalty = loyalty
	return d
}

// applyPercent returns round(price * (100 - percent) / 100).
func applyPercent(price, percent int) int {
	return int(math.RoundToEven(float64(price*(100-percent)) / 100))
}
