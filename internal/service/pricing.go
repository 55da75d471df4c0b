package service

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"agro-order-service/internal/apperr"
)

// Tasas de impuesto por país (nombre normalizado, sin acentos).
var taxRates = map[string]decimal.Decimal{
	"mexico":         decimal.RequireFromString("0.16"),
	"colombia":       decimal.RequireFromString("0.19"),
	"peru":           decimal.RequireFromString("0.18"),
	"chile":          decimal.RequireFromString("0.19"),
	"argentina":      decimal.RequireFromString("0.21"),
	"ecuador":        decimal.RequireFromString("0.15"),
	"guatemala":      decimal.RequireFromString("0.12"),
	"espana":         decimal.RequireFromString("0.21"),
	"estados unidos": decimal.Zero,
	"usa":            decimal.Zero,
}

// Costo fijo de envío por método, en centavos.
var shippingCosts = map[string]int64{
	"barco":     8000,
	"terrestre": 5000,
	"aereo":     15000,
	"recoger":   0,
}

type PriceBreakdown struct {
	Subtotal decimal.Decimal
	TaxRate  decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// PriceOrder calcula subtotal, impuesto (solo sobre el subtotal), envío y total.
func PriceOrder(quantityKg float64, unitPriceCents int64, country, shippingMethod string) (PriceBreakdown, error) {
	if quantityKg <= 0 {
		return PriceBreakdown{}, fmt.Errorf("%w: quantityKg debe ser mayor a cero", apperr.ErrValidation)
	}
	if unitPriceCents <= 0 {
		return PriceBreakdown{}, fmt.Errorf("%w: precio unitario inválido", apperr.ErrValidation)
	}
	shipCents, ok := shippingCosts[normalizeName(shippingMethod)]
	if !ok {
		return PriceBreakdown{}, fmt.Errorf("%w: método de envío desconocido %q", apperr.ErrValidation, shippingMethod)
	}

	unit := decimal.New(unitPriceCents, -2)
	subtotal := decimal.NewFromFloat(quantityKg).Mul(unit).Round(2)
	rate := TaxRateFor(country)
	tax := subtotal.Mul(rate).Round(2)
	shipping := decimal.New(shipCents, -2)

	return PriceBreakdown{
		Subtotal: subtotal,
		TaxRate:  rate,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}, nil
}

// TaxRateFor devuelve la tasa del país; los países desconocidos no llevan impuesto.
func TaxRateFor(country string) decimal.Decimal {
	if r, ok := taxRates[normalizeName(country)]; ok {
		return r
	}
	return decimal.Zero
}

// ToCents convierte un importe a centavos.
func ToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

var lower = cases.Lower(language.Spanish)

// normalizeName quita acentos, pasa a minúsculas y colapsa espacios: "México " -> "mexico".
func normalizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(lower.String(out)), " ")
}
