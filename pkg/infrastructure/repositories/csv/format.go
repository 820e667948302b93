package csv

import (
	"github.com/shopspring/decimal"
)

// reportPlaces is the number of decimal places written to reports
const reportPlaces = 4

// formatQuantity renders a float with fixed rounding so that reports are
// stable across platforms and free of binary noise such as 0.30000000000000004
func formatQuantity(v float64) string {
	return decimal.NewFromFloat(v).Round(reportPlaces).String()
}

// parseQuantity parses a decimal string exactly before converting to float
func parseQuantity(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	f, _ := d.Float64()
	return f, nil
}
