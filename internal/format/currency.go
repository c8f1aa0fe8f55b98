// Package format renders report figures for terminal output.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	crore = 1e7
	lakh  = 1e5
)

var inPrinter = message.NewPrinter(language.MustParse("en-IN"))

// INR renders a rupee amount the way Indian trade press does: crores and
// lakhs with two decimals for large figures, grouped whole rupees otherwise.
func INR(v float64) string {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return "₹–"
	case v >= crore:
		return fmt.Sprintf("₹%.2f Cr", v/crore)
	case v >= lakh:
		return fmt.Sprintf("₹%.2f L", v/lakh)
	}
	return inPrinter.Sprintf("₹%d", int64(math.Round(v)))
}

// Percent renders a share value such as 34.5 as "34.5%".
func Percent(v float64) string {
	return fmt.Sprintf("%s%%", trimFloat(v))
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
