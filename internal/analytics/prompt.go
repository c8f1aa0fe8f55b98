package analytics

import (
	"fmt"
	"strconv"
	"strings"
)

// Options tune the instruction sent to the provider. None of it is
// enforced locally; the provider may or may not honor it.
type Options struct {
	// Currency is the single unit every monetary field is requested in.
	Currency string
	// FallbackRate converts USD into Currency when the sources only
	// publish dollar figures.
	FallbackRate float64
	// WindowDays is the release window, oldest first ([90, 30] means
	// "released in the last 30-90 days").
	WindowDays [2]int
	// Grounded asks the provider to use live web search.
	Grounded bool
}

func DefaultOptions() Options {
	return Options{
		Currency:     "INR",
		FallbackRate: 84,
		WindowDays:   [2]int{90, 30},
		Grounded:     true,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if strings.TrimSpace(o.Currency) == "" {
		o.Currency = def.Currency
	}
	if o.FallbackRate <= 0 {
		o.FallbackRate = def.FallbackRate
	}
	if o.WindowDays[0] <= 0 || o.WindowDays[1] <= 0 {
		o.WindowDays = def.WindowDays
	}
	return o
}

// BuildPrompt renders the analysis instruction. A non-empty focus is embedded
// verbatim; an empty one asks for a global overview.
func BuildPrompt(focus string, opts Options) string {
	opts = opts.withDefaults()
	lo, hi := opts.WindowDays[1], opts.WindowDays[0]
	if lo > hi {
		lo, hi = hi, lo
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a film industry analyst. Report on the global box office for titles released in the last %d-%d days.\n", lo, hi)
	if focus != "" {
		fmt.Fprintf(&b, "Focus specifically on: %s.\n", focus)
	} else {
		b.WriteString("Give a general overview of the best performing titles worldwide.\n")
	}

	b.WriteString("\nSources:\n")
	b.WriteString("- Indian cinema (Hindi, Telugu, Tamil, Malayalam, Kannada and other industries): prefer Sacnilk (sacnilk.com) for worldwide gross, India net and overseas collections.\n")
	b.WriteString("- Hollywood and other international releases: prefer Box Office Mojo and Variety.\n")
	if opts.Grounded {
		b.WriteString("- Use web search to pick up the latest published figures.\n")
	}

	b.WriteString("\nCurrency:\n")
	fmt.Fprintf(&b, "- Every monetary field (totalMarketValue, budget, worldwideRevenue, openingWeekend, regional revenue and totals, projections) must be expressed in %s.\n", opts.Currency)
	fmt.Fprintf(&b, "- When a source only reports another currency, convert with 1 USD = %s %s.\n", strconv.FormatFloat(opts.FallbackRate, 'f', -1, 64), opts.Currency)

	b.WriteString("\nOutput:\n")
	b.WriteString("- topGenres and regionalRevenue are ordered by significance, largest first. topGenres values are percentage shares.\n")
	b.WriteString("- Give every trending movie a unique id. socialBuzz and riskLevel are one of High, Medium, Low.\n")
	b.WriteString("- Return one JSON object matching the response schema and nothing else.\n")
	return b.String()
}
