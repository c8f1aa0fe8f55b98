package format

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"cinemetrics/internal/report"
	"cinemetrics/internal/suggest"
)

const reportTemplate = `Film market report ({{if .Focus}}{{.Focus}}{{else}}global overview{{end}})
Total market value: {{inr .Report.TotalMarketValue}}
{{- with leader .Report}}
Market leader: {{.Region}} ({{inr .Total}})
{{- end}}
{{- with topGenre .Report}}
Top genre: {{.Name}} ({{percent .Value}})
{{- end}}
{{if .Report.TopGenres}}
=== Genres ===
{{range .Report.TopGenres}}- {{.Name}}: {{percent .Value}}
{{end}}{{end}}
{{- if .Report.RegionalRevenue}}
=== Regions ===
{{range .Report.RegionalRevenue}}- {{.Region}}: {{inr .Total}}
{{end}}{{end}}
{{- if .Report.MarketInsights}}
=== Insights ===
{{range .Report.MarketInsights}}- {{.}}
{{end}}{{end}}
{{- if .Report.TrendingMovies}}
=== Trending ===
{{range .Report.TrendingMovies}}- {{.Title}} [{{.Genre}}, {{.Origin}}, {{.ReleaseDate}}]
  budget {{inr .Budget}}, worldwide {{inr .WorldwideRevenue}}{{if .SocialBuzz}}, buzz {{.SocialBuzz}}{{end}}
  {{.Summary}}
{{end}}{{end}}`

const movieTemplate = `{{.Title}} [{{.Genre}}, {{.Origin}}, {{.ReleaseDate}}]
{{.Summary}}

=== Box office ===
Budget: {{inr .Budget}}
Worldwide revenue: {{inr .WorldwideRevenue}}
{{- if .OpeningWeekend}}
Opening weekend: {{inr .OpeningWeekend}}
{{- end}}
{{- with roi .}}
ROI: {{.}}
{{- end}}
{{- with .Ratings}}

=== Ratings ===
IMDb: {{printf "%.1f" .IMDb}}/10
Rotten Tomatoes: {{percent .RottenTomatoes}}
Metacritic: {{printf "%.0f" .Metacritic}}/100
{{- end}}
{{- if .RegionalBreakdown}}

=== Regional breakdown ===
{{- range .RegionalBreakdown}}
- {{.Region}}: {{inr .Revenue}} ({{percent .Share}})
{{- end}}
{{- end}}
{{- with .Projections}}

=== Projections ===
Next 4 weeks: {{inr .Next4Weeks}}
Peak revenue: {{inr .PeakRevenue}}
Risk: {{.RiskLevel}}
{{- end}}
{{- if or .SocialBuzz .StreamingImpact}}

=== Audience ===
{{- if .SocialBuzz}}
Social buzz: {{.SocialBuzz}}
{{- end}}
{{- if .StreamingImpact}}
Streaming impact: {{.StreamingImpact}}
{{- end}}
{{- end}}
`

var funcs = template.FuncMap{
	"inr":     INR,
	"percent": Percent,
	"leader": func(r *report.Report) *report.RegionTotal {
		if l, ok := r.MarketLeader(); ok {
			return &l
		}
		return nil
	},
	"topGenre": func(r *report.Report) *report.GenreShare {
		if g, ok := r.TopGenre(); ok {
			return &g
		}
		return nil
	},
	"roi": func(m report.Movie) string {
		if v, ok := m.ROI(); ok {
			return fmt.Sprintf("%.1f%%", v)
		}
		return ""
	},
}

var (
	reportTmpl = template.Must(template.New("report").Funcs(funcs).Parse(reportTemplate))
	movieTmpl  = template.Must(template.New("movie").Funcs(funcs).Parse(movieTemplate))
)

// Reporter writes reports and suggestions to a terminal.
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (r *Reporter) Report(focus string, rep *report.Report) error {
	if rep == nil {
		_, err := fmt.Fprintln(r.writer, "No report available.")
		return err
	}
	data := struct {
		Focus  string
		Report *report.Report
	}{Focus: focus, Report: rep}
	if err := reportTmpl.Execute(r.writer, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// Movie renders the full detail view of one title.
func (r *Reporter) Movie(m report.Movie) error {
	if err := movieTmpl.Execute(r.writer, m); err != nil {
		return fmt.Errorf("failed to render movie: %w", err)
	}
	return nil
}

func (r *Reporter) JSON(v any) error {
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Reporter) Suggestions(list []suggest.Suggestion) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(r.writer, "No suggestions.")
		return err
	}
	var b strings.Builder
	for _, s := range list {
		fmt.Fprintf(&b, "%-8s %s\n", s.Kind, s.Label)
	}
	_, err := io.WriteString(r.writer, b.String())
	return err
}
