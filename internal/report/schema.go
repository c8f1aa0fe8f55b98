package report

import genai "google.golang.org/genai"

// MovieRequired is the minimal field set every trending movie must carry.
var MovieRequired = []string{"id", "title", "releaseDate", "genre", "origin", "budget", "worldwideRevenue", "summary"}

// ReportRequired lists the top-level fields of a report.
var ReportRequired = []string{"totalMarketValue", "topGenres", "regionalRevenue", "marketInsights", "trendingMovies"}

func levelEnum() []string {
	out := make([]string, 0, 3)
	for _, l := range Levels() {
		out = append(out, string(l))
	}
	return out
}

func str() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
func num() *genai.Schema { return &genai.Schema{Type: genai.TypeNumber} }

func enum(values []string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Format: "enum", Enum: values}
}

func object(order []string, props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		PropertyOrdering: order,
		Required:         required,
	}
}

func array(items *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: items}
}

// MovieSchema describes one entry of trendingMovies.
func MovieSchema() *genai.Schema {
	return object(
		[]string{
			"id", "title", "releaseDate", "genre", "origin",
			"budget", "worldwideRevenue", "openingWeekend",
			"ratings", "streamingImpact", "socialBuzz",
			"regionalBreakdown", "summary", "projections",
		},
		map[string]*genai.Schema{
			"id":               str(),
			"title":            str(),
			"releaseDate":      str(),
			"genre":            str(),
			"origin":           str(),
			"budget":           num(),
			"worldwideRevenue": num(),
			"openingWeekend":   num(),
			"ratings": object(
				[]string{"imdb", "rottenTomatoes", "metacritic"},
				map[string]*genai.Schema{
					"imdb":           num(),
					"rottenTomatoes": num(),
					"metacritic":     num(),
				},
				"imdb", "rottenTomatoes", "metacritic",
			),
			"streamingImpact": str(),
			"socialBuzz":      enum(levelEnum()),
			"regionalBreakdown": array(object(
				[]string{"region", "revenue", "share"},
				map[string]*genai.Schema{
					"region":  str(),
					"revenue": num(),
					"share":   num(),
				},
				"region", "revenue", "share",
			)),
			"summary": str(),
			"projections": object(
				[]string{"next4Weeks", "peakRevenue", "riskLevel"},
				map[string]*genai.Schema{
					"next4Weeks":  num(),
					"peakRevenue": num(),
					"riskLevel":   enum(levelEnum()),
				},
				"next4Weeks", "peakRevenue", "riskLevel",
			),
		},
		MovieRequired...,
	)
}

// Schema returns the response schema requested from the provider. A fresh
// value is built on every call so callers may not mutate a shared instance.
func Schema() *genai.Schema {
	total := num()
	total.Minimum = genai.Ptr(0.0)

	return object(
		ReportRequired,
		map[string]*genai.Schema{
			"totalMarketValue": total,
			"topGenres": array(object(
				[]string{"name", "value"},
				map[string]*genai.Schema{"name": str(), "value": num()},
				"name", "value",
			)),
			"regionalRevenue": array(object(
				[]string{"region", "total"},
				map[string]*genai.Schema{"region": str(), "total": num()},
				"region", "total",
			)),
			"marketInsights": array(str()),
			"trendingMovies": array(MovieSchema()),
		},
		ReportRequired...,
	)
}
