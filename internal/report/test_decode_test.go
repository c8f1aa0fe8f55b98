package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullPayload = `{
  "totalMarketValue": 2450000000,
  "topGenres": [{"name": "Action", "value": 34.5}, {"name": "Drama", "value": 21}],
  "regionalRevenue": [{"region": "India", "total": 900000000}, {"region": "North America", "total": 600000000}],
  "marketInsights": ["Festive releases dominate", "Festive releases dominate"],
  "trendingMovies": [
    {
      "id": "m-1",
      "title": "Noir",
      "releaseDate": "2026-08-15",
      "genre": "Thriller",
      "origin": "Bollywood",
      "budget": 1500000000,
      "worldwideRevenue": 4200000000,
      "openingWeekend": 950000000,
      "ratings": {"imdb": 7.9, "rottenTomatoes": 88, "metacritic": 71},
      "streamingImpact": "Strong pre-sale to a major platform",
      "socialBuzz": "High",
      "regionalBreakdown": [{"region": "India", "revenue": 3000000000, "share": 71.4}],
      "summary": "Breakout hit.",
      "projections": {"next4Weeks": 300000000, "peakRevenue": 4600000000, "riskLevel": "Low"}
    }
  ]
}`

const minimalMovie = `{
  "totalMarketValue": 10,
  "topGenres": [],
  "regionalRevenue": [],
  "marketInsights": [],
  "trendingMovies": [
    {"id": "a", "title": "Avatar: The Way", "releaseDate": "last month", "genre": "Sci-Fi",
     "origin": "Hollywood", "budget": 1, "worldwideRevenue": 2, "summary": "ok"}
  ]
}`

func mutate(t *testing.T, payload string, fn func(m map[string]any)) []byte {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &m))
	fn(m)
	out, err := json.Marshal(m)
	require.NoError(t, err)
	return out
}

func firstMovie(m map[string]any) map[string]any {
	return m["trendingMovies"].([]any)[0].(map[string]any)
}

func TestDecodeFullPayload(t *testing.T) {
	r, err := Decode([]byte(fullPayload))
	require.NoError(t, err)

	assert.Equal(t, 2450000000.0, r.TotalMarketValue)
	require.Len(t, r.TrendingMovies, 1)
	m := r.TrendingMovies[0]
	assert.Equal(t, "Noir", m.Title)
	assert.Equal(t, LevelHigh, m.SocialBuzz)
	require.NotNil(t, m.Ratings)
	assert.Equal(t, 88.0, m.Ratings.RottenTomatoes)
	require.NotNil(t, m.Projections)
	assert.Equal(t, LevelLow, m.Projections.RiskLevel)

	// insights keep order and duplicates
	assert.Equal(t, []string{"Festive releases dominate", "Festive releases dominate"}, r.MarketInsights)

	leader, ok := r.MarketLeader()
	require.True(t, ok)
	assert.Equal(t, "India", leader.Region)
	genre, ok := r.TopGenre()
	require.True(t, ok)
	assert.Equal(t, "Action", genre.Name)
}

func TestDecodeMinimalMovie(t *testing.T) {
	r, err := Decode([]byte(minimalMovie))
	require.NoError(t, err)
	m := r.TrendingMovies[0]
	assert.Nil(t, m.Ratings)
	assert.Nil(t, m.Projections)
	assert.Zero(t, m.OpeningWeekend)
	assert.Equal(t, Level(""), m.SocialBuzz)
}

func TestDecodeToleratesNullOptionalFields(t *testing.T) {
	raw := mutate(t, minimalMovie, func(m map[string]any) {
		firstMovie(m)["ratings"] = nil
		firstMovie(m)["socialBuzz"] = nil
	})
	_, err := Decode(raw)
	require.NoError(t, err)
}

func TestDecodeStripsCodeFence(t *testing.T) {
	r, err := Decode([]byte("```json\n" + minimalMovie + "\n```"))
	require.NoError(t, err)
	assert.Len(t, r.TrendingMovies, 1)
}

func TestDecodeRejects(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
		path string
	}{
		{
			name: "missing trendingMovies",
			raw:  mutate(t, fullPayload, func(m map[string]any) { delete(m, "trendingMovies") }),
			path: "trendingMovies",
		},
		{
			name: "missing totalMarketValue",
			raw:  mutate(t, fullPayload, func(m map[string]any) { delete(m, "totalMarketValue") }),
			path: "totalMarketValue",
		},
		{
			name: "negative totalMarketValue",
			raw:  mutate(t, fullPayload, func(m map[string]any) { m["totalMarketValue"] = -1 }),
			path: "totalMarketValue",
		},
		{
			name: "null required movie field",
			raw:  mutate(t, fullPayload, func(m map[string]any) { firstMovie(m)["budget"] = nil }),
			path: "trendingMovies[0].budget",
		},
		{
			name: "number as string",
			raw:  mutate(t, fullPayload, func(m map[string]any) { firstMovie(m)["worldwideRevenue"] = "4.2B" }),
			path: "trendingMovies[0].worldwideRevenue",
		},
		{
			name: "unknown socialBuzz",
			raw:  mutate(t, fullPayload, func(m map[string]any) { firstMovie(m)["socialBuzz"] = "Viral" }),
			path: "trendingMovies[0].socialBuzz",
		},
		{
			name: "lowercase riskLevel",
			raw: mutate(t, fullPayload, func(m map[string]any) {
				firstMovie(m)["projections"].(map[string]any)["riskLevel"] = "low"
			}),
			path: "trendingMovies[0].projections.riskLevel",
		},
		{
			name: "partial ratings",
			raw: mutate(t, fullPayload, func(m map[string]any) {
				delete(firstMovie(m)["ratings"].(map[string]any), "metacritic")
			}),
			path: "trendingMovies[0].ratings.metacritic",
		},
		{
			name: "duplicate ids",
			raw: mutate(t, fullPayload, func(m map[string]any) {
				movies := m["trendingMovies"].([]any)
				m["trendingMovies"] = append(movies, movies[0])
			}),
			path: "trendingMovies[1].id",
		},
		{
			name: "top level array",
			raw:  []byte(`[` + fullPayload + `]`),
			path: "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.raw)
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.path, verr.Path)
		})
	}
}

func TestDecodeRejectsOverflowingNumber(t *testing.T) {
	raw := []byte(strings.Replace(minimalMovie, `"totalMarketValue": 10`, `"totalMarketValue": 1e400`, 1))
	_, err := Decode(raw)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "totalMarketValue", verr.Path)
	assert.Equal(t, "number out of range", verr.Reason)
}

func TestDecodeRejectsNonJSON(t *testing.T) {
	_, err := Decode([]byte("The box office is booming this quarter."))
	require.Error(t, err)

	_, err = Decode([]byte("   "))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Decode([]byte(minimalMovie + `{}`))
	require.Error(t, err)
}

func TestMovieByID(t *testing.T) {
	r, err := Decode([]byte(fullPayload))
	require.NoError(t, err)

	m, ok := r.MovieByID("m-1")
	require.True(t, ok)
	assert.Equal(t, "Noir", m.Title)

	_, ok = r.MovieByID("missing")
	assert.False(t, ok)

	var nilReport *Report
	_, ok = nilReport.MovieByID("m-1")
	assert.False(t, ok)
}

func TestMovieROI(t *testing.T) {
	roi, ok := Movie{Budget: 1_500_000_000, WorldwideRevenue: 4_200_000_000}.ROI()
	require.True(t, ok)
	assert.InDelta(t, 180.0, roi, 1e-9)

	_, ok = Movie{WorldwideRevenue: 10}.ROI()
	assert.False(t, ok)
}
