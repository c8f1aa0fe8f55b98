package report

// Level is the three-step scale used for social buzz and projection risk.
type Level string

const (
	LevelHigh   Level = "High"
	LevelMedium Level = "Medium"
	LevelLow    Level = "Low"
)

// Levels lists the accepted Level values in descending order.
func Levels() []Level { return []Level{LevelHigh, LevelMedium, LevelLow} }

func (l Level) Valid() bool {
	switch l {
	case LevelHigh, LevelMedium, LevelLow:
		return true
	}
	return false
}

// Report is one analytics snapshot returned by the provider for a focus query.
// Slice order is whatever the provider returned; nothing is re-sorted locally.
type Report struct {
	TotalMarketValue float64       `json:"totalMarketValue"`
	TopGenres        []GenreShare  `json:"topGenres"`
	RegionalRevenue  []RegionTotal `json:"regionalRevenue"`
	MarketInsights   []string      `json:"marketInsights"`
	TrendingMovies   []Movie       `json:"trendingMovies"`
}

type GenreShare struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"` // percentage
}

type RegionTotal struct {
	Region string  `json:"region"`
	Total  float64 `json:"total"`
}

// Movie holds one title's analytics. Only the identity, descriptive fields,
// budget, worldwide revenue and summary are guaranteed; everything else may be
// zero or nil when the provider omitted it.
type Movie struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	ReleaseDate      string  `json:"releaseDate"`
	Genre            string  `json:"genre"`
	Origin           string  `json:"origin"`
	Budget           float64 `json:"budget"`
	WorldwideRevenue float64 `json:"worldwideRevenue"`
	OpeningWeekend   float64 `json:"openingWeekend,omitempty"`

	Ratings           *Ratings              `json:"ratings,omitempty"`
	StreamingImpact   string                `json:"streamingImpact,omitempty"`
	SocialBuzz        Level                 `json:"socialBuzz,omitempty"`
	RegionalBreakdown []RegionalPerformance `json:"regionalBreakdown,omitempty"`
	Summary           string                `json:"summary"`
	Projections       *Projections          `json:"projections,omitempty"`
}

type Ratings struct {
	IMDb           float64 `json:"imdb"`
	RottenTomatoes float64 `json:"rottenTomatoes"`
	Metacritic     float64 `json:"metacritic"`
}

// RegionalPerformance is one row of a movie's regional split. Shares are
// percentages as supplied and are not required to sum to 100.
type RegionalPerformance struct {
	Region  string  `json:"region"`
	Revenue float64 `json:"revenue"`
	Share   float64 `json:"share"`
}

type Projections struct {
	Next4Weeks  float64 `json:"next4Weeks"`
	PeakRevenue float64 `json:"peakRevenue"`
	RiskLevel   Level   `json:"riskLevel"`
}

// MarketLeader returns the first regional row, which the provider ranks as the
// leading market.
func (r *Report) MarketLeader() (RegionTotal, bool) {
	if r == nil || len(r.RegionalRevenue) == 0 {
		return RegionTotal{}, false
	}
	return r.RegionalRevenue[0], true
}

// TopGenre returns the most significant genre as ranked by the provider.
func (r *Report) TopGenre() (GenreShare, bool) {
	if r == nil || len(r.TopGenres) == 0 {
		return GenreShare{}, false
	}
	return r.TopGenres[0], true
}

// ROI is the percentage return of worldwide revenue over budget. It is
// undefined for a non-positive budget.
func (m Movie) ROI() (float64, bool) {
	if m.Budget <= 0 {
		return 0, false
	}
	return (m.WorldwideRevenue - m.Budget) / m.Budget * 100, true
}

func (r *Report) MovieByID(id string) (Movie, bool) {
	if r == nil {
		return Movie{}, false
	}
	for _, m := range r.TrendingMovies {
		if m.ID == id {
			return m, true
		}
	}
	return Movie{}, false
}
