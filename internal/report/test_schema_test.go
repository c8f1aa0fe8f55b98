package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	genai "google.golang.org/genai"
)

func TestSchemaShape(t *testing.T) {
	s := Schema()
	require.Equal(t, genai.TypeObject, s.Type)
	assert.ElementsMatch(t, ReportRequired, s.Required)
	require.NotNil(t, s.Properties["totalMarketValue"].Minimum)
	assert.Equal(t, 0.0, *s.Properties["totalMarketValue"].Minimum)

	movie := s.Properties["trendingMovies"].Items
	require.NotNil(t, movie)
	assert.Equal(t, MovieRequired, movie.Required)
	assert.Len(t, movie.PropertyOrdering, len(movie.Properties))
	assert.Equal(t, []string{"High", "Medium", "Low"}, movie.Properties["socialBuzz"].Enum)
	assert.Equal(t, []string{"High", "Medium", "Low"}, movie.Properties["projections"].Properties["riskLevel"].Enum)
}

func TestSchemaIsFreshPerCall(t *testing.T) {
	a := Schema()
	a.Required = nil
	assert.NotEmpty(t, Schema().Required)
}

func TestValidateAcceptsFloatNumbers(t *testing.T) {
	var tree any
	require.NoError(t, json.Unmarshal([]byte(minimalMovie), &tree))
	assert.NoError(t, Validate(Schema(), tree))
}

func TestValidateIntegerAndBoolean(t *testing.T) {
	s := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"count": {Type: genai.TypeInteger},
			"ok":    {Type: genai.TypeBoolean},
		},
		Required: []string{"count"},
	}
	assert.NoError(t, Validate(s, map[string]any{"count": json.Number("3"), "ok": true}))

	err := Validate(s, map[string]any{"count": json.Number("3.5")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "count", verr.Path)

	err = Validate(s, map[string]any{"count": json.Number("1"), "ok": "yes"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ok", verr.Path)
}
