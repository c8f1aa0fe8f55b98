package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrEmpty is returned by Decode when the payload has no content at all.
var ErrEmpty = errors.New("report: empty payload")

// Decode parses a provider payload into a Report. It fails closed: the
// payload must be a single JSON object satisfying Schema(), and movie ids must
// be unique within the report.
func Decode(raw []byte) (*Report, error) {
	body := stripFence(raw)
	if len(body) == 0 {
		return nil, ErrEmpty
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("report: parse payload: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ValidationError{Reason: "trailing data after JSON document"}
	}
	if err := Validate(Schema(), tree); err != nil {
		return nil, err
	}

	var out Report
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("report: decode payload: %w", err)
	}
	if err := checkUniqueIDs(out.TrendingMovies); err != nil {
		return nil, err
	}
	return &out, nil
}

func checkUniqueIDs(movies []Movie) error {
	seen := make(map[string]int, len(movies))
	for i, m := range movies {
		if j, dup := seen[m.ID]; dup {
			return invalid(fmt.Sprintf("trendingMovies[%d].id", i), "duplicate id %q (first at index %d)", m.ID, j)
		}
		seen[m.ID] = i
	}
	return nil
}

// stripFence removes a markdown code fence some models wrap around JSON when
// search grounding is enabled.
func stripFence(raw []byte) []byte {
	b := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	b = b[3:]
	if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
		b = b[nl+1:]
	} else {
		return nil
	}
	b = bytes.TrimSpace(b)
	b = bytes.TrimSuffix(b, []byte("```"))
	return bytes.TrimSpace(b)
}
