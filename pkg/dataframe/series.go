package dataframe

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Point is one labelled value of a Series.
type Point struct {
	Label string
	Value decimal.Decimal
}

// Series is the result of a group-by aggregation: one value per distinct key.
// Points are ordered by label unless re-sorted with SortedByValue.
type Series struct {
	name   string
	points []Point
	pos    map[string]int
}

func newSeries(name string, points []Point) *Series {
	s := &Series{name: name, points: points, pos: make(map[string]int, len(points))}
	for i, p := range points {
		s.pos[p.Label] = i
	}
	return s
}

// Name describes how the series was computed, e.g. "count of status in tasks".
func (s *Series) Name() string { return s.name }

func (s *Series) Len() int { return len(s.points) }

func (s *Series) Points() []Point { return append([]Point(nil), s.points...) }

func (s *Series) Labels() []string {
	out := make([]string, len(s.points))
	for i, p := range s.points {
		out[i] = p.Label
	}
	return out
}

func (s *Series) Get(label string) (decimal.Decimal, bool) {
	i, ok := s.pos[label]
	if !ok {
		return decimal.Zero, false
	}
	return s.points[i].Value, true
}

// Lookup is Get that fails with MissingCategoryError.
func (s *Series) Lookup(label string) (decimal.Decimal, error) {
	v, ok := s.Get(label)
	if !ok {
		return decimal.Zero, &MissingCategoryError{Series: s.name, Category: label, Available: s.Labels()}
	}
	return v, nil
}

func (s *Series) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.points {
		total = total.Add(p.Value)
	}
	return total
}

// SortedByValue returns a copy ordered by descending value, ties by label.
func (s *Series) SortedByValue() *Series {
	points := s.Points()
	sort.SliceStable(points, func(i, j int) bool {
		if c := points[i].Value.Cmp(points[j].Value); c != 0 {
			return c > 0
		}
		return points[i].Label < points[j].Label
	})
	return newSeries(s.name, points)
}
