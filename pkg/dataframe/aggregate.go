package dataframe

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// MeanPrecision is the number of decimal places kept by MeanBy.
const MeanPrecision = 16

type group struct {
	count int64
	sum   decimal.Decimal
	seen  map[string]struct{}
}

// groupBy partitions rows by the text of key. valueIdx < 0 skips the sum.
func groupBy(t *Table, keyIdx, valueIdx int, field string) (map[string]*group, error) {
	groups := make(map[string]*group)
	for r, row := range t.rows {
		k := row[keyIdx].Text()
		g, ok := groups[k]
		if !ok {
			g = &group{sum: decimal.Zero}
			groups[k] = g
		}
		g.count++
		if valueIdx < 0 {
			continue
		}
		d, ok := row[valueIdx].Decimal()
		if !ok {
			return nil, &SchemaError{Table: t.name, Field: field, Row: r + 1, Reason: "null value in aggregated field"}
		}
		g.sum = g.sum.Add(d)
	}
	return groups, nil
}

func sortedPoints(groups map[string]*group, value func(*group) decimal.Decimal) []Point {
	labels := make([]string, 0, len(groups))
	for k := range groups {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	points := make([]Point, len(labels))
	for i, l := range labels {
		points[i] = Point{Label: l, Value: value(groups[l])}
	}
	return points
}

// CountBy counts rows per distinct value of key.
func CountBy(t *Table, key string) (*Series, error) {
	if t.Len() == 0 {
		return nil, &EmptyTableError{Table: t.name, Op: "count"}
	}
	ki, err := t.column(key)
	if err != nil {
		return nil, err
	}
	groups, err := groupBy(t, ki, -1, "")
	if err != nil {
		return nil, err
	}
	return newSeries(fmt.Sprintf("count of %s in %s", key, t.name),
		sortedPoints(groups, func(g *group) decimal.Decimal { return decimal.NewFromInt(g.count) })), nil
}

// SumBy sums field per distinct value of key. An empty table gives an empty series.
func SumBy(t *Table, key, field string) (*Series, error) {
	ki, err := t.column(key)
	if err != nil {
		return nil, err
	}
	vi, err := t.numericColumn(field)
	if err != nil {
		return nil, err
	}
	groups, err := groupBy(t, ki, vi, field)
	if err != nil {
		return nil, err
	}
	return newSeries(fmt.Sprintf("sum of %s by %s in %s", field, key, t.name),
		sortedPoints(groups, func(g *group) decimal.Decimal { return g.sum })), nil
}

// MeanBy averages field per distinct value of key. Groups only come from
// existing rows, so no group is empty.
func MeanBy(t *Table, key, field string) (*Series, error) {
	ki, err := t.column(key)
	if err != nil {
		return nil, err
	}
	vi, err := t.numericColumn(field)
	if err != nil {
		return nil, err
	}
	groups, err := groupBy(t, ki, vi, field)
	if err != nil {
		return nil, err
	}
	return newSeries(fmt.Sprintf("mean of %s by %s in %s", field, key, t.name),
		sortedPoints(groups, func(g *group) decimal.Decimal { return Mean(g.sum, g.count) })), nil
}

// Mean is the division MeanBy applies to a group sum.
func Mean(sum decimal.Decimal, count int64) decimal.Decimal {
	return sum.DivRound(decimal.NewFromInt(count), MeanPrecision)
}

// NUniqueBy counts distinct non-null values of field per distinct value of key.
func NUniqueBy(t *Table, key, field string) (*Series, error) {
	ki, err := t.column(key)
	if err != nil {
		return nil, err
	}
	vi, err := t.column(field)
	if err != nil {
		return nil, err
	}
	groups := make(map[string]*group)
	for _, row := range t.rows {
		k := row[ki].Text()
		g, ok := groups[k]
		if !ok {
			g = &group{seen: make(map[string]struct{})}
			groups[k] = g
		}
		if row[vi].null {
			continue
		}
		g.seen[joinKey(row[vi])] = struct{}{}
	}
	return newSeries(fmt.Sprintf("distinct %s by %s in %s", field, key, t.name),
		sortedPoints(groups, func(g *group) decimal.Decimal { return decimal.NewFromInt(int64(len(g.seen))) })), nil
}

// ArgMax returns the row with the largest field value. The first such row in
// table order wins a tie.
func ArgMax(t *Table, field string) (Row, error) {
	vi, err := t.numericColumn(field)
	if err != nil {
		return Row{}, err
	}
	if t.Len() == 0 {
		return Row{}, &EmptyTableError{Table: t.name, Op: "argmax"}
	}
	best := -1
	var top decimal.Decimal
	for r, row := range t.rows {
		d, ok := row[vi].Decimal()
		if !ok {
			return Row{}, &SchemaError{Table: t.name, Field: field, Row: r + 1, Reason: "null value in aggregated field"}
		}
		if best < 0 || d.GreaterThan(top) {
			best, top = r, d
		}
	}
	return Row{table: t, pos: best}, nil
}
