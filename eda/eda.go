package eda

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"salescast/tabular"
)

var (
	ErrNonNumeric  = errors.New("non-numeric value")
	ErrInvalidBins = errors.New("invalid bins")
)

// Record is one row of an aggregation, keyed by output column name.
type Record map[string]interface{}

// Analyzer computes descriptive aggregations over one table and collects them
// by result key.
type Analyzer struct {
	table   *tabular.Table
	results map[string]interface{}
}

// New returns an analyzer over t.
func New(t *tabular.Table) *Analyzer {
	return &Analyzer{table: t, results: make(map[string]interface{})}
}

// Results returns every aggregation computed so far.
func (a *Analyzer) Results() map[string]interface{} {
	out := make(map[string]interface{}, len(a.results))
	for k, v := range a.results {
		out[k] = v
	}
	return out
}

// CountPlot counts rows per value of x, or per (x, hue) pair when hue is set.
// Blank cells are not counted.
func (a *Analyzer) CountPlot(x, hue string) error {
	xs, err := a.table.Column(x)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("countplot_%s_%s", x, orNone(hue))

	if hue == "" {
		counts := countValues(xs)
		numeric := allNumeric(counts.order)
		records := make([]Record, 0, len(counts.order))
		for _, v := range counts.byFrequency() {
			records = append(records, Record{x: typed(v, numeric), "count": counts.n[v]})
		}
		a.results[key] = records
		return nil
	}

	hs, err := a.table.Column(hue)
	if err != nil {
		return err
	}

	type pair struct{ x, h string }
	n := make(map[pair]int)
	var pairs []pair
	for i := range xs {
		p := pair{strings.TrimSpace(xs[i]), strings.TrimSpace(hs[i])}
		if p.x == "" || p.h == "" {
			continue
		}
		if _, seen := n[p]; !seen {
			pairs = append(pairs, p)
		}
		n[p]++
	}

	xKeys := make([]string, 0, len(pairs))
	hKeys := make([]string, 0, len(pairs))
	for _, p := range pairs {
		xKeys = append(xKeys, p.x)
		hKeys = append(hKeys, p.h)
	}
	xNum, hNum := allNumeric(xKeys), allNumeric(hKeys)

	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].x != pairs[j].x {
			return keyLess(pairs[i].x, pairs[j].x, xNum)
		}
		return keyLess(pairs[i].h, pairs[j].h, hNum)
	})

	records := make([]Record, 0, len(pairs))
	for _, p := range pairs {
		records = append(records, Record{x: typed(p.x, xNum), hue: typed(p.h, hNum), "count": n[p]})
	}
	a.results[key] = records
	return nil
}

// Crosstab tabulates row values against column values. Without a values column
// each cell is a row count; with one, the values (booleans or numbers, as
// integers) are summed. Every row/column combination is present, zero-filled.
func (a *Analyzer) Crosstab(row, col, values string) error {
	rs, err := a.table.Column(row)
	if err != nil {
		return err
	}
	cs, err := a.table.Column(col)
	if err != nil {
		return err
	}
	var vs []string
	if values != "" {
		if vs, err = a.table.Column(values); err != nil {
			return err
		}
	}

	rowCounts, colCounts := countValues(rs), countValues(cs)
	out := make(map[string]map[string]float64, len(rowCounts.order))
	for _, r := range rowCounts.order {
		cells := make(map[string]float64, len(colCounts.order))
		for _, c := range colCounts.order {
			cells[c] = 0
		}
		out[r] = cells
	}

	for i := range rs {
		r, c := strings.TrimSpace(rs[i]), strings.TrimSpace(cs[i])
		if r == "" || c == "" {
			continue
		}
		inc := 1.0
		if vs != nil {
			v, err := asInt(vs[i])
			if err != nil {
				return fmt.Errorf("crosstab %s row %d: %w", values, i+1, err)
			}
			inc = float64(v)
		}
		out[r][c] += inc
	}

	a.results[fmt.Sprintf("crosstab_%s_%s", row, col)] = out
	return nil
}

// ValueCountsNormalized reports each value's share of the non-blank cells of col,
// most frequent first.
func (a *Analyzer) ValueCountsNormalized(col string) error {
	cells, err := a.table.Column(col)
	if err != nil {
		return err
	}

	counts := countValues(cells)
	numeric := allNumeric(counts.order)
	records := make([]Record, 0, len(counts.order))
	for _, v := range counts.byFrequency() {
		records = append(records, Record{col: typed(v, numeric), "proportion": share(counts.n[v], counts.total)})
	}

	a.results["value_counts_normalized_"+col] = records
	return nil
}

// AgeBins assigns numeric values of col to right-closed bins (edges[i],
// edges[i+1]] named by labels, and reports each bin's share of the binned
// values. Values outside every bin are ignored; empty bins are still reported.
func (a *Analyzer) AgeBins(col string, edges []float64, labels []string) error {
	if len(edges) < 2 || len(labels) != len(edges)-1 {
		return fmt.Errorf("%w: %d edges need %d labels, got %d", ErrInvalidBins, len(edges), len(edges)-1, len(labels))
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return fmt.Errorf("%w: edges must increase", ErrInvalidBins)
		}
	}

	cells, err := a.table.Column(col)
	if err != nil {
		return err
	}

	counts := make([]int, len(labels))
	total := 0
	for i, c := range cells {
		if strings.TrimSpace(c) == "" {
			continue
		}
		v, ok := tabular.ParseNumber(c)
		if !ok {
			return fmt.Errorf("%w: column %q row %d value %q", ErrNonNumeric, col, i+1, c)
		}
		for b := 0; b < len(labels); b++ {
			if v > edges[b] && v <= edges[b+1] {
				counts[b]++
				total++
				break
			}
		}
	}

	order := make([]int, len(labels))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })

	records := make([]Record, 0, len(labels))
	for _, b := range order {
		records = append(records, Record{"AgeRange": labels[b], "proportion": share(counts[b], total)})
	}
	a.results["age_bins_distribution"] = records
	return nil
}

// HistogramSalesByCategory sums salesCol per value of each listed column.
// Columns that are not in the table are skipped.
func (a *Analyzer) HistogramSalesByCategory(cols []string, salesCol string) error {
	for _, col := range cols {
		if !a.table.Has(col) || !a.table.Has(salesCol) {
			continue
		}
		records, err := a.groupSum(col, salesCol)
		if err != nil {
			return err
		}
		a.results[fmt.Sprintf("histogram_%s_sales", col)] = records
	}
	return nil
}

// HistogramSalesByTime sums salesCol per value of timeCol.
func (a *Analyzer) HistogramSalesByTime(timeCol, salesCol string) error {
	return a.timeSeries("histogram", timeCol, salesCol)
}

// LineGraphSalesOverTime sums salesCol per value of timeCol, for plotting as a line.
func (a *Analyzer) LineGraphSalesOverTime(timeCol, salesCol string) error {
	return a.timeSeries("line_graph", timeCol, salesCol)
}

func (a *Analyzer) timeSeries(prefix, timeCol, salesCol string) error {
	if !a.table.Has(timeCol) || !a.table.Has(salesCol) {
		return nil
	}
	records, err := a.groupSum(timeCol, salesCol)
	if err != nil {
		return err
	}
	a.results[fmt.Sprintf("%s_%s_sales", prefix, timeCol)] = records
	return nil
}

// groupSum totals salesCol per distinct keyCol value, keys ascending. Rows with a
// blank key or blank sales are skipped.
func (a *Analyzer) groupSum(keyCol, salesCol string) ([]Record, error) {
	keys, err := a.table.Column(keyCol)
	if err != nil {
		return nil, err
	}
	sales, err := a.table.Column(salesCol)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64)
	var order []string
	for i := range keys {
		k := strings.TrimSpace(keys[i])
		if k == "" || strings.TrimSpace(sales[i]) == "" {
			continue
		}
		v, ok := tabular.ParseNumber(sales[i])
		if !ok {
			return nil, fmt.Errorf("%w: column %q row %d value %q", ErrNonNumeric, salesCol, i+1, sales[i])
		}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += v
	}

	numeric := allNumeric(order)
	sort.SliceStable(order, func(i, j int) bool { return keyLess(order[i], order[j], numeric) })

	records := make([]Record, 0, len(order))
	for _, k := range order {
		records = append(records, Record{keyCol: typed(k, numeric), "total_sales": sums[k]})
	}
	return records, nil
}

type valueCounts struct {
	order []string
	n     map[string]int
	total int
}

func countValues(cells []string) valueCounts {
	vc := valueCounts{n: make(map[string]int)}
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, seen := vc.n[c]; !seen {
			vc.order = append(vc.order, c)
		}
		vc.n[c]++
		vc.total++
	}
	return vc
}

// byFrequency orders values by descending count, first appearance breaking ties.
func (vc valueCounts) byFrequency() []string {
	out := append([]string(nil), vc.order...)
	sort.SliceStable(out, func(i, j int) bool { return vc.n[out[i]] > vc.n[out[j]] })
	return out
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

func allNumeric(keys []string) bool {
	if len(keys) == 0 {
		return false
	}
	for _, k := range keys {
		if _, ok := tabular.ParseNumber(k); !ok {
			return false
		}
	}
	return true
}

func keyLess(a, b string, numeric bool) bool {
	if numeric {
		x, _ := tabular.ParseNumber(a)
		y, _ := tabular.ParseNumber(b)
		return x < y
	}
	return a < b
}

func typed(s string, numeric bool) interface{} {
	if numeric {
		v, _ := tabular.ParseNumber(s)
		return v
	}
	return s
}

func asInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "true", "yes":
		return 1, nil
	case "false", "no", "":
		return 0, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	if f, ok := tabular.ParseNumber(s); ok {
		return int64(f), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrNonNumeric, s)
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
