package report

import (
	"errors"
	"fmt"
)

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var ErrDuplicateItem = errors.New("item already recorded")

// Item is one unit of batch work together with its terminal outcome.
type Item struct {
	ID       string
	Outcome  Outcome
	Err      error
	SrcBytes int64
	DstBytes int64
}

type Totals struct {
	Items    int
	Success  int
	Skipped  int
	Failed   int
	SrcBytes int64
	DstBytes int64
	// SrcKB and DstKB sum the per-item sizes after truncating each to whole
	// KB, matching the per-file lines of the console report.
	SrcKB int64
	DstKB int64
}

// Report accumulates item outcomes in the order they were recorded. Byte
// totals only count successful items.
type Report struct {
	items []Item
	seen  map[string]struct{}
	byCat map[Outcome][]string
}

func New() *Report {
	return &Report{
		seen:  make(map[string]struct{}),
		byCat: make(map[Outcome][]string),
	}
}

func (r *Report) Record(item Item) error {
	if _, ok := r.seen[item.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateItem, item.ID)
	}
	r.seen[item.ID] = struct{}{}
	r.items = append(r.items, item)
	r.byCat[item.Outcome] = append(r.byCat[item.Outcome], item.ID)
	return nil
}

// IDs returns the identifiers recorded under outcome, in record order.
func (r *Report) IDs(outcome Outcome) []string {
	ids := r.byCat[outcome]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func (r *Report) Lookup(id string) (Item, bool) {
	for _, item := range r.items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

func (r *Report) Totals() Totals {
	t := Totals{Items: len(r.items)}
	for _, item := range r.items {
		switch item.Outcome {
		case OutcomeSuccess:
			t.Success++
			t.SrcBytes += item.SrcBytes
			t.DstBytes += item.DstBytes
			t.SrcKB += KB(item.SrcBytes)
			t.DstKB += KB(item.DstBytes)
		case OutcomeSkipped:
			t.Skipped++
		case OutcomeFailed:
			t.Failed++
		}
	}
	return t
}

// ReductionPercent is the size saving of dst relative to src; zero when src is zero.
func ReductionPercent(src, dst int64) float64 {
	if src == 0 {
		return 0
	}
	return (1 - float64(dst)/float64(src)) * 100
}

// KB truncates like the size column of the console report.
func KB(n int64) int64 {
	return n / 1024
}
