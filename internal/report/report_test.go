package report

import (
	"errors"
	"math"
	"testing"
)

func TestReportCountsEveryItemOnce(t *testing.T) {
	r := New()
	if err := r.Record(Item{ID: "a.jpg", Outcome: OutcomeSuccess, SrcBytes: 4000, DstBytes: 1000}); err != nil {
		t.Fatalf("success: %v", err)
	}
	if err := r.Record(Item{ID: "b.jpg", Outcome: OutcomeSkipped}); err != nil {
		t.Fatalf("skip: %v", err)
	}
	if err := r.Record(Item{ID: "c.jpg", Outcome: OutcomeFailed, Err: errors.New("boom")}); err != nil {
		t.Fatalf("fail: %v", err)
	}

	totals := r.Totals()
	if totals.Success+totals.Skipped+totals.Failed != totals.Items || totals.Items != 3 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
	if totals.SrcBytes != 4000 || totals.DstBytes != 1000 {
		t.Fatalf("byte totals should only include successes: %+v", totals)
	}
	if totals.SrcKB != 3 || totals.DstKB != 0 {
		t.Fatalf("KB totals should truncate per item: %+v", totals)
	}
	if got := r.IDs(OutcomeFailed); len(got) != 1 || got[0] != "c.jpg" {
		t.Fatalf("unexpected failed ids: %v", got)
	}
}

func TestReportRejectsSecondOutcome(t *testing.T) {
	r := New()
	if err := r.Record(Item{ID: "hero.jpg", Outcome: OutcomeSkipped}); err != nil {
		t.Fatalf("skip: %v", err)
	}
	err := r.Record(Item{ID: "hero.jpg", Outcome: OutcomeFailed, Err: errors.New("late")})
	if !errors.Is(err, ErrDuplicateItem) {
		t.Fatalf("expected ErrDuplicateItem, got %v", err)
	}
	if totals := r.Totals(); totals.Items != 1 || totals.Skipped != 1 {
		t.Fatalf("duplicate should not be counted: %+v", totals)
	}
}

func TestReductionPercent(t *testing.T) {
	if got := ReductionPercent(0, 100); got != 0 {
		t.Fatalf("zero source must not divide: %v", got)
	}
	if got := ReductionPercent(200, 50); math.Abs(got-75) > 1e-9 {
		t.Fatalf("expected 75, got %v", got)
	}
}

func TestDoneTranslatesOutcome(t *testing.T) {
	updates := make(chan ProgressUpdate, 1)
	Done(updates, Item{ID: "a.png", Outcome: OutcomeSuccess, SrcBytes: 10, DstBytes: 4})
	u := <-updates
	if u.SuccessDelta != 1 || u.BytesDelta != 6 || u.Current != "a.png" {
		t.Fatalf("unexpected update: %+v", u)
	}
	Done(nil, Item{ID: "ignored"})
}

func TestKBTotalsTruncatePerItem(t *testing.T) {
	r := New()
	for _, item := range []Item{
		{ID: "a.jpg", Outcome: OutcomeSuccess, SrcBytes: 2047, DstBytes: 1023},
		{ID: "b.png", Outcome: OutcomeSuccess, SrcBytes: 2047, DstBytes: 1023},
	} {
		if err := r.Record(item); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	totals := r.Totals()
	if totals.SrcKB != 2 || totals.DstKB != 0 {
		t.Fatalf("per-item KB sums = %d/%d, want 2/0", totals.SrcKB, totals.DstKB)
	}
	if KB(totals.SrcBytes) != 3 {
		t.Fatalf("byte total KB = %d", KB(totals.SrcBytes))
	}
	if got := ReductionPercent(totals.SrcKB, totals.DstKB); got != 100 {
		t.Fatalf("reduction from KB sums = %v", got)
	}
}
