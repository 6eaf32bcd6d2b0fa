package core

import (
	"context"
	"testing"
)

func TestSummarizeCountsAddUp(t *testing.T) {
	f := newFixture()
	// Two completed visits, one orphan checkout, one still-open check-in.
	f.addCheckin("2025-06-16T09:00:00Z", "a@x.com", "Ann", "Store1", "", "")
	f.addCheckout("2025-06-16T10:00:00Z", "a@x.com", "Ann", "Store1", "", "done")
	f.addCheckin("2025-06-17T09:00:00Z", "a@x.com", "Ann", "Store2", "", "")
	f.addCheckout("2025-06-17T10:00:00Z", "a@x.com", "Ann", "Store2", "", "done")
	f.addCheckout("2025-06-18T10:00:00Z", "a@x.com", "Ann", "Store3", "", "missed")
	f.addCheckin("2025-06-19T09:00:00Z", "a@x.com", "Ann", "Store4", "", "")

	out, err := f.summary().Summarize(context.Background(), ActivityFilter{})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(out))
	}

	s := out[0]
	if s.Completed != 2 || s.Incomplete != 1 || s.Ongoing != 1 {
		t.Errorf("got completed=%d incomplete=%d ongoing=%d", s.Completed, s.Incomplete, s.Ongoing)
	}
	if s.Total != s.Completed+s.Incomplete+s.Ongoing {
		t.Errorf("total %d does not equal sum of statuses", s.Total)
	}
}

func TestSummarizeGroupingFallbackChain(t *testing.T) {
	f := newFixture()
	// Row with an email groups by email; a second row with the same email but
	// different casing joins the same group.
	f.addCheckin("2025-06-16T09:00:00Z", "a@x.com", "Ann", "Store1", "", "")
	f.addCheckin("2025-06-17T09:00:00Z", "A@X.com", "Ann", "Store2", "", "")
	// No email: groups by employee number.
	f.addCheckinFull("2025-06-16T09:00:00Z", "", "Bee", "EMP7", "Store1", "", "", "", "", "", "")
	f.addCheckinFull("2025-06-17T09:00:00Z", "", "Bee Again", "EMP7", "Store2", "", "", "", "", "", "")
	// No email, no employee number: groups by name.
	f.addCheckin("2025-06-16T09:00:00Z", "", "Cat", "Store1", "", "")
	// Nothing at all: lands in the "unknown" bucket.
	f.addCheckin("2025-06-16T09:00:00Z", "", "", "Store1", "", "")
	f.addCheckin("2025-06-17T09:00:00Z", "", "", "Store2", "", "")

	out, err := f.summary().Summarize(context.Background(), ActivityFilter{})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(out))
	}

	totals := make(map[string]int)
	for _, s := range out {
		totals[s.Name] = s.Total
	}
	if totals["Ann"] != 2 {
		t.Errorf("expected Ann total 2, got %d", totals["Ann"])
	}
	if totals["Bee"] != 2 {
		t.Errorf("expected Bee total 2, got %d", totals["Bee"])
	}
	if totals["Cat"] != 1 {
		t.Errorf("expected Cat total 1, got %d", totals["Cat"])
	}
	if totals[""] != 2 {
		t.Errorf("expected anonymous total 2, got %d", totals[""])
	}
}

func TestSummarizeDirectoryBackfillOnlyWhenAbsent(t *testing.T) {
	f := newFixture()
	f.addUser("a@x.com", "ann", "Ann Archer", "EMP1", "North", "Alpha", "boss@x.com")
	// The record carries a district of its own; only the missing fields should
	// come from the directory.
	f.addCheckinFull("2025-06-16T09:00:00Z", "a@x.com", "", "", "Store1", "", "", "", "West", "", "")

	out, err := f.summary().Summarize(context.Background(), ActivityFilter{})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(out))
	}

	s := out[0]
	if s.Name != "Ann Archer" {
		t.Errorf("expected directory name, got %q", s.Name)
	}
	if s.EmployeeNo != "EMP1" {
		t.Errorf("expected directory employee number, got %q", s.EmployeeNo)
	}
	if s.District != "West" {
		t.Errorf("record district must win, got %q", s.District)
	}
	if s.Group != "Alpha" {
		t.Errorf("expected directory group, got %q", s.Group)
	}
}

func TestSummarizeOutputCarriesNoEmail(t *testing.T) {
	f := newFixture()
	f.addCheckin("2025-06-16T09:00:00Z", "a@x.com", "Ann", "Store1", "", "")

	out, err := f.summary().Summarize(context.Background(), ActivityFilter{})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(out))
	}
	// PersonSummary has no email field; the grouping key stays internal. The
	// compile-time shape is the real assertion here.
	_ = out[0]
}

func TestSummarizeSortsByNameThenEmployeeNo(t *testing.T) {
	f := newFixture()
	f.addCheckinFull("2025-06-16T09:00:00Z", "b@x.com", "bee", "EMP2", "Store1", "", "", "", "", "", "")
	f.addCheckinFull("2025-06-16T09:30:00Z", "a@x.com", "Ann", "EMP9", "Store1", "", "", "", "", "", "")
	f.addCheckinFull("2025-06-16T10:00:00Z", "c@x.com", "Ann", "EMP1", "Store1", "", "", "", "", "", "")

	out, err := f.summary().Summarize(context.Background(), ActivityFilter{})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(out))
	}
	if out[0].EmployeeNo != "EMP1" || out[1].EmployeeNo != "EMP9" || out[2].EmployeeNo != "EMP2" {
		t.Errorf("unexpected order: %q %q %q", out[0].EmployeeNo, out[1].EmployeeNo, out[2].EmployeeNo)
	}
}
