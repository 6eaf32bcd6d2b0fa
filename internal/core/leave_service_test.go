package core

import (
	"context"
	"testing"
)

func (f *fixture) leaves() *LeaveService {
	return NewLeaveService(f.adapter, f.tables)
}

func TestSubmitLeaveRequiresDateAndType(t *testing.T) {
	f := newFixture()
	svc := f.leaves()
	ctx := context.Background()

	if err := svc.SubmitLeave(ctx, LeaveRequest{LeaveType: "sick"}); err == nil {
		t.Error("expected missing date to be rejected")
	}
	if err := svc.SubmitLeave(ctx, LeaveRequest{Date: "2025-06-16"}); err == nil {
		t.Error("expected missing leave type to be rejected")
	}
}

func TestSubmitLeaveFillsIdentityFromDirectory(t *testing.T) {
	f := newFixture()
	f.addUser("a@x.com", "ann", "Ann Archer", "EMP1", "North", "Alpha", "")

	err := f.leaves().SubmitLeave(context.Background(), LeaveRequest{
		Email:     "a@x.com",
		Date:      "2025-06-16",
		LeaveType: "sick",
		Reason:    "flu",
	})
	if err != nil {
		t.Fatalf("submit leave: %v", err)
	}

	rows, err := f.adapter.Rows(context.Background(), "Leaves")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row[2] != "Ann Archer" || row[3] != "EMP1" || row[6] != "North" || row[7] != "Alpha" {
		t.Errorf("expected directory fill, got %v", row)
	}
}

func TestLeavesFilterAndSort(t *testing.T) {
	f := newFixture()
	f.addLeave("2025-06-18", "b@x.com", "Bee", "personal", "")
	f.addLeave("2025-06-16", "a@x.com", "Ann", "sick", "")
	f.addLeave("2025-06-16", "c@x.com", "cat", "sick", "")
	f.addLeave("2025-07-01", "a@x.com", "Ann", "vacation", "")

	out, err := f.leaves().Leaves(context.Background(), LeaveFilter{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-30",
	})
	if err != nil {
		t.Fatalf("leaves: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 leaves, got %d", len(out))
	}
	if out[0].Name != "Ann" || out[1].Name != "cat" || out[2].Name != "Bee" {
		t.Errorf("unexpected order: %q %q %q", out[0].Name, out[1].Name, out[2].Name)
	}

	narrowed, err := f.leaves().Leaves(context.Background(), LeaveFilter{Query: "ann"})
	if err != nil {
		t.Fatalf("leaves: %v", err)
	}
	if len(narrowed) != 2 {
		t.Errorf("expected 2 leaves for ann, got %d", len(narrowed))
	}
}
