package exprstage

import (
	"testing"

	"github.com/ljluestc/ape-dts/types"
)

func TestStageKeepsMatchingRow(t *testing.T) {
	s, err := New(`after.status == "active"`)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec := types.NewDMLRecord(types.RowData{
		Schema: "app", Table: "orders", RowType: types.Insert,
		After: map[string]types.ColValue{"status": types.TextValue("active")},
	})
	if _, keep := s.Process(rec); !keep {
		t.Fatal("expected matching row to be kept")
	}
}

func TestStageDropsNonMatchingRow(t *testing.T) {
	s, err := New(`after.status == "active"`)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec := types.NewDMLRecord(types.RowData{
		Schema: "app", Table: "orders", RowType: types.Insert,
		After: map[string]types.ColValue{"status": types.TextValue("cancelled")},
	})
	if _, keep := s.Process(rec); keep {
		t.Fatal("expected non-matching row to be dropped")
	}
}

func TestStagePassesThroughNonDML(t *testing.T) {
	s, err := New(`true`)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, keep := s.Process(types.NewOtherRecord()); !keep {
		t.Fatal("expected non-DML record to pass through unconditionally")
	}
}

func TestNewRejectsInvalidScript(t *testing.T) {
	if _, err := New(`this is not valid expr syntax {{{`); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestNewRejectsNonBoolScript(t *testing.T) {
	if _, err := New(`"not a bool"`); err == nil {
		t.Fatal("expected AsBool to reject a non-boolean script")
	}
}
