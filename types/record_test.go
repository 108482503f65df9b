package types

import "testing"

func TestParseRowType(t *testing.T) {
	if rt, ok := ParseRowType("insert"); !ok || rt != Insert {
		t.Fatalf("got %v, %v", rt, ok)
	}
	if _, ok := ParseRowType("bogus"); ok {
		t.Fatal("expected unknown event name to report ok=false")
	}
}

func TestRowDataCloneIsIndependent(t *testing.T) {
	orig := RowData{Schema: "s", Table: "t", After: map[string]ColValue{"a": IntValue(1)}}
	clone := orig.Clone()
	clone.After["a"] = IntValue(2)
	if orig.After["a"].String() != "1" {
		t.Fatal("expected mutating the clone not to affect the original")
	}
}

func TestColValuesPrefersAfter(t *testing.T) {
	rec := NewDMLRecord(RowData{
		Before: map[string]ColValue{"x": TextValue("before")},
		After:  map[string]ColValue{"x": TextValue("after")},
	})
	cols := rec.ColValues()
	if cols["x"].String() != "after" {
		t.Fatalf("got %q, want after", cols["x"].String())
	}
}

func TestColValuesFallsBackToBefore(t *testing.T) {
	rec := NewDMLRecord(RowData{Before: map[string]ColValue{"x": TextValue("before")}})
	cols := rec.ColValues()
	if cols["x"].String() != "before" {
		t.Fatalf("got %q, want before", cols["x"].String())
	}
}

func TestColValuesNilForNonDML(t *testing.T) {
	rec := NewDDLRecord(DdlData{Statement: "DROP TABLE"})
	if rec.ColValues() != nil {
		t.Fatal("expected DDL record to carry no column values")
	}
}

func TestRecordKindStableAcrossHelpers(t *testing.T) {
	if NewDMLRecord(RowData{}).Kind != KindDML {
		t.Fatal("expected KindDML")
	}
	if NewDDLRecord(DdlData{}).Kind != KindDDL {
		t.Fatal("expected KindDDL")
	}
	if NewStructRecord(StructData{}).Kind != KindStruct {
		t.Fatal("expected KindStruct")
	}
	if NewOtherRecord().Kind != KindOther {
		t.Fatal("expected KindOther")
	}
}
