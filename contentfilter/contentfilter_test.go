package contentfilter

import (
	"testing"

	"github.com/ljluestc/ape-dts/types"
)

func TestParseEmptyIsEmptySet(t *testing.T) {
	set, err := Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(set) != 0 {
		t.Fatalf("expected empty set, got %v", set)
	}
}

func TestMatchesAndMode(t *testing.T) {
	raw := `[{"db":"app","tb":"orders","match_mode":"and","rules":[
		{"column":"status","operator":"eq","value":"active"},
		{"column":"region","operator":"eq","value":"us"}
	]}]`
	set, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tf, ok := set.Lookup("app", "orders")
	if !ok {
		t.Fatal("expected table filter to be present")
	}

	active := map[string]types.ColValue{
		"status": types.TextValue("active"),
		"region": types.TextValue("us"),
	}
	if !tf.Matches(active) {
		t.Fatal("expected matching row to pass AND filter")
	}

	inactive := map[string]types.ColValue{
		"status": types.TextValue("inactive"),
		"region": types.TextValue("us"),
	}
	if tf.Matches(inactive) {
		t.Fatal("expected non-matching row to fail AND filter")
	}
}

func TestMatchesOrMode(t *testing.T) {
	raw := `[{"db":"app","tb":"orders","match_mode":"or","rules":[
		{"column":"region","operator":"eq","value":"us"},
		{"column":"region","operator":"eq","value":"eu"}
	]}]`
	set, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tf, _ := set.Lookup("app", "orders")

	if !tf.Matches(map[string]types.ColValue{"region": types.TextValue("eu")}) {
		t.Fatal("expected eu to satisfy OR filter")
	}
	if tf.Matches(map[string]types.ColValue{"region": types.TextValue("apac")}) {
		t.Fatal("expected apac to fail OR filter")
	}
}

func TestMatchesMissingColumnFailsRule(t *testing.T) {
	set, err := Parse(`[{"db":"app","tb":"orders","rules":[{"column":"status","operator":"eq","value":"active"}]}]`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tf, _ := set.Lookup("app", "orders")
	if tf.Matches(map[string]types.ColValue{}) {
		t.Fatal("expected missing column to fail the rule")
	}
}

func TestLookupMissingTablePassesByDefault(t *testing.T) {
	set, err := Parse(`[]`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := set.Lookup("app", "orders"); ok {
		t.Fatal("expected no table filter configured")
	}
}

func TestParseUnknownOperatorErrors(t *testing.T) {
	_, err := Parse(`[{"db":"app","tb":"orders","rules":[{"column":"status","operator":"bogus","value":"x"}]}]`)
	if err == nil {
		t.Fatal("expected error for unknown operator")
	}
}

func TestParseInvalidRegexErrors(t *testing.T) {
	_, err := Parse(`[{"db":"app","tb":"orders","rules":[{"column":"status","operator":"regex","value":"(unterminated"}]}]`)
	if err == nil {
		t.Fatal("expected error for invalid regex")
	}
}
