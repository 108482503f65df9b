package types

import "testing"

func TestToTextProjections(t *testing.T) {
	cases := []struct {
		v    ColValue
		want string
		ok   bool
	}{
		{NullValue(), "", false},
		{IntValue(42), "42", true},
		{FloatValue(3.5), "3.5", true},
		{TextValue("hi"), "hi", true},
		{BytesValue([]byte("hi")), "hi", true},
		{BoolValue(true), "true", true},
	}
	for _, c := range cases {
		got, ok := c.v.ToText()
		if got != c.want || ok != c.ok {
			t.Errorf("ToText() = %q, %v, want %q, %v", got, ok, c.want, c.ok)
		}
	}
}

func TestIsNull(t *testing.T) {
	if !NullValue().IsNull() {
		t.Fatal("expected NullValue to report IsNull")
	}
	if IntValue(1).IsNull() {
		t.Fatal("expected IntValue not to report IsNull")
	}
}

func TestStringOfNullIsSentinel(t *testing.T) {
	if NullValue().String() != "<null>" {
		t.Fatalf("got %q", NullValue().String())
	}
}
