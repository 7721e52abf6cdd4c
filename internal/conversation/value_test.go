package conversation

import (
	"strings"
	"testing"
)

func TestParseValue_PreservesKeyOrder(t *testing.T) {
	v, err := ParseValue([]byte(`{"z":1,"a":{"y":true,"b":null},"m":[1.50,"x"]}`))
	if err != nil {
		t.Fatalf("ParseValue() error = %v", err)
	}

	d, ok := v.(*Dict)
	if !ok {
		t.Fatalf("ParseValue() = %T, want *Dict", v)
	}
	if got := strings.Join(d.Keys(), ","); got != "z,a,m" {
		t.Errorf("Keys() = %q, want %q", got, "z,a,m")
	}

	s, err := Stringify(v)
	if err != nil {
		t.Fatalf("Stringify() error = %v", err)
	}
	if want := `{"z":1,"a":{"y":true,"b":null},"m":[1.5,"x"]}`; s != want {
		t.Errorf("Stringify() = %s, want %s", s, want)
	}
}

func TestParseValue_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ``},
		{"truncated", `[{"a":1}`},
		{"trailing data", `[] []`},
		{"bare word", `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseValue([]byte(tt.input)); err == nil {
				t.Errorf("ParseValue(%q) error = nil, want error", tt.input)
			}
		})
	}
}

func TestParseValue_DepthLimit(t *testing.T) {
	deep := strings.Repeat("[", maxDepth+1) + strings.Repeat("]", maxDepth+1)
	if _, err := ParseValue([]byte(deep)); err == nil {
		t.Error("ParseValue() on over-deep input error = nil, want error")
	}
}

func TestDict_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	v, err := ParseValue([]byte(`{"a":1,"b":2,"a":3}`))
	if err != nil {
		t.Fatalf("ParseValue() error = %v", err)
	}
	s, _ := Stringify(v)
	if s != `{"a":3,"b":2}` {
		t.Errorf("Stringify() = %s, want {\"a\":3,\"b\":2}", s)
	}
}

func TestNumber_String(t *testing.T) {
	tests := map[Number]string{
		"1":        "1",
		"1.0":      "1",
		"-0":       "0",
		"1e2":      "100",
		"0.1":      "0.1",
		"1e21":     "1e+21",
		"1.5e-7":   "1.5e-7",
		"123456.5": "123456.5",
	}
	for in, want := range tests {
		if got := in.String(); got != want {
			t.Errorf("Number(%q).String() = %q, want %q", string(in), got, want)
		}
	}
}

func TestStringify_Escaping(t *testing.T) {
	d := NewDict().Set("k", String("a\"b\\c\n\x01<>&é"))
	s, err := Stringify(d)
	if err != nil {
		t.Fatalf("Stringify() error = %v", err)
	}
	if want := `{"k":"a\"b\\c\n\u0001<>&é"}`; s != want {
		t.Errorf("Stringify() = %s, want %s", s, want)
	}
}

func TestStringify_Cycle(t *testing.T) {
	d := NewDict()
	d.Set("self", d)
	if _, err := Stringify(d); err == nil {
		t.Error("Stringify() on cyclic dict error = nil, want error")
	}

	// A value shared by two siblings is not a cycle.
	shared := NewDict().Set("x", Number("1"))
	parent := NewDict().Set("a", shared).Set("b", shared)
	s, err := Stringify(parent)
	if err != nil {
		t.Fatalf("Stringify() on shared dict error = %v", err)
	}
	if s != `{"a":{"x":1},"b":{"x":1}}` {
		t.Errorf("Stringify() = %s", s)
	}
}
