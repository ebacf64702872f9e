package token

import "testing"

func TestLiteralIsTruthy(t *testing.T) {
	tests := []struct {
		name     string
		lit      Literal
		expected bool
	}{
		{"Nil", NilValue, false},
		{"False", BoolValue(false), false},
		{"True", BoolValue(true), true},
		{"ZeroNum", NumValue(0), true},
		{"EmptyString", StringValue(""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lit.IsTruthy(); got != tt.expected {
				t.Errorf("IsTruthy() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLiteralString(t *testing.T) {
	tests := []struct {
		name     string
		lit      Literal
		expected string
	}{
		{"Nil", NilValue, "nill"},
		{"True", BoolValue(true), "true"},
		{"False", BoolValue(false), "false"},
		{"String", StringValue("hi"), "hi"},
		{"WholeNumber", NumValue(3), "3"},
		{"FractionalNumber", NumValue(3.5), "3.5"},
		{"NegativeNumber", NumValue(-2), "-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lit.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestKeywordsTable(t *testing.T) {
	if kind, ok := Keywords["print"]; !ok || kind != Print {
		t.Errorf("Keywords[\"print\"] = %v, %v; want Print, true", kind, ok)
	}
	if _, ok := Keywords["notakeyword"]; ok {
		t.Error("Keywords[\"notakeyword\"] should not be present")
	}
}

func TestTokenString(t *testing.T) {
	tok := New(Num, "42", 3)
	got := tok.String()
	want := `NUM "42" (line 3)`
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
