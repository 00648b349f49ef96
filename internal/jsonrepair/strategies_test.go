package jsonrepair

import "testing"

func TestStrategies_Individually(t *testing.T) {
	cases := []struct {
		strategy string
		in       string
		want     string
		applies  bool
	}{
		{"trailing_comma", `{"a":1,`, `{"a":1`, true},
		{"trailing_comma", `{"a":1, `, `{"a":1`, true},
		{"trailing_comma", `{"a":1`, `{"a":1`, false},
		{"dangling_colon", `{"a":1,"b":`, `{"a":1,"b"`, true},
		{"dangling_colon", `{"a":1`, `{"a":1`, false},
		{"open_string_field", `{"a":"x","b":"unfini`, `{"a":"x"`, true},
		{"open_string_field", `{"a":"done"`, `{"a":"done"`, false},
		{"open_string_field", `{"a":"with \"esc\" and","b":"unfini`, `{"a":"with \"esc\" and"`, true},
		{"bare_trailing_key", `{"a":1,"b"`, `{"a":1`, true},
		{"bare_trailing_key", `{"a":1}`, `{"a":1}`, false},
	}
	byName := map[string]Strategy{}
	for _, st := range Strategies {
		byName[st.Name] = st
	}
	for _, tc := range cases {
		st, ok := byName[tc.strategy]
		if !ok {
			t.Fatalf("unknown strategy %q", tc.strategy)
		}
		got, changed := st.Apply(tc.in)
		if changed != tc.applies {
			t.Fatalf("%s(%q): applies=%v, want %v", tc.strategy, tc.in, changed, tc.applies)
		}
		if got != tc.want {
			t.Fatalf("%s(%q) = %q, want %q", tc.strategy, tc.in, got, tc.want)
		}
	}
}

func TestStrategies_Order(t *testing.T) {
	want := []string{"trailing_comma", "dangling_colon", "open_string_field", "bare_trailing_key"}
	if len(Strategies) != len(want) {
		t.Fatalf("expected %d strategies, got %d", len(want), len(Strategies))
	}
	for i, name := range want {
		if Strategies[i].Name != name {
			t.Fatalf("strategy %d is %q, want %q", i, Strategies[i].Name, name)
		}
	}
}

func TestCloseOpenBrackets(t *testing.T) {
	cases := []struct{ in, want string }{
		{`{"a":[1,2`, `{"a":[1,2]}`},
		{`{"a":{"b":[`, `{"a":{"b":[]}}`},
		{`{"a":1}`, `{"a":1}`},
		{`[[`, `[[]]`},
		// Objects inside arrays close innermost first.
		{`[{"a":1`, `[{"a":1}]`},
		{`{"a":[{"b":2},{"c":3`, `{"a":[{"b":2},{"c":3}]}`},
		// Brackets inside string values do not count.
		{`{"a":"x { y [ z"`, `{"a":"x { y [ z"}`},
		{`{"a":"esc \" {"`, `{"a":"esc \" {"}`},
		// An unterminated string stays unterminated.
		{`{"a":"oops`, `{"a":"oops}`},
	}
	for _, tc := range cases {
		if got := closeOpenBrackets(tc.in); got != tc.want {
			t.Fatalf("closeOpenBrackets(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripFences(tc.in); got != tc.want {
			t.Fatalf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
