package tui

import "testing"

func TestCompactEquation(t *testing.T) {
	cases := []struct {
		prompt string
		given  int
		want   string
	}{
		{"7 + 3 = ", 10, "7 + 3 = 10"},
		{"9 - _ = 5", 3, "9 - 3 = 5"},
		{"7 + _ = 10", 3, "7 + 3 = 10"},
		{"0 - 0 = ", 0, "0 - 0 = 0"},
	}
	for _, tc := range cases {
		if got := compactEquation(tc.prompt, tc.given); got != tc.want {
			t.Fatalf("compactEquation(%q, %d) = %q, want %q", tc.prompt, tc.given, got, tc.want)
		}
	}
}
