package validation

import "testing"

func TestIsValidEmail(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in string
		ok bool
	}{
		{"alice@example.com", true},
		{"a.b+c@sub.domain.io", true},
		{"not-an-email", false},
		{"missing@dot", false},
		{"@nodomain.com", false},
		{"spaces in@local.com", false},
		{"trailing@domain.", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidEmail(tc.in); got != tc.ok {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tc.in, got, tc.ok)
		}
	}
}
