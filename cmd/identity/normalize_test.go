package identity

import "testing"

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"A@B.com", "a@b.com"},
		{"  Carla@Example.COM \n", "carla@example.com"},
		{"already@lower.case", "already@lower.case"},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Fatalf("NormalizeEmail(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeUsername(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"JohnDoe123", "johndoe123"},
		{"  nAvId ", "navid"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeUsername(tc.in); got != tc.want {
			t.Fatalf("NormalizeUsername(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}
