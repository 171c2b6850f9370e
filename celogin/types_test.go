package celogin

import "testing"

func TestNormalizeSerial(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", UnsetSerial},
		{BlankSerial, UnsetSerial},
		{"SRL0001", "SRL0001"},
	}
	for _, c := range cases {
		if got := NormalizeSerial(c.in); got != c.want {
			t.Errorf("NormalizeSerial(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAuthorityFromFrameworkEc(t *testing.T) {
	cases := []struct {
		ec   string
		want ServiceAuthority
		ok   bool
	}{
		{"PowerVM P10 Development", AuthorityDev, true},
		{"PowerVM P11 Development", AuthorityDev, true},
		{"PowerVM P10 Service", AuthorityCE, true},
		{"PowerVM P11 Service", AuthorityCE, true},
		{"garbage", AuthorityNone, false},
	}
	for _, c := range cases {
		got, ok := AuthorityFromFrameworkEc(c.ec)
		if got != c.want || ok != c.ok {
			t.Errorf("AuthorityFromFrameworkEc(%q) = (%v, %v), want (%v, %v)", c.ec, got, ok, c.want, c.ok)
		}
	}
}
