package celogindate

import (
	"testing"
	"time"

	"github.com/openbmc-project/celogin/celoginrc"
)

func mustUnix(s string) int64 {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.Unix()
}

func TestExpiryBoundary(t *testing.T) {
	boundary, code := ParseExpirationDate("2024-06-30")
	if code != celoginrc.Success {
		t.Fatalf("ParseExpirationDate failed: %v", code)
	}
	if IsExpired(mustUnix("2024-06-30T23:59:59Z"), boundary) {
		t.Error("expected not expired at 23:59:59 on expiration date")
	}
	if !IsExpired(mustUnix("2024-07-01T00:00:00Z"), boundary) {
		t.Error("expected expired at midnight the day after expiration")
	}
}

func TestParseExpirationDateInvalid(t *testing.T) {
	cases := []string{"", "2024-13-01", "2024-00-05", "not-a-date", "2024-06-00"}
	for _, c := range cases {
		if _, code := ParseExpirationDate(c); code == celoginrc.Success {
			t.Errorf("ParseExpirationDate(%q) succeeded, want failure", c)
		}
	}
}
