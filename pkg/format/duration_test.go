package format

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "1 second"},
		{time.Second, "1 second"},
		{45 * time.Second, "45 seconds"},
		{time.Minute, "1 minute"},
		{95 * time.Second, "2 minutes"},
		{59*time.Minute + 45*time.Second, "1 hour"},
		{time.Hour + 20*time.Minute, "1 hour"},
		{time.Hour + 40*time.Minute, "2 hours"},
		{23*time.Hour + 45*time.Minute, "1 day"},
		{24 * time.Hour, "1 day"},
		{36 * time.Hour, "2 days"},
		{7 * 24 * time.Hour, "7 days"},
	}
	for _, test := range tests {
		if got := Duration(test.in); got != test.want {
			t.Errorf("Duration(%s) = %q, want %q", test.in, got, test.want)
		}
	}
}
