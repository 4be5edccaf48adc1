package staging_test

import (
	"testing"

	"curator/internal/staging"
)

func TestValidStatus(t *testing.T) {
	cases := []struct {
		status staging.Status
		want   bool
	}{
		{staging.StatusPending, true},
		{staging.StatusApproved, true},
		{staging.StatusRejected, true},
		{staging.Status("bogus"), false},
		{staging.Status(""), false},
		{staging.Status("Pending"), false},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			if got := staging.ValidStatus(tc.status); got != tc.want {
				t.Errorf("ValidStatus(%q) = %v, want %v", tc.status, got, tc.want)
			}
		})
	}
}
