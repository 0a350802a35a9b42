package guard_test

import (
	"testing"

	"github.com/dalemusser/doubtspanel/internal/app/system/guard"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		loading    bool
		hasAccount bool
		want       guard.Decision
	}{
		{loading: true, hasAccount: false, want: guard.Pending},
		{loading: true, hasAccount: true, want: guard.Pending},
		{loading: false, hasAccount: true, want: guard.Allow},
		{loading: false, hasAccount: false, want: guard.Redirect},
	}
	for _, tt := range tests {
		if got := guard.Decide(tt.loading, tt.hasAccount); got != tt.want {
			t.Errorf("Decide(%v, %v): got %v, want %v", tt.loading, tt.hasAccount, got, tt.want)
		}
	}
}

func TestDecide_NeverRedirectsWithAccount(t *testing.T) {
	for _, loading := range []bool{true, false} {
		if guard.Decide(loading, true) == guard.Redirect {
			t.Errorf("redirected with an account present (loading=%v)", loading)
		}
	}
}
