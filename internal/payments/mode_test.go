package payments

import (
	"testing"

	"github.com/johniman211/payssd/internal/models"
)

func TestSelectMode(t *testing.T) {
	cases := []struct {
		name           string
		verified       bool
		liveConfigured bool
		want           models.PaymentMode
	}{
		{"verified with live credentials", true, true, models.ModeLive},
		{"verified without live credentials", true, false, models.ModeTest},
		{"unverified with live credentials", false, true, models.ModeTest},
		{"unverified without live credentials", false, false, models.ModeTest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SelectMode(tc.verified, tc.liveConfigured); got != tc.want {
				t.Errorf("SelectMode(%v, %v) = %s, want %s", tc.verified, tc.liveConfigured, got, tc.want)
			}
		})
	}
}
