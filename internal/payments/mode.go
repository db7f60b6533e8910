package payments

import "github.com/johniman211/payssd/internal/models"

// SelectMode decides which processor environment a charge runs against.
// Live requires both an approved merchant and configured live credentials;
// every other combination lands in the sandbox.
func SelectMode(verified, liveConfigured bool) models.PaymentMode {
	if verified && liveConfigured {
		return models.ModeLive
	}
	return models.ModeTest
}
