package notify

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEvent is returned for event names outside the template table.
var ErrUnknownEvent = errors.New("unknown notification event")

type template struct {
	Title   string
	Message string
}

// The template table is fixed at compile time. Placeholders are {key}
// tokens substituted from the dispatch payload.
var templates = map[string]template{
	"merchant_registered": {
		Title:   "Welcome to PaySSD",
		Message: "Your merchant account {business_name} was created and is awaiting verification.",
	},
	"merchant_approved": {
		Title:   "Account verified",
		Message: "Your merchant account was approved. Live payments are now available.",
	},
	"merchant_rejected": {
		Title:   "Verification rejected",
		Message: "Your verification was rejected: {note}",
	},
	"transaction_succeeded": {
		Title:   "Payment received",
		Message: "Payment of {amount} {currency} completed (ref {reference}).",
	},
	"transaction_failed": {
		Title:   "Payment failed",
		Message: "Payment of {amount} {currency} failed (ref {reference}).",
	},
	"payout_requested": {
		Title:   "Payout requested",
		Message: "A payout of {amount} was requested and is awaiting review.",
	},
	"payout_approved": {
		Title:   "Payout approved",
		Message: "Your payout of {amount} was approved and is on its way.",
	},
	"payout_rejected": {
		Title:   "Payout rejected",
		Message: "Your payout of {amount} was rejected.",
	},
}

func render(tmpl string, payload map[string]any) string {
	out := tmpl
	for key, value := range payload {
		out = strings.ReplaceAll(out, "{"+key+"}", fmt.Sprint(value))
	}
	return out
}
