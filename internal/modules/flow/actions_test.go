package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAction(t *testing.T) {
	cases := []struct {
		raw  string
		want Action
	}{
		{"search_start", Action{Kind: ActionStartSearch}},
		{"search_restart", Action{Kind: ActionRestartSearch}},
		{"type_confirm", Action{Kind: ActionConfirmTypes}},
		{"type_toggle_3", Action{Kind: ActionToggleType, ID: 3}},
		{"price_tier_mid", Action{Kind: ActionSetPriceTier, Value: "mid"}},
		{"listing_next", Action{Kind: ActionNextListing}},
		{"listing_prev", Action{Kind: ActionPrevListing}},
		{"listing_map", Action{Kind: ActionShowOnMap}},
		{"listing_book", Action{Kind: ActionBookListing}},
		{"flow_cancel", Action{Kind: ActionCancel}},
		{"booking_confirm_17", Action{Kind: ActionConfirmBooking, ID: 17}},
		{"booking_decline_17", Action{Kind: ActionDeclineBooking, ID: 17}},
		{"chat_open_8", Action{Kind: ActionOpenChat, ID: 8}},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseAction(tc.raw)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseAction_Rejects(t *testing.T) {
	for _, raw := range []string{"", "nonsense", "booking_confirm_", "booking_confirm_abc", "type_toggle_-1"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseAction(raw)
			assert.Error(t, err)
		})
	}
}
