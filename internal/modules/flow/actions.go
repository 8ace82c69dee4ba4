package flow

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind tags one inbound button press. Raw callback strings are decoded
// exactly once, at the transport boundary, and dispatched on the tag from
// then on.
type ActionKind string

const (
	ActionStartSearch    ActionKind = "search_start"
	ActionRestartSearch  ActionKind = "search_restart"
	ActionToggleType     ActionKind = "type_toggle"
	ActionConfirmTypes   ActionKind = "type_confirm"
	ActionSetPriceTier   ActionKind = "price_tier"
	ActionNextListing    ActionKind = "listing_next"
	ActionPrevListing    ActionKind = "listing_prev"
	ActionShowOnMap      ActionKind = "listing_map"
	ActionBookListing    ActionKind = "listing_book"
	ActionCancel         ActionKind = "flow_cancel"
	ActionConfirmBooking ActionKind = "booking_confirm"
	ActionDeclineBooking ActionKind = "booking_decline"
	ActionOpenChat       ActionKind = "chat_open"
)

// Action is one decoded button press.
type Action struct {
	Kind ActionKind

	// ID carries the type id for toggles, the booking id for
	// confirm/decline/chat and is unused otherwise.
	ID int64

	// Value carries the price tier name for ActionSetPriceTier.
	Value string
}

// ParseAction decodes a raw callback identifier into a tagged Action.
// Unknown identifiers are an error, not a silent no-op.
func ParseAction(raw string) (Action, error) {
	switch raw {
	case "search_start":
		return Action{Kind: ActionStartSearch}, nil
	case "search_restart":
		return Action{Kind: ActionRestartSearch}, nil
	case "type_confirm":
		return Action{Kind: ActionConfirmTypes}, nil
	case "listing_next":
		return Action{Kind: ActionNextListing}, nil
	case "listing_prev":
		return Action{Kind: ActionPrevListing}, nil
	case "listing_map":
		return Action{Kind: ActionShowOnMap}, nil
	case "listing_book":
		return Action{Kind: ActionBookListing}, nil
	case "flow_cancel":
		return Action{Kind: ActionCancel}, nil
	}

	for _, p := range []struct {
		prefix string
		kind   ActionKind
	}{
		{"type_toggle_", ActionToggleType},
		{"booking_confirm_", ActionConfirmBooking},
		{"booking_decline_", ActionDeclineBooking},
		{"chat_open_", ActionOpenChat},
	} {
		if rest, ok := strings.CutPrefix(raw, p.prefix); ok {
			id, err := strconv.ParseInt(rest, 10, 64)
			if err != nil || id <= 0 {
				return Action{}, fmt.Errorf("malformed action id in %q", raw)
			}
			return Action{Kind: p.kind, ID: id}, nil
		}
	}

	if tier, ok := strings.CutPrefix(raw, "price_tier_"); ok {
		return Action{Kind: ActionSetPriceTier, Value: tier}, nil
	}

	return Action{}, fmt.Errorf("unknown action %q", raw)
}
