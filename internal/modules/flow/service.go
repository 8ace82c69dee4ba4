package flow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"rentora/internal/domain"
	"rentora/internal/modules/booking"
	"rentora/internal/modules/search"
	"rentora/internal/pkg/logger"
)

const dateLayout = "2006-01-02"

var ErrNoActiveFlow = errors.New("no active flow")

type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Result, error)
	Current(ctx context.Context, sessionID, userID int64) (*search.Page, error)
	Next(ctx context.Context, sessionID, userID int64) (*search.Page, error)
	Prev(ctx context.Context, sessionID, userID int64) (*search.Page, error)
	ListTypes(ctx context.Context) ([]domain.ListingType, error)
}

type BookingCreator interface {
	Create(ctx context.Context, req booking.CreateRequest) (*domain.Booking, error)
}

type Button struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// Reply is what the wizard says back after one input: a prompt, optional
// buttons, and, when the flow just committed, the created booking.
type Reply struct {
	Text    string          `json:"text"`
	Buttons []Button        `json:"buttons,omitempty"`
	Done    bool            `json:"done"`
	Booking *domain.Booking `json:"booking,omitempty"`
	Page    *search.Page    `json:"page,omitempty"`
}

type Service struct {
	drafts   *DraftStore
	searcher Searcher
	bookings BookingCreator
	log      logger.Logger
	now      func() time.Time
}

func NewService(drafts *DraftStore, searcher Searcher, bookings BookingCreator, log logger.Logger) *Service {
	return &Service{
		drafts:   drafts,
		searcher: searcher,
		bookings: bookings,
		log:      log,
		now:      time.Now,
	}
}

// Start opens a fresh wizard for the user, replacing any draft in flight.
func (s *Service) Start(ctx context.Context, userID int64) *Reply {
	s.drafts.Put(&Draft{UserID: userID, Step: StepCheckIn})
	return &Reply{
		Text:    "When do you want to check in? Send a date like 2026-09-10.",
		Buttons: cancelRow(),
	}
}

// Cancel discards the user's draft and ends the flow.
func (s *Service) Cancel(ctx context.Context, userID int64) *Reply {
	s.drafts.Delete(userID)
	return &Reply{
		Text:    "Search cancelled. Start over whenever you like.",
		Buttons: []Button{{Label: "New search", Action: string(ActionStartSearch)}},
		Done:    true,
	}
}

// HandleText feeds one free-text message into the wizard. Invalid input
// re-prompts the same step without advancing.
func (s *Service) HandleText(ctx context.Context, userID int64, text string) (*Reply, error) {
	d, ok := s.drafts.Get(userID)
	if !ok {
		return nil, ErrNoActiveFlow
	}
	text = strings.TrimSpace(text)

	switch d.Step {
	case StepCheckIn:
		return s.readCheckIn(d, text)
	case StepCheckOut:
		return s.readCheckOut(ctx, d, text)
	case StepGuestCount:
		return s.readGuestCount(d, text)
	case StepComment:
		return s.commit(ctx, d, text)
	default:
		return &Reply{Text: "Use the buttons under the message to continue.", Buttons: cancelRow()}, nil
	}
}

// HandleAction feeds one decoded button press into the wizard.
func (s *Service) HandleAction(ctx context.Context, userID int64, a Action) (*Reply, error) {
	switch a.Kind {
	case ActionStartSearch, ActionRestartSearch:
		return s.Start(ctx, userID), nil
	case ActionCancel:
		return s.Cancel(ctx, userID), nil
	}

	d, ok := s.drafts.Get(userID)
	if !ok {
		return nil, ErrNoActiveFlow
	}

	switch a.Kind {
	case ActionToggleType:
		if d.Step != StepTypes {
			return s.wrongStep(d)
		}
		d.ToggleType(a.ID)
		s.drafts.Put(d)
		return s.typesPrompt(ctx, d)
	case ActionConfirmTypes:
		if d.Step != StepTypes {
			return s.wrongStep(d)
		}
		if len(d.TypeIDs) == 0 {
			reply, err := s.typesPrompt(ctx, d)
			if err != nil {
				return nil, err
			}
			reply.Text = "Pick at least one type first.\n" + reply.Text
			return reply, nil
		}
		d.Step = StepPriceTier
		s.drafts.Put(d)
		return tierPrompt(), nil
	case ActionSetPriceTier:
		if d.Step != StepPriceTier {
			return s.wrongStep(d)
		}
		return s.runSearch(ctx, d, a.Value)
	case ActionNextListing:
		return s.browseMove(ctx, d, s.searcher.Next)
	case ActionPrevListing:
		return s.browseMove(ctx, d, s.searcher.Prev)
	case ActionShowOnMap:
		if d.Step != StepBrowse {
			return s.wrongStep(d)
		}
		page, err := s.searcher.Current(ctx, d.SessionID, d.UserID)
		if err != nil {
			return nil, err
		}
		return &Reply{
			Text:    fmt.Sprintf("Address: %s", page.Listing.Address),
			Buttons: browseRow(),
			Page:    page,
		}, nil
	case ActionBookListing:
		if d.Step != StepBrowse {
			return s.wrongStep(d)
		}
		page, err := s.searcher.Current(ctx, d.SessionID, d.UserID)
		if err != nil {
			return nil, err
		}
		d.ListingID = page.Listing.ID
		d.Step = StepGuestCount
		s.drafts.Put(d)
		return &Reply{Text: "How many guests?", Buttons: cancelRow()}, nil
	default:
		return nil, fmt.Errorf("action %q does not belong to the search flow", a.Kind)
	}
}

func (s *Service) readCheckIn(d *Draft, text string) (*Reply, error) {
	date, err := time.Parse(dateLayout, text)
	if err != nil {
		return &Reply{Text: "That is not a date I understand. Send it like 2026-09-10.", Buttons: cancelRow()}, nil
	}
	if !date.After(s.today()) {
		return &Reply{Text: "Check-in has to be a future date. Try again.", Buttons: cancelRow()}, nil
	}
	d.CheckIn = date
	d.Step = StepCheckOut
	s.drafts.Put(d)
	return &Reply{Text: "And the check-out date?", Buttons: cancelRow()}, nil
}

func (s *Service) readCheckOut(ctx context.Context, d *Draft, text string) (*Reply, error) {
	date, err := time.Parse(dateLayout, text)
	if err != nil {
		return &Reply{Text: "That is not a date I understand. Send it like 2026-09-12.", Buttons: cancelRow()}, nil
	}
	if !date.After(d.CheckIn) {
		return &Reply{Text: "Check-out has to be after check-in. Try again.", Buttons: cancelRow()}, nil
	}
	d.CheckOut = date
	d.Step = StepTypes
	s.drafts.Put(d)
	return s.typesPrompt(ctx, d)
}

func (s *Service) readGuestCount(d *Draft, text string) (*Reply, error) {
	n, err := strconv.Atoi(text)
	if err != nil || n <= 0 {
		return &Reply{Text: "Send the number of guests as a positive number.", Buttons: cancelRow()}, nil
	}
	d.GuestCount = n
	d.Step = StepComment
	s.drafts.Put(d)
	return &Reply{Text: "Any comment for the owner? Send \"-\" to skip.", Buttons: cancelRow()}, nil
}

func (s *Service) commit(ctx context.Context, d *Draft, comment string) (*Reply, error) {
	b, err := s.bookings.Create(ctx, booking.CreateRequest{
		UserID:     d.UserID,
		ListingID:  d.ListingID,
		CheckIn:    d.CheckIn,
		CheckOut:   d.CheckOut,
		GuestCount: d.GuestCount,
		Comment:    comment,
	})
	switch {
	case err == nil:
	case errors.Is(err, booking.ErrNotAvailable), errors.Is(err, booking.ErrNoLongerAvailable):
		d.Step = StepBrowse
		d.ListingID = 0
		s.drafts.Put(d)
		return &Reply{
			Text:    "Sorry, those dates were taken just now. Pick another option.",
			Buttons: browseRow(),
		}, nil
	case errors.Is(err, booking.ErrValidation):
		d.Step = StepGuestCount
		s.drafts.Put(d)
		return &Reply{Text: fmt.Sprintf("%s. How many guests?", capitalize(reasonOf(err))), Buttons: cancelRow()}, nil
	default:
		return nil, err
	}

	s.drafts.Delete(d.UserID)
	return &Reply{
		Text:    fmt.Sprintf("Request sent. The owner has 24 hours to answer. Total: %.0f for %d nights.", b.TotalPrice, b.Nights()),
		Done:    true,
		Booking: b,
	}, nil
}

func (s *Service) runSearch(ctx context.Context, d *Draft, tier string) (*Reply, error) {
	t := search.PriceTier(tier)
	if !t.Valid() {
		return tierPrompt(), nil
	}
	d.Tier = tier

	res, err := s.searcher.Search(ctx, search.Request{
		UserID:    d.UserID,
		CheckIn:   d.CheckIn,
		CheckOut:  d.CheckOut,
		TypeIDs:   d.TypeIDs,
		PriceTier: t,
	})
	if err != nil {
		return nil, err
	}

	if res.Total == 0 {
		s.drafts.Delete(d.UserID)
		return &Reply{
			Text:    "Nothing is free for those dates and filters.",
			Buttons: []Button{{Label: "New search", Action: string(ActionRestartSearch)}},
			Done:    true,
		}, nil
	}

	d.SessionID = res.SessionID
	d.Step = StepBrowse
	s.drafts.Put(d)

	page, err := s.searcher.Current(ctx, d.SessionID, d.UserID)
	if err != nil {
		return nil, err
	}
	return cardReply(page, fmt.Sprintf("Found %d options.", res.Total)), nil
}

func (s *Service) browseMove(ctx context.Context, d *Draft, move func(ctx context.Context, sessionID, userID int64) (*search.Page, error)) (*Reply, error) {
	if d.Step != StepBrowse {
		return s.wrongStep(d)
	}
	page, err := move(ctx, d.SessionID, d.UserID)
	if errors.Is(err, search.ErrEndOfResults) {
		current, cerr := s.searcher.Current(ctx, d.SessionID, d.UserID)
		if cerr != nil {
			return nil, cerr
		}
		return cardReply(current, "No more options in that direction."), nil
	}
	if err != nil {
		return nil, err
	}
	return cardReply(page, ""), nil
}

func (s *Service) typesPrompt(ctx context.Context, d *Draft) (*Reply, error) {
	types, err := s.searcher.ListTypes(ctx)
	if err != nil {
		return nil, err
	}
	selected := make(map[int64]bool, len(d.TypeIDs))
	for _, id := range d.TypeIDs {
		selected[id] = true
	}
	buttons := make([]Button, 0, len(types)+2)
	for _, t := range types {
		label := t.Name
		if selected[t.ID] {
			label = "✓ " + label
		}
		buttons = append(buttons, Button{Label: label, Action: fmt.Sprintf("type_toggle_%d", t.ID)})
	}
	buttons = append(buttons,
		Button{Label: "Done", Action: string(ActionConfirmTypes)},
		Button{Label: "Cancel", Action: string(ActionCancel)},
	)
	return &Reply{Text: "What kind of place? Toggle as many as you like, then press Done.", Buttons: buttons}, nil
}

func (s *Service) wrongStep(d *Draft) (*Reply, error) {
	return &Reply{Text: "That button does not belong to the current step.", Buttons: cancelRow()}, nil
}

func (s *Service) today() time.Time {
	n := s.now().UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

func tierPrompt() *Reply {
	return &Reply{
		Text: "Pick a price range per night.",
		Buttons: []Button{
			{Label: "Any price", Action: "price_tier_any"},
			{Label: "Up to 2999", Action: "price_tier_budget"},
			{Label: "3000 to 5999", Action: "price_tier_mid"},
			{Label: "6000 and up", Action: "price_tier_premium"},
		},
	}
}

func cardReply(page *search.Page, note string) *Reply {
	l := page.Listing
	text := fmt.Sprintf("%s\n%.0f per night, sleeps %d\nOption %d of %d",
		l.ShortAddress, l.NightlyPrice, l.MaxGuests, page.Index+1, page.Total)
	if l.Description != "" {
		text += "\n" + l.Description
	}
	if note != "" {
		text = note + "\n" + text
	}
	return &Reply{Text: text, Buttons: browseRow(), Page: page}
}

func browseRow() []Button {
	return []Button{
		{Label: "Prev", Action: string(ActionPrevListing)},
		{Label: "Next", Action: string(ActionNextListing)},
		{Label: "On map", Action: string(ActionShowOnMap)},
		{Label: "Book", Action: string(ActionBookListing)},
		{Label: "Cancel", Action: string(ActionCancel)},
	}
}

func cancelRow() []Button {
	return []Button{{Label: "Cancel", Action: string(ActionCancel)}}
}

func reasonOf(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
