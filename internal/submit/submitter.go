// Package submit turns a validated ticket into exactly one order API
// call and reconciles the ticket with the outcome.
package submit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dkaplan/trade-ticket/internal/api"
	"github.com/dkaplan/trade-ticket/internal/draft"
	"github.com/dkaplan/trade-ticket/internal/expiry"
	"github.com/dkaplan/trade-ticket/internal/journal"
	"github.com/dkaplan/trade-ticket/internal/model"
	"github.com/dkaplan/trade-ticket/internal/pulse"
	"github.com/dkaplan/trade-ticket/internal/session"
	"github.com/dkaplan/trade-ticket/internal/validate"
)

// ErrSubmitInFlight is returned when a submission is already running.
// The caller must disable the submit action, not merely debounce it.
var ErrSubmitInFlight = errors.New("submit: an order submission is already in flight")

const networkErrorMessage = "could not reach the venue, please try again"

// OrderAPI is the slice of the venue client the submitter needs.
type OrderAPI interface {
	PlaceMarketOrder(ctx context.Context, sess session.Session, dir model.Direction, req model.OrderRequest) (*model.OrderResponse, error)
	PlaceLimitOrder(ctx context.Context, sess session.Session, dir model.Direction, req model.OrderRequest) (*model.OrderResponse, error)
}

// Submitter orchestrates validation, payload construction, and the
// order call. At most one submission is in flight at any time.
type Submitter struct {
	orders    OrderAPI
	journal   journal.Recorder
	logger    *slog.Logger
	onSuccess func()
	wiggle    *pulse.Source
	now       func() time.Time

	mu         sync.Mutex
	submitting bool
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithJournal records every submission attempt to r.
func WithJournal(r journal.Recorder) Option {
	return func(s *Submitter) {
		s.journal = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Submitter) {
		s.logger = logger
	}
}

// WithOnSuccess registers the callback fired after an accepted order,
// for sibling views to refresh positions. Replaces any ambient
// event-bus coupling with an explicit observer.
func WithOnSuccess(fn func()) Option {
	return func(s *Submitter) {
		s.onSuccess = fn
	}
}

// WithWiggle attaches the transient shake signal fired on validation
// failures.
func WithWiggle(p *pulse.Source) Option {
	return func(s *Submitter) {
		s.wiggle = p
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Submitter) {
		s.now = now
	}
}

// New creates a Submitter.
func New(orders OrderAPI, opts ...Option) *Submitter {
	s := &Submitter{
		orders:  orders,
		journal: journal.Nop{},
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submitting reports whether a submission is currently in flight.
func (s *Submitter) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Submit validates t and, if it passes, issues exactly one order call.
//
// On acceptance the returned ticket has its numeric fields reset and the
// success callback has fired. On any failure the ticket comes back
// untouched so the user can retry without re-entering data; the Result
// carries the user-facing outcome. The only non-nil error is
// ErrSubmitInFlight.
func (s *Submitter) Submit(ctx context.Context, t draft.Ticket, sess session.Session, available decimal.Decimal) (draft.Ticket, validate.Result, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return t, validate.Result{}, ErrSubmitInFlight
	}
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	if res := validate.Check(t, sess, available); !res.OK {
		// Not-authenticated opens a sign-in prompt, no shake.
		if res.Kind != validate.KindNotAuthenticated {
			s.shake()
		}
		return t, res, nil
	}

	now := s.now()
	exp, err := expiry.Resolve(t.Expiration.Enabled, t.Expiration.Policy, t.Expiration.CustomAt, now)
	if err != nil {
		s.shake()
		return t, validate.Fail(validate.KindMissingExpiration, "choose an expiration time"), nil
	}
	if exp != nil && exp.Before(now) {
		s.shake()
		return t, validate.Fail(validate.KindValidationGeneric, "expiration must be in the future"), nil
	}

	// Freeze the wire payload before anything else can touch the ticket.
	req := model.OrderRequest{
		EventID:       t.EventID,
		MarketID:      t.MarketID,
		Side:          t.Side,
		Shares:        t.Shares,
		Expiration:    expiry.Format(exp),
		ClientOrderID: uuid.NewString(),
	}
	if t.EntryMode == model.ModeLimit {
		price := t.LimitPrice
		req.PricePerShare = &price
	}

	var resp *model.OrderResponse
	if t.EntryMode == model.ModeLimit {
		resp, err = s.orders.PlaceLimitOrder(ctx, sess, t.Direction, req)
	} else {
		resp, err = s.orders.PlaceMarketOrder(ctx, sess, t.Direction, req)
	}

	result := s.interpret(resp, err)
	s.record(ctx, t, req, now, result)

	if !result.OK {
		s.logger.Warn("order submission failed",
			"market_id", t.MarketID,
			"kind", result.Kind,
			"message", result.Message,
		)
		return t, result, nil
	}

	s.logger.Info("order accepted",
		"market_id", t.MarketID,
		"side", t.Side,
		"shares", t.Shares,
	)

	if s.onSuccess != nil {
		s.onSuccess()
	}
	return draft.ResetAfterSubmit(t), result, nil
}

// interpret maps the API response to a user-facing result.
func (s *Submitter) interpret(resp *model.OrderResponse, err error) validate.Result {
	if err != nil {
		if msg, ok := api.ServerMessage(err); ok {
			return validate.Fail(validate.KindSubmissionServerError, msg)
		}
		return validate.Fail(validate.KindSubmissionNetworkError, networkErrorMessage)
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "the venue rejected the order"
		}
		return validate.Fail(validate.KindSubmissionServerError, msg)
	}
	return validate.Ok()
}

// record journals the attempt; journal failures are logged, never
// surfaced.
func (s *Submitter) record(ctx context.Context, t draft.Ticket, req model.OrderRequest, at time.Time, result validate.Result) {
	entry := journal.Entry{
		ID:            uuid.New(),
		At:            at,
		ClientOrderID: req.ClientOrderID,
		EventID:       req.EventID,
		MarketID:      req.MarketID,
		Side:          req.Side,
		Direction:     t.Direction,
		Mode:          t.EntryMode,
		Shares:        req.Shares,
		PricePerShare: req.PricePerShare,
		Accepted:      result.OK,
		Message:       result.Message,
	}
	if err := s.journal.Record(ctx, entry); err != nil {
		s.logger.Error("journal record failed", "error", err, "entry_id", entry.ID)
	}
}

func (s *Submitter) shake() {
	if s.wiggle != nil {
		s.wiggle.Trigger()
	}
}
