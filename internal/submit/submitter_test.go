package submit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

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

var signedIn = session.Session{UserID: "u-1", Token: "tok"}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testQuote() model.Quote {
	return model.Quote{BestAsk: model.Cents(65), BestBid: model.Cents(63)}
}

func buyTicket() draft.Ticket {
	tk := draft.New("evt-1", "mkt-1")
	tk = draft.SelectSide(tk, "Yes", testQuote())
	return draft.EditAmount(tk, dec("10"), testQuote())
}

func limitTicket() draft.Ticket {
	tk := draft.New("evt-1", "mkt-1")
	tk = draft.SetEntryMode(tk, model.ModeLimit)
	tk = draft.SelectSide(tk, "Yes", testQuote())
	tk = draft.EditLimitPrice(tk, 40, testQuote())
	return draft.EditShares(tk, dec("5"), testQuote())
}

// fakeOrders counts calls and captures the last request.
type fakeOrders struct {
	mu          sync.Mutex
	marketCalls int
	limitCalls  int
	lastReq     model.OrderRequest

	resp    *model.OrderResponse
	err     error
	entered chan struct{} // closed-ish signal per call, if set
	release chan struct{} // call blocks until closed, if set
}

func (f *fakeOrders) place(req model.OrderRequest) (*model.OrderResponse, error) {
	f.mu.Lock()
	f.lastReq = req
	entered, release := f.entered, f.release
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		<-release
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	return &model.OrderResponse{Success: true, OrderID: "ord-1"}, nil
}

func (f *fakeOrders) PlaceMarketOrder(_ context.Context, _ session.Session, _ model.Direction, req model.OrderRequest) (*model.OrderResponse, error) {
	f.mu.Lock()
	f.marketCalls++
	f.mu.Unlock()
	return f.place(req)
}

func (f *fakeOrders) PlaceLimitOrder(_ context.Context, _ session.Session, _ model.Direction, req model.OrderRequest) (*model.OrderResponse, error) {
	f.mu.Lock()
	f.limitCalls++
	f.mu.Unlock()
	return f.place(req)
}

func (f *fakeOrders) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.marketCalls + f.limitCalls
}

// memRecorder collects journal entries in memory.
type memRecorder struct {
	mu      sync.Mutex
	entries []journal.Entry
}

func (m *memRecorder) Record(_ context.Context, e journal.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func TestSubmit_SuccessResetsTicketAndNotifies(t *testing.T) {
	orders := &fakeOrders{}
	rec := &memRecorder{}
	notified := false

	s := New(orders, WithJournal(rec), WithOnSuccess(func() { notified = true }))

	tk, res, err := s.Submit(context.Background(), buyTicket(), signedIn, decimal.Zero)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if !res.OK {
		t.Fatalf("Result = %+v, want OK", res)
	}

	if !tk.Amount.IsZero() || !tk.Shares.IsZero() || tk.LimitPrice != 0 {
		t.Errorf("ticket not reset: amount=%s shares=%s limit=%d", tk.Amount, tk.Shares, tk.LimitPrice)
	}
	if tk.Side != "Yes" {
		t.Errorf("Side = %q, want Yes kept", tk.Side)
	}
	if !notified {
		t.Error("success callback not fired")
	}

	if len(rec.entries) != 1 {
		t.Fatalf("journal entries = %d, want 1", len(rec.entries))
	}
	if !rec.entries[0].Accepted {
		t.Error("journal entry should be marked accepted")
	}
}

func TestSubmit_ValidationFailureSkipsNetwork(t *testing.T) {
	orders := &fakeOrders{}
	wiggle := pulse.NewSource(time.Minute)
	defer wiggle.Close()

	s := New(orders, WithWiggle(wiggle))

	tk := draft.New("evt-1", "mkt-1") // no side selected
	_, res, err := s.Submit(context.Background(), tk, signedIn, decimal.Zero)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if res.Kind != validate.KindNoSelection {
		t.Errorf("Kind = %q, want NoSelection", res.Kind)
	}
	if orders.calls() != 0 {
		t.Errorf("calls = %d, want 0", orders.calls())
	}
	if !wiggle.Get().Active {
		t.Error("validation failure should trigger the shake")
	}
}

func TestSubmit_NotAuthenticatedDoesNotShake(t *testing.T) {
	wiggle := pulse.NewSource(time.Minute)
	defer wiggle.Close()

	s := New(&fakeOrders{}, WithWiggle(wiggle))

	_, res, err := s.Submit(context.Background(), buyTicket(), session.Anonymous, decimal.Zero)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if res.Kind != validate.KindNotAuthenticated {
		t.Errorf("Kind = %q, want NotAuthenticated", res.Kind)
	}
	if wiggle.Get().Active {
		t.Error("sign-in prompt should not shake the form")
	}
}

func TestSubmit_ServerErrorPreservesTicket(t *testing.T) {
	orders := &fakeOrders{
		err: &api.APIError{StatusCode: 400, Message: "market closed"},
	}
	rec := &memRecorder{}
	s := New(orders, WithJournal(rec))

	in := buyTicket()
	tk, res, err := s.Submit(context.Background(), in, signedIn, decimal.Zero)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if res.Kind != validate.KindSubmissionServerError {
		t.Errorf("Kind = %q, want SubmissionServerError", res.Kind)
	}
	if res.Message != "market closed" {
		t.Errorf("Message = %q, want the server text", res.Message)
	}
	if !tk.Amount.Equal(in.Amount) {
		t.Errorf("Amount = %s, want %s kept for retry", tk.Amount, in.Amount)
	}
	if len(rec.entries) != 1 || rec.entries[0].Accepted {
		t.Errorf("journal should hold one rejected entry, got %+v", rec.entries)
	}
}

func TestSubmit_TransportErrorIsGeneric(t *testing.T) {
	orders := &fakeOrders{err: errors.New("dial tcp: connection refused")}
	s := New(orders)

	_, res, err := s.Submit(context.Background(), buyTicket(), signedIn, decimal.Zero)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if res.Kind != validate.KindSubmissionNetworkError {
		t.Errorf("Kind = %q, want SubmissionNetworkError", res.Kind)
	}
	if strings.Contains(res.Message, "dial tcp") {
		t.Errorf("Message %q should not leak transport details", res.Message)
	}
}

func TestSubmit_RejectedResponse(t *testing.T) {
	orders := &fakeOrders{resp: &model.OrderResponse{Success: false, Message: "insufficient funds"}}
	s := New(orders)

	_, res, err := s.Submit(context.Background(), buyTicket(), signedIn, decimal.Zero)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if res.Kind != validate.KindSubmissionServerError || res.Message != "insufficient funds" {
		t.Errorf("Result = %+v, want the venue's rejection", res)
	}
}

func TestSubmit_LimitOrderRouting(t *testing.T) {
	orders := &fakeOrders{}
	s := New(orders)

	_, res, err := s.Submit(context.Background(), limitTicket(), signedIn, decimal.Zero)
	if err != nil || !res.OK {
		t.Fatalf("Submit failed: %v %+v", err, res)
	}

	if orders.limitCalls != 1 || orders.marketCalls != 0 {
		t.Errorf("calls = %d limit / %d market, want 1/0", orders.limitCalls, orders.marketCalls)
	}
	if orders.lastReq.PricePerShare == nil || *orders.lastReq.PricePerShare != 40 {
		t.Errorf("PricePerShare = %v, want 40", orders.lastReq.PricePerShare)
	}
}

func TestSubmit_ExpirationWiring(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, loc)
	clock := func() time.Time { return now }

	t.Run("disabled omits expiration", func(t *testing.T) {
		orders := &fakeOrders{}
		s := New(orders, WithClock(clock))

		_, _, err := s.Submit(context.Background(), buyTicket(), signedIn, decimal.Zero)
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if orders.lastReq.Expiration != "" {
			t.Errorf("Expiration = %q, want empty", orders.lastReq.Expiration)
		}
	})

	t.Run("end of day resolves against the clock", func(t *testing.T) {
		orders := &fakeOrders{}
		s := New(orders, WithClock(clock))

		tk := draft.SetExpiration(buyTicket(), draft.Expiration{
			Enabled: true, Policy: expiry.PolicyEndOfDay,
		})
		_, _, err := s.Submit(context.Background(), tk, signedIn, decimal.Zero)
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if orders.lastReq.Expiration != "2026-03-11T04:59:59.999Z" {
			t.Errorf("Expiration = %q, want 2026-03-11T04:59:59.999Z", orders.lastReq.Expiration)
		}
	})

	t.Run("custom without instant fails before the network", func(t *testing.T) {
		orders := &fakeOrders{}
		s := New(orders, WithClock(clock))

		tk := draft.SetExpiration(buyTicket(), draft.Expiration{
			Enabled: true, Policy: expiry.PolicyCustom,
		})
		_, res, err := s.Submit(context.Background(), tk, signedIn, decimal.Zero)
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if res.Kind != validate.KindMissingExpiration {
			t.Errorf("Kind = %q, want MissingExpiration", res.Kind)
		}
		if orders.calls() != 0 {
			t.Errorf("calls = %d, want 0", orders.calls())
		}
	})

	t.Run("custom in the past is rejected", func(t *testing.T) {
		orders := &fakeOrders{}
		s := New(orders, WithClock(clock))

		past := now.Add(-time.Hour)
		tk := draft.SetExpiration(buyTicket(), draft.Expiration{
			Enabled: true, Policy: expiry.PolicyCustom, CustomAt: &past,
		})
		_, res, err := s.Submit(context.Background(), tk, signedIn, decimal.Zero)
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if res.OK || orders.calls() != 0 {
			t.Errorf("past expiration should fail locally, got %+v with %d calls", res, orders.calls())
		}
	})
}

func TestSubmit_SingleInFlight(t *testing.T) {
	orders := &fakeOrders{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	s := New(orders)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _, err := s.Submit(context.Background(), buyTicket(), signedIn, decimal.Zero)
		if err != nil {
			t.Errorf("first Submit failed: %v", err)
		}
	}()

	// Wait until the first submission holds the network call open.
	<-orders.entered

	if !s.Submitting() {
		t.Error("Submitting() = false while a call is in flight")
	}

	_, _, err := s.Submit(context.Background(), buyTicket(), signedIn, decimal.Zero)
	if !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("second Submit err = %v, want ErrSubmitInFlight", err)
	}

	close(orders.release)
	wg.Wait()

	if orders.calls() != 1 {
		t.Errorf("calls = %d, want exactly 1", orders.calls())
	}

	// The guard clears once the round trip settles.
	if _, res, err := s.Submit(context.Background(), buyTicket(), signedIn, decimal.Zero); err != nil || !res.OK {
		t.Errorf("follow-up Submit failed: %v %+v", err, res)
	}
}
