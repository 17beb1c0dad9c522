package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkaplan/trade-ticket/internal/api"
	"github.com/dkaplan/trade-ticket/internal/config"
	"github.com/dkaplan/trade-ticket/internal/draft"
	"github.com/dkaplan/trade-ticket/internal/expiry"
	"github.com/dkaplan/trade-ticket/internal/feed"
	"github.com/dkaplan/trade-ticket/internal/journal"
	"github.com/dkaplan/trade-ticket/internal/model"
	"github.com/dkaplan/trade-ticket/internal/position"
	"github.com/dkaplan/trade-ticket/internal/pulse"
	"github.com/dkaplan/trade-ticket/internal/quote"
	"github.com/dkaplan/trade-ticket/internal/session"
	"github.com/dkaplan/trade-ticket/internal/submit"
	"github.com/dkaplan/trade-ticket/internal/validate"
)

func main() {
	configPath := flag.String("config", "configs/ticket.local.yaml", "path to config file")
	watch := flag.Bool("watch", false, "stream live prices instead of placing an order")
	side := flag.String("side", "", "outcome side to trade (e.g. Yes)")
	direction := flag.String("direction", "Buy", "Buy or Sell")
	mode := flag.String("mode", "dollars", "entry mode: dollars, contracts, or limit")
	amount := flag.String("amount", "0", "dollar amount (dollars mode)")
	shares := flag.String("shares", "0", "contract count (contracts/limit mode)")
	limitPrice := flag.Int("limit", 0, "limit price in cents (limit mode)")
	expires := flag.String("expires", "", "expiration: empty, eod, or an RFC 3339 instant")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"api_url", cfg.API.BaseURL,
		"event_id", cfg.Market.EventID,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	sess := session.Session{
		UserID: os.Getenv("TICKET_USER_ID"),
		Token:  os.Getenv("TICKET_API_TOKEN"),
	}

	client := api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
		api.WithLogger(logger),
	)

	if *watch {
		if err := watchPrices(ctx, cfg, logger); err != nil && ctx.Err() == nil {
			logger.Error("price watch failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := placeOrder(ctx, cfg, client, sess, logger, orderFlags{
		side:       *side,
		direction:  model.Direction(*direction),
		mode:       model.EntryMode(*mode),
		amount:     *amount,
		shares:     *shares,
		limitPrice: *limitPrice,
		expires:    *expires,
	}); err != nil {
		logger.Error("order not placed", "error", err)
		os.Exit(1)
	}
}

// watchPrices streams the feed and prints each change until cancelled.
func watchPrices(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	tracker := quote.NewTracker()
	flash := pulse.NewSource(500 * time.Millisecond)
	defer flash.Close()

	client := feed.NewClient(cfg.Feed, func(prices map[string]model.Quote) {
		changes := tracker.Apply(prices)
		if len(changes) == 0 {
			return
		}
		flash.Trigger()
		for side, change := range changes {
			q, _ := tracker.Best(side)
			logger.Info("price moved",
				"side", side,
				"ask", fmtCents(q.BestAsk),
				"bid", fmtCents(q.BestBid),
				"ask_changed", change.AskChanged,
				"bid_changed", change.BidChanged,
			)
		}
	}, logger)
	defer client.Close()

	return client.Run(ctx)
}

type orderFlags struct {
	side       string
	direction  model.Direction
	mode       model.EntryMode
	amount     string
	shares     string
	limitPrice int
	expires    string
}

// placeOrder runs the composer end to end: quotes, positions, draft
// derivation, validation, submission.
func placeOrder(ctx context.Context, cfg *config.Config, client *api.Client, sess session.Session, logger *slog.Logger, flags orderFlags) error {
	if !flags.direction.Valid() {
		return fmt.Errorf("unknown direction %q", flags.direction)
	}
	if !flags.mode.Valid() {
		return fmt.Errorf("unknown entry mode %q", flags.mode)
	}

	prices, err := client.GetMarketPrices(ctx, sess, cfg.Market.EventID)
	if err != nil {
		return fmt.Errorf("fetch prices: %w", err)
	}

	tracker := quote.NewTracker()
	tracker.Apply(prices)

	q, ok := tracker.Best(flags.side)
	if !ok {
		return fmt.Errorf("no quote for side %q", flags.side)
	}

	positions, err := client.GetPositions(ctx, sess)
	if err != nil {
		return fmt.Errorf("fetch positions: %w", err)
	}
	available := position.AvailableShares(positions, cfg.Market.MarketID, flags.side)

	tk := draft.New(cfg.Market.EventID, cfg.Market.MarketID)
	tk = draft.SetDirection(tk, flags.direction)
	tk = draft.SetEntryMode(tk, flags.mode)
	tk = draft.SelectSide(tk, flags.side, q)

	switch flags.mode {
	case model.ModeDollars:
		amt, err := decimal.NewFromString(flags.amount)
		if err != nil {
			return fmt.Errorf("parse amount: %w", err)
		}
		tk = draft.EditAmount(tk, amt, q)
	case model.ModeContracts, model.ModeLimit:
		sh, err := decimal.NewFromString(flags.shares)
		if err != nil {
			return fmt.Errorf("parse shares: %w", err)
		}
		if flags.mode == model.ModeLimit && flags.limitPrice > 0 {
			tk = draft.EditLimitPrice(tk, flags.limitPrice, q)
		}
		tk = draft.EditShares(tk, sh, q)
	}

	tk, err = applyExpiration(tk, flags.expires)
	if err != nil {
		return err
	}

	logger.Info("ticket composed",
		"side", tk.Side,
		"direction", tk.Direction,
		"mode", tk.EntryMode,
		"amount", tk.Amount,
		"shares", tk.Shares,
		"limit_price", tk.LimitPrice,
		"available", available,
	)

	recorder, cleanup, err := openJournal(ctx, cfg.Journal, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	submitter := submit.New(client,
		submit.WithLogger(logger),
		submit.WithJournal(recorder),
		submit.WithOnSuccess(func() {
			logger.Info("trade succeeded, refresh positions")
		}),
	)

	_, res, err := submitter.Submit(ctx, tk, sess, available)
	if err != nil {
		return err
	}
	if !res.OK {
		if res.Kind == validate.KindNotAuthenticated {
			return fmt.Errorf("set TICKET_API_TOKEN to place orders")
		}
		return fmt.Errorf("%s: %s", res.Kind, res.Message)
	}

	logger.Info("order placed")
	return nil
}

func applyExpiration(tk draft.Ticket, expires string) (draft.Ticket, error) {
	switch expires {
	case "":
		return tk, nil
	case "eod":
		return draft.SetExpiration(tk, draft.Expiration{
			Enabled: true,
			Policy:  expiry.PolicyEndOfDay,
		}), nil
	default:
		at, err := time.Parse(time.RFC3339, expires)
		if err != nil {
			return tk, fmt.Errorf("parse expiration: %w", err)
		}
		return draft.SetExpiration(tk, draft.Expiration{
			Enabled:  true,
			Policy:   expiry.PolicyCustom,
			CustomAt: &at,
		}), nil
	}
}

func openJournal(ctx context.Context, cfg config.JournalConfig, logger *slog.Logger) (journal.Recorder, func(), error) {
	if !cfg.Enabled {
		return journal.Nop{}, func() {}, nil
	}

	pg, err := journal.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect journal: %w", err)
	}
	logger.Info("journal connected", "host", cfg.Host, "database", cfg.Name)
	return pg, pg.Close, nil
}

func fmtCents(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%dc", *p)
}
