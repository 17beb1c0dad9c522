package journal

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkaplan/trade-ticket/internal/config"
)

// PG writes journal entries to Postgres.
type PG struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Connect opens a connection pool to the journal database.
func Connect(ctx context.Context, cfg config.JournalConfig, logger *slog.Logger) (*PG, error) {
	if logger == nil {
		logger = slog.Default()
	}

	poolCfg, err := pgxpool.ParseConfig(BuildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PG{pool: pool, logger: logger}, nil
}

// BuildConnString builds a PostgreSQL connection string from config.
func BuildConnString(cfg config.JournalConfig) string {
	// URL-encode password to handle special characters
	escapedPassword := url.QueryEscape(cfg.Password)

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		escapedPassword,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		sslMode,
	)
}

const insertEntry = `
INSERT INTO order_journal (
	id, at, client_order_id, event_id, market_id,
	side, direction, entry_mode, shares, price_per_share,
	accepted, message
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

// Record implements Recorder.
func (p *PG) Record(ctx context.Context, e Entry) error {
	_, err := p.pool.Exec(ctx, insertEntry,
		e.ID, e.At, e.ClientOrderID, e.EventID, e.MarketID,
		e.Side, string(e.Direction), string(e.Mode), e.Shares, e.PricePerShare,
		e.Accepted, e.Message,
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}

	p.logger.Debug("journaled submission",
		"entry_id", e.ID,
		"market_id", e.MarketID,
		"accepted", e.Accepted,
	)
	return nil
}

// Close releases the connection pool.
func (p *PG) Close() {
	p.pool.Close()
}
