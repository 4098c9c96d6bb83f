// Package telemetry batches feed-assembly metrics into ClickHouse: one row
// per assembled feed describing pool sizes, fallback counts and slot
// composition, used for offline bandit tuning and dashboarding. Grounded on
// the teacher's ClickHouse client shape (connect-or-nil-if-unconfigured,
// PrepareBatch inserts), repurposed from fingerprint indexing to feed
// telemetry.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"feedcore/internal/config"
	"feedcore/internal/infrastructure/logging"

	ch "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Client wraps a ClickHouse connection for feed assembly telemetry.
type Client struct {
	conn   driver.Conn
	logger *logging.Logger
}

// NewClient opens a ClickHouse connection. Returns (nil, nil) when
// telemetry is disabled or unconfigured, so callers can treat a nil client
// as "do not record" rather than threading a feature flag everywhere.
func NewClient(cfg config.TelemetryConfig, logger *logging.Logger) (*Client, error) {
	if cfg.Disabled || cfg.DSN == "" {
		return nil, nil
	}

	conn, err := ch.Open(&ch.Options{
		Addr: []string{cfg.DSN},
		Auth: ch.Auth{
			Database: cfg.Database,
		},
		Settings: ch.Settings{
			"max_execution_time": 60,
		},
		DialTimeout: 5 * time.Second,
		Compression: &ch.Compression{
			Method: ch.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open clickhouse connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	logger.Info("Connected to ClickHouse for feed telemetry")

	return &Client{conn: conn, logger: logger}, nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *Client) Close() error {
	return c.conn.Close()
}
