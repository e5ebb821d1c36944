package main

import (
	"context"
	"fmt"
	"log"

	"github.com/claimgate/claimgate/internal/audit"
	"github.com/claimgate/claimgate/internal/config"
	"github.com/claimgate/claimgate/internal/ledger"
	"github.com/claimgate/claimgate/internal/ledger/pgstore"
	"github.com/claimgate/claimgate/internal/ledger/sqlstore"
)

// buildAuditSink assembles the configured sinks. The returned hub is non-nil
// only when the websocket stream is enabled, and is also part of the sink.
func buildAuditSink(ctx context.Context, cfg config.AuditConfig) (audit.MultiSink, *audit.StreamHub, error) {
	var sinks audit.MultiSink
	fail := func(err error) (audit.MultiSink, *audit.StreamHub, error) {
		_ = sinks.Close()
		return nil, nil, err
	}

	if cfg.StdoutEnabled() {
		sinks = append(sinks, audit.NewStdoutSink())
	}

	if cfg.File != "" {
		fileSink, err := audit.NewFileSink(cfg.File)
		if err != nil {
			return fail(fmt.Errorf("audit file: %w", err))
		}
		sinks = append(sinks, fileSink)
		log.Printf("audit: writing entries to %s", fileSink.Path())
	}

	if cfg.Webhook.URL != "" {
		webhook, err := audit.NewWebhookSink(cfg.Webhook.URL, cfg.Webhook.Secret, cfg.Webhook.Timeout)
		if err != nil {
			return fail(fmt.Errorf("audit webhook: %w", err))
		}
		sinks = append(sinks, webhook)
	}

	if cfg.DB.Driver != "" {
		store, err := openLedger(ctx, cfg.DB)
		if err != nil {
			return fail(fmt.Errorf("audit db: %w", err))
		}
		sinks = append(sinks, audit.NewLedgerSink(store))
	}

	var hub *audit.StreamHub
	if cfg.Stream.Enabled {
		hub = audit.NewStreamHub(cfg.Stream.Buffer).AllowOrigins(cfg.Stream.AllowedOrigins...)
		sinks = append(sinks, hub)
	}

	return sinks, hub, nil
}

func openLedger(ctx context.Context, cfg config.DBConfig) (ledger.Store, error) {
	driver, err := ledger.ParseDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}
	switch driver {
	case ledger.DBSQLite:
		s, err := sqlstore.OpenSQLite(cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := ledger.Migrate(ctx, s.DB(), driver); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	default:
		s, err := pgstore.OpenPostgres(cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := ledger.Migrate(ctx, s.DB(), driver); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	}
}
