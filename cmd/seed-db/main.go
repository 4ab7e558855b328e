package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/craftpay/autodonate/internal/domain/promo"
	"github.com/craftpay/autodonate/internal/domain/rank"
	"github.com/craftpay/autodonate/internal/postgres"
)

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	store := postgres.NewStore(pool)
	ranks := rank.NewRepository(store)
	promos := promo.NewRepository(store)

	if err := seedRanks(ctx, ranks); err != nil {
		return errors.Wrap(err, "seed ranks")
	}

	if err := seedStarterPromo(ctx, promos); err != nil {
		return errors.Wrap(err, "seed starter promo")
	}

	return nil
}

func seedRanks(ctx context.Context, ranks *rank.Repository) error {
	count, err := ranks.Count(ctx)
	if err != nil {
		return errors.Wrap(err, "count ranks")
	}
	if count > 0 {
		slog.Info("ranks already exist, skipping", slog.Int64("count", count))
		return nil
	}

	defaults := rank.Defaults()
	slog.Info("inserting default ranks", slog.Int("count", len(defaults)))

	for _, r := range defaults {
		cp := r
		if err := ranks.Create(ctx, &cp); err != nil {
			return errors.Wrapf(err, "create rank %s", r.Name)
		}

		slog.Info("created rank", slog.String("id", cp.ID), slog.String("name", cp.Name))
	}

	return nil
}

func seedStarterPromo(ctx context.Context, promos *promo.Repository) error {
	const code = "START"

	if _, err := promos.FindByCode(ctx, code); err == nil {
		slog.Info("promo already exists, skipping", slog.String("code", code))
		return nil
	} else if !errors.Is(err, promo.ErrNotFound) {
		return errors.Wrapf(err, "look up promo %s", code)
	}

	p, err := promo.New(code, decimal.NewFromInt(10), true)
	if err != nil {
		return errors.Wrap(err, "build starter promo")
	}

	if err := promos.Create(ctx, p); err != nil {
		return errors.Wrapf(err, "create promo %s", code)
	}

	slog.Info("created promo",
		slog.String("code", p.Code),
		slog.String("discount_percent", p.DiscountPercent.String()))

	return nil
}
