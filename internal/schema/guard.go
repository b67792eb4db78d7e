package schema

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/ratedesk/ratedesk-backend/pkg/db"
	"github.com/ratedesk/ratedesk-backend/pkg/logger"
	"github.com/ratedesk/ratedesk-backend/pkg/migrate"
)

// Guard brings the database to the shape the engine expects before the API
// starts serving. Structural migrations are fatal; the data repair passes
// are best-effort and only logged, so one bad legacy row cannot hold the
// whole service down.
type Guard struct {
	client *db.Client
	logg   *logger.Logger
}

func NewGuard(client *db.Client, logg *logger.Logger) *Guard {
	return &Guard{client: client, logg: logg}
}

func (g *Guard) Run(ctx context.Context) error {
	sqlDB, err := g.client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	g.logg.Info(ctx, "applying schema migrations")
	if err := migrate.Up(ctx, sqlDB); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	g.runRepairPasses(ctx)
	return nil
}

type repairPass struct {
	name string
	fn   func(context.Context, *gorm.DB) error
}

func (g *Guard) runRepairPasses(ctx context.Context) {
	passes := []repairPass{
		{"normalize_sender_id_lists", NormalizeSenderIDLists},
		{"backfill_combined_codes", BackfillCombinedCodes},
		{"backfill_country_refs", BackfillCountryRefs},
	}

	var errs error
	for _, p := range passes {
		pctx := g.logg.WithField(ctx, "pass", p.name)
		err := g.client.WithTx(pctx, func(tx *gorm.DB) error {
			return p.fn(pctx, tx)
		})
		if err != nil {
			g.logg.Error(pctx, "schema repair pass failed", err)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", p.name, err))
			continue
		}
		g.logg.Info(pctx, "schema repair pass completed")
	}

	if errs != nil {
		g.logg.Warn(ctx, fmt.Sprintf("schema guard finished with repair errors: %v", errs))
	}
}
