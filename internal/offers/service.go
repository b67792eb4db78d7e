package offers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ratedesk/ratedesk-backend/pkg/db"
	dbtypes "github.com/ratedesk/ratedesk-backend/pkg/db/types"
	"github.com/ratedesk/ratedesk-backend/pkg/enums"
	pkgerrors "github.com/ratedesk/ratedesk-backend/pkg/errors"
	"github.com/ratedesk/ratedesk-backend/pkg/logger"
	"github.com/ratedesk/ratedesk-backend/pkg/metrics"
)

const defaultCurrency = "EUR"

// Service exposes the offer resolution and upsert engine.
type Service interface {
	Submit(ctx context.Context, input SubmitOfferInput) (int64, error)
	SubmitBatch(ctx context.Context, inputs []SubmitOfferInput) []BatchResult
	Get(ctx context.Context, id int64) (*OfferDTO, error)
	List(ctx context.Context, input ListOffersInput) ([]OfferDTO, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	logg     *logger.Logger
	metrics  *metrics.OfferMetrics
	now      func() time.Time
}

// NewService constructs the offer service.
func NewService(repo *Repository, dbClient *db.Client, logg *logger.Logger, m *metrics.OfferMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("offer repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		logg:     logg,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Submit resolves identifiers, inherits the charge model and upserts the
// offer row, all inside one transaction.
func (s *service) Submit(ctx context.Context, input SubmitOfferInput) (int64, error) {
	if err := validateSubmitInput(input); err != nil {
		return 0, err
	}

	var (
		offerID  int64
		inserted bool
	)
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		conn, err := s.repo.ConnectionTx(ctx, tx, input.ConnectionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("connection %d not found", input.ConnectionID))
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading connection")
		}
		if conn.SupplierID != input.SupplierID {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("connection %d does not belong to supplier %d", input.ConnectionID, input.SupplierID))
		}

		resolution, err := resolveIdentifiers(ctx, tx, input.NetworkID, input.MCCMNC)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving identifiers")
		}
		if !resolution.Resolvable() {
			return pkgerrors.New(pkgerrors.CodeValidation, "either network_id or mccmnc must identify a network")
		}

		exists, err := s.repo.ExistsTx(ctx, tx, input.SupplierID, input.ConnectionID, resolution.NetworkID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking existing offer")
		}
		inserted = !exists

		rec := buildUpsertRecord(input, resolution, conn.ChargeModel, s.now())
		if resolution.NetworkID == nil && input.PreviousPrice == nil {
			// code-only rows insert fresh each time, so the upsert statement
			// cannot capture their history
			prior, err := s.repo.PriorCodeOnlyPriceTx(ctx, tx, input.SupplierID, input.ConnectionID, resolution.MCCMNC)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading prior price")
			}
			rec.PreviousPrice = prior
		}
		offerID, err = s.repo.UpsertTx(ctx, tx, rec)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing offer")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	result := "updated"
	if inserted {
		result = "inserted"
	}
	s.metrics.IncUpsert(result)

	lctx := s.logg.WithFields(ctx, map[string]any{
		"offer_id":      offerID,
		"supplier_id":   input.SupplierID,
		"connection_id": input.ConnectionID,
		"result":        result,
	})
	s.logg.Info(lctx, "offer upserted")
	return offerID, nil
}

// SubmitBatch runs each payload through Submit in its own transaction and
// reports per-row outcomes. A failing row never aborts the rest.
func (s *service) SubmitBatch(ctx context.Context, inputs []SubmitOfferInput) []BatchResult {
	results := make([]BatchResult, 0, len(inputs))
	for i, input := range inputs {
		id, err := s.Submit(ctx, input)
		if err != nil {
			results = append(results, BatchResult{Index: i, Error: err.Error()})
			continue
		}
		results = append(results, BatchResult{Index: i, ID: &id})
	}
	return results
}

// Get returns one denormalized offer row by id.
func (s *service) Get(ctx context.Context, id int64) (*OfferDTO, error) {
	dto, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("offer %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading offer")
	}
	return dto, nil
}

// List returns denormalized offer rows for the supplied filters.
func (s *service) List(ctx context.Context, input ListOffersInput) ([]OfferDTO, error) {
	start := time.Now()
	rows, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing offers")
	}
	s.metrics.ObserveListDuration(input.HasFilters(), time.Since(start))
	return rows, nil
}

func validateSubmitInput(input SubmitOfferInput) error {
	if input.SupplierID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "supplier_id is required")
	}
	if input.ConnectionID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "connection_id is required")
	}
	if input.NetworkID == nil && strings.TrimSpace(input.MCCMNC) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "either network_id or mccmnc is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.PreviousPrice != nil && input.PreviousPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "previous_price must not be negative")
	}
	return nil
}

func buildUpsertRecord(input SubmitOfferInput, res Resolution, connectionDefault enums.BillingModel, now time.Time) upsertRecord {
	currency := strings.TrimSpace(input.Currency)
	if currency == "" {
		currency = defaultCurrency
	}

	effective := now
	if input.EffectiveDate != nil {
		effective = *input.EffectiveDate
	}

	return upsertRecord{
		SupplierID:   input.SupplierID,
		ConnectionID: input.ConnectionID,
		NetworkID:    res.NetworkID,
		CountryID:    res.CountryID,
		MCCMNC:       res.MCCMNC,

		Price:            input.Price,
		PreviousPrice:    input.PreviousPrice,
		ExplicitPrevious: input.PreviousPrice != nil,
		Currency:         currency,
		EffectiveDate:    effective,

		RouteType:            input.RouteType,
		KnownHops:            input.KnownHops,
		SenderIDTypes:        dbtypes.StringList(input.SenderIDTypes),
		RegistrationRequired: input.RegistrationRequired,
		ETADays:              input.ETADays,
		ChargeModel:          inheritChargeModel(input.ChargeModel, connectionDefault),
		IsExclusive:          input.IsExclusive,
		Notes:                input.Notes,

		UpdatedBy: input.UpdatedBy,
		Now:       now,
	}
}
