package offers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ratedesk/ratedesk-backend/pkg/db/models"
	dbtypes "github.com/ratedesk/ratedesk-backend/pkg/db/types"
)

const offerSelectColumns = `
o.id,
o.supplier_id,
s.organization_name AS supplier_name,
o.connection_id,
c.connection_name,
o.network_id,
n.name AS network_name,
o.country_id,
co.name AS country_name,
o.mccmnc,
o.price,
o.previous_price,
o.currency,
o.effective_date,
o.route_type,
o.known_hops,
o.sender_id_types,
o.registration_required,
o.eta_days,
o.charge_model,
o.is_exclusive,
o.notes,
o.updated_by,
o.created_at,
o.updated_at`

const offerJoins = `
FROM offers o
JOIN suppliers s ON s.id = o.supplier_id
JOIN supplier_connections c ON c.id = o.connection_id
LEFT JOIN networks n ON n.id = o.network_id
LEFT JOIN countries co ON co.id = o.country_id`

// Repository encapsulates offer persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an offer repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// upsertRecord is the fully resolved row handed to UpsertTx. All inheritance
// and identifier resolution has already happened by the time it is built.
type upsertRecord struct {
	SupplierID   int64
	ConnectionID int64
	NetworkID    *int64
	CountryID    *int64
	MCCMNC       string

	Price            decimal.Decimal
	PreviousPrice    *decimal.Decimal
	ExplicitPrevious bool
	Currency         string
	EffectiveDate    time.Time

	RouteType            *string
	KnownHops            *string
	SenderIDTypes        dbtypes.StringList
	RegistrationRequired *string
	ETADays              *int
	ChargeModel          string
	IsExclusive          *string
	Notes                *string

	UpdatedBy string
	Now       time.Time
}

// ConnectionTx loads a supplier connection on the caller's transaction.
func (r *Repository) ConnectionTx(ctx context.Context, tx *gorm.DB, id int64) (*models.SupplierConnection, error) {
	var conn models.SupplierConnection
	if err := tx.WithContext(ctx).First(&conn, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

// ExistsTx reports whether a row for the tuple already exists. Tuples with a
// null network id never conflict, so they always read as absent.
func (r *Repository) ExistsTx(ctx context.Context, tx *gorm.DB, supplierID, connectionID int64, networkID *int64) (bool, error) {
	if networkID == nil {
		return false, nil
	}
	var count int64
	err := tx.WithContext(ctx).Model(&models.Offer{}).
		Where("supplier_id = ? AND connection_id = ? AND network_id = ?", supplierID, connectionID, *networkID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PriorCodeOnlyPriceTx returns the price of the newest code-only row for the
// supplier/connection pair, or nil when none exists. Code-only rows carry a
// null network id and therefore never conflict under the unique constraint,
// so their history capture happens through this pre-read instead of inside
// the upsert statement.
func (r *Repository) PriorCodeOnlyPriceTx(ctx context.Context, tx *gorm.DB, supplierID, connectionID int64, mccmnc string) (*decimal.Decimal, error) {
	var rows []struct {
		Price decimal.Decimal
	}
	err := tx.WithContext(ctx).Raw(`
SELECT price FROM offers
WHERE supplier_id = ? AND connection_id = ? AND network_id IS NULL AND mccmnc = ?
ORDER BY updated_at DESC, id DESC LIMIT 1`, supplierID, connectionID, mccmnc).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("reading prior code-only price: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0].Price, nil
}

// UpsertTx writes the offer row with a single atomic statement. On conflict
// the previous price is captured from the row being replaced inside the same
// statement, so concurrent submissions for one tuple cannot both observe the
// same pre-update price. An explicitly supplied previous price wins over the
// captured one.
func (r *Repository) UpsertTx(ctx context.Context, tx *gorm.DB, rec upsertRecord) (int64, error) {
	previousExpr := "offers.price"
	if rec.ExplicitPrevious {
		previousExpr = "excluded.previous_price"
	}

	query := fmt.Sprintf(`
INSERT INTO offers (
	supplier_id, connection_id, network_id, country_id, mccmnc,
	price, previous_price, currency, effective_date,
	route_type, known_hops, sender_id_types, registration_required,
	eta_days, charge_model, is_exclusive, notes, updated_by,
	created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (supplier_id, connection_id, network_id) DO UPDATE SET
	country_id = excluded.country_id,
	mccmnc = excluded.mccmnc,
	previous_price = %s,
	price = excluded.price,
	currency = excluded.currency,
	effective_date = excluded.effective_date,
	route_type = excluded.route_type,
	known_hops = excluded.known_hops,
	sender_id_types = excluded.sender_id_types,
	registration_required = excluded.registration_required,
	eta_days = excluded.eta_days,
	charge_model = excluded.charge_model,
	is_exclusive = excluded.is_exclusive,
	notes = excluded.notes,
	updated_by = excluded.updated_by,
	updated_at = excluded.updated_at
RETURNING id`, previousExpr)

	senderIDs := rec.SenderIDTypes
	if senderIDs == nil {
		senderIDs = dbtypes.StringList{}
	}

	var id int64
	err := tx.WithContext(ctx).Raw(query,
		rec.SupplierID, rec.ConnectionID, rec.NetworkID, rec.CountryID, nullableCode(rec.MCCMNC),
		rec.Price, rec.PreviousPrice, rec.Currency, rec.EffectiveDate,
		rec.RouteType, rec.KnownHops, senderIDs, rec.RegistrationRequired,
		rec.ETADays, rec.ChargeModel, rec.IsExclusive, rec.Notes, rec.UpdatedBy,
		rec.Now, rec.Now,
	).Scan(&id).Error
	if err != nil {
		return 0, fmt.Errorf("upserting offer: %w", err)
	}
	return id, nil
}

func nullableCode(code string) *string {
	if code == "" {
		return nil
	}
	return &code
}

// GetByID returns one denormalized offer row.
func (r *Repository) GetByID(ctx context.Context, id int64) (*OfferDTO, error) {
	var rows []offerRow
	err := r.db.WithContext(ctx).
		Raw("SELECT "+offerSelectColumns+offerJoins+" WHERE o.id = ?", id).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("loading offer %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	dto := rows[0].toDTO()
	return &dto, nil
}

// List returns denormalized offer rows matching the supplied filters,
// most recently updated first.
func (r *Repository) List(ctx context.Context, in ListOffersInput) ([]OfferDTO, error) {
	var (
		clauses []string
		args    []any
	)

	addClause := func(clause string, clauseArgs ...any) {
		clauses = append(clauses, clause)
		args = append(args, clauseArgs...)
	}

	if in.Country != "" {
		addClause("LOWER(co.name) = LOWER(?)", in.Country)
	}
	if in.RouteType != "" {
		addClause("o.route_type = ?", in.RouteType)
	}
	if in.KnownHops != "" {
		addClause("o.known_hops = ?", in.KnownHops)
	}
	if in.SupplierName != "" {
		addClause("LOWER(s.organization_name) LIKE ?", "%"+strings.ToLower(in.SupplierName)+"%")
	}
	if in.ConnectionName != "" {
		addClause("LOWER(c.connection_name) LIKE ?", "%"+strings.ToLower(in.ConnectionName)+"%")
	}
	if in.SenderIDType != "" {
		if r.db.Dialector.Name() == "postgres" {
			element, err := json.Marshal([]string{in.SenderIDType})
			if err != nil {
				return nil, fmt.Errorf("encoding sender id filter: %w", err)
			}
			addClause("o.sender_id_types @> ?", string(element))
		} else {
			// match the serialized element with its quotes so "Numeric"
			// cannot match a row holding only "Dynamic Numeric"
			addClause("o.sender_id_types LIKE ?", `%"`+in.SenderIDType+`"%`)
		}
	}
	if in.RegistrationRequired != "" {
		addClause("o.registration_required = ?", in.RegistrationRequired)
	}
	if in.IsExclusive != "" {
		addClause("o.is_exclusive = ?", in.IsExclusive)
	}

	query := "SELECT " + offerSelectColumns + offerJoins
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY o.updated_at DESC LIMIT ?"
	args = append(args, normalizeLimit(in.Limit))

	var rows []offerRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}

	out := make([]OfferDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDTO())
	}
	return out, nil
}

const (
	defaultListLimit = 200
	maxListLimit     = 500
)

func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}
