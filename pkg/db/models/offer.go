package models

import (
	"time"

	"github.com/shopspring/decimal"

	dbtypes "github.com/ratedesk/ratedesk-backend/pkg/db/types"
)

// Offer is the current-state price record for one (supplier, connection,
// network) tuple. It is mutated in place on resubmission; the single prior
// price survives in PreviousPrice. MCCMNC is a denormalized copy of the
// network's combined code so the row stays useful when the network lookup
// was incomplete at write time.
type Offer struct {
	ID           int64  `gorm:"column:id;primaryKey"`
	SupplierID   int64  `gorm:"column:supplier_id;not null;uniqueIndex:ux_offers_tuple"`
	ConnectionID int64  `gorm:"column:connection_id;not null;uniqueIndex:ux_offers_tuple"`
	NetworkID    *int64 `gorm:"column:network_id;uniqueIndex:ux_offers_tuple"`
	CountryID    *int64 `gorm:"column:country_id"`
	MCCMNC       string `gorm:"column:mccmnc;size:12"`

	Price         decimal.Decimal  `gorm:"column:price;type:numeric;not null"`
	PreviousPrice *decimal.Decimal `gorm:"column:previous_price;type:numeric"`
	Currency      string           `gorm:"column:currency;size:8;default:EUR"`
	EffectiveDate time.Time        `gorm:"column:effective_date"`

	RouteType            *string            `gorm:"column:route_type"`
	KnownHops            *string            `gorm:"column:known_hops"`
	SenderIDTypes        dbtypes.StringList `gorm:"column:sender_id_types;type:jsonb"`
	RegistrationRequired *string            `gorm:"column:registration_required"`
	ETADays              *int               `gorm:"column:eta_days"`
	ChargeModel          string             `gorm:"column:charge_model"`
	IsExclusive          *string            `gorm:"column:is_exclusive"`
	Notes                *string            `gorm:"column:notes"`

	UpdatedBy string    `gorm:"column:updated_by"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Offer) TableName() string {
	return "offers"
}
