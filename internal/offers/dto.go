package offers

import (
	"time"

	"github.com/shopspring/decimal"

	dbtypes "github.com/ratedesk/ratedesk-backend/pkg/db/types"
)

// SubmitOfferInput holds the validated payload for one offer submission.
// NetworkID and MCCMNC are both optional but at least one must resolve.
type SubmitOfferInput struct {
	SupplierID   int64
	ConnectionID int64
	NetworkID    *int64
	MCCMNC       string

	Price         decimal.Decimal
	PreviousPrice *decimal.Decimal
	Currency      string
	EffectiveDate *time.Time

	RouteType            *string
	KnownHops            *string
	SenderIDTypes        []string
	RegistrationRequired *string
	ETADays              *int
	ChargeModel          string
	IsExclusive          *string
	Notes                *string

	UpdatedBy string
}

// ListOffersInput captures the optional list filters. Zero values mean
// "no constraint".
type ListOffersInput struct {
	Country              string
	RouteType            string
	KnownHops            string
	SupplierName         string
	ConnectionName       string
	SenderIDType         string
	RegistrationRequired string
	IsExclusive          string
	Limit                int
}

// HasFilters reports whether any predicate beyond the limit was supplied.
func (in ListOffersInput) HasFilters() bool {
	return in.Country != "" || in.RouteType != "" || in.KnownHops != "" ||
		in.SupplierName != "" || in.ConnectionName != "" ||
		in.SenderIDType != "" || in.RegistrationRequired != "" ||
		in.IsExclusive != ""
}

// OfferDTO is the denormalized offer row returned to clients.
type OfferDTO struct {
	ID             int64              `json:"id"`
	SupplierID     int64              `json:"supplier_id"`
	SupplierName   string             `json:"supplier_name"`
	ConnectionID   int64              `json:"connection_id"`
	ConnectionName string             `json:"connection_name"`
	NetworkID      *int64             `json:"network_id,omitempty"`
	NetworkName    *string            `json:"network_name,omitempty"`
	CountryID      *int64             `json:"country_id,omitempty"`
	CountryName    *string            `json:"country_name,omitempty"`
	MCCMNC         string             `json:"mccmnc,omitempty"`

	Price         decimal.Decimal  `json:"price"`
	PreviousPrice *decimal.Decimal `json:"previous_price,omitempty"`
	Currency      string           `json:"currency"`
	EffectiveDate *time.Time       `json:"effective_date,omitempty"`

	RouteType            *string  `json:"route_type,omitempty"`
	KnownHops            *string  `json:"known_hops,omitempty"`
	SenderIDTypes        []string `json:"sender_id_types"`
	RegistrationRequired *string  `json:"registration_required,omitempty"`
	ETADays              *int     `json:"eta_days,omitempty"`
	ChargeModel          string   `json:"charge_model"`
	IsExclusive          *string  `json:"is_exclusive,omitempty"`
	Notes                *string  `json:"notes,omitempty"`

	UpdatedBy string    `json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BatchResult reports the outcome of one row in a batch submission.
type BatchResult struct {
	Index int    `json:"index"`
	ID    *int64 `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// offerRow is the raw scan target for the denormalized list query.
type offerRow struct {
	ID             int64
	SupplierID     int64
	SupplierName   string
	ConnectionID   int64
	ConnectionName string
	NetworkID      *int64
	NetworkName    *string
	CountryID      *int64
	CountryName    *string
	MCCMNC         *string

	Price         decimal.Decimal
	PreviousPrice *decimal.Decimal
	Currency      string
	EffectiveDate *time.Time

	RouteType            *string
	KnownHops            *string
	SenderIDTypes        dbtypes.StringList
	RegistrationRequired *string
	ETADays              *int
	ChargeModel          *string
	IsExclusive          *string
	Notes                *string

	UpdatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r offerRow) toDTO() OfferDTO {
	dto := OfferDTO{
		ID:             r.ID,
		SupplierID:     r.SupplierID,
		SupplierName:   r.SupplierName,
		ConnectionID:   r.ConnectionID,
		ConnectionName: r.ConnectionName,
		NetworkID:      r.NetworkID,
		NetworkName:    r.NetworkName,
		CountryID:      r.CountryID,
		CountryName:    r.CountryName,
		Price:          r.Price,
		PreviousPrice:  r.PreviousPrice,
		Currency:       r.Currency,
		EffectiveDate:  r.EffectiveDate,

		RouteType:            r.RouteType,
		KnownHops:            r.KnownHops,
		SenderIDTypes:        []string(r.SenderIDTypes),
		RegistrationRequired: r.RegistrationRequired,
		ETADays:              r.ETADays,
		IsExclusive:          r.IsExclusive,
		Notes:                r.Notes,

		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.MCCMNC != nil {
		dto.MCCMNC = *r.MCCMNC
	}
	if r.ChargeModel != nil {
		dto.ChargeModel = *r.ChargeModel
	}
	if r.UpdatedBy != nil {
		dto.UpdatedBy = *r.UpdatedBy
	}
	if dto.SenderIDTypes == nil {
		dto.SenderIDTypes = []string{}
	}
	return dto
}
