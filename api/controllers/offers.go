package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ratedesk/ratedesk-backend/api/middleware"
	"github.com/ratedesk/ratedesk-backend/api/responses"
	"github.com/ratedesk/ratedesk-backend/api/validators"
	"github.com/ratedesk/ratedesk-backend/internal/offers"
	pkgerrors "github.com/ratedesk/ratedesk-backend/pkg/errors"
	"github.com/ratedesk/ratedesk-backend/pkg/logger"
)

const maxBatchSize = 1000

type submitOfferRequest struct {
	SupplierID   int64  `json:"supplier_id" validate:"required,gt=0"`
	ConnectionID int64  `json:"connection_id" validate:"required,gt=0"`
	NetworkID    *int64 `json:"network_id"`
	MCCMNC       string `json:"mccmnc"`

	// pointer so an explicit zero price passes the required check
	Price         *decimal.Decimal `json:"price" validate:"required"`
	PreviousPrice *decimal.Decimal `json:"previous_price"`
	Currency      string           `json:"currency"`
	EffectiveDate *time.Time       `json:"effective_date"`

	RouteType            *string  `json:"route_type"`
	KnownHops            *string  `json:"known_hops"`
	SenderIDTypes        []string `json:"sender_id_types"`
	RegistrationRequired *string  `json:"registration_required"`
	ETADays              *int     `json:"eta_days"`
	ChargeModel          string   `json:"charge_model"`
	IsExclusive          *string  `json:"is_exclusive"`
	Notes                *string  `json:"notes"`
}

func (req submitOfferRequest) toInput(actor string) offers.SubmitOfferInput {
	var priceValue decimal.Decimal
	if req.Price != nil {
		priceValue = *req.Price
	}
	return offers.SubmitOfferInput{
		SupplierID:   req.SupplierID,
		ConnectionID: req.ConnectionID,
		NetworkID:    req.NetworkID,
		MCCMNC:       req.MCCMNC,

		Price:         priceValue,
		PreviousPrice: req.PreviousPrice,
		Currency:      req.Currency,
		EffectiveDate: req.EffectiveDate,

		RouteType:            req.RouteType,
		KnownHops:            req.KnownHops,
		SenderIDTypes:        req.SenderIDTypes,
		RegistrationRequired: req.RegistrationRequired,
		ETADays:              req.ETADays,
		ChargeModel:          req.ChargeModel,
		IsExclusive:          req.IsExclusive,
		Notes:                req.Notes,

		UpdatedBy: actor,
	}
}

func SubmitOffer(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitOfferRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := svc.Submit(r.Context(), req.toInput(middleware.ActorFromContext(r.Context())))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int64{"id": id})
	}
}

func SubmitOfferBatch(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Offers []submitOfferRequest `json:"offers" validate:"required,min=1"`
		}
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(req.Offers) > maxBatchSize {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "batch too large").
					WithDetails(map[string]int{"max": maxBatchSize}))
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		inputs := make([]offers.SubmitOfferInput, 0, len(req.Offers))
		for _, row := range req.Offers {
			inputs = append(inputs, row.toInput(actor))
		}

		responses.WriteSuccess(w, map[string]any{
			"results": svc.SubmitBatch(r.Context(), inputs),
		})
	}
}

func GetOffer(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "offer id must be a positive integer"))
			return
		}

		dto, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func ListOffers(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := offers.ListOffersInput{
			Country:              validators.QueryString(r, "country"),
			RouteType:            validators.QueryString(r, "route_type"),
			KnownHops:            validators.QueryString(r, "known_hops"),
			SupplierName:         validators.QueryString(r, "supplier_name"),
			ConnectionName:       validators.QueryString(r, "connection_name"),
			SenderIDType:         validators.QueryString(r, "sender_id_type"),
			RegistrationRequired: validators.QueryString(r, "registration_required"),
			IsExclusive:          validators.QueryString(r, "is_exclusive"),
			Limit:                limit,
		}

		rows, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
