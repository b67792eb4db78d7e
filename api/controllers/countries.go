package controllers

import (
	"net/http"

	"github.com/ratedesk/ratedesk-backend/api/responses"
	"github.com/ratedesk/ratedesk-backend/api/validators"
	"github.com/ratedesk/ratedesk-backend/internal/catalog"
	"github.com/ratedesk/ratedesk-backend/pkg/logger"
)

type createCountryRequest struct {
	Name string  `json:"name" validate:"required,min=2,max=128"`
	MCC  string  `json:"mcc" validate:"omitempty,max=4"`
	MCC2 *string `json:"mcc2" validate:"omitempty,max=4"`
	MCC3 *string `json:"mcc3" validate:"omitempty,max=4"`
}

func CreateCountry(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCountryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateCountry(r.Context(), catalog.CreateCountryInput{
			Name: req.Name,
			MCC:  req.MCC,
			MCC2: req.MCC2,
			MCC3: req.MCC3,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func ListCountries(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListCountries(r.Context(), validators.QueryString(r, "search"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
