package controllers

import (
	"net/http"

	"github.com/ratedesk/ratedesk-backend/api/responses"
	"github.com/ratedesk/ratedesk-backend/api/validators"
	"github.com/ratedesk/ratedesk-backend/internal/catalog"
	"github.com/ratedesk/ratedesk-backend/pkg/logger"
)

type createNetworkRequest struct {
	CountryID *int64 `json:"country_id"`
	Name      string `json:"name" validate:"required,min=2,max=128"`
	MNC       string `json:"mnc" validate:"omitempty,max=8"`
	MCCMNC    string `json:"mccmnc" validate:"omitempty,max=12"`
}

func CreateNetwork(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createNetworkRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateNetwork(r.Context(), catalog.CreateNetworkInput{
			CountryID: req.CountryID,
			Name:      req.Name,
			MNC:       req.MNC,
			MCCMNC:    req.MCCMNC,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func ListNetworks(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListNetworks(r.Context(), validators.QueryString(r, "search"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
