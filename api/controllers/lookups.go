package controllers

import (
	"net/http"

	"github.com/ratedesk/ratedesk-backend/api/responses"
	"github.com/ratedesk/ratedesk-backend/api/validators"
	"github.com/ratedesk/ratedesk-backend/internal/lookups"
	"github.com/ratedesk/ratedesk-backend/pkg/logger"
)

func GetDropdowns(svc lookups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetDropdowns(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, d)
	}
}

type updateDropdownsRequest struct {
	RouteTypes           []string `json:"route_types" validate:"required,min=1"`
	KnownHops            []string `json:"known_hops" validate:"required,min=1"`
	SenderIDSupported    []string `json:"sender_id_supported" validate:"required,min=1"`
	RegistrationRequired []string `json:"registration_required" validate:"required,min=1"`
	IsExclusive          []string `json:"is_exclusive" validate:"required,min=1"`
}

func UpdateDropdowns(svc lookups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateDropdownsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err := svc.UpdateDropdowns(r.Context(), lookups.Dropdowns{
			RouteTypes:           req.RouteTypes,
			KnownHops:            req.KnownHops,
			SenderIDSupported:    req.SenderIDSupported,
			RegistrationRequired: req.RegistrationRequired,
			IsExclusive:          req.IsExclusive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}
