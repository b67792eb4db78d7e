package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ratedesk/ratedesk-backend/api/responses"
	"github.com/ratedesk/ratedesk-backend/api/validators"
	"github.com/ratedesk/ratedesk-backend/internal/catalog"
	pkgerrors "github.com/ratedesk/ratedesk-backend/pkg/errors"
	"github.com/ratedesk/ratedesk-backend/pkg/logger"
)

type createSupplierRequest struct {
	OrganizationName string `json:"organization_name" validate:"required,min=2,max=255"`
	PerDelivered     bool   `json:"per_delivered"`
}

func CreateSupplier(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSupplierRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateSupplier(r.Context(), catalog.CreateSupplierInput{
			OrganizationName: req.OrganizationName,
			PerDelivered:     req.PerDelivered,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func ListSuppliers(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListSuppliers(r.Context(), validators.QueryString(r, "search"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

type createConnectionRequest struct {
	ConnectionName string `json:"connection_name" validate:"required,min=2,max=255"`
	Username       string `json:"username"`
	GatewayID      string `json:"gateway_id"`
	ChargeModel    string `json:"charge_model"`
}

func CreateConnection(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := supplierIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createConnectionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateConnection(r.Context(), catalog.CreateConnectionInput{
			SupplierID:     supplierID,
			ConnectionName: req.ConnectionName,
			Username:       req.Username,
			GatewayID:      req.GatewayID,
			ChargeModel:    req.ChargeModel,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func ListConnections(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := supplierIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListConnections(r.Context(), supplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func supplierIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "supplierID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "supplier id must be a positive integer")
	}
	return id, nil
}
