package catalog

import (
	"time"

	"github.com/ratedesk/ratedesk-backend/pkg/db/models"
)

// SupplierDTO is the supplier payload returned to clients.
type SupplierDTO struct {
	ID               int64     `json:"id"`
	OrganizationName string    `json:"organization_name"`
	PerDelivered     bool      `json:"per_delivered"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ConnectionDTO is the supplier connection payload returned to clients.
type ConnectionDTO struct {
	ID             int64     `json:"id"`
	SupplierID     int64     `json:"supplier_id"`
	ConnectionName string    `json:"connection_name"`
	Username       string    `json:"username,omitempty"`
	GatewayID      string    `json:"gateway_id,omitempty"`
	ChargeModel    string    `json:"charge_model"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CountryDTO is the country payload returned to clients.
type CountryDTO struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	MCC  string  `json:"mcc,omitempty"`
	MCC2 *string `json:"mcc2,omitempty"`
	MCC3 *string `json:"mcc3,omitempty"`
}

// NetworkDTO is the network payload returned to clients, with the country
// name joined for display.
type NetworkDTO struct {
	ID          int64   `json:"id"`
	CountryID   *int64  `json:"country_id,omitempty"`
	CountryName *string `json:"country_name,omitempty"`
	Name        string  `json:"name"`
	MNC         string  `json:"mnc,omitempty"`
	MCCMNC      string  `json:"mccmnc,omitempty"`
}

// CreateSupplierInput holds the validated payload to create a supplier.
type CreateSupplierInput struct {
	OrganizationName string
	PerDelivered     bool
}

// CreateConnectionInput holds the validated payload to create a connection
// under a supplier.
type CreateConnectionInput struct {
	SupplierID     int64
	ConnectionName string
	Username       string
	GatewayID      string
	ChargeModel    string
}

// CreateCountryInput holds the validated payload to create a country.
type CreateCountryInput struct {
	Name string
	MCC  string
	MCC2 *string
	MCC3 *string
}

// CreateNetworkInput holds the validated payload to create a network. When
// MCCMNC is empty it is derived from the country's MCC plus MNC.
type CreateNetworkInput struct {
	CountryID *int64
	Name      string
	MNC       string
	MCCMNC    string
}

func supplierToDTO(m *models.Supplier) SupplierDTO {
	return SupplierDTO{
		ID:               m.ID,
		OrganizationName: m.OrganizationName,
		PerDelivered:     m.PerDelivered,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func connectionToDTO(m *models.SupplierConnection) ConnectionDTO {
	return ConnectionDTO{
		ID:             m.ID,
		SupplierID:     m.SupplierID,
		ConnectionName: m.ConnectionName,
		Username:       m.Username,
		GatewayID:      m.GatewayID,
		ChargeModel:    m.ChargeModel.String(),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func countryToDTO(m *models.Country) CountryDTO {
	return CountryDTO{
		ID:   m.ID,
		Name: m.Name,
		MCC:  m.MCC,
		MCC2: m.MCC2,
		MCC3: m.MCC3,
	}
}
