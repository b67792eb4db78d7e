package models

import (
	"time"

	"github.com/ratedesk/ratedesk-backend/pkg/enums"
)

// SupplierConnection is one transport account under a supplier. The name is
// unique per supplier; the charge model is the default inherited by offers
// submitted without one.
type SupplierConnection struct {
	ID             int64              `gorm:"column:id;primaryKey"`
	SupplierID     int64              `gorm:"column:supplier_id;not null;uniqueIndex:ux_connections_supplier_name"`
	ConnectionName string             `gorm:"column:connection_name;not null;uniqueIndex:ux_connections_supplier_name"`
	Username       string             `gorm:"column:username"`
	GatewayID      string             `gorm:"column:gateway_id"`
	ChargeModel    enums.BillingModel `gorm:"column:charge_model;default:Per Submitted"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (SupplierConnection) TableName() string {
	return "supplier_connections"
}
