package models

import "time"

// Supplier is an organization offering message-routing capacity.
type Supplier struct {
	ID               int64                `gorm:"column:id;primaryKey"`
	OrganizationName string               `gorm:"column:organization_name;not null;uniqueIndex"`
	PerDelivered     bool                 `gorm:"column:per_delivered;not null;default:false"`
	Connections      []SupplierConnection `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
