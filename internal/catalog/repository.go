package catalog

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ratedesk/ratedesk-backend/pkg/db/models"
)

// Repository encapsulates catalog persistence for suppliers, connections,
// countries and networks.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateSupplier(ctx context.Context, m *models.Supplier) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *Repository) SupplierByName(ctx context.Context, name string) (*models.Supplier, error) {
	var m models.Supplier
	err := r.db.WithContext(ctx).
		First(&m, "LOWER(organization_name) = LOWER(?)", name).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) SupplierByID(ctx context.Context, id int64) (*models.Supplier, error) {
	var m models.Supplier
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) ListSuppliers(ctx context.Context, search string) ([]models.Supplier, error) {
	q := r.db.WithContext(ctx).Model(&models.Supplier{})
	if search != "" {
		q = q.Where("LOWER(organization_name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	var out []models.Supplier
	if err := q.Order("organization_name ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	return out, nil
}

func (r *Repository) CreateConnection(ctx context.Context, m *models.SupplierConnection) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *Repository) ConnectionByName(ctx context.Context, supplierID int64, name string) (*models.SupplierConnection, error) {
	var m models.SupplierConnection
	err := r.db.WithContext(ctx).
		First(&m, "supplier_id = ? AND LOWER(connection_name) = LOWER(?)", supplierID, name).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) ListConnections(ctx context.Context, supplierID int64) ([]models.SupplierConnection, error) {
	var out []models.SupplierConnection
	err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("connection_name ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", err)
	}
	return out, nil
}

func (r *Repository) CreateCountry(ctx context.Context, m *models.Country) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *Repository) CountryByName(ctx context.Context, name string) (*models.Country, error) {
	var m models.Country
	err := r.db.WithContext(ctx).
		First(&m, "LOWER(name) = LOWER(?)", name).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) CountryByID(ctx context.Context, id int64) (*models.Country, error) {
	var m models.Country
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) ListCountries(ctx context.Context, search string) ([]models.Country, error) {
	q := r.db.WithContext(ctx).Model(&models.Country{})
	if search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	var out []models.Country
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing countries: %w", err)
	}
	return out, nil
}

func (r *Repository) CreateNetwork(ctx context.Context, m *models.Network) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *Repository) NetworkByCode(ctx context.Context, mccmnc string) (*models.Network, error) {
	var m models.Network
	err := r.db.WithContext(ctx).First(&m, "mccmnc = ?", mccmnc).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListNetworks returns networks with the country name joined, optionally
// narrowed by a case-insensitive substring on network or country name.
func (r *Repository) ListNetworks(ctx context.Context, search string) ([]NetworkDTO, error) {
	query := `
SELECT n.id, n.country_id, co.name AS country_name, n.name, n.mnc, n.mccmnc
FROM networks n
LEFT JOIN countries co ON co.id = n.country_id`

	var args []any
	if search != "" {
		query += ` WHERE LOWER(n.name) LIKE ? OR LOWER(co.name) LIKE ?`
		pattern := "%" + strings.ToLower(search) + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY n.name ASC`

	var out []NetworkDTO
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("listing networks: %w", err)
	}
	return out, nil
}
