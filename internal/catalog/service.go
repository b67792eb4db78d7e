package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ratedesk/ratedesk-backend/pkg/db/models"
	"github.com/ratedesk/ratedesk-backend/pkg/enums"
	pkgerrors "github.com/ratedesk/ratedesk-backend/pkg/errors"
	"github.com/ratedesk/ratedesk-backend/pkg/logger"
)

// Service exposes catalog administration for suppliers, connections,
// countries and networks.
type Service interface {
	CreateSupplier(ctx context.Context, input CreateSupplierInput) (*SupplierDTO, error)
	ListSuppliers(ctx context.Context, search string) ([]SupplierDTO, error)

	CreateConnection(ctx context.Context, input CreateConnectionInput) (*ConnectionDTO, error)
	ListConnections(ctx context.Context, supplierID int64) ([]ConnectionDTO, error)

	CreateCountry(ctx context.Context, input CreateCountryInput) (*CountryDTO, error)
	ListCountries(ctx context.Context, search string) ([]CountryDTO, error)

	CreateNetwork(ctx context.Context, input CreateNetworkInput) (*NetworkDTO, error)
	ListNetworks(ctx context.Context, search string) ([]NetworkDTO, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs the catalog service.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) CreateSupplier(ctx context.Context, input CreateSupplierInput) (*SupplierDTO, error) {
	name := strings.TrimSpace(input.OrganizationName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "organization_name is required")
	}

	if _, err := s.repo.SupplierByName(ctx, name); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("supplier %q already exists", name))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking supplier name")
	}

	m := &models.Supplier{
		OrganizationName: name,
		PerDelivered:     input.PerDelivered,
	}
	if err := s.repo.CreateSupplier(ctx, m); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating supplier")
	}

	s.logg.Info(s.logg.WithField(ctx, "supplier_id", m.ID), "supplier created")
	dto := supplierToDTO(m)
	return &dto, nil
}

func (s *service) ListSuppliers(ctx context.Context, search string) ([]SupplierDTO, error) {
	rows, err := s.repo.ListSuppliers(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing suppliers")
	}
	out := make([]SupplierDTO, 0, len(rows))
	for i := range rows {
		out = append(out, supplierToDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateConnection(ctx context.Context, input CreateConnectionInput) (*ConnectionDTO, error) {
	name := strings.TrimSpace(input.ConnectionName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "connection_name is required")
	}

	if _, err := s.repo.SupplierByID(ctx, input.SupplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("supplier %d not found", input.SupplierID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading supplier")
	}

	chargeModel := enums.BillingPerSubmitted
	if v := strings.TrimSpace(input.ChargeModel); v != "" {
		parsed, err := enums.ParseBillingModel(v)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		chargeModel = parsed
	}

	if _, err := s.repo.ConnectionByName(ctx, input.SupplierID, name); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("connection %q already exists for supplier %d", name, input.SupplierID))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking connection name")
	}

	m := &models.SupplierConnection{
		SupplierID:     input.SupplierID,
		ConnectionName: name,
		Username:       strings.TrimSpace(input.Username),
		GatewayID:      strings.TrimSpace(input.GatewayID),
		ChargeModel:    chargeModel,
	}
	if err := s.repo.CreateConnection(ctx, m); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating connection")
	}

	s.logg.Info(s.logg.WithField(ctx, "connection_id", m.ID), "connection created")
	dto := connectionToDTO(m)
	return &dto, nil
}

func (s *service) ListConnections(ctx context.Context, supplierID int64) ([]ConnectionDTO, error) {
	if supplierID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier_id is required")
	}
	rows, err := s.repo.ListConnections(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing connections")
	}
	out := make([]ConnectionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, connectionToDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateCountry(ctx context.Context, input CreateCountryInput) (*CountryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	if _, err := s.repo.CountryByName(ctx, name); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("country %q already exists", name))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking country name")
	}

	m := &models.Country{
		Name: name,
		MCC:  strings.TrimSpace(input.MCC),
		MCC2: input.MCC2,
		MCC3: input.MCC3,
	}
	if err := s.repo.CreateCountry(ctx, m); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating country")
	}

	dto := countryToDTO(m)
	return &dto, nil
}

func (s *service) ListCountries(ctx context.Context, search string) ([]CountryDTO, error) {
	rows, err := s.repo.ListCountries(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing countries")
	}
	out := make([]CountryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, countryToDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateNetwork(ctx context.Context, input CreateNetworkInput) (*NetworkDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	var country *models.Country
	if input.CountryID != nil {
		loaded, err := s.repo.CountryByID(ctx, *input.CountryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("country %d not found", *input.CountryID))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading country")
		}
		country = loaded
	}

	mnc := strings.TrimSpace(input.MNC)
	code := strings.TrimSpace(input.MCCMNC)
	if code == "" && country != nil && country.MCC != "" && mnc != "" {
		code = country.MCC + mnc
	}

	if code != "" {
		if _, err := s.repo.NetworkByCode(ctx, code); err == nil {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("network with code %q already exists", code))
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking network code")
		}
	}

	m := &models.Network{
		CountryID: input.CountryID,
		Name:      name,
		MNC:       mnc,
		MCCMNC:    code,
	}
	if err := s.repo.CreateNetwork(ctx, m); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating network")
	}

	dto := NetworkDTO{
		ID:        m.ID,
		CountryID: m.CountryID,
		Name:      m.Name,
		MNC:       m.MNC,
		MCCMNC:    m.MCCMNC,
	}
	if country != nil {
		dto.CountryName = &country.Name
	}
	return &dto, nil
}

func (s *service) ListNetworks(ctx context.Context, search string) ([]NetworkDTO, error) {
	rows, err := s.repo.ListNetworks(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing networks")
	}
	return rows, nil
}
