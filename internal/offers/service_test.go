package offers

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ratedesk/ratedesk-backend/pkg/db"
	pkgerrors "github.com/ratedesk/ratedesk-backend/pkg/errors"
	"github.com/ratedesk/ratedesk-backend/pkg/logger"
)

func setupOffersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	suppliers := `
CREATE TABLE IF NOT EXISTS suppliers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  organization_name TEXT NOT NULL UNIQUE,
  per_delivered INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	connections := `
CREATE TABLE IF NOT EXISTS supplier_connections (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  supplier_id INTEGER NOT NULL,
  connection_name TEXT NOT NULL,
  username TEXT,
  gateway_id TEXT,
  charge_model TEXT NOT NULL DEFAULT 'Per Submitted',
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (supplier_id, connection_name)
);`
	countries := `
CREATE TABLE IF NOT EXISTS countries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  mcc TEXT,
  mcc2 TEXT,
  mcc3 TEXT
);`
	networks := `
CREATE TABLE IF NOT EXISTS networks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  country_id INTEGER,
  name TEXT NOT NULL,
  mnc TEXT,
  mccmnc TEXT
);`
	offers := `
CREATE TABLE IF NOT EXISTS offers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  supplier_id INTEGER NOT NULL,
  connection_id INTEGER NOT NULL,
  network_id INTEGER,
  country_id INTEGER,
  mccmnc TEXT,
  price NUMERIC NOT NULL,
  previous_price NUMERIC,
  currency TEXT NOT NULL DEFAULT 'EUR',
  effective_date DATETIME,
  route_type TEXT,
  known_hops TEXT,
  sender_id_types TEXT,
  registration_required TEXT,
  eta_days INTEGER,
  charge_model TEXT,
  is_exclusive TEXT,
  notes TEXT,
  updated_by TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (supplier_id, connection_id, network_id)
);`
	for _, ddl := range []string{suppliers, connections, countries, networks, offers} {
		require.NoError(t, conn.Exec(ddl).Error)
	}
	return conn
}

func newOffersService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(NewRepository(conn), db.FromConn(conn), logg, nil)
	require.NoError(t, err)
	return svc
}

func newSupplier(t *testing.T, conn *gorm.DB, name string) int64 {
	t.Helper()

	require.NoError(t, conn.Exec(`INSERT INTO suppliers (organization_name) VALUES (?)`, name).Error)
	var id int64
	require.NoError(t, conn.Raw(`SELECT id FROM suppliers WHERE organization_name = ?`, name).Scan(&id).Error)
	return id
}

func newConnection(t *testing.T, conn *gorm.DB, supplierID int64, name, chargeModel string) int64 {
	t.Helper()

	require.NoError(t, conn.Exec(
		`INSERT INTO supplier_connections (supplier_id, connection_name, charge_model) VALUES (?, ?, ?)`,
		supplierID, name, chargeModel).Error)
	var id int64
	require.NoError(t, conn.Raw(
		`SELECT id FROM supplier_connections WHERE supplier_id = ? AND connection_name = ?`,
		supplierID, name).Scan(&id).Error)
	return id
}

func newCountry(t *testing.T, conn *gorm.DB, name, mcc string) int64 {
	t.Helper()

	require.NoError(t, conn.Exec(`INSERT INTO countries (name, mcc) VALUES (?, ?)`, name, mcc).Error)
	var id int64
	require.NoError(t, conn.Raw(`SELECT id FROM countries WHERE name = ?`, name).Scan(&id).Error)
	return id
}

func newNetwork(t *testing.T, conn *gorm.DB, countryID *int64, name, mnc, mccmnc string) int64 {
	t.Helper()

	require.NoError(t, conn.Exec(
		`INSERT INTO networks (country_id, name, mnc, mccmnc) VALUES (?, ?, ?, ?)`,
		countryID, name, mnc, mccmnc).Error)
	var id int64
	require.NoError(t, conn.Raw(`SELECT id FROM networks WHERE name = ?`, name).Scan(&id).Error)
	return id
}

func price(t *testing.T, value string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func TestSubmitInsertThenUpdateTracksPreviousPrice(t *testing.T) {
	conn := setupOffersTestDB(t)
	svc := newOffersService(t, conn)
	ctx := context.Background()

	supplierID := newSupplier(t, conn, "Globex Routes")
	connectionID := newConnection(t, conn, supplierID, "smpp-main", "Per Submitted")
	countryID := newCountry(t, conn, "Germany", "262")
	networkID := newNetwork(t, conn, &countryID, "T-Mobile DE", "01", "26201")

	first, err := svc.Submit(ctx, SubmitOfferInput{
		SupplierID:   supplierID,
		ConnectionID: connectionID,
		NetworkID:    &networkID,
		Price:        price(t, "0.25"),
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, first)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(price(t, "0.25")))
	assert.Nil(t, got.PreviousPrice)
	assert.Equal(t, "EUR", got.Currency)

	second, err := svc.Submit(ctx, SubmitOfferInput{
		SupplierID:   supplierID,
		ConnectionID: connectionID,
		NetworkID:    &networkID,
		Price:        price(t, "0.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, first, second, "resubmission must hit the same row")

	got, err = svc.Get(ctx, second)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(price(t, "0.5")))
	require.NotNil(t, got.PreviousPrice)
	assert.True(t, got.PreviousPrice.Equal(price(t, "0.25")))

	var count int64
	require.NoError(t, conn.Raw(`SELECT COUNT(*) FROM offers`).Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubmitExplicitPreviousPriceWins(t *testing.T) {
	conn := setupOffersTestDB(t)
	svc := newOffersService(t, conn)
	ctx := context.Background()

	supplierID := newSupplier(t, conn, "Globex Routes")
	connectionID := newConnection(t, conn, supplierID, "smpp-main", "Per Submitted")
	networkID := newNetwork(t, conn, nil, "T-Mobile DE", "01", "26201")

	_, err := svc.Submit(ctx, SubmitOfferInput{
		SupplierID:   supplierID,
		ConnectionID: connectionID,
		NetworkID:    &networkID,
		Price:        price(t, "0.25"),
	})
	require.NoError(t, err)

	explicit := price(t, "0.125")
	id, err := svc.Submit(ctx, SubmitOfferInput{
		SupplierID:    supplierID,
		ConnectionID:  connectionID,
		NetworkID:     &networkID,
		Price:         price(t, "0.5"),
		PreviousPrice: &explicit,
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.PreviousPrice)
	assert.True(t, got.PreviousPrice.Equal(explicit))
}

func TestSubmitByCombinedCodeResolvesNetwork(t *testing.T) {
	conn := setupOffersTestDB(t)
	svc := newOffersService(t, conn)
	ctx := context.Background()

	supplierID := newSupplier(t, conn, "Globex Routes")
	connectionID := newConnection(t, conn, supplierID, "smpp-main", "Per Submitted")
	countryID := newCountry(t, conn, "Germany", "262")
	networkID := newNetwork(t, conn, &countryID, "T-Mobile DE", "01", "26201")

	id, err := svc.Submit(ctx, SubmitOfferInput{
		SupplierID:   supplierID,
		ConnectionID: connectionID,
		MCCMNC:       "26201",
		Price:        price(t, "0.25"),
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.NetworkID)
	assert.Equal(t, networkID, *got.NetworkID)
	require.NotNil(t, got.CountryID)
	assert.Equal(t, countryID, *got.CountryID)
	assert.Equal(t, "26201", got.MCCMNC)
}

func TestSubmitUnmatchedCodeKeepsLiteral(t *testing.T) {
	conn := setupOffersTestDB(t)
	svc := newOffersService(t, conn)
	ctx := context.Background()

	supplierID := newSupplier(t, conn, "Globex Routes")
	connectionID := newConnection(t, conn, supplierID, "smpp-main", "Per Submitted")

	id, err := svc.Submit(ctx, SubmitOfferInput{
		SupplierID:   supplierID,
		ConnectionID: connectionID,
		MCCMNC:       "99999",
		Price:        price(t, "0.25"),
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.NetworkID)
	assert.Nil(t, got.CountryID)
	assert.Equal(t, "99999", got.MCCMNC)
}

func TestSubmitCodeOnlyResubmissionCarriesPreviousPrice(t *testing.T) {
	conn := setupOffersTestDB(t)
	svc := newOffersService(t, conn)
	ctx := context.Background()

	supplierID := newSupplier(t, conn, "Globex Routes")
	connectionID := newConnection(t, conn, supplierID, "smpp-main", "Per Submitted")

	_, err := svc.Submit(ctx, SubmitOfferInput{
		SupplierID:   supplierID,
		ConnectionID: connectionID,
		MCCMNC:       "99999",
		Price:        price(t, "0.25"),
	})
	require.NoError(t, err)

	second, err := svc.Submit(ctx, SubmitOfferInput{
		SupplierID:   supplierID,
		ConnectionID: connectionID,
		MCCMNC:       "99999",
		Price:        price(t, "0.5"),
	})
	require.NoError(t, err)

	// null network ids never conflict, so each submit inserts a fresh row
	var count int64
	require.NoError(t, conn.Raw(`SELECT COUNT(*) FROM offers`).Scan(&count).Error)
	assert.Equal(t, int64(2), count)

	got, err := svc.Get(ctx, second)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(price(t, "0.5")))
	require.NotNil(t, got.PreviousPrice)
	assert.True(t, got.PreviousPrice.Equal(price(t, "0.25")))

	// a caller-supplied previous price still wins over the captured one
	explicit := price(t, "0.1")
	third, err := svc.Submit(ctx, SubmitOfferInput{
		SupplierID:    supplierID,
		ConnectionID:  connectionID,
		MCCMNC:        "99999",
		Price:         price(t, "0.75"),
		PreviousPrice: &explicit,
	})
	require.NoError(t, err)

	got, err = svc.Get(ctx, third)
	require.NoError(t, err)
	require.NotNil(t, got.PreviousPrice)
	assert.True(t, got.PreviousPrice.Equal(explicit))
}

func TestSubmitCodeOnlyPriorCaptureScopedToCode(t *testing.T) {
	conn := setupOffersTestDB(t)
	svc := newOffersService(t, conn)
	ctx := context.Background()

	supplierID := newSupplier(t, conn, "Globex Routes")
	connectionID := newConnection(t, conn, supplierID, "smpp-main", "Per Submitted")

	_, err := svc.Submit(ctx, SubmitOfferInput{
		SupplierID:   supplierID,
		ConnectionID: connectionID,
		MCCMNC:       "99999",
		Price:        price(t, "0.25"),
	})
	require.NoError(t, err)

	// a different uncataloged code must not inherit the other code's price
	id, err := svc.Submit(ctx, SubmitOfferInput{
		SupplierID:   supplierID,
		ConnectionID: connectionID,
		MCCMNC:       "88888",
		Price:        price(t, "0.5"),
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.PreviousPrice)
}

func TestSubmitValidationNeitherIdentifier(t *testing.T) {
	conn := setupOffersTestDB(t)
	svc := newOffersService(t, conn)
	ctx := context.Background()

	supplierID := newSupplier(t, conn, "Globex Routes")
	connectionID := newConnection(t, conn, supplierID, "smpp-main", "Per Submitted")

	_, err := svc.Submit(ctx, SubmitOfferInput{
		SupplierID:   supplierID,
		ConnectionID: connectionID,
		Price:        price(t, "0.25"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	var count int64
	require.NoError(t, conn.Raw(`SELECT COUNT(*) FROM offers`).Scan(&count).Error)
	assert.Equal(t, int64(0), count, "validation failure must not write")
}

func TestSubmitConnectionOwnershipEnforced(t *testing.T) {
	conn := setupOffersTestDB(t)
	svc := newOffersService(t, conn)
	ctx := context.Background()

	supplierID := newSupplier(t, conn, "Globex Routes")
	otherID := newSupplier(t, conn, "Initech Wholesale")
	connectionID := newConnection(t, conn, supplierID, "smpp-main", "Per Submitted")
	networkID := newNetwork(t, conn, nil, "T-Mobile DE", "01", "26201")

	_, err := svc.Submit(ctx, SubmitOfferInput{
		SupplierID:   otherID,
		ConnectionID: connectionID,
		NetworkID:    &networkID,
		Price:        price(t, "0.25"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSubmitChargeModelInheritance(t *testing.T) {
	conn := setupOffersTestDB(t)
	svc := newOffersService(t, conn)
	ctx := context.Background()

	supplierID := newSupplier(t, conn, "Globex Routes")
	deliveredConn := newConnection(t, conn, supplierID, "smpp-delivered", "Per Delivered")
	networkID := newNetwork(t, conn, nil, "T-Mobile DE", "01", "26201")

	// explicit value wins over the connection default
	id, err := svc.Submit(ctx, SubmitOfferInput{
		SupplierID:   supplierID,
		ConnectionID: deliveredConn,
		NetworkID:    &networkID,
		Price:        price(t, "0.25"),
		ChargeModel:  "Per Submitted",
	})
	require.NoError(t, err)
	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Per Submitted", got.ChargeModel)

	// absent value inherits the connection default
	id, err = svc.Submit(ctx, SubmitOfferInput{
		SupplierID:   supplierID,
		ConnectionID: deliveredConn,
		NetworkID:    &networkID,
		Price:        price(t, "0.25"),
	})
	require.NoError(t, err)
	got, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Per Delivered", got.ChargeModel)
}

func TestGetNotFound(t *testing.T) {
	conn := setupOffersTestDB(t)
	svc := newOffersService(t, conn)

	_, err := svc.Get(context.Background(), 4242)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSubmitBatchReportsPerRowOutcomes(t *testing.T) {
	conn := setupOffersTestDB(t)
	svc := newOffersService(t, conn)
	ctx := context.Background()

	supplierID := newSupplier(t, conn, "Globex Routes")
	connectionID := newConnection(t, conn, supplierID, "smpp-main", "Per Submitted")
	networkID := newNetwork(t, conn, nil, "T-Mobile DE", "01", "26201")

	results := svc.SubmitBatch(ctx, []SubmitOfferInput{
		{
			SupplierID:   supplierID,
			ConnectionID: connectionID,
			NetworkID:    &networkID,
			Price:        price(t, "0.25"),
		},
		{
			SupplierID:   supplierID,
			ConnectionID: connectionID,
			Price:        price(t, "0.25"), // no identifiers
		},
	})

	require.Len(t, results, 2)
	assert.NotNil(t, results[0].ID)
	assert.Empty(t, results[0].Error)
	assert.Nil(t, results[1].ID)
	assert.NotEmpty(t, results[1].Error)

	var count int64
	require.NoError(t, conn.Raw(`SELECT COUNT(*) FROM offers`).Scan(&count).Error)
	assert.Equal(t, int64(1), count, "good row commits even when a later row fails")
}

func TestSubmitDefaultsEffectiveDate(t *testing.T) {
	conn := setupOffersTestDB(t)
	svc := newOffersService(t, conn)
	ctx := context.Background()

	supplierID := newSupplier(t, conn, "Globex Routes")
	connectionID := newConnection(t, conn, supplierID, "smpp-main", "Per Submitted")
	networkID := newNetwork(t, conn, nil, "T-Mobile DE", "01", "26201")

	before := time.Now().UTC().Add(-time.Minute)
	id, err := svc.Submit(ctx, SubmitOfferInput{
		SupplierID:   supplierID,
		ConnectionID: connectionID,
		NetworkID:    &networkID,
		Price:        price(t, "0.25"),
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.EffectiveDate)
	assert.True(t, got.EffectiveDate.After(before))
}
