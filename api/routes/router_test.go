package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ratedesk/ratedesk-backend/internal/catalog"
	"github.com/ratedesk/ratedesk-backend/internal/lookups"
	"github.com/ratedesk/ratedesk-backend/internal/offers"
	pkgauth "github.com/ratedesk/ratedesk-backend/pkg/auth"
	"github.com/ratedesk/ratedesk-backend/pkg/config"
	"github.com/ratedesk/ratedesk-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubOffersService struct {
	submitted []offers.SubmitOfferInput
}

func (s *stubOffersService) Submit(ctx context.Context, input offers.SubmitOfferInput) (int64, error) {
	s.submitted = append(s.submitted, input)
	return 1, nil
}

func (s *stubOffersService) SubmitBatch(ctx context.Context, inputs []offers.SubmitOfferInput) []offers.BatchResult {
	results := make([]offers.BatchResult, len(inputs))
	for i := range inputs {
		id := int64(i + 1)
		results[i] = offers.BatchResult{Index: i, ID: &id}
	}
	return results
}

func (s *stubOffersService) Get(ctx context.Context, id int64) (*offers.OfferDTO, error) {
	return &offers.OfferDTO{ID: id}, nil
}

func (s *stubOffersService) List(ctx context.Context, input offers.ListOffersInput) ([]offers.OfferDTO, error) {
	return []offers.OfferDTO{}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) CreateSupplier(ctx context.Context, input catalog.CreateSupplierInput) (*catalog.SupplierDTO, error) {
	return &catalog.SupplierDTO{ID: 1, OrganizationName: input.OrganizationName}, nil
}

func (stubCatalogService) ListSuppliers(ctx context.Context, search string) ([]catalog.SupplierDTO, error) {
	return []catalog.SupplierDTO{}, nil
}

func (stubCatalogService) CreateConnection(ctx context.Context, input catalog.CreateConnectionInput) (*catalog.ConnectionDTO, error) {
	return &catalog.ConnectionDTO{ID: 1, SupplierID: input.SupplierID}, nil
}

func (stubCatalogService) ListConnections(ctx context.Context, supplierID int64) ([]catalog.ConnectionDTO, error) {
	return []catalog.ConnectionDTO{}, nil
}

func (stubCatalogService) CreateCountry(ctx context.Context, input catalog.CreateCountryInput) (*catalog.CountryDTO, error) {
	return &catalog.CountryDTO{ID: 1, Name: input.Name}, nil
}

func (stubCatalogService) ListCountries(ctx context.Context, search string) ([]catalog.CountryDTO, error) {
	return []catalog.CountryDTO{}, nil
}

func (stubCatalogService) CreateNetwork(ctx context.Context, input catalog.CreateNetworkInput) (*catalog.NetworkDTO, error) {
	return &catalog.NetworkDTO{ID: 1, Name: input.Name}, nil
}

func (stubCatalogService) ListNetworks(ctx context.Context, search string) ([]catalog.NetworkDTO, error) {
	return []catalog.NetworkDTO{}, nil
}

type stubLookupsService struct{}

func (stubLookupsService) GetDropdowns(ctx context.Context) (lookups.Dropdowns, error) {
	return lookups.DefaultDropdowns(), nil
}

func (stubLookupsService) UpdateDropdowns(ctx context.Context, d lookups.Dropdowns) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		stubPinger{},
		pkgauth.NewChecker(),
		&stubOffersService{},
		stubCatalogService{},
		stubLookupsService{},
		prometheus.NewRegistry(),
	)
}

func buildToken(t *testing.T, cfg *config.Config, caps ...pkgauth.Capability) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		Subject:      "tester@example.com",
		Capabilities: caps,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestMetricsIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}

func TestAPIGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestOffersReadAllowsReadCapability(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgauth.CapabilityCatalogRead))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for read token got %d", resp.Code)
	}
}

func TestOffersWriteRejectsReadOnlyToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	body := `{"supplier_id":1,"connection_id":1,"mccmnc":"26201","price":"0.04"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgauth.CapabilityCatalogRead))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for read-only token got %d", resp.Code)
	}
}

func TestOffersWriteAllowsWriteCapability(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	body := `{"supplier_id":1,"connection_id":1,"mccmnc":"26201","price":"0.04"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgauth.CapabilityCatalogWrite))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for write token got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestWriteCapabilityImpliesReadOnCatalog(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/suppliers", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgauth.CapabilityCatalogWrite))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for write token on read route got %d", resp.Code)
	}
}

func TestDropdownsUpdateRequiresConfigWrite(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	body := `{
		"route_types":["Direct"],
		"known_hops":["0-Hop"],
		"sender_id_supported":["Dynamic Numeric"],
		"registration_required":["Yes","No"],
		"is_exclusive":["Yes","No"]
	}`

	asCatalogWriter := httptest.NewRequest(http.MethodPut, "/api/v1/config/dropdowns", strings.NewReader(body))
	asCatalogWriter.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgauth.CapabilityCatalogWrite))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asCatalogWriter)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for catalog writer got %d", resp.Code)
	}

	asConfigWriter := httptest.NewRequest(http.MethodPut, "/api/v1/config/dropdowns", strings.NewReader(body))
	asConfigWriter.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgauth.CapabilityConfigWrite))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asConfigWriter)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for config writer got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestOffersAcceptsZeroPrice(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	body := `{"supplier_id":1,"connection_id":1,"mccmnc":"26201","price":"0"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgauth.CapabilityCatalogWrite))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for zero price got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestOffersRejectsMissingPrice(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	body := `{"supplier_id":1,"connection_id":1,"mccmnc":"26201"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgauth.CapabilityCatalogWrite))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing price got %d", resp.Code)
	}
}

func TestOffersRejectsBadJSON(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgauth.CapabilityCatalogWrite))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestGarbageTokenIsUnauthorized(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token got %d", resp.Code)
	}
}
