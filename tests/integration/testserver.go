package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	auditapp "github.com/tms/backend/internal/application/audit"
	billingapp "github.com/tms/backend/internal/application/billing"
	eventapp "github.com/tms/backend/internal/application/event"
	identityapp "github.com/tms/backend/internal/application/identity"
	orderapp "github.com/tms/backend/internal/application/order"
	partnerapp "github.com/tms/backend/internal/application/partner"
	pricingapp "github.com/tms/backend/internal/application/pricing"
	refdataapp "github.com/tms/backend/internal/application/refdata"
	shipmentapp "github.com/tms/backend/internal/application/shipment"
	tourapp "github.com/tms/backend/internal/application/tour"
	"github.com/tms/backend/internal/domain/tour"
	"github.com/tms/backend/internal/infrastructure/auth"
	"github.com/tms/backend/internal/infrastructure/config"
	"github.com/tms/backend/internal/infrastructure/event"
	"github.com/tms/backend/internal/infrastructure/persistence"
	"github.com/tms/backend/internal/infrastructure/storage"
	"github.com/tms/backend/internal/interfaces/http/handler"
	"github.com/tms/backend/internal/interfaces/http/middleware"
	"github.com/tms/backend/internal/interfaces/http/router"
)

// TestServer wires the full HTTP API against a containerized database.
// It mirrors the production wiring in cmd/server, with an in-memory event
// bus, an in-memory token blacklist, and stub object storage.
type TestServer struct {
	DB       *TestDB
	Engine   *gin.Engine
	JWT      *auth.JWTService
	Tenants  *identityapp.TenantService
	EventBus *event.InMemoryEventBus
	t        *testing.T
}

// TestTenant holds a provisioned tenant and its admin credentials.
type TestTenant struct {
	ID          uuid.UUID
	Code        string
	AdminUser   string
	AdminPass   string
	AccessToken string
}

// NewTestServer builds a test server with every API route registered.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	testDB := NewTestDB(t)
	log := zap.NewNop()

	tenantRepo := persistence.NewGormTenantRepository(testDB.DB)
	userRepo := persistence.NewGormUserRepository(testDB.DB)
	roleRepo := persistence.NewGormRoleRepository(testDB.DB)
	partnerRepo := persistence.NewGormPartnerRepository(testDB.DB)
	orderRepo := persistence.NewGormOrderRepository(testDB.DB)
	shipmentRepo := persistence.NewGormShipmentRepository(testDB.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(testDB.DB)
	carrierInvoiceRepo := persistence.NewGormCarrierInvoiceRepository(testDB.DB)
	paymentRepo := persistence.NewGormPaymentRepository(testDB.DB)
	bankAccountRepo := persistence.NewGormBankAccountRepository(testDB.DB)
	contractRepo := persistence.NewGormContractRepository(testDB.DB)
	pricingRuleRepo := persistence.NewGormPricingRuleRepository(testDB.DB)
	tourRepo := persistence.NewGormTourRepository(testDB.DB)
	entryRepo := persistence.NewGormEntryRepository(testDB.DB)
	auditLogRepo := persistence.NewGormAuditLogRepository(testDB.DB)
	outboxRepo := event.NewGormOutboxRepository(testDB.DB)

	eventBus := event.NewInMemoryEventBus(log)
	require.NoError(t, eventBus.Start(context.Background()))
	t.Cleanup(func() {
		_ = eventBus.Stop(context.Background())
	})

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-test-secret-key-0123456789",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "tms-backend-test",
		MaxRefreshCount:        10,
	})
	tokenBlacklist := auth.NewInMemoryTokenBlacklist()

	authService := identityapp.NewAuthService(userRepo, roleRepo, tenantRepo, jwtService, tokenBlacklist,
		identityapp.AuthServiceConfig{
			MaxLoginAttempts: 5,
			LockDuration:     15 * time.Minute,
		}, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, log)
	roleService := identityapp.NewRoleService(roleRepo, log)
	tenantService := identityapp.NewTenantService(tenantRepo, userRepo, roleRepo, log)
	partnerService := partnerapp.NewPartnerService(partnerRepo, eventBus, log)
	orderService := orderapp.NewOrderService(orderRepo, shipmentRepo, eventBus, log)
	shipmentService := shipmentapp.NewShipmentService(shipmentRepo, orderRepo, eventBus, log)
	documentService := shipmentapp.NewDocumentService(shipmentRepo, storage.NewStubObjectStorage(), log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, eventBus, log)
	carrierInvoiceService := billingapp.NewCarrierInvoiceService(carrierInvoiceRepo, eventBus, log)
	paymentService := billingapp.NewPaymentService(paymentRepo, invoiceRepo, carrierInvoiceRepo, bankAccountRepo, eventBus, log)
	contractService := pricingapp.NewContractService(contractRepo, eventBus, log)
	ruleService := pricingapp.NewRuleService(pricingRuleRepo, log)
	quoteService := pricingapp.NewQuoteService(contractRepo, pricingRuleRepo, log)
	tourService := tourapp.NewTourService(tourRepo, tour.NewNearestNeighborOptimizer(), eventBus, log)
	entryService := refdataapp.NewEntryService(entryRepo, eventBus, log)
	auditService := auditapp.NewAuditService(auditLogRepo, log)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	handlers := router.Handlers{
		Auth:           handler.NewAuthHandler(authService),
		User:           handler.NewUserHandler(userService),
		Role:           handler.NewRoleHandler(roleService),
		Tenant:         handler.NewTenantHandler(tenantService),
		Partner:        handler.NewPartnerHandler(partnerService),
		Order:          handler.NewOrderHandler(orderService),
		Shipment:       handler.NewShipmentHandler(shipmentService, documentService),
		Invoice:        handler.NewInvoiceHandler(invoiceService),
		CarrierInvoice: handler.NewCarrierInvoiceHandler(carrierInvoiceService),
		Payment:        handler.NewPaymentHandler(paymentService),
		Contract:       handler.NewContractHandler(contractService),
		PricingRule:    handler.NewPricingRuleHandler(ruleService, quoteService),
		Tour:           handler.NewTourHandler(tourService),
		Refdata:        handler.NewRefdataHandler(entryService),
		Audit:          handler.NewAuditHandler(auditService),
		Outbox:         handler.NewOutboxHandler(outboxService),
	}

	engine := gin.New()
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = tokenBlacklist
	jwtConfig.AccessResolver = authService
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	router.RegisterAll(r, handlers)
	r.Setup()

	return &TestServer{
		DB:       testDB,
		Engine:   engine,
		JWT:      jwtService,
		Tenants:  tenantService,
		EventBus: eventBus,
		t:        t,
	}
}

// ProvisionTenant creates a tenant with an admin user and logs the admin in.
func (ts *TestServer) ProvisionTenant(t *testing.T, code string) *TestTenant {
	t.Helper()

	adminUser := "admin_" + code
	adminPass := "Adm1n!" + code + "pass"

	result, err := ts.Tenants.CreateTenant(context.Background(), identityapp.CreateTenantInput{
		Code:          code,
		Name:          "Tenant " + code,
		Country:       "DE",
		AdminUsername: adminUser,
		AdminPassword: adminPass,
	})
	require.NoError(t, err, "Failed to provision tenant %s", code)

	tenant := &TestTenant{
		ID:        result.Tenant.ID,
		Code:      code,
		AdminUser: adminUser,
		AdminPass: adminPass,
	}
	tenant.AccessToken = ts.Login(t, code, adminUser, adminPass)
	return tenant
}

// Login authenticates through the HTTP API and returns the access token.
func (ts *TestServer) Login(t *testing.T, tenantCode, username, password string) string {
	t.Helper()

	w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"tenant_code": tenantCode,
		"username":    username,
		"password":    password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "Login failed: %s", w.Body.String())

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.AccessToken, "No access token in login response")
	return resp.Data.AccessToken
}

// Request performs an HTTP request against the test server. An empty token
// sends the request unauthenticated.
func (ts *TestServer) Request(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(ts.t, err, "Failed to marshal request body")
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.Engine.ServeHTTP(w, req)
	return w
}

// DecodeData unmarshals the "data" envelope of a successful API response.
func DecodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), "Invalid response body: %s", w.Body.String())
	require.True(t, envelope.Success, "Expected success response: %s", w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

// ErrorCode extracts the error code of a failed API response.
func ErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), "Invalid response body: %s", w.Body.String())
	return envelope.Error.Code
}

// uniqueCode generates a short unique code for test fixtures.
func uniqueCode(prefix string) string {
	return fmt.Sprintf("%s%s", prefix, uuid.New().String()[:8])
}
