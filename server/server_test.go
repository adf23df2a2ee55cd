package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fundbridge/config"
	"fundbridge/models"
	"fundbridge/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	investorToken = "investor-token"
	businessToken = "business-token"
)

type testServer struct {
	server        *Server
	auth          *mockAuth
	users         *mockUsers
	pitches       *mockPitches
	investments   *mockInvestments
	distributions *mockDistributions
	portfolios    *mockPortfolios
	wallet        *mockWallet
	campaigns     *mockCampaigns
	investorID    uuid.UUID
	businessID    uuid.UUID
}

func newTestServer(t *testing.T, configure ...func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		auth:          &mockAuth{},
		users:         &mockUsers{},
		pitches:       &mockPitches{},
		investments:   &mockInvestments{},
		distributions: &mockDistributions{},
		portfolios:    &mockPortfolios{},
		wallet:        &mockWallet{},
		campaigns:     &mockCampaigns{},
		investorID:    uuid.New(),
		businessID:    uuid.New(),
	}

	cfg := config.NewTestConfig()
	for _, fn := range configure {
		fn(cfg)
	}

	ts.server = New(cfg, Services{
		Auth:          ts.auth,
		Users:         ts.users,
		Pitches:       ts.pitches,
		Investments:   ts.investments,
		Distributions: ts.distributions,
		Portfolios:    ts.portfolios,
		Wallet:        ts.wallet,
		Campaigns:     ts.campaigns,
	}, nil)
	ts.server.now = func() time.Time { return testNow }

	ts.auth.On("ParseToken", investorToken).
		Return(&service.Claims{UserID: ts.investorID, Role: models.RoleInvestor}, nil).Maybe()
	ts.auth.On("ParseToken", businessToken).
		Return(&service.Claims{UserID: ts.businessID, Role: models.RoleBusiness}, nil).Maybe()
	ts.auth.On("ParseToken", mock.Anything).
		Return(nil, fmt.Errorf("%w: bad token", service.ErrUnauthorized)).Maybe()

	return ts
}

func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestAPIKey(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) { cfg.PublicAPIKey = "public-key" })

	t.Run("missing key is rejected", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/auth/signout", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong key is rejected", func(t *testing.T) {
		for _, key := range []string{"public-kex", "public-key-extra", "public"} {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
			req.Header.Set(apiKeyHeader, key)
			rec := httptest.NewRecorder()
			ts.server.Handler().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, key)
		}
	})

	t.Run("matching key passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
		req.Header.Set(apiKeyHeader, "public-key")
		rec := httptest.NewRecorder()
		ts.server.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAuthentication(t *testing.T) {
	ts := newTestServer(t)
	profile := &models.UserProfile{ID: ts.investorID, Role: models.RoleInvestor, DisplayName: "Ivy"}
	ts.users.On("GetProfile", mock.Anything, ts.investorID).Return(profile, nil)

	t.Run("no token", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/me", "forged", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bearer token", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/me", investorToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Ivy", decodeBody(t, rec)["display_name"])
	})

	t.Run("cookie token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(&http.Cookie{Name: tokenCookie, Value: investorToken})
		rec := httptest.NewRecorder()
		ts.server.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRoleGate(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/pitches", investorToken, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodPost, "/api/pitches/1/investments", businessToken, map[string]any{"amount": 100, "tier": "bronze"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	ts.pitches.AssertNotCalled(t, "CreatePitch", mock.Anything, mock.Anything, mock.Anything)
	ts.investments.AssertNotCalled(t, "Invest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignIn_SetsCookie(t *testing.T) {
	ts := newTestServer(t)
	session := &models.Session{
		Token:     "signed-token",
		ExpiresAt: testNow.Add(24 * time.Hour),
		User:      &models.UserProfile{Email: "ivy@example.com", Role: models.RoleInvestor},
	}
	ts.auth.On("SignIn", mock.Anything, "ivy@example.com", "password123").Return(session, nil)

	rec := ts.do(http.MethodPost, "/api/auth/signin", "", map[string]any{"email": "ivy@example.com", "password": "password123"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "signed-token", decodeBody(t, rec)["token"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, tokenCookie, cookies[0].Name)
	assert.Equal(t, "signed-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 86400, cookies[0].MaxAge)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.On("SignIn", mock.Anything, "ivy@example.com", "wrong-pass").
		Return(nil, fmt.Errorf("%w: invalid credentials", service.ErrUnauthorized))

	rec := ts.do(http.MethodPost, "/api/auth/signin", "", map[string]any{"email": "ivy@example.com", "password": "wrong-pass"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSignUp(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.On("SignUp", mock.Anything, service.SignUpRequest{
		Email:       "acme@example.com",
		Password:    "password123",
		DisplayName: "Acme",
		Role:        models.RoleBusiness,
		CompanyName: "Acme Robotics",
	}).Return(&models.Session{Token: "t", ExpiresAt: testNow.Add(time.Hour)}, nil)

	rec := ts.do(http.MethodPost, "/api/auth/signup", "", map[string]any{
		"email":        "acme@example.com",
		"password":     "password123",
		"display_name": "Acme",
		"role":         "business",
		"company_name": "Acme Robotics",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	ts.auth.AssertExpectations(t)
}

func TestSignUp_MissingFields(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/auth/signup", "", map[string]any{"email": "a@b.co"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ts.auth.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
}

func TestSignUp_MalformedEmail(t *testing.T) {
	ts := newTestServer(t)

	for _, email := range []string{"ivy.example.com", "ivy@", "@example.com", "Ivy <ivy@example.com>"} {
		rec := ts.do(http.MethodPost, "/api/auth/signup", "", map[string]any{
			"email":        email,
			"password":     "password123",
			"display_name": "Ivy",
			"role":         "investor",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code, email)
	}
	ts.auth.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
}

func TestSignOut_ClearsCookie(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/auth/signout", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", fmt.Errorf("%w: pitch 1", service.ErrNotFound), http.StatusNotFound, "not found: pitch 1"},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"invalid input", fmt.Errorf("%w: amount must be positive", service.ErrInvalidInput), http.StatusBadRequest, "invalid input: amount must be positive"},
		{"insufficient balance", service.ErrInsufficientBalance, http.StatusBadRequest, "insufficient balance"},
		{"invalid transition", service.ErrInvalidTransition, http.StatusConflict, "invalid status transition"},
		{"conflict", service.ErrConflict, http.StatusConflict, "conflict"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, "operation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.investments.On("Invest", mock.Anything, ts.investorID, int64(42), int64(5000), "bronze").Return(nil, tt.err)

			rec := ts.do(http.MethodPost, "/api/pitches/42/investments", investorToken, map[string]any{"amount": 5000, "tier": "bronze"})

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, decodeBody(t, rec)["error"])
		})
	}
}

func TestInvest(t *testing.T) {
	ts := newTestServer(t)
	result := &models.InvestmentResult{
		Investment: &models.Investment{ID: 9, PitchID: 42, Amount: 5000, TierName: "bronze", TierMultiplier: decimal.NewFromInt(1)},
		Pitch:      &models.Pitch{ID: 42, Status: models.PitchStatusActive},
		NewBalance: 15000,
	}
	ts.investments.On("Invest", mock.Anything, ts.investorID, int64(42), int64(5000), "bronze").Return(result, nil)

	rec := ts.do(http.MethodPost, "/api/pitches/42/investments", investorToken, map[string]any{"amount": 5000, "tier": "bronze"})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.EqualValues(t, 15000, decodeBody(t, rec)["new_balance"])
}

func TestInvalidPathID(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/pitches/abc", investorToken, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBrowsePitches_ParsesFilter(t *testing.T) {
	ts := newTestServer(t)
	ts.pitches.On("BrowsePitches", mock.Anything, models.PitchFilter{
		Search:   "solar",
		Industry: "energy",
		Statuses: []models.PitchStatus{models.PitchStatusActive, models.PitchStatusFunded},
		Limit:    5,
		Offset:   10,
	}).Return([]*models.Pitch{{ID: 1, Title: "Solar Farms"}}, nil)

	rec := ts.do(http.MethodGet, "/api/pitches?search=solar&industry=energy&status=active,funded&limit=5&offset=10", investorToken, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["pitches"], 1)
}

func TestDeclareDistribution(t *testing.T) {
	ts := newTestServer(t)
	date := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	result := &models.DistributionResult{
		Distribution: &models.ProfitDistribution{ID: 3, PitchID: 42, TotalProfit: 1001},
		TotalShares:  decimal.NewFromInt(4000),
	}
	ts.distributions.On("Declare", mock.Anything, ts.businessID, int64(42), int64(1001), date).Return(result, nil)

	rec := ts.do(http.MethodPost, "/api/pitches/42/distributions", businessToken, map[string]any{
		"total_profit":      1001,
		"distribution_date": "2026-02-28T00:00:00Z",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "4000", decodeBody(t, rec)["total_shares"])
}

func TestWalletDeposit(t *testing.T) {
	ts := newTestServer(t)
	tx := &models.Transaction{ID: 1, Amount: 2500, BalanceBefore: 0, BalanceAfter: 2500, Type: models.TransactionTypeDeposit}
	ts.wallet.On("Deposit", mock.Anything, ts.investorID, int64(2500)).Return(tx, nil)

	rec := ts.do(http.MethodPost, "/api/wallet/deposit", investorToken, map[string]any{"amount": 2500})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2500, decodeBody(t, rec)["balance"])
}

func TestWalletTransactions_DefaultLimit(t *testing.T) {
	ts := newTestServer(t)
	ts.wallet.On("GetTransactions", mock.Anything, ts.businessID, service.DefaultTransactionLimit).Return([]*models.Transaction{}, nil)

	rec := ts.do(http.MethodGet, "/api/wallet/transactions", businessToken, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	ts.wallet.AssertExpectations(t)
}

func TestWalletTransactions_Since(t *testing.T) {
	ts := newTestServer(t)
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ts.wallet.On("GetTransactionsSince", mock.Anything, ts.investorID, mock.MatchedBy(func(got time.Time) bool {
		return got.Equal(since)
	})).Return([]*models.Transaction{
		{ID: 3, Type: models.TransactionTypePayout, Amount: 120, Description: "Profit payout"},
	}, nil)

	rec := ts.do(http.MethodGet, "/api/wallet/transactions?since=2026-03-01T00:00:00Z", investorToken, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	transactions := decodeBody(t, rec)["transactions"].([]any)
	require.Len(t, transactions, 1)
	assert.Equal(t, "Profit payout", transactions[0].(map[string]any)["description"])
	ts.wallet.AssertNotCalled(t, "GetTransactions", mock.Anything, mock.Anything, mock.Anything)
}

func TestWalletTransactions_InvalidSince(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/wallet/transactions?since=last-week", investorToken, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ts.wallet.AssertNotCalled(t, "GetTransactionsSince", mock.Anything, mock.Anything, mock.Anything)
}

func TestDistributionPayouts(t *testing.T) {
	ts := newTestServer(t)
	payouts := []*models.InvestorPayout{{ID: 1, DistributionID: 9, PitchID: 42, InvestorID: ts.investorID, Amount: 250}}
	ts.distributions.On("GetDistributionPayouts", mock.Anything, ts.investorID, int64(42), int64(9)).Return(payouts, nil)
	ts.distributions.On("GetDistributionPayouts", mock.Anything, ts.investorID, int64(42), int64(10)).
		Return(nil, fmt.Errorf("%w: distribution 10 of pitch 42", service.ErrNotFound))

	rec := ts.do(http.MethodGet, "/api/pitches/42/distributions/9/payouts", investorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["payouts"], 1)

	rec = ts.do(http.MethodGet, "/api/pitches/42/distributions/10/payouts", investorToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodGet, "/api/pitches/42/distributions/abc/payouts", investorToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangeCampaignStatus(t *testing.T) {
	ts := newTestServer(t)
	ts.campaigns.On("ChangeStatus", mock.Anything, ts.businessID, int64(5), models.AdCampaignStatusRunning).
		Return(&models.AdCampaign{ID: 5, Status: models.AdCampaignStatusRunning}, nil)

	rec := ts.do(http.MethodPost, "/api/campaigns/5/status", businessToken, map[string]any{"status": "running"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "running", decodeBody(t, rec)["status"])
}

func testPortfolio(investorID uuid.UUID) *models.Portfolio {
	return &models.Portfolio{
		InvestorID: investorID,
		Holdings: []*models.Holding{
			{PitchID: 42, PitchTitle: "Solar Farms", PitchStatus: models.PitchStatusFunded, Invested: 1000, Returns: 1200, ROI: decimal.NewFromInt(20), InvestmentCount: 1},
		},
		TotalInvested: 1000,
		TotalReturns:  1200,
		ROI:           decimal.NewFromInt(20),
	}
}

func TestStatementPDF(t *testing.T) {
	ts := newTestServer(t)
	ts.users.On("GetProfile", mock.Anything, ts.investorID).
		Return(&models.UserProfile{ID: ts.investorID, DisplayName: "Ivy", Role: models.RoleInvestor}, nil)
	ts.portfolios.On("GetPortfolio", mock.Anything, ts.investorID).Return(testPortfolio(ts.investorID), nil)
	ts.distributions.On("GetPayouts", mock.Anything, ts.investorID).
		Return([]*models.InvestorPayout{{PitchID: 42, Amount: 1200, Shares: decimal.NewFromInt(1000), CreatedAt: testNow}}, nil)

	rec := ts.do(http.MethodGet, "/api/portfolio/statement.pdf", investorToken, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "statement-2026-03-01.pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestChartPNG(t *testing.T) {
	ts := newTestServer(t)
	ts.portfolios.On("GetPortfolio", mock.Anything, ts.investorID).Return(testPortfolio(ts.investorID), nil)

	rec := ts.do(http.MethodGet, "/api/portfolio/chart.png", investorToken, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer abc"))
	assert.Empty(t, bearerToken("Basic abc"))
	assert.Empty(t, bearerToken("Bearer "))
}
