package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"pairbook/internal/auth"
	"pairbook/internal/models"
	"pairbook/internal/storage/sqlite"
)

const (
	testAliceEmail = "alice@example.com"
	testBobEmail   = "bob@example.com"
	testPassword   = "correct-horse-battery"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	tokens map[string]string
}

// newTestEnv builds a router over a throwaway SQLite store with both
// participants registered and logged in. The cache is disabled.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	pair, err := models.NewPair(testAliceEmail, testBobEmail)
	require.NoError(t, err)

	authn := auth.NewPasswordAuthenticator(store, pair)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	env := &testEnv{
		router: New(store, nil, pair, authn, jwtManager).Router(),
		tokens: make(map[string]string),
	}

	for _, email := range pair.Emails() {
		w := env.do(http.MethodPost, "/api/auth/register", "", gin.H{
			"email":        email,
			"display_name": email,
			"password":     testPassword,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		env.tokens[email] = resp.Token
	}
	return env
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) as(email string) string { return e.tokens[email] }

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestRegisterAllowList(t *testing.T) {
	env := newTestEnv(t)

	// A third identity can never join a two-person ledger.
	w := env.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email":        "mallory@example.com",
		"display_name": "Mallory",
		"password":     testPassword,
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	// Registering twice conflicts.
	w = env.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email":        testAliceEmail,
		"display_name": "Alice again",
		"password":     testPassword,
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    testAliceEmail,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, testAliceEmail, resp.User.Email)

	w = env.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    testAliceEmail,
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "mallory@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/records", "/api/balance", "/api/summary"} {
		w := env.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := env.do(http.MethodGet, "/api/records", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExpenseToBalanceFlow(t *testing.T) {
	env := newTestEnv(t)

	// Alice pays ¥1000 split down the middle.
	w := env.do(http.MethodPost, "/api/records", env.as(testAliceEmail), gin.H{
		"title":      "groceries",
		"amount":     1000,
		"date":       "2026-08-10",
		"split_type": "half",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var rec models.Record
	decode(t, w, &rec)
	require.Equal(t, models.KindExpense, rec.Kind)
	require.Equal(t, testAliceEmail, rec.Payer)
	require.NotEmpty(t, rec.ID)

	w = env.do(http.MethodGet, "/api/balance", env.as(testAliceEmail), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var bal balanceResponse
	decode(t, w, &bal)
	require.Len(t, bal.Members, 2)

	byEmail := make(map[string]memberBalance)
	for _, m := range bal.Members {
		byEmail[m.Email] = m
	}
	require.Equal(t, int64(500), byEmail[testAliceEmail].Balance)
	require.Equal(t, int64(-500), byEmail[testBobEmail].Balance)

	// Alice is owed, so the suggestion has Bob repay her.
	require.NotNil(t, bal.Suggestion)
	require.Equal(t, int64(500), bal.Suggestion.Amount)
	require.Equal(t, testBobEmail, bal.Suggestion.Payer)
	require.Equal(t, testAliceEmail, bal.Suggestion.Receiver)

	// Bob settles; the pair returns to zero.
	w = env.do(http.MethodPost, "/api/settlements", env.as(testBobEmail), gin.H{
		"amount": 500,
		"date":   "2026-08-11",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var settlement models.Record
	decode(t, w, &settlement)
	require.Equal(t, models.KindSettlement, settlement.Kind)
	require.Equal(t, testBobEmail, settlement.Payer)
	require.Equal(t, testAliceEmail, settlement.Receiver)
	require.Equal(t, "現金", settlement.Method)

	w = env.do(http.MethodGet, "/api/balance", env.as(testAliceEmail), nil)
	require.Equal(t, http.StatusOK, w.Code)
	bal = balanceResponse{}
	decode(t, w, &bal)

	for _, m := range bal.Members {
		require.Zero(t, m.Balance, m.Email)
	}
	require.Nil(t, bal.Suggestion)
}

func TestExpenseValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body gin.H
	}{
		{"empty title", gin.H{"amount": 100}},
		{"zero amount", gin.H{"title": "x", "amount": 0}},
		{"negative amount", gin.H{"title": "x", "amount": -50}},
		{"bad date", gin.H{"title": "x", "amount": 100, "date": "not-a-date"}},
		{"unknown payer", gin.H{"title": "x", "amount": 100, "payer": "mallory@example.com"}},
		{"ratio out of range", gin.H{"title": "x", "amount": 100, "split_type": "ratio", "my_ratio": 150}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/records", env.as(testAliceEmail), tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestRecordUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/records", env.as(testAliceEmail), gin.H{
		"title":      "dinner",
		"amount":     3000,
		"date":       "2026-08-12",
		"split_type": "half",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var rec models.Record
	decode(t, w, &rec)

	// Full-record replace; created_at survives the edit.
	w = env.do(http.MethodPut, "/api/records/"+rec.ID, env.as(testBobEmail), gin.H{
		"title":      "dinner for two",
		"amount":     3500,
		"date":       "2026-09-01",
		"payer":      testAliceEmail,
		"split_type": "half",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Record
	decode(t, w, &updated)
	require.Equal(t, rec.ID, updated.ID)
	require.Equal(t, rec.CreatedAt, updated.CreatedAt)
	require.Equal(t, int64(3500), updated.Amount)
	require.Equal(t, testAliceEmail, updated.Payer)

	w = env.do(http.MethodPut, "/api/records/missing", env.as(testAliceEmail), gin.H{
		"title":  "x",
		"amount": 100,
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodDelete, "/api/records/"+rec.ID, env.as(testAliceEmail), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodDelete, "/api/records/"+rec.ID, env.as(testAliceEmail), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryFilters(t *testing.T) {
	env := newTestEnv(t)

	expenses := []gin.H{
		{"title": "coffee beans", "amount": 1500, "date": "2026-08-05"},
		{"title": "rent", "amount": 90000, "date": "2026-08-01", "category": "家賃・光熱費"},
		{"title": "coffee grinder", "amount": 8000, "date": "2026-07-20"},
	}
	for _, body := range expenses {
		w := env.do(http.MethodPost, "/api/records", env.as(testAliceEmail), body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	var resp struct {
		Records []*models.Record `json:"records"`
	}

	w := env.do(http.MethodGet, "/api/records?month=2026-08", env.as(testBobEmail), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	require.Len(t, resp.Records, 2)

	w = env.do(http.MethodGet, "/api/records?q=coffee", env.as(testBobEmail), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	require.Len(t, resp.Records, 2)

	w = env.do(http.MethodGet, "/api/records?month=2026-08&q=coffee", env.as(testBobEmail), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	require.Len(t, resp.Records, 1)
	require.Equal(t, "coffee beans", resp.Records[0].Title)

	w = env.do(http.MethodGet, "/api/records?q=nothing-matches", env.as(testBobEmail), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	require.NotNil(t, resp.Records)
	require.Empty(t, resp.Records)
}

func TestSummaryWithBudget(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPut, "/api/settings", env.as(testAliceEmail), gin.H{
		"monthly_budget": 100000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	expenses := []gin.H{
		{"title": "groceries", "amount": 12000, "date": "2026-08-03", "category": "食費"},
		{"title": "more groceries", "amount": 8000, "date": "2026-08-03", "category": "食費"},
		{"title": "movie night", "amount": 5000, "date": "2026-08-14", "category": "デート・外食"},
	}
	for _, body := range expenses {
		w = env.do(http.MethodPost, "/api/records", env.as(testAliceEmail), body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	// Settlements are not spend.
	w = env.do(http.MethodPost, "/api/settlements", env.as(testBobEmail), gin.H{
		"amount": 10000,
		"date":   "2026-08-15",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodGet, "/api/summary?month=2026-08", env.as(testAliceEmail), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var sum struct {
		Total           int64 `json:"total"`
		Budget          int64 `json:"budget"`
		BudgetRemaining int64 `json:"budget_remaining"`
		BudgetPercent   int   `json:"budget_percent"`
		ByCategory      []struct {
			Name  string `json:"name"`
			Total int64  `json:"total"`
		} `json:"by_category"`
		ActiveDays []string `json:"active_days"`
	}
	decode(t, w, &sum)

	require.Equal(t, int64(25000), sum.Total)
	require.Equal(t, int64(100000), sum.Budget)
	require.Equal(t, int64(75000), sum.BudgetRemaining)
	require.Equal(t, 25, sum.BudgetPercent)

	require.Len(t, sum.ByCategory, 2)
	require.Equal(t, "食費", sum.ByCategory[0].Name)
	require.Equal(t, int64(20000), sum.ByCategory[0].Total)

	require.Equal(t, []string{"2026-08-03", "2026-08-14"}, sum.ActiveDays)
}

func TestCategoryManagement(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/categories", env.as(testAliceEmail), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var categories []models.Category
	decode(t, w, &categories)
	require.Equal(t, models.DefaultCategories(), categories)

	// Replace the list; a record pointing at a removed name keeps it.
	w = env.do(http.MethodPost, "/api/records", env.as(testAliceEmail), gin.H{
		"title":    "flights",
		"amount":   40000,
		"date":     "2026-08-20",
		"category": "旅行",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodPut, "/api/categories", env.as(testAliceEmail), []models.Category{
		{Name: "食費", Icon: "🍙"},
		{Name: "その他", Icon: "✨"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodGet, "/api/categories", env.as(testBobEmail), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &categories)
	require.Len(t, categories, 2)
	require.Equal(t, "🍙", categories[0].Icon)

	// The orphaned category shows up in the summary under the fallback icon.
	w = env.do(http.MethodGet, "/api/summary?month=2026-08", env.as(testAliceEmail), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var sum struct {
		ByCategory []struct {
			Name string `json:"name"`
			Icon string `json:"icon"`
		} `json:"by_category"`
	}
	decode(t, w, &sum)
	require.Len(t, sum.ByCategory, 1)
	require.Equal(t, "旅行", sum.ByCategory[0].Name)
	require.Equal(t, models.FallbackIcon, sum.ByCategory[0].Icon)

	// An empty list is rejected.
	w = env.do(http.MethodPut, "/api/categories", env.as(testAliceEmail), []models.Category{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettlementValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body gin.H
	}{
		{"zero amount", gin.H{"amount": 0}},
		{"self settlement", gin.H{"amount": 100, "receiver": testAliceEmail}},
		{"outside receiver", gin.H{"amount": 100, "receiver": "mallory@example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/settlements", env.as(testAliceEmail), tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "healthy")
}

func TestSettingsValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPut, "/api/settings", env.as(testAliceEmail), gin.H{
		"monthly_budget": -1,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/settings", env.as(testBobEmail), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var settings models.Settings
	decode(t, w, &settings)
	require.Zero(t, settings.MonthlyBudget)
}
