package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/johniman211/payssd/internal/middleware"
	"github.com/johniman211/payssd/internal/models"
)

const jwtSecret = "test-secret"

func newAdminRouter(merchants *fakeMerchants, payouts *fakePayouts, notifier *fakeNotifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAdminHandler(merchants, payouts, notifier, "admin@payssd.com", "hunter2", jwtSecret)

	r := gin.New()
	r.POST("/v1/admin/login", h.Login)
	admin := r.Group("/v1/admin", middleware.AdminAuth(jwtSecret))
	admin.POST("/merchants/:id/kyc", h.DecideKYC)
	admin.POST("/payouts/:id/decision", h.DecidePayout)
	return r
}

func adminToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/login",
		strings.NewReader(`{"email":"admin@payssd.com","password":"hunter2"}`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	return body.Token
}

func adminPost(r *gin.Engine, token, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAdminLogin_RejectsBadCredentials(t *testing.T) {
	r := newAdminRouter(&fakeMerchants{byID: map[string]*models.Merchant{}}, newFakePayouts(), &fakeNotifier{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/login",
		strings.NewReader(`{"email":"admin@payssd.com","password":"wrong"}`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	r := newAdminRouter(&fakeMerchants{byID: map[string]*models.Merchant{}}, newFakePayouts(), &fakeNotifier{})

	w := adminPost(r, "", "/v1/admin/merchants/m1/kyc", `{"decision":"approved"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without token", w.Code)
	}
}

func TestDecideKYC_Approve(t *testing.T) {
	merchants := &fakeMerchants{byID: map[string]*models.Merchant{
		"m1": {ID: "m1", VerificationStatus: models.VerificationPending},
	}}
	notifier := &fakeNotifier{}
	r := newAdminRouter(merchants, newFakePayouts(), notifier)
	token := adminToken(t, r)

	w := adminPost(r, token, "/v1/admin/merchants/m1/kyc", `{"decision":"approved"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if merchants.byID["m1"].VerificationStatus != models.VerificationApproved {
		t.Error("merchant should be approved")
	}
	if len(notifier.events) != 1 || notifier.events[0] != "merchant_approved" {
		t.Errorf("events = %v", notifier.events)
	}
}

func TestDecideKYC_RejectWithNote(t *testing.T) {
	merchants := &fakeMerchants{byID: map[string]*models.Merchant{
		"m1": {ID: "m1", VerificationStatus: models.VerificationPending},
	}}
	r := newAdminRouter(merchants, newFakePayouts(), &fakeNotifier{})
	token := adminToken(t, r)

	w := adminPost(r, token, "/v1/admin/merchants/m1/kyc", `{"decision":"rejected","note":"documents unreadable"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	m := merchants.byID["m1"]
	if m.VerificationStatus != models.VerificationRejected || m.RejectionNote != "documents unreadable" {
		t.Errorf("merchant = %+v", m)
	}
}

func TestDecideKYC_UnknownMerchant(t *testing.T) {
	r := newAdminRouter(&fakeMerchants{byID: map[string]*models.Merchant{}}, newFakePayouts(), &fakeNotifier{})
	token := adminToken(t, r)

	w := adminPost(r, token, "/v1/admin/merchants/ghost/kyc", `{"decision":"approved"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDecidePayout_ApproveDebitsBalance(t *testing.T) {
	merchants := &fakeMerchants{byID: map[string]*models.Merchant{
		"m1": {ID: "m1", Balance: decimal.NewFromInt(1000)},
	}}
	payouts := newFakePayouts()
	payouts.byID["po1"] = &models.Payout{
		ID: "po1", MerchantID: "m1", Amount: decimal.NewFromInt(400), Status: models.PayoutPending,
	}
	notifier := &fakeNotifier{}
	r := newAdminRouter(merchants, payouts, notifier)
	token := adminToken(t, r)

	w := adminPost(r, token, "/v1/admin/payouts/po1/decision", `{"decision":"approved"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if payouts.byID["po1"].Status != models.PayoutCompleted {
		t.Error("payout should be completed")
	}
	if !merchants.byID["m1"].Balance.Equal(decimal.NewFromInt(600)) {
		t.Errorf("balance = %s, want 600", merchants.byID["m1"].Balance)
	}
	if len(notifier.events) != 1 || notifier.events[0] != "payout_approved" {
		t.Errorf("events = %v", notifier.events)
	}
}

func TestDecidePayout_AlreadySettled(t *testing.T) {
	merchants := &fakeMerchants{byID: map[string]*models.Merchant{
		"m1": {ID: "m1", Balance: decimal.NewFromInt(1000)},
	}}
	payouts := newFakePayouts()
	payouts.byID["po1"] = &models.Payout{
		ID: "po1", MerchantID: "m1", Amount: decimal.NewFromInt(400), Status: models.PayoutCompleted,
	}
	r := newAdminRouter(merchants, payouts, &fakeNotifier{})
	token := adminToken(t, r)

	w := adminPost(r, token, "/v1/admin/payouts/po1/decision", `{"decision":"approved"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
	if !merchants.byID["m1"].Balance.Equal(decimal.NewFromInt(1000)) {
		t.Error("settled payouts must not debit the balance again")
	}
}
