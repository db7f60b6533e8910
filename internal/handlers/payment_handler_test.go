package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/johniman211/payssd/internal/models"
	"github.com/johniman211/payssd/internal/payments"
)

func newPaymentRouter(merchants *fakeMerchants, payRepo *fakePayments) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := payments.NewService(merchants, payRepo, nil, &fakeNotifier{},
		payments.Credentials{}, "SSP", "https://payssd.test/checkout")
	h := NewPaymentHandler(svc, payRepo)

	r := gin.New()
	r.POST("/v1/payments/initiate", h.InitiatePayment)
	r.GET("/v1/payments/:id", h.GetPayment)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) (*httptest.ResponseRecorder, models.InitiatePaymentResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var resp models.InitiatePaymentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w, resp
}

func TestInitiatePayment_MissingParameters(t *testing.T) {
	merchants := &fakeMerchants{byID: map[string]*models.Merchant{}}
	payRepo := newFakePayments()
	r := newPaymentRouter(merchants, payRepo)

	for _, body := range []string{`{}`, `{"merchant_id":"m1"}`, `{"amount":100}`} {
		w, resp := postJSON(t, r, "/v1/payments/initiate", body)
		if w.Code != http.StatusOK {
			t.Errorf("body %s: status = %d, want 200", body, w.Code)
		}
		if resp.OK || resp.Error != models.ErrMissingParameters {
			t.Errorf("body %s: resp = %+v, want missing_parameters", body, resp)
		}
	}
	if len(payRepo.byID) != 0 {
		t.Error("no payment rows should be created on validation failure")
	}
}

func TestInitiatePayment_InvalidJSON(t *testing.T) {
	r := newPaymentRouter(&fakeMerchants{byID: map[string]*models.Merchant{}}, newFakePayments())

	w, resp := postJSON(t, r, "/v1/payments/initiate", `{"merchant_id":`)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if resp.Error != models.ErrInvalidJSON {
		t.Errorf("resp = %+v, want invalid_json", resp)
	}
}

func TestInitiatePayment_InvalidRequest(t *testing.T) {
	r := newPaymentRouter(&fakeMerchants{byID: map[string]*models.Merchant{}}, newFakePayments())

	// amount of the wrong type
	_, resp := postJSON(t, r, "/v1/payments/initiate", `{"merchant_id":"m1","amount":"lots"}`)
	if resp.Error != models.ErrInvalidRequest {
		t.Errorf("resp = %+v, want invalid_request", resp)
	}

	// non-positive amount
	_, resp = postJSON(t, r, "/v1/payments/initiate", `{"merchant_id":"m1","amount":-5}`)
	if resp.Error != models.ErrInvalidRequest {
		t.Errorf("resp = %+v, want invalid_request", resp)
	}
}

func TestInitiatePayment_MerchantNotFound(t *testing.T) {
	r := newPaymentRouter(&fakeMerchants{byID: map[string]*models.Merchant{}}, newFakePayments())

	w, resp := postJSON(t, r, "/v1/payments/initiate", `{"merchant_id":"ghost","amount":100}`)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 even for flow errors", w.Code)
	}
	if resp.OK || resp.Error != models.ErrMerchantNotFound {
		t.Errorf("resp = %+v, want merchant_not_found", resp)
	}
}

func TestInitiatePayment_SimulatedSandboxScenario(t *testing.T) {
	merchants := &fakeMerchants{byID: map[string]*models.Merchant{
		"m1": {ID: "m1", Email: "m@x.ss", VerificationStatus: models.VerificationPending, Balance: decimal.Zero},
	}}
	payRepo := newFakePayments()
	r := newPaymentRouter(merchants, payRepo)

	w, resp := postJSON(t, r, "/v1/payments/initiate", `{"merchant_id":"m1","amount":1500,"currency":"SSP"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !resp.OK || !resp.TestSimulated || resp.PaymentID == "" {
		t.Fatalf("resp = %+v, want simulated success", resp)
	}

	p := payRepo.byID[resp.PaymentID]
	if p == nil || p.Status != models.PaymentCompleted || p.Mode != models.ModeTest {
		t.Fatalf("payment row = %+v, want completed test-mode row", p)
	}
}

func TestGetPayment_NotFound(t *testing.T) {
	r := newPaymentRouter(&fakeMerchants{byID: map[string]*models.Merchant{}}, newFakePayments())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/payments/nope", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
