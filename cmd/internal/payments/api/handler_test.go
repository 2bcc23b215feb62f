package paymentapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authapi "pago/cmd/internal/auth/api"
	"pago/cmd/internal/payments"
	"pago/cmd/security/token"
)

const testGatewaySecret = "gw-secret"

func newTestServer(t *testing.T) (*httptest.Server, *token.Codec) {
	t.Helper()

	codec, err := token.NewCodec(token.Config{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		TTL:    time.Hour,
		Issuer: "pago-test",
	})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	svc := payments.NewService(nil, payments.NewMemoryStore(), payments.NoopGateway{}, []byte(testGatewaySecret))
	h := NewHandler(nil, DefaultConfig(), svc, authapi.NewGuard(codec))

	mux := http.NewServeMux()
	h.Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, codec
}

func bearerFor(t *testing.T, codec *token.Codec, subject string) string {
	t.Helper()

	tok, _, err := codec.Encode(subject, time.Now().UTC())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return "Bearer " + tok
}

func doJSON(t *testing.T, method, url, auth string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, out.Bytes()
}

func TestPaymentFlow(t *testing.T) {
	srv, codec := newTestServer(t)
	auth := bearerFor(t, codec, "a@x.com")

	// Create an order.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/payments/orders", auth,
		map[string]any{"amount": 49900, "currency": "INR", "description": "starter plan"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status = %d, body %s", resp.StatusCode, body)
	}
	var created paymentResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == "" || created.OrderID == "" || created.Status != "created" {
		t.Fatalf("unexpected create response %+v", created)
	}

	// List shows it.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/payments", auth, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: status = %d", resp.StatusCode)
	}
	var list listResponse
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Payments) != 1 || list.Payments[0].ID != created.ID {
		t.Fatalf("unexpected list %+v", list)
	}

	// Verify with a valid gateway signature.
	sig := token.HashHMACSHA256Hex(created.OrderID+"|pay_1", []byte(testGatewaySecret))
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/payments/verify", auth,
		map[string]any{"order_id": created.OrderID, "payment_id": "pay_1", "signature": sig})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify: status = %d, body %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/payments/"+created.ID, auth, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: status = %d", resp.StatusCode)
	}
	var got paymentResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode get: %v", err)
	}
	if got.Status != "paid" {
		t.Fatalf("status after verify = %q, want paid", got.Status)
	}
}

func TestVerifyBadSignatureReturns422(t *testing.T) {
	srv, codec := newTestServer(t)
	auth := bearerFor(t, codec, "a@x.com")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/payments/orders", auth,
		map[string]any{"amount": 1000, "currency": "INR"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status = %d", resp.StatusCode)
	}
	var created paymentResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/payments/verify", auth,
		map[string]any{"order_id": created.OrderID, "payment_id": "pay_1", "signature": "deadbeef"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("verify: status = %d, want 422; body %s", resp.StatusCode, body)
	}
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if er.Error.Code != "verification_failed" {
		t.Fatalf("error code = %q, want verification_failed", er.Error.Code)
	}
}

func TestForeignPaymentIs404(t *testing.T) {
	srv, codec := newTestServer(t)
	owner := bearerFor(t, codec, "a@x.com")
	other := bearerFor(t, codec, "b@x.com")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/payments/orders", owner,
		map[string]any{"amount": 1000, "currency": "INR"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status = %d", resp.StatusCode)
	}
	var created paymentResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	for _, tc := range []struct {
		method string
		url    string
	}{
		{http.MethodGet, srv.URL + "/payments/" + created.ID},
		{http.MethodDelete, srv.URL + "/payments/" + created.ID},
		{http.MethodPost, srv.URL + "/payments/" + created.ID + "/process"},
	} {
		resp, _ := doJSON(t, tc.method, tc.url, other, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s %s as other user: status = %d, want 404", tc.method, tc.url, resp.StatusCode)
		}
	}
}

func TestProcessTransitionsAndConflicts(t *testing.T) {
	srv, codec := newTestServer(t)
	auth := bearerFor(t, codec, "a@x.com")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/payments/orders", auth,
		map[string]any{"amount": 1000, "currency": "INR"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status = %d", resp.StatusCode)
	}
	var created paymentResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	processURL := fmt.Sprintf("%s/payments/%s/process", srv.URL, created.ID)

	resp, body = doJSON(t, http.MethodPost, processURL, auth, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("process: status = %d, body %s", resp.StatusCode, body)
	}
	var processed paymentResponse
	if err := json.Unmarshal(body, &processed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if processed.Status != "completed" {
		t.Fatalf("status = %q, want completed", processed.Status)
	}

	resp, _ = doJSON(t, http.MethodPost, processURL, auth, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second process: status = %d, want 409", resp.StatusCode)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	srv, codec := newTestServer(t)
	auth := bearerFor(t, codec, "a@x.com")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/payments/orders", auth,
		map[string]any{"amount": 1000, "currency": "INR", "description": "before"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status = %d", resp.StatusCode)
	}
	var created paymentResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	resp, body = doJSON(t, http.MethodPut, srv.URL+"/payments/"+created.ID, auth,
		map[string]any{"amount": 2500, "description": "after"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status = %d, body %s", resp.StatusCode, body)
	}
	var updated paymentResponse
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Amount != 2500 || updated.Description != "after" {
		t.Fatalf("update not applied: %+v", updated)
	}

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/payments/"+created.ID, auth, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: status = %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/payments/"+created.ID, auth, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: status = %d, want 404", resp.StatusCode)
	}
}

func TestRoutesRequireBearerToken(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, tc := range []struct {
		method string
		url    string
	}{
		{http.MethodPost, srv.URL + "/payments/orders"},
		{http.MethodGet, srv.URL + "/payments"},
		{http.MethodGet, srv.URL + "/payments/some-id"},
		{http.MethodPost, srv.URL + "/payments/verify"},
	} {
		resp, _ := doJSON(t, tc.method, tc.url, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: status = %d, want 401", tc.method, tc.url, resp.StatusCode)
		}
	}
}

func TestCreateOrderRejectsBadInput(t *testing.T) {
	srv, codec := newTestServer(t)
	auth := bearerFor(t, codec, "a@x.com")

	// Non-positive amount.
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/payments/orders", auth,
		map[string]any{"amount": 0, "currency": "INR"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("zero amount: status = %d, want 400", resp.StatusCode)
	}

	// Unknown field.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/payments/orders", auth,
		map[string]any{"amount": 100, "currency": "INR", "bogus": true})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown field: status = %d, want 400", resp.StatusCode)
	}
}
