package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Order is the gateway-side order a payment is opened against.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// Gateway creates orders with an external payment provider.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (Order, error)
}

// GatewayConfig carries the provider endpoint and API credentials.
type GatewayConfig struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Timeout   time.Duration
}

const (
	gatewayURLEnvKey    = "PAGO_GATEWAY_URL"
	gatewayKeyEnvKey    = "PAGO_GATEWAY_KEY_ID"
	gatewaySecretEnvKey = "PAGO_GATEWAY_KEY_SECRET"
)

// GatewayConfigFromEnv reads the provider settings from the environment.
// An empty base URL means no gateway is configured.
func GatewayConfigFromEnv() GatewayConfig {
	return GatewayConfig{
		BaseURL:   strings.TrimRight(strings.TrimSpace(os.Getenv(gatewayURLEnvKey)), "/"),
		KeyID:     strings.TrimSpace(os.Getenv(gatewayKeyEnvKey)),
		KeySecret: strings.TrimSpace(os.Getenv(gatewaySecretEnvKey)),
		Timeout:   10 * time.Second,
	}
}

func (c GatewayConfig) Configured() bool { return c.BaseURL != "" }

// HTTPGateway talks to a Razorpay-style orders endpoint over HTTPS with
// basic-auth API credentials.
type HTTPGateway struct {
	cfg    GatewayConfig
	client *http.Client
}

func NewHTTPGateway(cfg GatewayConfig) (*HTTPGateway, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("payments: gateway base URL is empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &HTTPGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

func (g *HTTPGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (Order, error) {
	body, err := json.Marshal(createOrderRequest{Amount: amount, Currency: currency, Receipt: receipt})
	if err != nil {
		return Order{}, OpError{Op: "payments.CreateOrder", Kind: ErrGateway}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return Order{}, OpError{Op: "payments.CreateOrder", Kind: ErrGateway}
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.cfg.KeyID, g.cfg.KeySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return Order{}, OpError{Op: "payments.CreateOrder", Kind: ErrGateway, Msg: "order creation failed"}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Order{}, OpError{
			Op:   "payments.CreateOrder",
			Kind: ErrGateway,
			Msg:  fmt.Sprintf("gateway returned status %d", resp.StatusCode),
		}
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return Order{}, OpError{Op: "payments.CreateOrder", Kind: ErrGateway, Msg: "malformed gateway response"}
	}
	if order.ID == "" {
		return Order{}, OpError{Op: "payments.CreateOrder", Kind: ErrGateway, Msg: "gateway order missing id"}
	}
	return order, nil
}

// NoopGateway fabricates orders locally. It is the development default
// when no provider is configured.
type NoopGateway struct{}

func (NoopGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (Order, error) {
	return Order{
		ID:       "order_" + receipt,
		Amount:   amount,
		Currency: currency,
		Status:   "created",
	}, nil
}
