package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clinixnote/backend/internal/service"
)

const (
	sandboxEndpoint = "https://sandbox.sslcommerz.com/gwprocess/v4/api.php"
	liveEndpoint    = "https://securepay.sslcommerz.com/gwprocess/v4/api.php"
)

// SSLCommerz opens hosted checkout sessions against the SSLCommerz v4 API.
type SSLCommerz struct {
	storeID   string
	storePass string
	endpoint  string
	client    *http.Client
	logger    *zap.Logger
}

func NewSSLCommerz(storeID, storePass string, live bool, logger *zap.Logger) *SSLCommerz {
	endpoint := sandboxEndpoint
	if live {
		endpoint = liveEndpoint
	}
	return &SSLCommerz{
		storeID:   storeID,
		storePass: storePass,
		endpoint:  endpoint,
		client:    &http.Client{Timeout: 15 * time.Second},
		logger:    logger,
	}
}

type sessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

func (g *SSLCommerz) CreateSession(ctx context.Context, s service.PaymentSession) (string, error) {
	form := url.Values{}
	form.Set("store_id", g.storeID)
	form.Set("store_passwd", g.storePass)
	form.Set("total_amount", strconv.FormatInt(s.Amount, 10))
	form.Set("currency", s.Currency)
	form.Set("tran_id", s.TranID)
	form.Set("success_url", s.SuccessURL)
	form.Set("fail_url", s.FailURL)
	form.Set("cancel_url", s.CancelURL)
	form.Set("cus_name", s.CustomerName)
	form.Set("cus_phone", s.CustomerPhone)
	form.Set("cus_email", "test@example.com")
	form.Set("cus_add1", "Dhaka")
	form.Set("cus_city", "Dhaka")
	form.Set("cus_country", "Bangladesh")
	form.Set("shipping_method", "NO")
	form.Set("product_name", s.ProductName)
	form.Set("product_category", "Health")
	form.Set("product_profile", "general")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	var out sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode gateway response: %w", err)
	}

	if out.GatewayPageURL == "" {
		g.logger.Warn("gateway refused session",
			zap.String("tran_id", s.TranID),
			zap.String("status", out.Status),
			zap.String("reason", out.FailedReason),
		)
		return "", fmt.Errorf("failed to create payment session: %s", out.FailedReason)
	}
	return out.GatewayPageURL, nil
}
