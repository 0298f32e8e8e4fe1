package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pinfinity1/tiamara-sub002/models"
	"github.com/pinfinity1/tiamara-sub002/order"
)

// ErrInvalidCallback marks a gateway notification that failed authentication
// or referenced nothing we know. It never touches order state.
var ErrInvalidCallback = errors.New("invalid gateway callback")

// Customer is the buyer detail block the gateway's hosted page shows.
type Customer struct {
	Name         string
	Email        string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	Region       string
	Country      string
	Postcode     string
}

type createResponse struct {
	Order struct {
		Ref string `json:"ref"`
		URL string `json:"url"`
	} `json:"order"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Gateway requests hosted payment sessions from Telr and interprets its
// asynchronous callbacks.
type Gateway struct {
	cfg      *Config
	client   *http.Client
	orders   order.Repository
	attempts AttemptRepository
}

func NewGateway(cfg *Config, orders order.Repository, attempts AttemptRepository) *Gateway {
	return &Gateway{
		cfg:      cfg,
		client:   &http.Client{Timeout: 30 * time.Second},
		orders:   orders,
		attempts: attempts,
	}
}

// Initiate creates a payment session keyed by the order reference and the
// finalized total, and returns the URL the buyer's browser is redirected to
// together with the gateway's reference.
func (g *Gateway) Initiate(ctx context.Context, o *models.Order, customer Customer) (string, string, error) {
	payload := map[string]interface{}{
		"method":  "create",
		"store":   g.cfg.StoreID,
		"authkey": g.cfg.AuthKey,
		"order": map[string]interface{}{
			"cartid":      o.OrderRef,
			"test":        g.cfg.TestMode,
			"amount":      fmt.Sprintf("%.2f", o.TotalAmount),
			"currency":    g.cfg.Currency,
			"description": fmt.Sprintf("tiamara order %s", o.OrderRef),
		},
		"customer": map[string]interface{}{
			"name":  customer.Name,
			"email": customer.Email,
			"phone": customer.Phone,
			"address": map[string]string{
				"line1":    customer.AddressLine1,
				"line2":    customer.AddressLine2,
				"city":     customer.City,
				"region":   customer.Region,
				"country":  customer.Country,
				"postcode": customer.Postcode,
			},
		},
		"return": map[string]string{
			"authorised": g.cfg.SuccessURL,
			"declined":   g.cfg.FailureURL,
			"cancelled":  g.cfg.CancelURL,
		},
	}

	jsonData, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.APIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to reach Telr: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("telr API error (%d): %s", resp.StatusCode, string(body))
	}

	var telrResp createResponse
	if err := json.Unmarshal(body, &telrResp); err != nil {
		return "", "", fmt.Errorf("failed to parse Telr response: %w", err)
	}
	if telrResp.Error != nil {
		return "", "", fmt.Errorf("telr error: %s", telrResp.Error.Message)
	}
	if telrResp.Order.URL == "" {
		return "", "", fmt.Errorf("telr returned empty payment URL")
	}

	if err := g.orders.SetGatewayRef(ctx, o.ID, telrResp.Order.Ref); err != nil {
		return "", "", err
	}
	return telrResp.Order.URL, telrResp.Order.Ref, nil
}

// HandleCallback authenticates and parses one gateway notification. The
// resulting attempt is recorded before the caller may touch order state, so
// the audit trail survives even when the transition turns out to be a
// duplicate.
func (g *Gateway) HandleCallback(ctx context.Context, form url.Values) (*models.PaymentAttempt, *models.Order, error) {
	if !g.cfg.Sandbox && !VerifySignature(g.cfg.WebhookSecret, form) {
		return nil, nil, fmt.Errorf("%w: bad signature", ErrInvalidCallback)
	}

	orderRef := form.Get("tran_cartid")
	gatewayRef := form.Get("tran_ref")
	status := form.Get("tran_status")
	if orderRef == "" || gatewayRef == "" || status == "" {
		return nil, nil, fmt.Errorf("%w: missing fields", ErrInvalidCallback)
	}

	o, err := g.orders.GetByRef(ctx, orderRef)
	if errors.Is(err, order.ErrOrderNotFound) {
		return nil, nil, fmt.Errorf("%w: unknown order reference %s", ErrInvalidCallback, orderRef)
	}
	if err != nil {
		return nil, nil, err
	}

	attempt := &models.PaymentAttempt{
		AttemptID:  uuid.NewString(),
		OrderID:    o.ID,
		GatewayRef: gatewayRef,
		Outcome:    mapOutcome(status),
		ReceivedAt: time.Now(),
	}
	if err := g.attempts.Record(ctx, attempt); err != nil {
		return nil, nil, err
	}
	return attempt, o, nil
}

// mapOutcome folds Telr transaction statuses onto the three outcomes the
// order state machine understands. "A" is authorised; "C" cancelled;
// anything else (declined, expired, held) counts as a failure.
func mapOutcome(status string) models.PaymentOutcome {
	switch status {
	case "A":
		return models.PaymentOutcomeSuccess
	case "C":
		return models.PaymentOutcomeCancelled
	default:
		return models.PaymentOutcomeFailure
	}
}
