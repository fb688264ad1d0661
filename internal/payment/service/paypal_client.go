package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	apperrors "github.com/asthalabs/shopperai/internal/errors"
	paymentDomain "github.com/asthalabs/shopperai/internal/payment/domain"
)

// tokenExpirySlack is subtracted from the reported token lifetime so a token
// is refreshed before it can expire mid-request.
const tokenExpirySlack = 60 * time.Second

// paypalClient implements PayPalClient against the PayPal REST API using
// OAuth2 client-credentials authentication with cached access tokens.
type paypalClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewPayPalClient creates a PayPal REST client. The baseURL selects the
// environment (sandbox or live).
func NewPayPalClient(baseURL, clientID, clientSecret string, timeout time.Duration) PayPalClient {
	return &paypalClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// token returns a valid access token, requesting a new one when the cached
// token is missing or about to expire.
func (p *paypalClient) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.accessToken != "" && time.Now().Before(p.tokenExpiry) {
		return p.accessToken, nil
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.baseURL+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"),
	)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to build token request")
	}
	req.SetBasicAuth(p.clientID, p.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(paymentDomain.ErrProcessorUnavailable, err.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", apperrors.Wrapf(
			paymentDomain.ErrProcessorUnavailable,
			"token request failed with status %d: %s", resp.StatusCode, string(body),
		)
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return "", apperrors.Wrap(err, "failed to decode token response")
	}

	p.accessToken = tokenResponse.AccessToken
	p.tokenExpiry = time.Now().Add(time.Duration(tokenResponse.ExpiresIn)*time.Second - tokenExpirySlack)

	return p.accessToken, nil
}

// do performs an authenticated JSON request and decodes the response into out.
func (p *paypalClient) do(ctx context.Context, method, path string, body any, out any) error {
	token, err := p.token(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return apperrors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(paymentDomain.ErrProcessorUnavailable, err.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return paymentDomain.ErrOrderNotFound
	case resp.StatusCode >= 400:
		responseBody, _ := io.ReadAll(resp.Body)
		return apperrors.Wrapf(
			paymentDomain.ErrProcessorUnavailable,
			"%s %s failed with status %d: %s", method, path, resp.StatusCode, string(responseBody),
		)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.Wrap(err, "failed to decode response body")
		}
	}

	return nil
}

// orderResponse is the subset of the PayPal order resource we consume.
type orderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Description string `json:"description"`
		Amount      struct {
			CurrencyCode string `json:"currency_code"`
			Value        string `json:"value"`
		} `json:"amount"`
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
				Amount struct {
					CurrencyCode string `json:"currency_code"`
					Value        string `json:"value"`
				} `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CreateOrder creates a new order with CAPTURE intent.
func (p *paypalClient) CreateOrder(
	ctx context.Context,
	amount, currency, description string,
) (*paymentDomain.Order, error) {
	// Accept display amounts like "$99.99"
	amount = strings.TrimSpace(strings.TrimPrefix(amount, "$"))

	request := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"description": description,
				"amount": map[string]any{
					"currency_code": currency,
					"value":         amount,
				},
			},
		},
	}

	var response orderResponse
	if err := p.do(ctx, http.MethodPost, "/v2/checkout/orders", request, &response); err != nil {
		return nil, err
	}

	return &paymentDomain.Order{
		ID:          response.ID,
		Status:      response.Status,
		Amount:      amount,
		Currency:    currency,
		Description: description,
	}, nil
}

// GetOrder retrieves the current state of an order.
func (p *paypalClient) GetOrder(ctx context.Context, orderID string) (*paymentDomain.Order, error) {
	var response orderResponse
	if err := p.do(ctx, http.MethodGet, "/v2/checkout/orders/"+orderID, nil, &response); err != nil {
		return nil, err
	}

	order := &paymentDomain.Order{
		ID:     response.ID,
		Status: response.Status,
	}
	if len(response.PurchaseUnits) > 0 {
		unit := response.PurchaseUnits[0]
		order.Amount = unit.Amount.Value
		order.Currency = unit.Amount.CurrencyCode
		order.Description = unit.Description
	}

	return order, nil
}

// CaptureOrder captures the payment for an approved order.
func (p *paypalClient) CaptureOrder(ctx context.Context, orderID string) (*paymentDomain.Capture, error) {
	var response orderResponse
	err := p.do(ctx, http.MethodPost, "/v2/checkout/orders/"+orderID+"/capture", struct{}{}, &response)
	if err != nil {
		return nil, err
	}

	capture := &paymentDomain.Capture{
		OrderID: orderID,
		Status:  response.Status,
	}
	if len(response.PurchaseUnits) > 0 && len(response.PurchaseUnits[0].Payments.Captures) > 0 {
		first := response.PurchaseUnits[0].Payments.Captures[0]
		capture.ID = first.ID
		capture.Amount = first.Amount.Value
		capture.Currency = first.Amount.CurrencyCode
	}

	return capture, nil
}

// RefundCapture refunds a captured payment. An empty amount refunds the full
// capture.
func (p *paypalClient) RefundCapture(
	ctx context.Context,
	captureID, amount, currency string,
) (*paymentDomain.Refund, error) {
	var request any = struct{}{}
	if amount != "" {
		request = map[string]any{
			"amount": map[string]any{
				"currency_code": currency,
				"value":         strings.TrimSpace(strings.TrimPrefix(amount, "$")),
			},
		}
	}

	var response struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Amount struct {
			CurrencyCode string `json:"currency_code"`
			Value        string `json:"value"`
		} `json:"amount"`
	}
	err := p.do(ctx, http.MethodPost, "/v2/payments/captures/"+captureID+"/refund", request, &response)
	if err != nil {
		return nil, err
	}

	return &paymentDomain.Refund{
		ID:        response.ID,
		CaptureID: captureID,
		Status:    response.Status,
		Amount:    response.Amount.Value,
		Currency:  response.Amount.CurrencyCode,
	}, nil
}
