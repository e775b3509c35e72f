// Package billing provisions Stripe resources for a new project: a
// product, a price, a payment link, and a webhook endpoint.
//
// The payment-link chain is three strictly sequential calls, each
// consuming the identifier returned by the previous one. There is no
// retry and no rollback: whatever was created before a failing call
// stays behind, and the error names the call that failed.
package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arthur-debert/launchpad/pkg/errors"
	"github.com/arthur-debert/launchpad/pkg/logging"
	"github.com/arthur-debert/launchpad/pkg/params"
)

// DefaultBaseURL is the live Stripe API endpoint.
const DefaultBaseURL = "https://api.stripe.com/v1"

// WebhookEvent is the only event type a provisioned endpoint ever
// subscribes to.
const WebhookEvent = "checkout.session.completed"

// Client is a minimal Stripe API client. Requests are form-encoded
// POSTs authenticated with the secret key as a bearer credential.
type Client struct {
	BaseURL    string
	Key        string
	HTTPClient *http.Client
}

// New creates a client for the live Stripe API.
func New(secretKey string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		Key:        secretKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// PaymentLink is the result of the product → price → payment-link chain.
type PaymentLink struct {
	ProductID string
	PriceID   string
	URL       string
}

// WebhookEndpoint is the result of webhook registration. Secret is the
// signing secret, revealed only in the creation response.
type WebhookEndpoint struct {
	ID     string
	Secret string
}

type productResponse struct {
	ID string `json:"id"`
}

type priceResponse struct {
	ID string `json:"id"`
}

type paymentLinkResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type webhookResponse struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

// CreatePaymentLink runs the three-call provisioning chain: create a
// product named after the project title, a USD price on that product,
// and a payment link selling one unit of that price.
//
// When p.Price is nil the price has no fixed amount and the customer
// chooses what to pay; otherwise the amount is fixed at the supplied
// value, converted to cents.
func (c *Client) CreatePaymentLink(ctx context.Context, p *params.ProjectParameters) (*PaymentLink, error) {
	logger := logging.GetLogger("billing")

	var product productResponse
	if err := c.post(ctx, "create product", "/products", url.Values{
		"name": {p.Title},
	}, &product); err != nil {
		return nil, err
	}
	logger.Debug().Str("product", product.ID).Msg("Product created")

	form := url.Values{
		"product":  {product.ID},
		"currency": {"usd"},
	}
	if p.Price != nil {
		form.Set("unit_amount", fmt.Sprintf("%d", toCents(*p.Price)))
	} else {
		form.Set("custom_unit_amount[enabled]", "true")
	}
	var price priceResponse
	if err := c.post(ctx, "create price", "/prices", form, &price); err != nil {
		return nil, err
	}
	logger.Debug().Str("price", price.ID).Msg("Price created")

	var link paymentLinkResponse
	if err := c.post(ctx, "create payment link", "/payment_links", url.Values{
		"line_items[0][price]":    {price.ID},
		"line_items[0][quantity]": {"1"},
	}, &link); err != nil {
		return nil, err
	}
	logger.Info().Str("url", link.URL).Msg("Payment link created")

	return &PaymentLink{ProductID: product.ID, PriceID: price.ID, URL: link.URL}, nil
}

// CreateWebhook registers https://<domain>/stripe-webhook for exactly
// the checkout.session.completed event and returns the endpoint's
// signing secret. The secret is only ever present in this response;
// losing it means recreating the endpoint.
func (c *Client) CreateWebhook(ctx context.Context, domain string) (*WebhookEndpoint, error) {
	logger := logging.GetLogger("billing")

	var endpoint webhookResponse
	if err := c.post(ctx, "create webhook", "/webhook_endpoints", url.Values{
		"url":               {fmt.Sprintf("https://%s/stripe-webhook", domain)},
		"enabled_events[0]": {WebhookEvent},
	}, &endpoint); err != nil {
		return nil, err
	}
	logger.Info().Str("endpoint", endpoint.ID).Msg("Webhook endpoint created")

	return &WebhookEndpoint{ID: endpoint.ID, Secret: endpoint.Secret}, nil
}

// post sends one form-encoded API call and decodes the JSON response.
// step names the call in BILLING_API errors so a failed chain reports
// exactly where it stopped.
func (c *Client) post(ctx context.Context, step, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrapf(err, errors.ErrBillingAPI, "%s failed", step)
	}
	req.Header.Set("Authorization", "Bearer "+c.Key)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, errors.ErrBillingAPI, "%s failed", step).WithDetail("step", step)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, errors.ErrBillingAPI, "%s: reading response failed", step).WithDetail("step", step)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Newf(errors.ErrBillingAPI, "%s failed with status %d", step, resp.StatusCode).
			WithDetail("step", step).
			WithDetail("body", string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, errors.ErrBillingAPI, "%s: decoding response failed", step).WithDetail("step", step)
	}
	return nil
}

// toCents converts a major-unit amount to minor units, rounded to the
// nearest cent.
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
