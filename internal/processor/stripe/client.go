package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulsefit/pulsefit/internal/processor/domain"
)

// Client talks to the Stripe REST API with form-encoded requests. Only the
// endpoints the earnings and payout flows need are implemented.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func New(apiKey, baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: baseURL,
		client:  &http.Client{Timeout: 12 * time.Second},
	}
}

type wireBalanceAmount struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type wireBalance struct {
	Available []wireBalanceAmount `json:"available"`
	Pending   []wireBalanceAmount `json:"pending"`
}

type wirePayout struct {
	ID          string `json:"id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	ArrivalDate int64  `json:"arrival_date"`
	Created     int64  `json:"created"`
}

type wireTransfer struct {
	ID          string `json:"id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Destination string `json:"destination"`
	Reversed    bool   `json:"reversed"`
	Created     int64  `json:"created"`
}

type wireCharge struct {
	ID            string `json:"id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	Paid          bool   `json:"paid"`
	PaymentIntent string `json:"payment_intent"`
	Destination   string `json:"destination"`
	Customer      string `json:"customer"`
	Description   string `json:"description"`
	Created       int64  `json:"created"`
}

type wirePaymentIntent struct {
	ID             string `json:"id"`
	Amount         int64  `json:"amount"`
	AmountReceived int64  `json:"amount_received"`
	Currency       string `json:"currency"`
	Status         string `json:"status"`
	LatestCharge   string `json:"latest_charge"`
	Customer       string `json:"customer"`
	Created        int64  `json:"created"`
}

type wireList[T any] struct {
	Data []T `json:"data"`
}

type wireError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) GetBalance(ctx context.Context, accountID string) (domain.Balance, error) {
	if strings.TrimSpace(accountID) == "" {
		return domain.Balance{}, domain.ErrMissingAccount
	}
	body, err := c.doRequest(ctx, http.MethodGet, "/v1/balance", nil, accountID, "")
	if err != nil {
		return domain.Balance{}, err
	}

	var balance wireBalance
	if err := json.Unmarshal(body, &balance); err != nil {
		return domain.Balance{}, domain.ErrInvalidResponse
	}

	out := domain.Balance{}
	for _, a := range balance.Available {
		out.Available = append(out.Available, domain.BalanceAmount{Amount: a.Amount, Currency: a.Currency})
	}
	for _, p := range balance.Pending {
		out.Pending = append(out.Pending, domain.BalanceAmount{Amount: p.Amount, Currency: p.Currency})
	}
	return out, nil
}

func (c *Client) ListPayouts(ctx context.Context, accountID string, limit int) ([]domain.Payout, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, domain.ErrMissingAccount
	}
	body, err := c.doRequest(ctx, http.MethodGet, "/v1/payouts?"+limitQuery(limit), nil, accountID, "")
	if err != nil {
		return nil, err
	}

	var list wireList[wirePayout]
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, domain.ErrInvalidResponse
	}

	payouts := make([]domain.Payout, 0, len(list.Data))
	for _, p := range list.Data {
		payouts = append(payouts, domain.Payout{
			ID:          p.ID,
			Amount:      p.Amount,
			Currency:    p.Currency,
			Status:      p.Status,
			ArrivalDate: unixTime(p.ArrivalDate),
			Created:     unixTime(p.Created),
		})
	}
	return payouts, nil
}

func (c *Client) ListTransfers(ctx context.Context, destinationAccountID string, limit int) ([]domain.Transfer, error) {
	if strings.TrimSpace(destinationAccountID) == "" {
		return nil, domain.ErrMissingAccount
	}
	query := url.Values{}
	query.Set("destination", destinationAccountID)
	query.Set("limit", strconv.Itoa(normalizeLimit(limit)))
	body, err := c.doRequest(ctx, http.MethodGet, "/v1/transfers?"+query.Encode(), nil, "", "")
	if err != nil {
		return nil, err
	}

	var list wireList[wireTransfer]
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, domain.ErrInvalidResponse
	}

	transfers := make([]domain.Transfer, 0, len(list.Data))
	for _, t := range list.Data {
		transfers = append(transfers, domain.Transfer{
			ID:          t.ID,
			Amount:      t.Amount,
			Currency:    t.Currency,
			Destination: t.Destination,
			Reversed:    t.Reversed,
			Created:     unixTime(t.Created),
		})
	}
	return transfers, nil
}

func (c *Client) ListCharges(ctx context.Context, limit int) ([]domain.Charge, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/v1/charges?"+limitQuery(limit), nil, "", "")
	if err != nil {
		return nil, err
	}

	var list wireList[wireCharge]
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, domain.ErrInvalidResponse
	}

	charges := make([]domain.Charge, 0, len(list.Data))
	for _, ch := range list.Data {
		charges = append(charges, domain.Charge{
			ID:              ch.ID,
			Amount:          ch.Amount,
			Currency:        ch.Currency,
			Status:          ch.Status,
			Paid:            ch.Paid,
			PaymentIntentID: ch.PaymentIntent,
			Destination:     ch.Destination,
			CustomerID:      ch.Customer,
			Description:     ch.Description,
			Created:         unixTime(ch.Created),
		})
	}
	return charges, nil
}

func (c *Client) ListPaymentIntents(ctx context.Context, accountID string, limit int) ([]domain.PaymentIntent, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, domain.ErrMissingAccount
	}
	body, err := c.doRequest(ctx, http.MethodGet, "/v1/payment_intents?"+limitQuery(limit), nil, accountID, "")
	if err != nil {
		return nil, err
	}

	var list wireList[wirePaymentIntent]
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, domain.ErrInvalidResponse
	}

	intents := make([]domain.PaymentIntent, 0, len(list.Data))
	for _, pi := range list.Data {
		intents = append(intents, domain.PaymentIntent{
			ID:             pi.ID,
			Amount:         pi.Amount,
			AmountReceived: pi.AmountReceived,
			Currency:       pi.Currency,
			Status:         pi.Status,
			LatestChargeID: pi.LatestCharge,
			CustomerID:     pi.Customer,
			Created:        unixTime(pi.Created),
		})
	}
	return intents, nil
}

func (c *Client) CreatePayout(ctx context.Context, accountID string, amount int64, currency string) (domain.Payout, error) {
	if strings.TrimSpace(accountID) == "" {
		return domain.Payout{}, domain.ErrMissingAccount
	}
	if amount <= 0 {
		return domain.Payout{}, domain.ErrInvalidAmount
	}

	values := url.Values{}
	values.Set("amount", strconv.FormatInt(amount, 10))
	values.Set("currency", strings.ToLower(strings.TrimSpace(currency)))

	body, err := c.doRequest(ctx, http.MethodPost, "/v1/payouts", values, accountID, uuid.NewString())
	if err != nil {
		return domain.Payout{}, err
	}

	var payout wirePayout
	if err := json.Unmarshal(body, &payout); err != nil {
		return domain.Payout{}, domain.ErrInvalidResponse
	}
	if payout.ID == "" {
		return domain.Payout{}, domain.ErrInvalidResponse
	}
	return domain.Payout{
		ID:          payout.ID,
		Amount:      payout.Amount,
		Currency:    payout.Currency,
		Status:      payout.Status,
		ArrivalDate: unixTime(payout.ArrivalDate),
		Created:     unixTime(payout.Created),
	}, nil
}

func (c *Client) doRequest(
	ctx context.Context,
	method string,
	path string,
	values url.Values,
	accountID string,
	idempotencyKey string,
) ([]byte, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}

	var bodyReader *strings.Reader
	if values != nil {
		bodyReader = strings.NewReader(values.Encode())
	} else {
		bodyReader = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if values != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	if accountID != "" {
		req.Header.Set("Stripe-Account", accountID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr wireError
		if err := json.Unmarshal(body, &apiErr); err != nil {
			return nil, domain.ErrRequestFailed
		}
		message := strings.TrimSpace(apiErr.Error.Message)
		if message == "" {
			return nil, domain.ErrRequestFailed
		}
		return nil, errors.New(message)
	}

	return body, nil
}

func limitQuery(limit int) string {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(normalizeLimit(limit)))
	return query.Encode()
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}

func unixTime(ts int64) time.Time {
	if ts <= 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
