package gateway

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Order is the remote, provider-side record of an intent to pay.
type Order struct {
	ID       string
	Amount   int64 // minor units (paise)
	Currency string
}

// Client wraps the Razorpay SDK. Only order creation goes through the remote
// API; callback signatures are verified locally (see signature.go).
type Client struct {
	rz    *razorpay.Client
	keyID string
}

func NewClient(keyID, keySecret string) *Client {
	return &Client{rz: razorpay.NewClient(keyID, keySecret), keyID: keyID}
}

// KeyID is the public key the browser checkout widget needs.
func (c *Client) KeyID() string { return c.keyID }

func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		n := make(map[string]interface{}, len(notes))
		for k, v := range notes {
			n[k] = v
		}
		data["notes"] = n
	}
	res, err := c.rz.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	ord := &Order{Amount: amountMinor, Currency: currency}
	if id, ok := res["id"].(string); ok {
		ord.ID = id
	}
	if amt, ok := res["amount"].(float64); ok {
		ord.Amount = int64(amt)
	}
	if cur, ok := res["currency"].(string); ok {
		ord.Currency = cur
	}
	if ord.ID == "" {
		return nil, errors.New("gateway order response missing id")
	}
	return ord, nil
}
