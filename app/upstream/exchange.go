package upstream

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// Rate is a conversion rate between two currency codes.
type Rate struct {
	From string
	To   string
	// Value keeps the upstream spelling.
	Value json.Number
}

type exchangeResponse struct {
	Success *bool `json:"success"`
	Info    struct {
		Rate json.Number `json:"rate"`
	} `json:"info"`
	Error *struct {
		Code json.Number `json:"code"`
		Type string      `json:"type"`
		Info string      `json:"info"`
	} `json:"error"`
}

// ExchangeClient queries the exchangerate.host convert endpoint.
type ExchangeClient struct {
	client    *Client
	baseURL   string
	accessKey string
}

// NewExchangeClient builds an ExchangeClient; accessKey may be empty.
func NewExchangeClient(c *Client, baseURL, accessKey string) *ExchangeClient {
	return &ExchangeClient{client: c, baseURL: baseURL, accessKey: accessKey}
}

// Rate returns the rate for converting one unit of from into to. Codes are
// passed through unchanged.
func (e *ExchangeClient) Rate(ctx context.Context, from, to string) (Rate, error) {
	q := url.Values{"from": {from}, "to": {to}}
	if e.accessKey != "" {
		q.Set("access_key", e.accessKey)
	}

	var resp exchangeResponse
	status, err := e.client.getJSON(ctx, NameExchange, e.baseURL+"/convert", q, &resp)
	if err != nil {
		return Rate{}, err
	}

	switch {
	case resp.Error != nil:
		msg := resp.Error.Info
		if msg == "" {
			msg = resp.Error.Type
		}
		return Rate{}, &Error{Upstream: NameExchange, Status: status, Code: resp.Error.Code.String(), Message: msg}
	case resp.Success != nil && !*resp.Success:
		return Rate{}, &Error{Upstream: NameExchange, Status: status, Code: strconv.Itoa(status), Message: "request was not successful"}
	case resp.Info.Rate == "":
		return Rate{}, &Error{Upstream: NameExchange, Status: status, Code: strconv.Itoa(status), Message: "rate missing from response"}
	}
	return Rate{From: from, To: to, Value: resp.Info.Rate}, nil
}
