package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// CatURL returns a cat picture URL made unique by a timestamp query parameter
// so Telegram does not serve a cached image. No request is made; Telegram
// fetches the picture itself.
func CatURL(base string, now time.Time) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("a", now.UTC().Format(time.RFC3339Nano))
	u.RawQuery = q.Encode()
	return u.String()
}

// DogClient fetches random dog picture URLs from random.dog.
type DogClient struct {
	client   *Client
	endpoint string
}

// NewDogClient builds a DogClient for the woof.json endpoint.
func NewDogClient(c *Client, endpoint string) *DogClient {
	return &DogClient{client: c, endpoint: endpoint}
}

// RandomURL returns the URL of a random dog picture.
func (d *DogClient) RandomURL(ctx context.Context) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	status, err := d.client.getJSON(ctx, NameDog, d.endpoint, nil, &resp)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK || resp.URL == "" {
		return "", &Error{Upstream: NameDog, Status: status, Code: strconv.Itoa(status), Message: "no picture url in response"}
	}
	return resp.URL, nil
}
