package upstream

import (
	"context"
	"encoding/json"
	"net/url"
)

// Weather is the current weather for a location. Numbers keep the spelling
// used by the upstream JSON.
type Weather struct {
	Name        string
	Country     string
	Description string
	Temp        json.Number
	FeelsLike   json.Number
	WindSpeed   json.Number
}

// looseCode accepts both 200 and "404"; OpenWeatherMap uses either.
type looseCode string

func (c *looseCode) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = looseCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = looseCode(n.String())
	return nil
}

type weatherResponse struct {
	Cod     looseCode `json:"cod"`
	Message string    `json:"message"`
	Name    string    `json:"name"`
	Sys     struct {
		Country string `json:"country"`
	} `json:"sys"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      json.Number `json:"temp"`
		FeelsLike json.Number `json:"feels_like"`
	} `json:"main"`
	Wind struct {
		Speed json.Number `json:"speed"`
	} `json:"wind"`
}

// WeatherClient queries the OpenWeatherMap current weather endpoint.
type WeatherClient struct {
	client  *Client
	baseURL string
	apiKey  string
}

// NewWeatherClient builds a WeatherClient for baseURL (scheme and host, no path).
func NewWeatherClient(c *Client, baseURL, apiKey string) *WeatherClient {
	return &WeatherClient{client: c, baseURL: baseURL, apiKey: apiKey}
}

// Current returns the current metric weather for location. Errors reported by
// the API come back as *Error with the upstream cod and message.
func (w *WeatherClient) Current(ctx context.Context, location string) (Weather, error) {
	var resp weatherResponse
	status, err := w.client.getJSON(ctx, NameWeather, w.baseURL+"/data/2.5/weather", url.Values{
		"q":     {location},
		"appid": {w.apiKey},
		"units": {"metric"},
	}, &resp)
	if err != nil {
		return Weather{}, err
	}
	if resp.Cod != "200" {
		return Weather{}, &Error{
			Upstream: NameWeather,
			Status:   status,
			Code:     string(resp.Cod),
			Message:  resp.Message,
		}
	}

	out := Weather{
		Name:      resp.Name,
		Country:   resp.Sys.Country,
		Temp:      resp.Main.Temp,
		FeelsLike: resp.Main.FeelsLike,
		WindSpeed: resp.Wind.Speed,
	}
	if len(resp.Weather) > 0 {
		out.Description = resp.Weather[0].Description
	}
	return out, nil
}
