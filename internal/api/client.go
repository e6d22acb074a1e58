package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// DefaultMethod is the Diyanet İşleri Başkanlığı (Turkey) calculation method.
const DefaultMethod = 13

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: defaultBaseURL,
	}
}

// envelope is the top-level shape shared by every response. On errors the
// provider sends data as a plain message string, so it is decoded only after
// the code is checked.
type envelope struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// TimingsByCity fetches one day of timings for the given city and country.
func (c *Client) TimingsByCity(ctx context.Context, date time.Time, city, country string, method int) (*Response, error) {
	endpoint := fmt.Sprintf("%s/timingsByCity/%s", c.BaseURL, date.Format("02-01-2006"))

	var resp Response
	env, err := c.doRequest(ctx, endpoint, cityParams(city, country, method), &resp.Data)
	if err != nil {
		return nil, err
	}
	resp.Code, resp.Status = env.Code, env.Status
	return &resp, nil
}

// CalendarByCity fetches a whole month of timings for the given city and country.
func (c *Client) CalendarByCity(ctx context.Context, year int, month time.Month, city, country string, method int) (*CalendarResponse, error) {
	endpoint := c.BaseURL + "/calendarByCity"

	params := cityParams(city, country, method)
	params.Set("month", strconv.Itoa(int(month)))
	params.Set("year", strconv.Itoa(year))

	var resp CalendarResponse
	env, err := c.doRequest(ctx, endpoint, params, &resp.Data)
	if err != nil {
		return nil, err
	}
	resp.Code, resp.Status = env.Code, env.Status
	return &resp, nil
}

func cityParams(city, country string, method int) url.Values {
	params := url.Values{}
	params.Set("city", city)
	params.Set("country", country)
	if method >= 0 {
		params.Set("method", strconv.Itoa(method))
	}
	return params
}

// doRequest performs the GET, checks the envelope code and decodes the data
// payload into out.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, out any) (envelope, error) {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	var env envelope
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return env, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return env, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return env, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return env, fmt.Errorf("failed to decode API response: %w", err)
	}

	if env.Code != http.StatusOK {
		var msg string
		if json.Unmarshal(env.Data, &msg) != nil {
			msg = env.Status
		}
		return env, fmt.Errorf("API error: code=%d status=%s: %s", env.Code, env.Status, msg)
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return env, fmt.Errorf("failed to decode API response data: %w", err)
	}

	return env, nil
}
