package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client polls the auction platform API. Requests are rate limited so that
// high-frequency polling during final hours stays within the platform's
// tolerance.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
	now     func() time.Time
}

// NewClient creates a new platform API client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// auctionFilter mirrors the platform's lot listing filter payload.
type auctionFilter struct {
	PlateFilterRequest map[string]any `json:"PlateFilterRequest"`
	PageSize           int            `json:"PageSize"`
	PageIndex          int            `json:"PageIndex"`
	IsDesc             bool           `json:"IsDesc"`
}

// FetchAuctionSnapshot fetches the currently-listed auction lots for a region.
// A platform "invalid type" rejection means the region has no running auction
// and yields an inactive snapshot, not an error.
func (c *Client) FetchAuctionSnapshot(ctx context.Context, region Region) (*AuctionSnapshot, error) {
	payload := auctionFilter{
		PlateFilterRequest: map[string]any{
			"PlateTypeIds":           map[string]any{"Filter": []int{}, "IsSelected": false},
			"PlateNumberDigitsCount": map[string]any{"Filter": []int{}, "IsSelected": false},
			"Codes":                  map[string]any{"Filter": []string{}, "IsSelected": false},
			"EndDates":               map[string]any{"Filter": []string{}, "IsSelected": false},
			"Prices":                 map[string]any{},
			"IsExactSearch":          false,
			"AuctionTypeId":          region.AuctionTypeID,
		},
		PageSize: c.cfg.PageSize,
	}

	status, body, err := c.post(ctx, c.cfg.BaseURL+"/Plates", region, payload)
	if err != nil {
		return nil, err
	}

	if status == http.StatusBadRequest {
		if strings.Contains(string(body), "invalid.typeid") {
			return &AuctionSnapshot{IsActive: false}, nil
		}
		return nil, fmt.Errorf("auction listing rejected for %s: %s", region.Key, string(body))
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("auction listing for %s returned status %d", region.Key, status)
	}

	snap, err := parseAuctionResponse(body, c.now())
	if err != nil {
		return nil, fmt.Errorf("failed to parse auction listing for %s: %w", region.Key, err)
	}
	return snap, nil
}

// buyNowFilter mirrors the platform's buy-now listing filter payload.
type buyNowFilter struct {
	PlateFilterRequest map[string]any `json:"PlateFilterRequest"`
	PageSize           int            `json:"PageSize"`
	PageIndex          int            `json:"PageIndex"`
}

// FetchBuyNowSnapshot fetches the currently-available buy-now items for a
// region. Regions without a buy-now section and platform rejections yield an
// unavailable snapshot.
func (c *Client) FetchBuyNowSnapshot(ctx context.Context, region Region) (*BuyNowSnapshot, error) {
	if !region.HasBuyNow() {
		return &BuyNowSnapshot{IsAvailable: false}, nil
	}

	payload := buyNowFilter{
		PlateFilterRequest: map[string]any{
			"AuctionTypeId": region.BuyNowTypeID,
		},
		PageSize: c.cfg.BuyNowPageSize,
	}

	status, body, err := c.post(ctx, c.cfg.BaseURL+"/PlatesBuyNow", region, payload)
	if err != nil {
		return nil, err
	}

	// A 400 here means no buy-now list is currently active.
	if status == http.StatusBadRequest {
		return &BuyNowSnapshot{IsAvailable: false}, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("buy-now listing for %s returned status %d", region.Key, status)
	}

	snap, err := parseBuyNowResponse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse buy-now listing for %s: %w", region.Key, err)
	}
	return snap, nil
}

// post sends a rate-limited JSON POST and returns the status code and body.
func (c *Client) post(ctx context.Context, url string, region Region, payload any) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Referer", "https://www.emiratesauction.com/plates/"+region.URLSlug)
	req.Header.Set("Origin", "https://www.emiratesauction.com")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return resp.StatusCode, body, nil
}
