package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"huefolio/internal/domain"
)

// QuoteClient fetches current prices from the quote service
type QuoteClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewQuoteClient creates a new QuoteClient
func NewQuoteClient(baseURL, apiKey string) *QuoteClient {
	return &QuoteClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// quoteResponse is the quote service's wire shape
type quoteResponse struct {
	CompanyName string  `json:"companyName"`
	Symbol      string  `json:"symbol"`
	LatestPrice float64 `json:"latestPrice"`
}

// Lookup fetches the current quote for a symbol. Unknown symbols return
// ErrSymbolNotFound; anything else (unreachable service, unexpected shape)
// surfaces as a plain error.
func (c *QuoteClient) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	reqURL := fmt.Sprintf("%s/stock/%s/quote?token=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call quote service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrSymbolNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("quote service returned error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var qr quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}

	return &domain.Quote{
		Name:   qr.CompanyName,
		Symbol: qr.Symbol,
		Price:  qr.LatestPrice,
	}, nil
}
