package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mist/models"
	"mist/monitoring"
)

// Offer is a single per-store offer exactly as the external comparison source
// presents it: decorated strings like "9.99 $" and "25%". Normalization into
// numerics happens here at the boundary; decorated text is never stored.
type Offer struct {
	Store       string `json:"store"`
	Price       string `json:"price"`
	RetailPrice string `json:"retail_price"`
	Savings     string `json:"savings"`
	DealLink    string `json:"deal_link"`
}

// Source looks up current offers for a game title. Injected so tests can
// substitute a deterministic fake for the real network source.
type Source interface {
	Search(ctx context.Context, title string) ([]Offer, error)
}

// HTTPSource queries the deals comparison endpoint of the import service.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource builds a source with a bounded request timeout; a hanging
// upstream counts as a fetch failure rather than stalling the handler.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type searchResponse struct {
	Title  string  `json:"title"`
	Image  string  `json:"image"`
	Prices []Offer `json:"prices"`
}

func (s *HTTPSource) Search(ctx context.Context, title string) ([]Offer, error) {
	endpoint := s.BaseURL + "/deals/search?title=" + url.QueryEscape(title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := s.Client.Do(req)
	monitoring.DealsLookupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("deals source returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("deals source returned malformed body: %w", err)
	}
	return body.Prices, nil
}

// parseAmount strips currency and percent decorations: "9.99 $" -> 9.99,
// "25%" -> 25.
func parseAmount(raw string) (float64, error) {
	trimmed := strings.TrimFunc(raw, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != '-'
	})
	if trimmed == "" {
		return 0, fmt.Errorf("no numeric value in %q", raw)
	}
	return strconv.ParseFloat(trimmed, 64)
}

// Normalize converts raw offers into numeric deals, keeping source order.
// Offers without a parseable sale price are dropped; retail price and savings
// fall back to zero when unparseable.
func Normalize(offers []Offer) []models.Deal {
	deals := make([]models.Deal, 0, len(offers))
	for _, o := range offers {
		price, err := parseAmount(o.Price)
		if err != nil {
			continue
		}
		retail, _ := parseAmount(o.RetailPrice)
		savings, _ := parseAmount(o.Savings)
		deals = append(deals, models.Deal{
			Store:       o.Store,
			Price:       price,
			RetailPrice: retail,
			Savings:     savings,
			DealLink:    o.DealLink,
		})
	}
	return deals
}
