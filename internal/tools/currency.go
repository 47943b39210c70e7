package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const exchangeRateURL = "https://api.exchangerate-api.com/v4/latest/"

// CurrencyProvider converts currency amounts using the free
// exchangerate-api.com endpoint. No API key is needed.
type CurrencyProvider struct {
	client  *http.Client
	baseURL string // test override
}

// Name implements Provider.
func (p *CurrencyProvider) Name() string { return "currency" }

// Query expects "amount FROM to TO", e.g. "100 USD to EUR".
func (p *CurrencyProvider) Query(ctx context.Context, text string) (string, error) {
	amount, from, to, err := parseCurrencyQuery(text)
	if err != nil {
		return "", err
	}

	base := p.baseURL
	if base == "" {
		base = exchangeRateURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+from, nil)
	if err != nil {
		return "", fmt.Errorf("build currency request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch exchange rates for %s: %w", from, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("exchange rate API returned status %d", resp.StatusCode)
	}

	var data struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decode exchange rate response: %w", err)
	}

	rate, ok := data.Rates[to]
	if !ok {
		return "", fmt.Errorf("no exchange rate from %s to %s", from, to)
	}

	return fmt.Sprintf("Currency Conversion:\n%.2f %s = %.2f %s\nExchange Rate: 1 %s = %.4f %s",
		amount, from, amount*rate, to, from, rate, to), nil
}

// parseCurrencyQuery parses "amount FROM to TO" in any letter case.
func parseCurrencyQuery(text string) (amount float64, from, to string, err error) {
	parts := strings.Fields(strings.ToUpper(strings.TrimSpace(text)))
	if len(parts) < 4 {
		return 0, "", "", fmt.Errorf("currency query %q must look like '100 USD to EUR'", text)
	}

	amount, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, "", "", fmt.Errorf("currency query %q has no leading amount", text)
	}

	for i := 2; i < len(parts)-1; i++ {
		if parts[i] == "TO" {
			return amount, parts[1], parts[i+1], nil
		}
	}
	return 0, "", "", fmt.Errorf("currency query %q is missing 'to'", text)
}
