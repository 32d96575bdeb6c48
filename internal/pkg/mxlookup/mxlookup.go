package mxlookup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

const lookupTimeout = 2 * time.Second

// Checker probes whether a domain can receive mail, via a DNS-over-HTTPS
// resolver. Lookup failure or timeout counts as "no MX".
type Checker struct {
	endpoint string
	client   *http.Client
}

// New creates a Checker against a resolver endpoint compatible with the
// Google DNS JSON API (e.g. https://dns.google/resolve).
func New(endpoint string) *Checker {
	return &Checker{
		endpoint: endpoint,
		client:   &http.Client{Timeout: lookupTimeout},
	}
}

type dohResponse struct {
	Answer []struct {
		Name string `json:"name"`
		Type int    `json:"type"`
		Data string `json:"data"`
	} `json:"Answer"`
}

// HasMX reports whether the domain resolves at least one MX record.
// The lookup is bounded by a 2-second timeout.
func (c *Checker) HasMX(ctx context.Context, domain string) bool {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("name", domain)
	q.Set("type", "MX")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}

	var data dohResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return false
	}
	return len(data.Answer) > 0
}
