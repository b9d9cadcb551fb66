// Package workink talks to the work.ink link-locker API, which gates item
// delivery behind a task the requester completes in the browser.
package workink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"

	"github.com/ruthless-bot/ruthless/internal/domain/claims"
)

const (
	DefaultBaseURL = "https://dashboard.work.ink/_api/v1"
	DefaultDomain  = "w.ink"
)

type Config struct {
	BaseURL string
	APIKey  string
	// BotName prefixes every link title.
	BotName string
	// DeliveryURL is where the requester lands after finishing the task.
	DeliveryURL string
	Domain      string
	Timeout     time.Duration
}

type Client struct {
	cfg   Config
	http  *http.Client
	newID func() string
}

type createLinkRequest struct {
	Title           string `json:"title"`
	LinkDescription string `json:"link_description"`
	Destination     string `json:"destination"`
	Domain          string `json:"f_domain"`
	Custom          string `json:"custom"`
}

type createLinkResponse struct {
	Link string `json:"link"`
}

type linkStatusResponse struct {
	Completed bool `json:"completed"`
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Domain == "" {
		cfg.Domain = DefaultDomain
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.DeliveryURL = strings.TrimRight(cfg.DeliveryURL, "/")

	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		newID: shortID,
	}
}

// shortID is the first 8 characters of a random UUID.
func shortID() string {
	return uuid.NewString()[:8]
}

// CreateLink issues a link whose custom id doubles as the link id used
// for status polling.
func (c *Client) CreateLink(ctx context.Context, requester snowflake.ID, module string, _ string) (claims.Link, error) {
	id := c.newID()
	payload := createLinkRequest{
		Title:           fmt.Sprintf("%s - %s", c.cfg.BotName, module),
		LinkDescription: fmt.Sprintf("Complete the task to get your %s account", module),
		Destination:     fmt.Sprintf("%s/delivery/%s/%s", c.cfg.DeliveryURL, requester, id),
		Domain:          c.cfg.Domain,
		Custom:          id,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return claims.Link{}, fmt.Errorf("failed to encode link request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/link", bytes.NewReader(body))
	if err != nil {
		return claims.Link{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return claims.Link{}, fmt.Errorf("work.ink request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode != http.StatusOK {
		return claims.Link{}, fmt.Errorf("work.ink link creation returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out createLinkResponse
	if err = json.Unmarshal(raw, &out); err != nil {
		return claims.Link{}, fmt.Errorf("failed to decode link response: %w", err)
	}
	if out.Link == "" {
		out.Link = fmt.Sprintf("https://%s/%s", c.cfg.Domain, id)
	}
	return claims.Link{URL: out.Link, ID: id}, nil
}

// IsComplete reports whether the link's task was finished. A link the
// service does not know about is reported as incomplete, not as an error.
func (c *Client) IsComplete(ctx context.Context, linkID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/link/"+url.PathEscape(linkID), nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("X-Api-Key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("work.ink status request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("work.ink status returned %d", resp.StatusCode)
	}

	var out linkStatusResponse
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("failed to decode status response: %w", err)
	}
	return out.Completed, nil
}
