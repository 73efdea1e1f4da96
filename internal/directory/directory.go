package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"coowner-backend/config"
)

// Client resolves user and vehicle display names from the member directory
// service. Lookups are best effort: any failure yields placeholders, never an
// error, so the scoring pipeline keeps going when the directory is down.
type Client struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
	ttl     time.Duration
}

// NewClient builds a directory client from config. An empty base URL is valid
// and short-circuits every lookup to placeholders.
func NewClient(cfg *config.DirectoryConfig) *Client {
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	return &Client{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

type namesRequest struct {
	UserIDs []string `json:"user_ids"`
}

type namesResponse struct {
	Names map[string]string `json:"names"`
}

// UserDisplayNames resolves names for a batch of users in one round trip.
// Missing or failed entries fall back to "User#<id>".
func (c *Client) UserDisplayNames(ctx context.Context, userIDs []string) map[string]string {
	names := make(map[string]string, len(userIDs))
	var misses []string
	for _, id := range userIDs {
		if cached, found := c.cache.Get(userKey(id)); found {
			names[id] = cached.(string)
		} else {
			misses = append(misses, id)
		}
	}
	if len(misses) == 0 {
		return names
	}

	fetched := c.fetchNames(ctx, misses)
	for _, id := range misses {
		name, ok := fetched[id]
		if !ok || name == "" {
			name = fmt.Sprintf("User#%s", id)
		} else {
			c.cache.Set(userKey(id), name, c.ttl)
		}
		names[id] = name
	}
	return names
}

// VehicleDisplayName resolves one vehicle name, falling back to "Vehicle#<id>".
func (c *Client) VehicleDisplayName(ctx context.Context, vehicleID int64) string {
	key := "vehicle:" + strconv.FormatInt(vehicleID, 10)
	if cached, found := c.cache.Get(key); found {
		return cached.(string)
	}

	fallback := fmt.Sprintf("Vehicle#%d", vehicleID)
	if c.baseURL == "" {
		return fallback
	}

	url := fmt.Sprintf("%s/vehicles/%d/name", c.baseURL, vehicleID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fallback
	}
	resp, err := c.client.Do(req)
	if err != nil {
		logrus.WithError(err).WithField("vehicle_id", vehicleID).Warn("vehicle name lookup failed, using placeholder")
		return fallback
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logrus.WithField("status", resp.StatusCode).WithField("vehicle_id", vehicleID).Warn("vehicle name lookup failed, using placeholder")
		return fallback
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Name == "" {
		return fallback
	}
	c.cache.Set(key, body.Name, c.ttl)
	return body.Name
}

// fetchNames performs the batch POST. Returns nil on any failure.
func (c *Client) fetchNames(ctx context.Context, userIDs []string) map[string]string {
	if c.baseURL == "" {
		return nil
	}

	payload, err := json.Marshal(namesRequest{UserIDs: userIDs})
	if err != nil {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/names", bytes.NewReader(payload))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		logrus.WithError(err).Warn("user name batch lookup failed, using placeholders")
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logrus.WithField("status", resp.StatusCode).Warn("user name batch lookup failed, using placeholders")
		return nil
	}

	var body namesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logrus.WithError(err).Warn("user name batch lookup returned bad payload, using placeholders")
		return nil
	}
	return body.Names
}

func userKey(id string) string {
	return "user:" + id
}
