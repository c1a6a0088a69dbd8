// Package profile resolves Minecraft usernames and Bedrock gamertags to
// uuids through the mcprofile.io API.
package profile

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

var (
	ErrNotFound        = errors.New("minecraft profile not found")
	ErrInvalidPlatform = errors.New("platform must be java or bedrock")
)

// Platforms.
const (
	Java    = "java"
	Bedrock = "bedrock"
)

// Profile is a resolved Minecraft identity.
type Profile struct {
	UUID     string
	Name     string
	Platform string
}

// Looker resolves a username on one platform.
type Looker interface {
	Lookup(ctx context.Context, username, platform string) (*Profile, error)
}

// Client calls the profile API. Requests are throttled so a burst of
// /linkaccount calls cannot get the bot rate limited upstream.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient returns a client for baseURL, e.g. https://mcprofile.io.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(2), 5),
	}
}

type apiResponse struct {
	UUID         string `json:"uuid"`
	ID           string `json:"id"`
	FUUID        string `json:"fuuid"`
	FloodgateUID string `json:"floodgateuid"`
	Name         string `json:"name"`
	Username     string `json:"username"`
}

// Lookup resolves username on platform. A non-2xx answer or a body
// without a uuid yields ErrNotFound.
func (c *Client) Lookup(ctx context.Context, username, platform string) (*Profile, error) {
	var path string
	switch platform {
	case Java:
		path = "/api/v1/java/username/"
	case Bedrock:
		path = "/api/v1/bedrock/gamertag/"
	default:
		return nil, ErrInvalidPlatform
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+url.PathEscape(username), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ErrNotFound
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("profile lookup: decode: %w", err)
	}

	uuid := firstNonEmpty(body.UUID, body.ID)
	if platform == Bedrock {
		uuid = firstNonEmpty(body.FUUID, body.FloodgateUID, body.ID, body.UUID)
	}
	if uuid == "" {
		return nil, ErrNotFound
	}

	return &Profile{
		UUID:     uuid,
		Name:     firstNonEmpty(body.Name, body.Username, username),
		Platform: platform,
	}, nil
}

// LookupAny tries Java first and falls back to Bedrock.
func LookupAny(ctx context.Context, l Looker, username string) (*Profile, error) {
	p, err := l.Lookup(ctx, username, Java)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return l.Lookup(ctx, username, Bedrock)
}

// NormalizeUUID strips dashes and lowercases.
func NormalizeUUID(uuid string) string {
	return strings.ToLower(strings.ReplaceAll(uuid, "-", ""))
}

// AvatarURL returns the head render used as embed thumbnail.
func AvatarURL(uuid string) string {
	return "https://mc-heads.net/avatar/" + uuid + "/128"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
