// Package hubspot is the HubSpot CRM v3 adapter for contacts, companies and
// deals.
package hubspot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/papercomputeco/toolbelt/pkg/httpapi"
	"github.com/papercomputeco/toolbelt/pkg/result"
)

// BaseURL is the HubSpot API root.
const BaseURL = "https://api.hubapi.com"

// DefaultSearchLimit is used when a search asks for zero or fewer results.
const DefaultSearchLimit = 10

// maxSearchLimit is the CRM search endpoint's page size ceiling.
const maxSearchLimit = 100

// ObjectType is a CRM object collection.
type ObjectType string

const (
	Contacts  ObjectType = "contacts"
	Companies ObjectType = "companies"
	Deals     ObjectType = "deals"
)

// defaultProperties are requested by searches that do not name properties.
var defaultProperties = map[ObjectType][]string{
	Contacts:  {"email", "firstname", "lastname", "phone", "company"},
	Companies: {"name", "domain", "industry", "city", "state"},
	Deals:     {"dealname", "amount", "dealstage", "closedate", "pipeline"},
}

// Messages is the HubSpot wording of the shared status table.
var Messages = httpapi.StatusMessages{
	Unauthorized: "Invalid or expired HubSpot access token",
	Forbidden: "Insufficient permissions. Check your HubSpot app scopes. " +
		"Required scopes: crm.objects.{contacts,companies,deals}.{read,write}",
	NotFound:    "HubSpot resource not found",
	RateLimited: "HubSpot rate limit exceeded. Try again later.",
	APIError:    "HubSpot API error (HTTP %d): %s",
}

// Config tunes where and how a Client talks to the API.
type Config struct {
	// BaseURL overrides the API root. Defaults to BaseURL.
	BaseURL   string
	Timeouts  httpapi.Timeouts
	Transport http.RoundTripper
}

// Client wraps HubSpot CRM v3 object calls for one access token.
type Client struct {
	api *httpapi.Client
}

// NewClient returns a Client authenticated with token.
func NewClient(token string, cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = BaseURL
	}
	return &Client{
		api: httpapi.NewClient(base, token, Messages, cfg.Timeouts, cfg.Transport),
	}
}

// Search runs a CRM search. An empty query lists objects; limit is capped at
// 100 and defaults to 10.
func (c *Client) Search(ctx context.Context, obj ObjectType, query string, properties []string, limit int) result.Result {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if len(properties) == 0 {
		properties = defaultProperties[obj]
	}

	body := map[string]any{
		"filterGroups": []any{},
		"properties":   properties,
		"limit":        min(limit, maxSearchLimit),
	}
	if query != "" {
		body["query"] = query
	}

	return c.api.Do(ctx, httpapi.Request{
		Method: http.MethodPost,
		Path:   objectPath(obj) + "/search",
		Body:   body,
	})
}

// Get fetches one object by id, optionally limited to properties.
func (c *Client) Get(ctx context.Context, obj ObjectType, id string, properties []string) result.Result {
	var query url.Values
	if len(properties) > 0 {
		query = url.Values{"properties": {strings.Join(properties, ",")}}
	}

	return c.api.Do(ctx, httpapi.Request{
		Method: http.MethodGet,
		Path:   objectPath(obj) + "/" + url.PathEscape(id),
		Query:  query,
	})
}

// Create creates an object from property values.
func (c *Client) Create(ctx context.Context, obj ObjectType, properties map[string]string) result.Result {
	return c.api.Do(ctx, httpapi.Request{
		Method: http.MethodPost,
		Path:   objectPath(obj),
		Body:   map[string]any{"properties": properties},
	})
}

// Update patches property values on an existing object.
func (c *Client) Update(ctx context.Context, obj ObjectType, id string, properties map[string]string) result.Result {
	return c.api.Do(ctx, httpapi.Request{
		Method: http.MethodPatch,
		Path:   objectPath(obj) + "/" + url.PathEscape(id),
		Body:   map[string]any{"properties": properties},
	})
}

func objectPath(obj ObjectType) string {
	return fmt.Sprintf("/crm/v3/objects/%s", obj)
}
