package mcp

import (
	"context"
	"fmt"

	"github.com/papercomputeco/toolbelt/pkg/hubspot"
	"github.com/papercomputeco/toolbelt/pkg/result"
)

// SearchObjectsInput represents the input of the hubspot_search_* tools.
type SearchObjectsInput struct {
	Query      string   `json:"query,omitempty" jsonschema:"free-text search; omit to list objects"`
	Properties []string `json:"properties,omitempty" jsonschema:"properties to return; defaults depend on the object type"`
	Limit      int      `json:"limit,omitempty" jsonschema:"maximum number of results (1-100, default 10)"`
}

// GetObjectInput represents the input of the hubspot_get_* tools.
type GetObjectInput struct {
	ID         string   `json:"id" jsonschema:"the object ID"`
	Properties []string `json:"properties,omitempty" jsonschema:"properties to return"`
}

// CreateObjectInput represents the input of the hubspot_create_* tools.
type CreateObjectInput struct {
	Properties map[string]string `json:"properties" jsonschema:"property names and values for the new object"`
}

func (in CreateObjectInput) validate() result.Result {
	return requireProperties(in.Properties)
}

// UpdateObjectInput represents the input of the hubspot_update_* tools.
type UpdateObjectInput struct {
	ID         string            `json:"id" jsonschema:"the object ID"`
	Properties map[string]string `json:"properties" jsonschema:"property names and values to update"`
}

func (in UpdateObjectInput) validate() result.Result {
	return requireProperties(in.Properties)
}

func requireProperties(properties map[string]string) result.Result {
	if len(properties) == 0 {
		return result.Error("At least one property is required")
	}
	return nil
}

// hubspotObjects names the tools of each CRM object type: the plural form
// is used by search, the singular by get, create and update.
var hubspotObjects = []struct {
	obj      hubspot.ObjectType
	plural   string
	singular string
	example  string
}{
	{hubspot.Contacts, "contacts", "contact", "email, firstname, lastname"},
	{hubspot.Companies, "companies", "company", "name, domain, industry"},
	{hubspot.Deals, "deals", "deal", "dealname, amount, dealstage"},
}

func (s *Server) registerHubSpot() error {
	var tools []func() error

	for _, o := range hubspotObjects {
		tools = append(tools,
			func() error {
				return addTool(s, "hubspot_search_"+o.plural,
					fmt.Sprintf("Search HubSpot %s. An empty query lists %s.", o.plural, o.plural),
					s.hubspotClient,
					func(ctx context.Context, c *hubspot.Client, in SearchObjectsInput) result.Result {
						return c.Search(ctx, o.obj, in.Query, in.Properties, in.Limit)
					})
			},
			func() error {
				return addTool(s, "hubspot_get_"+o.singular,
					fmt.Sprintf("Get a HubSpot %s by ID.", o.singular),
					s.hubspotClient,
					func(ctx context.Context, c *hubspot.Client, in GetObjectInput) result.Result {
						return c.Get(ctx, o.obj, in.ID, in.Properties)
					})
			},
			func() error {
				return addTool(s, "hubspot_create_"+o.singular,
					fmt.Sprintf("Create a HubSpot %s from property values (e.g. %s).", o.singular, o.example),
					s.hubspotClient,
					func(ctx context.Context, c *hubspot.Client, in CreateObjectInput) result.Result {
						return c.Create(ctx, o.obj, in.Properties)
					})
			},
			func() error {
				return addTool(s, "hubspot_update_"+o.singular,
					fmt.Sprintf("Update property values on an existing HubSpot %s.", o.singular),
					s.hubspotClient,
					func(ctx context.Context, c *hubspot.Client, in UpdateObjectInput) result.Result {
						return c.Update(ctx, o.obj, in.ID, in.Properties)
					})
			},
		)
	}

	return registerAll(tools)
}
