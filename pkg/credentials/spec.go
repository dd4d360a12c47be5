package credentials

import (
	"fmt"
	"net/http"
	"slices"
)

// Integration names.
const (
	Twitter    = "twitter"
	GoogleDocs = "google_docs"
	HubSpot    = "hubspot"
)

// ServiceAccountEnvVar holds a Google service account JSON blob.
const ServiceAccountEnvVar = "GOOGLE_SERVICE_ACCOUNT_JSON"

// Spec declares how one integration is authenticated and which tools depend
// on it. Specs are static and never mutated.
type Spec struct {
	// Name is the integration name used by the resolver and the store.
	Name string

	// Display is the human name used in user-facing messages.
	Display string

	// EnvVar holds the access token.
	EnvVar string

	// Tools lists every tool that needs this credential.
	Tools []string

	Required        bool
	StartupRequired bool

	HelpURL     string
	Description string

	// Provider metadata for OAuth connection flows.
	ProviderSupported     bool
	ProviderName          string
	DirectAPIKeySupported bool

	// APIKeyInstructions is markdown describing how to obtain a token.
	APIKeyInstructions string

	HealthCheckEndpoint string
	HealthCheckMethod   string

	// HealthCheckAccepts lists non-2xx statuses that still prove the token
	// authenticated (e.g. a 404 for a placeholder resource that does not exist).
	HealthCheckAccepts []int

	// CredentialID and CredentialKey locate the token in credentials.toml.
	CredentialID  string
	CredentialKey string

	// ServiceAccountEnvVar, when set, names a JSON blob consulted after
	// EnvVar.
	ServiceAccountEnvVar string
}

// Help is the remediation text returned with a "not configured" result.
func (s Spec) Help() string {
	return fmt.Sprintf(
		"Set %s environment variable or configure via credential store (toolbelt auth %s). "+
			"Get credentials at: %s",
		s.EnvVar, s.Name, s.HelpURL,
	)
}

var specs = []Spec{
	{
		Name:    Twitter,
		Display: "Twitter",
		EnvVar:  "TWITTER_BEARER_TOKEN",
		Tools: []string{
			"twitter_post_tweet",
			"twitter_delete_tweet",
			"twitter_get_tweet",
			"twitter_search_tweets",
			"twitter_like_tweet",
			"twitter_unlike_tweet",
			"twitter_retweet",
			"twitter_undo_retweet",
			"twitter_get_user",
			"twitter_follow_user",
			"twitter_unfollow_user",
			"twitter_get_followers",
			"twitter_get_following",
			"twitter_get_user_tweets",
			"twitter_get_mentions",
		},
		Required:              true,
		HelpURL:               "https://developer.twitter.com/en/portal/dashboard",
		Description:           "Twitter/X OAuth2 user access token",
		ProviderSupported:     true,
		ProviderName:          "twitter",
		DirectAPIKeySupported: false,
		APIKeyInstructions: `Twitter/X requires an OAuth 2.0 **User Context** access token.
App-only bearer tokens cannot post, like, retweet or follow.

1. Open the developer portal: https://developer.twitter.com/en/portal/dashboard
2. Enable OAuth 2.0 for your app
3. Authorize with the scopes:
   - tweet.read, tweet.write
   - users.read, follows.read, follows.write
   - like.read, like.write
4. Store the access token with ` + "`toolbelt auth twitter`",
		HealthCheckEndpoint: "https://api.twitter.com/2/users/me",
		HealthCheckMethod:   http.MethodGet,
		CredentialID:        Twitter,
		CredentialKey:       "access_token",
	},
	{
		Name:    GoogleDocs,
		Display: "Google Docs",
		EnvVar:  "GOOGLE_DOCS_ACCESS_TOKEN",
		Tools: []string{
			"google_docs_create_document",
			"google_docs_get_document",
			"google_docs_insert_text",
			"google_docs_replace_all_text",
			"google_docs_insert_image",
			"google_docs_format_text",
			"google_docs_batch_update",
			"google_docs_create_list",
			"google_docs_add_comment",
			"google_docs_export_content",
		},
		Required:              true,
		HelpURL:               "https://console.cloud.google.com/apis/credentials",
		Description:           "Google Docs OAuth2 access token",
		ProviderSupported:     true,
		ProviderName:          "google",
		DirectAPIKeySupported: true,
		APIKeyInstructions: `To get a Google Docs access token:

1. Go to Google Cloud Console: https://console.cloud.google.com/
2. Create a new project or select an existing one
3. Enable the Google Docs API and Google Drive API
4. Go to APIs & Services > Credentials
5. Create OAuth 2.0 credentials (Web application or Desktop app)
6. Use the OAuth 2.0 Playground or your app to get an access token
7. Required scopes:
   - https://www.googleapis.com/auth/documents
   - https://www.googleapis.com/auth/drive.file
   - https://www.googleapis.com/auth/drive (for export and comments)

Alternatively set ` + "`" + ServiceAccountEnvVar + "`" + ` to a service account key.
Share documents with the service account email to grant access.`,
		HealthCheckEndpoint:  "https://docs.googleapis.com/v1/documents/1",
		HealthCheckMethod:    http.MethodGet,
		HealthCheckAccepts:   []int{http.StatusNotFound},
		CredentialID:         GoogleDocs,
		CredentialKey:        "access_token",
		ServiceAccountEnvVar: ServiceAccountEnvVar,
	},
	{
		Name:    HubSpot,
		Display: "HubSpot",
		EnvVar:  "HUBSPOT_ACCESS_TOKEN",
		Tools: []string{
			"hubspot_search_contacts",
			"hubspot_get_contact",
			"hubspot_create_contact",
			"hubspot_update_contact",
			"hubspot_search_companies",
			"hubspot_get_company",
			"hubspot_create_company",
			"hubspot_update_company",
			"hubspot_search_deals",
			"hubspot_get_deal",
			"hubspot_create_deal",
			"hubspot_update_deal",
		},
		Required:              true,
		HelpURL:               "https://developers.hubspot.com/docs/api/private-apps",
		Description:           "HubSpot access token (Private App or OAuth2)",
		ProviderSupported:     true,
		ProviderName:          "hubspot",
		DirectAPIKeySupported: true,
		APIKeyInstructions: `To get a HubSpot Private App token:

1. Go to HubSpot Settings > Integrations > Private Apps
2. Click "Create a private app"
3. Name your app (e.g., "toolbelt")
4. Go to the "Scopes" tab and enable:
   - crm.objects.contacts.read
   - crm.objects.contacts.write
   - crm.objects.companies.read
   - crm.objects.companies.write
   - crm.objects.deals.read
   - crm.objects.deals.write
5. Click "Create app" and copy the access token`,
		HealthCheckEndpoint: "https://api.hubapi.com/crm/v3/objects/contacts?limit=1",
		HealthCheckMethod:   http.MethodGet,
		CredentialID:        HubSpot,
		CredentialKey:       "access_token",
	},
}

// Specs returns every integration spec in a stable order.
func Specs() []Spec {
	return slices.Clone(specs)
}

// Names returns every integration name.
func Names() []string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}

// Lookup returns the spec for an integration name.
func Lookup(name string) (Spec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// ForTool returns the spec that owns the named tool.
func ForTool(tool string) (Spec, bool) {
	for _, s := range specs {
		if slices.Contains(s.Tools, tool) {
			return s, true
		}
	}
	return Spec{}, false
}

// IsSupported reports whether name is a known integration.
func IsSupported(name string) bool {
	_, ok := Lookup(name)
	return ok
}
