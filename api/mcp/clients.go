package mcp

import (
	"context"

	"github.com/papercomputeco/toolbelt/pkg/googledocs"
	"github.com/papercomputeco/toolbelt/pkg/hubspot"
	"github.com/papercomputeco/toolbelt/pkg/result"
	"github.com/papercomputeco/toolbelt/pkg/twitter"
)

// A fresh adapter client is built per tool call, so the Twitter identity
// cache never outlives one call and clients are never shared.

func (s *Server) twitterClient(_ context.Context, token string) (*twitter.Client, result.Result) {
	return twitter.NewClient(token, twitter.Config{
		BaseURL:   s.config.TwitterBaseURL,
		Timeouts:  s.config.Timeouts,
		Transport: s.config.Transport,
	}), nil
}

func (s *Server) docsClient(ctx context.Context, token string) (*googledocs.Client, result.Result) {
	client, err := googledocs.NewClient(ctx, token, googledocs.Config{
		DocsBaseURL:  s.config.DocsBaseURL,
		DriveBaseURL: s.config.DriveBaseURL,
		Timeouts:     s.config.Timeouts,
		Transport:    s.config.Transport,
	})
	if err != nil {
		s.config.Logger.Error("failed to build Google Docs client", "error", err)
		return nil, result.Errorf("Google Docs client error: %v", err)
	}
	return client, nil
}

func (s *Server) hubspotClient(_ context.Context, token string) (*hubspot.Client, result.Result) {
	return hubspot.NewClient(token, hubspot.Config{
		BaseURL:   s.config.HubSpotBaseURL,
		Timeouts:  s.config.Timeouts,
		Transport: s.config.Transport,
	}), nil
}
