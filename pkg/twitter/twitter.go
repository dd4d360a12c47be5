// Package twitter is the Twitter/X API v2 adapter. It uses a single OAuth 2.0
// bearer token for both reads and writes.
package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/papercomputeco/toolbelt/pkg/httpapi"
	"github.com/papercomputeco/toolbelt/pkg/result"
)

const (
	// BaseURL is the Twitter API v2 root.
	BaseURL = "https://api.twitter.com/2"

	DefaultTweetFields    = "created_at,author_id,public_metrics"
	DefaultTimelineFields = "created_at,public_metrics"

	userProfileFields = "created_at,description,public_metrics,verified"
	userListFields    = "created_at,description,public_metrics"
)

// Messages is the Twitter wording of the shared status table.
var Messages = httpapi.StatusMessages{
	Unauthorized:         "Invalid or expired Twitter token",
	Forbidden:            "Forbidden - check token permissions (need read+write scope)",
	NotFound:             "Twitter resource not found",
	RateLimited:          "Rate limited.",
	RateLimitResetHeader: "x-rate-limit-reset",
	APIError:             "Twitter API error (%d): %s",
}

// Config tunes where and how a Client talks to the API.
type Config struct {
	// BaseURL overrides the API root. Defaults to BaseURL.
	BaseURL string

	Timeouts httpapi.Timeouts

	// Transport is the base round tripper under the bearer transport.
	Transport http.RoundTripper
}

// Client wraps Twitter API v2 calls for one bearer token.
//
// The authenticated user's id is resolved lazily and cached for the lifetime
// of the Client. The cache is not guarded: a Client must not be shared by
// concurrent callers.
type Client struct {
	api  *httpapi.Client
	meID string
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

// Me returns the authenticated user's id. A failure is returned as the
// failing Result and is not cached.
func (c *Client) Me(ctx context.Context) (string, result.Result) {
	if c.meID != "" {
		return c.meID, nil
	}

	res := c.api.Do(ctx, httpapi.Request{Method: http.MethodGet, Path: "/users/me"})
	if res.IsError() {
		return "", res
	}

	id, _ := res.Map("data")["id"].(string)
	if id == "" {
		return "", result.Error("Twitter API error: /users/me returned no user id")
	}

	c.meID = id
	return id, nil
}

// --- Tweets ---

// PostTweet creates a tweet. A non-empty replyTo threads it under that tweet.
func (c *Client) PostTweet(ctx context.Context, text, replyTo string) result.Result {
	body := map[string]any{"text": text}
	if replyTo != "" {
		body["reply"] = map[string]any{"in_reply_to_tweet_id": replyTo}
	}

	return c.api.Do(ctx, httpapi.Request{Method: http.MethodPost, Path: "/tweets", Body: body})
}

// DeleteTweet deletes a tweet owned by the authenticated user.
func (c *Client) DeleteTweet(ctx context.Context, tweetID string) result.Result {
	return c.api.Do(ctx, httpapi.Request{
		Method: http.MethodDelete,
		Path:   "/tweets/" + url.PathEscape(tweetID),
	})
}

// GetTweet fetches a single tweet.
func (c *Client) GetTweet(ctx context.Context, tweetID, tweetFields string) result.Result {
	if tweetFields == "" {
		tweetFields = DefaultTweetFields
	}

	return c.api.Do(ctx, httpapi.Request{
		Method: http.MethodGet,
		Path:   "/tweets/" + url.PathEscape(tweetID),
		Query:  url.Values{"tweet.fields": {tweetFields}},
	})
}

// SearchTweets searches tweets from the last 7 days. maxResults is clamped to
// the API's accepted range of 10..100.
func (c *Client) SearchTweets(ctx context.Context, query string, maxResults int, tweetFields string) result.Result {
	if tweetFields == "" {
		tweetFields = DefaultTweetFields
	}

	return c.api.Do(ctx, httpapi.Request{
		Method: http.MethodGet,
		Path:   "/tweets/search/recent",
		Query: url.Values{
			"query":        {query},
			"max_results":  {strconv.Itoa(clamp(maxResults, 10, 100))},
			"tweet.fields": {tweetFields},
		},
	})
}

// --- Engagement ---

// LikeTweet likes a tweet as the authenticated user.
func (c *Client) LikeTweet(ctx context.Context, tweetID string) result.Result {
	return c.asMe(ctx, func(me string) httpapi.Request {
		return httpapi.Request{
			Method: http.MethodPost,
			Path:   fmt.Sprintf("/users/%s/likes", me),
			Body:   map[string]any{"tweet_id": tweetID},
		}
	})
}

// UnlikeTweet removes a like.
func (c *Client) UnlikeTweet(ctx context.Context, tweetID string) result.Result {
	return c.asMe(ctx, func(me string) httpapi.Request {
		return httpapi.Request{
			Method: http.MethodDelete,
			Path:   fmt.Sprintf("/users/%s/likes/%s", me, url.PathEscape(tweetID)),
		}
	})
}

// Retweet retweets a tweet.
func (c *Client) Retweet(ctx context.Context, tweetID string) result.Result {
	return c.asMe(ctx, func(me string) httpapi.Request {
		return httpapi.Request{
			Method: http.MethodPost,
			Path:   fmt.Sprintf("/users/%s/retweets", me),
			Body:   map[string]any{"tweet_id": tweetID},
		}
	})
}

// UndoRetweet removes a retweet.
func (c *Client) UndoRetweet(ctx context.Context, tweetID string) result.Result {
	return c.asMe(ctx, func(me string) httpapi.Request {
		return httpapi.Request{
			Method: http.MethodDelete,
			Path:   fmt.Sprintf("/users/%s/retweets/%s", me, url.PathEscape(tweetID)),
		}
	})
}

// --- Users & following ---

// GetUser fetches a profile by username (without the @).
func (c *Client) GetUser(ctx context.Context, username string) result.Result {
	return c.api.Do(ctx, httpapi.Request{
		Method: http.MethodGet,
		Path:   "/users/by/username/" + url.PathEscape(username),
		Query:  url.Values{"user.fields": {userProfileFields}},
	})
}

// FollowUser follows targetUserID.
func (c *Client) FollowUser(ctx context.Context, targetUserID string) result.Result {
	return c.asMe(ctx, func(me string) httpapi.Request {
		return httpapi.Request{
			Method: http.MethodPost,
			Path:   fmt.Sprintf("/users/%s/following", me),
			Body:   map[string]any{"target_user_id": targetUserID},
		}
	})
}

// UnfollowUser unfollows targetUserID.
func (c *Client) UnfollowUser(ctx context.Context, targetUserID string) result.Result {
	return c.asMe(ctx, func(me string) httpapi.Request {
		return httpapi.Request{
			Method: http.MethodDelete,
			Path:   fmt.Sprintf("/users/%s/following/%s", me, url.PathEscape(targetUserID)),
		}
	})
}

// GetFollowers lists followers of userID. maxResults is capped at 1000.
func (c *Client) GetFollowers(ctx context.Context, userID string, maxResults int, paginationToken string) result.Result {
	return c.listUsers(ctx, userID, "followers", maxResults, paginationToken)
}

// GetFollowing lists accounts userID follows. maxResults is capped at 1000.
func (c *Client) GetFollowing(ctx context.Context, userID string, maxResults int, paginationToken string) result.Result {
	return c.listUsers(ctx, userID, "following", maxResults, paginationToken)
}

// --- Timeline ---

// GetUserTweets lists recent tweets by userID. maxResults is clamped to 5..100.
func (c *Client) GetUserTweets(ctx context.Context, userID string, maxResults int, paginationToken, tweetFields string) result.Result {
	if tweetFields == "" {
		tweetFields = DefaultTimelineFields
	}
	return c.timeline(ctx, userID, "tweets", maxResults, paginationToken, tweetFields)
}

// GetMentions lists recent mentions of userID. maxResults is clamped to 5..100.
func (c *Client) GetMentions(ctx context.Context, userID string, maxResults int, paginationToken, tweetFields string) result.Result {
	if tweetFields == "" {
		tweetFields = DefaultTweetFields
	}
	return c.timeline(ctx, userID, "mentions", maxResults, paginationToken, tweetFields)
}

func (c *Client) asMe(ctx context.Context, build func(me string) httpapi.Request) result.Result {
	me, failure := c.Me(ctx)
	if failure != nil {
		return failure
	}
	return c.api.Do(ctx, build(url.PathEscape(me)))
}

func (c *Client) listUsers(ctx context.Context, userID, edge string, maxResults int, paginationToken string) result.Result {
	query := url.Values{
		"max_results": {strconv.Itoa(min(maxResults, 1000))},
		"user.fields": {userListFields},
	}
	if paginationToken != "" {
		query.Set("pagination_token", paginationToken)
	}

	return c.api.Do(ctx, httpapi.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/users/%s/%s", url.PathEscape(userID), edge),
		Query:  query,
	})
}

func (c *Client) timeline(ctx context.Context, userID, edge string, maxResults int, paginationToken, tweetFields string) result.Result {
	query := url.Values{
		"max_results":  {strconv.Itoa(clamp(maxResults, 5, 100))},
		"tweet.fields": {tweetFields},
	}
	if paginationToken != "" {
		query.Set("pagination_token", paginationToken)
	}

	return c.api.Do(ctx, httpapi.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/users/%s/%s", url.PathEscape(userID), edge),
		Query:  query,
	})
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
