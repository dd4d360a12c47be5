package mcp

import (
	"context"
	"strings"

	"github.com/papercomputeco/toolbelt/pkg/result"
	"github.com/papercomputeco/toolbelt/pkg/twitter"
)

// PostTweetInput represents the input arguments for twitter_post_tweet.
type PostTweetInput struct {
	Text    string `json:"text" jsonschema:"the tweet text (up to 280 characters)"`
	ReplyTo string `json:"reply_to,omitempty" jsonschema:"optional tweet ID to reply to, for creating threads"`
}

// TweetIDInput represents the input of tools acting on a single tweet.
type TweetIDInput struct {
	TweetID string `json:"tweet_id" jsonschema:"the ID of the tweet"`
}

// GetTweetInput represents the input arguments for twitter_get_tweet.
type GetTweetInput struct {
	TweetID     string `json:"tweet_id" jsonschema:"the ID of the tweet to retrieve"`
	TweetFields string `json:"tweet_fields,omitempty" jsonschema:"comma-separated fields to include (default: created_at,author_id,public_metrics)"`
}

// SearchTweetsInput represents the input arguments for twitter_search_tweets.
type SearchTweetsInput struct {
	Query       string `json:"query" jsonschema:"search query; supports operators like from:user and #hashtag"`
	MaxResults  int    `json:"max_results,omitempty" jsonschema:"number of results to return (10-100, default 10)"`
	TweetFields string `json:"tweet_fields,omitempty" jsonschema:"comma-separated fields to include"`
}

// GetUserInput represents the input arguments for twitter_get_user.
type GetUserInput struct {
	Username string `json:"username" jsonschema:"the Twitter username (without @)"`
}

// FollowInput represents the input of follow and unfollow.
type FollowInput struct {
	TargetUserID string `json:"target_user_id" jsonschema:"the numeric ID of the user"`
}

// UserListInput represents the input of follower and following listings.
type UserListInput struct {
	UserID          string `json:"user_id" jsonschema:"the numeric user ID"`
	MaxResults      int    `json:"max_results,omitempty" jsonschema:"number of results per page (1-1000, default 100)"`
	PaginationToken string `json:"pagination_token,omitempty" jsonschema:"token from a previous response's meta.next_token"`
}

// TimelineInput represents the input of user timeline and mention listings.
type TimelineInput struct {
	UserID          string `json:"user_id" jsonschema:"the numeric user ID"`
	MaxResults      int    `json:"max_results,omitempty" jsonschema:"number of results (5-100, default 10)"`
	PaginationToken string `json:"pagination_token,omitempty" jsonschema:"token from a previous response's meta.next_token"`
	TweetFields     string `json:"tweet_fields,omitempty" jsonschema:"comma-separated fields to include"`
}

const (
	defaultSearchResults   = 10
	defaultUserListResults = 100
	defaultTimelineResults = 10
)

func (s *Server) registerTwitter() error {
	tools := []func() error{
		func() error {
			return addTool(s, "twitter_post_tweet",
				"Post a tweet to Twitter/X. Supports threading via reply_to.",
				s.twitterClient,
				func(ctx context.Context, c *twitter.Client, in PostTweetInput) result.Result {
					res := c.PostTweet(ctx, in.Text, in.ReplyTo)
					if res.IsError() {
						return res
					}
					data := res.Map("data")
					return result.Result{
						"success":  true,
						"tweet_id": data["id"],
						"text":     data["text"],
					}
				})
		},
		func() error {
			return addTool(s, "twitter_delete_tweet",
				"Delete a tweet owned by the authenticated user.",
				s.twitterClient,
				func(ctx context.Context, c *twitter.Client, in TweetIDInput) result.Result {
					return flag(c.DeleteTweet(ctx, in.TweetID), "deleted", false)
				})
		},
		func() error {
			return addTool(s, "twitter_get_tweet",
				"Get a single tweet by ID.",
				s.twitterClient,
				func(ctx context.Context, c *twitter.Client, in GetTweetInput) result.Result {
					return c.GetTweet(ctx, in.TweetID, in.TweetFields)
				})
		},
		func() error {
			return addTool(s, "twitter_search_tweets",
				"Search recent tweets (last 7 days).",
				s.twitterClient,
				func(ctx context.Context, c *twitter.Client, in SearchTweetsInput) result.Result {
					return c.SearchTweets(ctx, in.Query, orDefault(in.MaxResults, defaultSearchResults), in.TweetFields)
				})
		},
		func() error {
			return addTool(s, "twitter_like_tweet",
				"Like a tweet.",
				s.twitterClient,
				func(ctx context.Context, c *twitter.Client, in TweetIDInput) result.Result {
					return flag(c.LikeTweet(ctx, in.TweetID), "liked", false)
				})
		},
		func() error {
			return addTool(s, "twitter_unlike_tweet",
				"Remove a like from a tweet.",
				s.twitterClient,
				func(ctx context.Context, c *twitter.Client, in TweetIDInput) result.Result {
					return flag(c.UnlikeTweet(ctx, in.TweetID), "liked", false)
				})
		},
		func() error {
			return addTool(s, "twitter_retweet",
				"Retweet a tweet.",
				s.twitterClient,
				func(ctx context.Context, c *twitter.Client, in TweetIDInput) result.Result {
					return flag(c.Retweet(ctx, in.TweetID), "retweeted", false)
				})
		},
		func() error {
			return addTool(s, "twitter_undo_retweet",
				"Undo a retweet.",
				s.twitterClient,
				func(ctx context.Context, c *twitter.Client, in TweetIDInput) result.Result {
					return flag(c.UndoRetweet(ctx, in.TweetID), "retweeted", false)
				})
		},
		func() error {
			return addTool(s, "twitter_get_user",
				"Get a Twitter/X user profile by username.",
				s.twitterClient,
				func(ctx context.Context, c *twitter.Client, in GetUserInput) result.Result {
					return c.GetUser(ctx, strings.TrimPrefix(in.Username, "@"))
				})
		},
		func() error {
			return addTool(s, "twitter_follow_user",
				"Follow a user.",
				s.twitterClient,
				func(ctx context.Context, c *twitter.Client, in FollowInput) result.Result {
					return flag(c.FollowUser(ctx, in.TargetUserID), "following", false)
				})
		},
		func() error {
			return addTool(s, "twitter_unfollow_user",
				"Unfollow a user.",
				s.twitterClient,
				func(ctx context.Context, c *twitter.Client, in FollowInput) result.Result {
					return flag(c.UnfollowUser(ctx, in.TargetUserID), "following", true)
				})
		},
		func() error {
			return addTool(s, "twitter_get_followers",
				"Get followers of a user.",
				s.twitterClient,
				func(ctx context.Context, c *twitter.Client, in UserListInput) result.Result {
					return c.GetFollowers(ctx, in.UserID, orDefault(in.MaxResults, defaultUserListResults), in.PaginationToken)
				})
		},
		func() error {
			return addTool(s, "twitter_get_following",
				"Get users that a user is following.",
				s.twitterClient,
				func(ctx context.Context, c *twitter.Client, in UserListInput) result.Result {
					return c.GetFollowing(ctx, in.UserID, orDefault(in.MaxResults, defaultUserListResults), in.PaginationToken)
				})
		},
		func() error {
			return addTool(s, "twitter_get_user_tweets",
				"Get recent tweets from a user.",
				s.twitterClient,
				func(ctx context.Context, c *twitter.Client, in TimelineInput) result.Result {
					return c.GetUserTweets(ctx, in.UserID, orDefault(in.MaxResults, defaultTimelineResults), in.PaginationToken, in.TweetFields)
				})
		},
		func() error {
			return addTool(s, "twitter_get_mentions",
				"Get recent tweets mentioning a user.",
				s.twitterClient,
				func(ctx context.Context, c *twitter.Client, in TimelineInput) result.Result {
					return c.GetMentions(ctx, in.UserID, orDefault(in.MaxResults, defaultTimelineResults), in.PaginationToken, in.TweetFields)
				})
		},
	}

	return registerAll(tools)
}

// flag reduces an engagement response to {"success": true, key: data[key]}.
// A response without the field reports fallback.
func flag(res result.Result, key string, fallback bool) result.Result {
	if res.IsError() {
		return res
	}
	v, ok := res.Map("data")[key].(bool)
	if !ok {
		v = fallback
	}
	return result.Result{"success": true, key: v}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func registerAll(tools []func() error) error {
	for _, register := range tools {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}
