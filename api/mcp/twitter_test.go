package mcp_test

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	toolmcp "github.com/papercomputeco/toolbelt/api/mcp"
	"github.com/papercomputeco/toolbelt/pkg/credentials"
)

var _ = Describe("Twitter tools", func() {
	var (
		ctx   context.Context
		up    *upstream
		token string
		cs    *mcp.ClientSession
	)

	JustBeforeEach(func() {
		resolver := credentials.NewResolver(credentials.WithLookupEnv(envOf(map[string]string{
			"TWITTER_BEARER_TOKEN": token,
		})))
		server, err := toolmcp.NewServer(configFor(up, resolver))
		Expect(err).NotTo(HaveOccurred())
		cs = connect(ctx, server)
	})

	BeforeEach(func() {
		ctx = context.Background()
		up = newUpstream()
		DeferCleanup(up.close)
		token = "tw-token"
	})

	It("posts a tweet and returns its id and text", func() {
		out, isError := callTool(ctx, cs, "twitter_post_tweet", map[string]any{
			"text":     "shipping it",
			"reply_to": "999",
		})
		Expect(isError).To(BeFalse())
		Expect(out).To(Equal(map[string]any{
			"success":  true,
			"tweet_id": "1001",
			"text":     "shipping it",
		}))

		req := up.last()
		Expect(req.auth).To(Equal("Bearer tw-token"))
		Expect(req.body["reply"]).To(Equal(map[string]any{"in_reply_to_tweet_id": "999"}))
	})

	It("reports deletion", func() {
		out, isError := callTool(ctx, cs, "twitter_delete_tweet", map[string]any{"tweet_id": "1001"})
		Expect(isError).To(BeFalse())
		Expect(out).To(Equal(map[string]any{"success": true, "deleted": true}))
	})

	It("likes as the authenticated user", func() {
		out, isError := callTool(ctx, cs, "twitter_like_tweet", map[string]any{"tweet_id": "1001"})
		Expect(isError).To(BeFalse())
		Expect(out).To(Equal(map[string]any{"success": true, "liked": true}))
		Expect(up.at(0).path).To(Equal("/2/users/me"))
		Expect(up.last().path).To(Equal("/2/users/42/likes"))
	})

	It("reports still following when an unfollow response has no body", func() {
		out, isError := callTool(ctx, cs, "twitter_unfollow_user", map[string]any{"target_user_id": "7"})
		Expect(isError).To(BeFalse())
		Expect(out).To(Equal(map[string]any{"success": true, "following": true}))
	})

	It("strips a leading @ from usernames", func() {
		out, isError := callTool(ctx, cs, "twitter_get_user", map[string]any{"username": "@gopher"})
		Expect(isError).To(BeFalse())
		Expect(up.last().path).To(Equal("/2/users/by/username/gopher"))
		Expect(out["data"]).To(HaveKeyWithValue("username", "gopher"))
	})

	It("clamps search results to at least 10", func() {
		_, isError := callTool(ctx, cs, "twitter_search_tweets", map[string]any{"query": "#golang", "max_results": 5})
		Expect(isError).To(BeFalse())
		Expect(up.last().query["max_results"]).To(Equal([]string{"10"}))
	})

	It("caps follower pages at 1000", func() {
		_, isError := callTool(ctx, cs, "twitter_get_followers", map[string]any{"user_id": "42", "max_results": 5000})
		Expect(isError).To(BeFalse())
		Expect(up.last().query["max_results"]).To(Equal([]string{"1000"}))
	})

	It("defaults follower pages to 100", func() {
		_, isError := callTool(ctx, cs, "twitter_get_followers", map[string]any{"user_id": "42"})
		Expect(isError).To(BeFalse())
		Expect(up.last().query["max_results"]).To(Equal([]string{"100"}))
	})

	It("returns the same result for repeated reads", func() {
		first, isError := callTool(ctx, cs, "twitter_get_user", map[string]any{"username": "gopher"})
		Expect(isError).To(BeFalse())
		second, _ := callTool(ctx, cs, "twitter_get_user", map[string]any{"username": "gopher"})
		Expect(second).To(Equal(first))
		Expect(up.count()).To(Equal(2))
	})

	Context("with an expired token", func() {
		BeforeEach(func() {
			token = "expired"
		})

		It("maps 401 to an invalid token error", func() {
			out, isError := callTool(ctx, cs, "twitter_get_user", map[string]any{"username": "gopher"})
			Expect(isError).To(BeTrue())
			Expect(out["error"]).To(ContainSubstring("expired"))
		})

		It("stops after the identity lookup fails", func() {
			out, isError := callTool(ctx, cs, "twitter_retweet", map[string]any{"tweet_id": "1001"})
			Expect(isError).To(BeTrue())
			Expect(out["error"]).To(Equal("Invalid or expired Twitter token"))
			Expect(up.count()).To(Equal(1))
		})
	})

	Context("when rate limited", func() {
		BeforeEach(func() {
			token = "throttled"
		})

		It("reports the rate limit reset", func() {
			out, isError := callTool(ctx, cs, "twitter_search_tweets", map[string]any{"query": "go"})
			Expect(isError).To(BeTrue())
			Expect(out["error"]).To(ContainSubstring("Rate limited"))
			Expect(out["error"]).To(ContainSubstring("1700000000"))
		})
	})
})
