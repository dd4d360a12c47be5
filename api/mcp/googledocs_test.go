package mcp_test

import (
	"context"
	"encoding/base64"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	toolmcp "github.com/papercomputeco/toolbelt/api/mcp"
	"github.com/papercomputeco/toolbelt/pkg/credentials"
)

var _ = Describe("Google Docs tools", func() {
	var (
		ctx context.Context
		up  *upstream
		env map[string]string
		cs  *mcp.ClientSession
	)

	BeforeEach(func() {
		ctx = context.Background()
		up = newUpstream()
		DeferCleanup(up.close)
		env = map[string]string{"GOOGLE_DOCS_ACCESS_TOKEN": "docs-token"}
	})

	JustBeforeEach(func() {
		resolver := credentials.NewResolver(credentials.WithLookupEnv(envOf(env)))
		server, err := toolmcp.NewServer(configFor(up, resolver))
		Expect(err).NotTo(HaveOccurred())
		cs = connect(ctx, server)
	})

	It("creates a document and reads the same title back", func() {
		created, isError := callTool(ctx, cs, "google_docs_create_document", map[string]any{"title": "Q3 Plan"})
		Expect(isError).To(BeFalse())
		Expect(created).To(Equal(map[string]any{
			"document_id":  "doc-1",
			"title":        "Q3 Plan",
			"document_url": "https://docs.google.com/document/d/doc-1/edit",
		}))

		fetched, isError := callTool(ctx, cs, "google_docs_get_document", map[string]any{"document_id": "doc-1"})
		Expect(isError).To(BeFalse())
		Expect(fetched["title"]).To(Equal("Q3 Plan"))
	})

	It("returns the same document for repeated reads", func() {
		_, isError := callTool(ctx, cs, "google_docs_create_document", map[string]any{"title": "Q3 Plan"})
		Expect(isError).To(BeFalse())

		first, isError := callTool(ctx, cs, "google_docs_get_document", map[string]any{"document_id": "doc-1"})
		Expect(isError).To(BeFalse())
		second, isError := callTool(ctx, cs, "google_docs_get_document", map[string]any{"document_id": "doc-1"})
		Expect(isError).To(BeFalse())
		Expect(second).To(Equal(first))
	})

	It("reports missing documents", func() {
		out, isError := callTool(ctx, cs, "google_docs_get_document", map[string]any{"document_id": "nope"})
		Expect(isError).To(BeTrue())
		Expect(out["error"]).To(Equal("Document not found"))
	})

	It("sums replaced occurrences", func() {
		out, isError := callTool(ctx, cs, "google_docs_replace_all_text", map[string]any{
			"document_id":  "doc-1",
			"find_text":    "{{name}}",
			"replace_text": "Ada",
		})
		Expect(isError).To(BeFalse())
		Expect(out).To(Equal(map[string]any{
			"document_id":          "doc-1",
			"find_text":            "{{name}}",
			"replace_text":         "Ada",
			"occurrences_replaced": float64(2),
		}))

		requests := up.last().body["requests"].([]any)
		replace := requests[0].(map[string]any)["replaceAllText"].(map[string]any)
		Expect(replace["containsText"]).To(HaveKeyWithValue("matchCase", true))
	})

	It("appends text at the end of the body", func() {
		created, _ := callTool(ctx, cs, "google_docs_create_document", map[string]any{"title": "Notes"})

		_, isError := callTool(ctx, cs, "google_docs_insert_text", map[string]any{
			"document_id": created["document_id"],
			"text":        "more",
		})
		Expect(isError).To(BeFalse())

		requests := up.last().body["requests"].([]any)
		insert := requests[0].(map[string]any)["insertText"].(map[string]any)
		Expect(insert["location"]).To(HaveKeyWithValue("index", float64(11)))
	})

	It("assembles a foreground color from partial components", func() {
		_, isError := callTool(ctx, cs, "google_docs_format_text", map[string]any{
			"document_id":          "doc-1",
			"start_index":          1,
			"end_index":            5,
			"foreground_color_red": 0.5,
		})
		Expect(isError).To(BeFalse())

		requests := up.last().body["requests"].([]any)
		update := requests[0].(map[string]any)["updateTextStyle"].(map[string]any)
		Expect(update["fields"]).To(Equal("foregroundColor"))

		color := update["textStyle"].(map[string]any)["foregroundColor"].(map[string]any)["color"].(map[string]any)
		Expect(color["rgbColor"]).To(Equal(map[string]any{"red": 0.5, "green": float64(0), "blue": float64(0)}))
	})

	It("maps list types to bullet presets", func() {
		_, isError := callTool(ctx, cs, "google_docs_create_list", map[string]any{
			"document_id": "doc-1",
			"start_index": 1,
			"end_index":   10,
			"list_type":   "NUMBERED",
		})
		Expect(isError).To(BeFalse())

		requests := up.last().body["requests"].([]any)
		bullets := requests[0].(map[string]any)["createParagraphBullets"].(map[string]any)
		Expect(bullets["bulletPreset"]).To(Equal("NUMBERED_DECIMAL_ALPHA_ROMAN"))
	})

	It("passes batch requests through", func() {
		_, isError := callTool(ctx, cs, "google_docs_batch_update", map[string]any{
			"document_id":   "doc-1",
			"requests_json": `[{"deleteContentRange":{"range":{"startIndex":1,"endIndex":3}}}]`,
		})
		Expect(isError).To(BeFalse())

		requests := up.last().body["requests"].([]any)
		Expect(requests).To(HaveLen(1))
		Expect(requests[0]).To(HaveKey("deleteContentRange"))
	})

	It("keeps explicit false values in batch requests", func() {
		_, isError := callTool(ctx, cs, "google_docs_batch_update", map[string]any{
			"document_id":   "doc-1",
			"requests_json": `[{"updateTextStyle":{"range":{"startIndex":1,"endIndex":5},"textStyle":{"bold":false},"fields":"bold"}}]`,
		})
		Expect(isError).To(BeFalse())

		req := up.last()
		Expect(req.path).To(Equal("/v1/documents/doc-1:batchUpdate"))

		requests := req.body["requests"].([]any)
		update := requests[0].(map[string]any)["updateTextStyle"].(map[string]any)
		Expect(update["textStyle"]).To(HaveKeyWithValue("bold", false))
		Expect(update["fields"]).To(Equal("bold"))
	})

	It("exports base64 content for unknown formats as PDF", func() {
		out, isError := callTool(ctx, cs, "google_docs_export_content", map[string]any{
			"document_id": "doc-1",
			"format":      "pages",
		})
		Expect(isError).To(BeFalse())
		Expect(out["mime_type"]).To(Equal("application/pdf"))
		Expect(out["content_base64"]).To(Equal(base64.StdEncoding.EncodeToString([]byte("hello"))))
		Expect(out["size_bytes"]).To(Equal(float64(5)))
	})

	Describe("input errors", func() {
		BeforeEach(func() {
			env = nil
		})

		It("rejects formatting without options before resolving credentials", func() {
			out, isError := callTool(ctx, cs, "google_docs_format_text", map[string]any{
				"document_id": "doc-1",
				"start_index": 1,
				"end_index":   5,
			})
			Expect(isError).To(BeTrue())
			Expect(out["error"]).To(Equal("No formatting options specified"))
			Expect(up.count()).To(BeZero())
		})

		It("rejects batch payloads that are not arrays", func() {
			out, isError := callTool(ctx, cs, "google_docs_batch_update", map[string]any{
				"document_id":   "doc-1",
				"requests_json": `{"insertText":{}}`,
			})
			Expect(isError).To(BeTrue())
			Expect(out["error"]).To(Equal("requests_json must be a JSON array of request objects"))
			Expect(up.count()).To(BeZero())
		})

		It("rejects invalid batch JSON", func() {
			out, isError := callTool(ctx, cs, "google_docs_batch_update", map[string]any{
				"document_id":   "doc-1",
				"requests_json": `[{`,
			})
			Expect(isError).To(BeTrue())
			Expect(out["error"]).To(HavePrefix("Invalid JSON: "))
			Expect(up.count()).To(BeZero())
		})
	})
})
