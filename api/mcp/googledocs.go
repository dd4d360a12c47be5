package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/papercomputeco/toolbelt/pkg/googledocs"
	"github.com/papercomputeco/toolbelt/pkg/result"
)

// CreateDocumentInput represents the input arguments for
// google_docs_create_document.
type CreateDocumentInput struct {
	Title string `json:"title" jsonschema:"the title for the new document"`
}

// DocumentIDInput represents the input of tools acting on a whole document.
type DocumentIDInput struct {
	DocumentID string `json:"document_id" jsonschema:"the ID of the Google Docs document"`
}

// InsertTextInput represents the input arguments for google_docs_insert_text.
type InsertTextInput struct {
	DocumentID string `json:"document_id" jsonschema:"the ID of the Google Docs document"`
	Text       string `json:"text" jsonschema:"the text to insert"`
	Index      *int64 `json:"index,omitempty" jsonschema:"1-based index to insert at; omit to append to the end"`
}

// ReplaceAllTextInput represents the input arguments for
// google_docs_replace_all_text.
type ReplaceAllTextInput struct {
	DocumentID  string `json:"document_id" jsonschema:"the ID of the Google Docs document"`
	FindText    string `json:"find_text" jsonschema:"the text to find, e.g. a template placeholder like {{Customer_Name}}"`
	ReplaceText string `json:"replace_text" jsonschema:"the replacement text"`
	MatchCase   *bool  `json:"match_case,omitempty" jsonschema:"whether the search is case sensitive (default: true)"`
}

// InsertImageInput represents the input arguments for google_docs_insert_image.
type InsertImageInput struct {
	DocumentID string   `json:"document_id" jsonschema:"the ID of the Google Docs document"`
	ImageURI   string   `json:"image_uri" jsonschema:"publicly accessible URI of the image"`
	Index      int64    `json:"index" jsonschema:"1-based index to insert the image at"`
	WidthPt    *float64 `json:"width_pt,omitempty" jsonschema:"optional width in points"`
	HeightPt   *float64 `json:"height_pt,omitempty" jsonschema:"optional height in points"`
}

// FormatTextInput represents the input arguments for google_docs_format_text.
type FormatTextInput struct {
	DocumentID           string   `json:"document_id" jsonschema:"the ID of the Google Docs document"`
	StartIndex           int64    `json:"start_index" jsonschema:"start of the range (1-based, inclusive)"`
	EndIndex             int64    `json:"end_index" jsonschema:"end of the range (1-based, exclusive)"`
	Bold                 *bool    `json:"bold,omitempty" jsonschema:"set text bold"`
	Italic               *bool    `json:"italic,omitempty" jsonschema:"set text italic"`
	Underline            *bool    `json:"underline,omitempty" jsonschema:"set text underlined"`
	FontSizePt           *float64 `json:"font_size_pt,omitempty" jsonschema:"font size in points, e.g. 12.0"`
	ForegroundColorRed   *float64 `json:"foreground_color_red,omitempty" jsonschema:"red component (0.0-1.0)"`
	ForegroundColorGreen *float64 `json:"foreground_color_green,omitempty" jsonschema:"green component (0.0-1.0)"`
	ForegroundColorBlue  *float64 `json:"foreground_color_blue,omitempty" jsonschema:"blue component (0.0-1.0)"`
}

func (in FormatTextInput) style() googledocs.TextStyle {
	style := googledocs.TextStyle{
		Bold:       in.Bold,
		Italic:     in.Italic,
		Underline:  in.Underline,
		FontSizePt: in.FontSizePt,
	}

	if in.ForegroundColorRed != nil || in.ForegroundColorGreen != nil || in.ForegroundColorBlue != nil {
		style.ForegroundColor = &googledocs.RGB{
			Red:   deref(in.ForegroundColorRed),
			Green: deref(in.ForegroundColorGreen),
			Blue:  deref(in.ForegroundColorBlue),
		}
	}

	return style
}

func (in FormatTextInput) validate() result.Result {
	if in.style().IsEmpty() {
		return result.Error("No formatting options specified")
	}
	return nil
}

// BatchUpdateInput represents the input arguments for google_docs_batch_update.
type BatchUpdateInput struct {
	DocumentID   string `json:"document_id" jsonschema:"the ID of the Google Docs document"`
	RequestsJSON string `json:"requests_json" jsonschema:"JSON string containing an array of batchUpdate request objects"`
}

func (in BatchUpdateInput) validate() result.Result {
	_, failure := parseRequests(in.RequestsJSON)
	return failure
}

// CreateListInput represents the input arguments for google_docs_create_list.
type CreateListInput struct {
	DocumentID string `json:"document_id" jsonschema:"the ID of the Google Docs document"`
	StartIndex int64  `json:"start_index" jsonschema:"start of the paragraphs to convert (1-based)"`
	EndIndex   int64  `json:"end_index" jsonschema:"end of the paragraphs to convert (1-based)"`
	ListType   string `json:"list_type,omitempty" jsonschema:"bullet or numbered (default: bullet)"`
}

// AddCommentInput represents the input arguments for google_docs_add_comment.
type AddCommentInput struct {
	DocumentID string `json:"document_id" jsonschema:"the ID of the Google Docs document"`
	Content    string `json:"content" jsonschema:"the comment text"`
	QuotedText string `json:"quoted_text,omitempty" jsonschema:"optional document text to anchor the comment to"`
}

// ExportContentInput represents the input arguments for
// google_docs_export_content.
type ExportContentInput struct {
	DocumentID string `json:"document_id" jsonschema:"the ID of the Google Docs document"`
	Format     string `json:"format,omitempty" jsonschema:"export format: pdf, docx, txt, html, odt, rtf or epub (default: pdf)"`
}

func (s *Server) registerGoogleDocs() error {
	tools := []func() error{
		func() error {
			return addTool(s, "google_docs_create_document",
				"Create a new blank Google Docs document with a specified title.",
				s.docsClient,
				func(ctx context.Context, c *googledocs.Client, in CreateDocumentInput) result.Result {
					res := c.CreateDocument(ctx, in.Title)
					if res.IsError() {
						return res
					}
					id, _ := res["documentId"].(string)
					return result.Result{
						"document_id":  id,
						"title":        res["title"],
						"document_url": googledocs.DocumentURL(id),
					}
				})
		},
		func() error {
			return addTool(s, "google_docs_get_document",
				"Retrieve the full structural content, metadata, and elements of a document.",
				s.docsClient,
				func(ctx context.Context, c *googledocs.Client, in DocumentIDInput) result.Result {
					return c.GetDocument(ctx, in.DocumentID)
				})
		},
		func() error {
			return addTool(s, "google_docs_insert_text",
				"Insert text at a specific index or at the end of the document. "+
					"Google Docs uses 1-based indexing; index 1 is the start of the document.",
				s.docsClient,
				func(ctx context.Context, c *googledocs.Client, in InsertTextInput) result.Result {
					return c.InsertText(ctx, in.DocumentID, in.Text, in.Index, "")
				})
		},
		func() error {
			return addTool(s, "google_docs_replace_all_text",
				"Global find-and-replace, ideal for populating templates with placeholders like {{Customer_Name}}.",
				s.docsClient,
				func(ctx context.Context, c *googledocs.Client, in ReplaceAllTextInput) result.Result {
					matchCase := in.MatchCase == nil || *in.MatchCase
					res := c.ReplaceAllText(ctx, in.DocumentID, in.FindText, in.ReplaceText, matchCase)
					if res.IsError() {
						return res
					}
					return result.Result{
						"document_id":          in.DocumentID,
						"find_text":            in.FindText,
						"replace_text":         in.ReplaceText,
						"occurrences_replaced": googledocs.OccurrencesChanged(res),
					}
				})
		},
		func() error {
			return addTool(s, "google_docs_insert_image",
				"Insert an image into the document body via URI. The URI must be publicly accessible by Google's servers.",
				s.docsClient,
				func(ctx context.Context, c *googledocs.Client, in InsertImageInput) result.Result {
					return c.InsertImage(ctx, in.DocumentID, in.ImageURI, in.Index, in.WidthPt, in.HeightPt)
				})
		},
		func() error {
			return addTool(s, "google_docs_format_text",
				"Apply styling (bold, italic, underline, font size, colors) to a text range.",
				s.docsClient,
				func(ctx context.Context, c *googledocs.Client, in FormatTextInput) result.Result {
					return c.FormatText(ctx, in.DocumentID, in.StartIndex, in.EndIndex, in.style())
				})
		},
		func() error {
			return addTool(s, "google_docs_batch_update",
				"Execute multiple requests (inserts, deletes, formatting) in a single atomic operation. "+
					"See https://developers.google.com/docs/api/reference/rest/v1/documents/batchUpdate",
				s.docsClient,
				func(ctx context.Context, c *googledocs.Client, in BatchUpdateInput) result.Result {
					requests, failure := parseRequests(in.RequestsJSON)
					if failure != nil {
						return failure
					}
					return c.BatchUpdateRaw(ctx, in.DocumentID, requests)
				})
		},
		func() error {
			return addTool(s, "google_docs_create_list",
				"Create bulleted or numbered lists from the paragraphs in a range.",
				s.docsClient,
				func(ctx context.Context, c *googledocs.Client, in CreateListInput) result.Result {
					return c.CreateList(ctx, in.DocumentID, in.StartIndex, in.EndIndex, googledocs.BulletPresetFor(in.ListType))
				})
		},
		func() error {
			return addTool(s, "google_docs_add_comment",
				"Create a comment, optionally anchored to a specific text segment. Uses the Google Drive API.",
				s.docsClient,
				func(ctx context.Context, c *googledocs.Client, in AddCommentInput) result.Result {
					return c.AddComment(ctx, in.DocumentID, in.Content, in.QuotedText)
				})
		},
		func() error {
			return addTool(s, "google_docs_export_content",
				"Export the document to another format (PDF, DOCX, TXT, HTML, ODT, RTF, EPUB) as base64 content.",
				s.docsClient,
				func(ctx context.Context, c *googledocs.Client, in ExportContentInput) result.Result {
					return c.ExportDocument(ctx, in.DocumentID, googledocs.ExportMIMEFor(in.Format))
				})
		},
	}

	return registerAll(tools)
}

func parseRequests(raw string) ([]json.RawMessage, result.Result) {
	requests, err := googledocs.ParseRequests(raw)
	switch {
	case errors.Is(err, googledocs.ErrNotArray):
		return nil, result.Error(err.Error())
	case err != nil:
		detail := strings.TrimPrefix(err.Error(), googledocs.ErrInvalidJSON.Error()+": ")
		return nil, result.Errorf("Invalid JSON: %s", detail)
	}
	return requests, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
