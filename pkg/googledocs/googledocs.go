// Package googledocs is the Google Docs API v1 adapter. Comments and exports go
// through the Drive API v3.
//
// The Docs API uses 1-based indexes into the document body. For complex
// updates, write backwards (from the end of the document) so earlier indexes
// do not shift.
package googledocs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/papercomputeco/toolbelt/pkg/httpapi"
	"github.com/papercomputeco/toolbelt/pkg/result"
)

const (
	// DocsBaseURL is the Docs API endpoint (the service appends v1/...).
	DocsBaseURL = "https://docs.googleapis.com/"

	// DriveBaseURL is the Drive API v3 endpoint.
	DriveBaseURL = "https://www.googleapis.com/drive/v3/"

	// DocumentURLFormat builds a browser URL from a document id.
	DocumentURLFormat = "https://docs.google.com/document/d/%s/edit"
)

// Messages is the Google wording of the shared status table.
var Messages = httpapi.StatusMessages{
	Unauthorized: "Invalid or expired Google access token",
	Forbidden: "Insufficient permissions. Check your Google API scopes. " +
		"Required scopes: https://www.googleapis.com/auth/documents",
	NotFound:    "Document not found",
	RateLimited: "Google API rate limit exceeded. Try again later.",
	APIError:    "Google Docs API error (HTTP %d): %s",
}

// Config tunes where and how a Client talks to the APIs.
type Config struct {
	DocsBaseURL  string
	DriveBaseURL string
	Timeouts     httpapi.Timeouts
	Transport    http.RoundTripper
}

// Client wraps Docs and Drive calls for one access token.
type Client struct {
	docs     *docs.Service
	drive    *drive.Service
	raw      *httpapi.Client
	timeouts httpapi.Timeouts
}

// NewClient builds Docs and Drive services over a bearer-authenticated HTTP
// client.
func NewClient(ctx context.Context, token string, cfg Config) (*Client, error) {
	docsURL := cfg.DocsBaseURL
	if docsURL == "" {
		docsURL = DocsBaseURL
	}
	driveURL := cfg.DriveBaseURL
	if driveURL == "" {
		driveURL = DriveBaseURL
	}

	httpClient := httpapi.NewHTTPClient(token, cfg.Transport)

	docsService, err := docs.NewService(ctx,
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(withTrailingSlash(docsURL)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating docs service: %w", err)
	}

	driveService, err := drive.NewService(ctx,
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(withTrailingSlash(driveURL)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}

	return &Client{
		docs:     docsService,
		drive:    driveService,
		raw:      httpapi.NewClient(docsURL, token, Messages, cfg.Timeouts, cfg.Transport),
		timeouts: cfg.Timeouts,
	}, nil
}

// CreateDocument creates a blank document with title.
func (c *Client) CreateDocument(ctx context.Context, title string) result.Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.DefaultFor())
	defer cancel()

	doc, err := c.docs.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return Failure(err)
	}
	return fromValue(doc)
}

// GetDocument retrieves the full structure, metadata and elements of a
// document.
func (c *Client) GetDocument(ctx context.Context, documentID string) result.Result {
	doc, err := c.getDocument(ctx, documentID)
	if err != nil {
		return Failure(err)
	}
	return fromValue(doc)
}

// BatchUpdate sends requests to the atomic batchUpdate endpoint unchanged.
// Atomicity is the upstream API's guarantee.
func (c *Client) BatchUpdate(ctx context.Context, documentID string, requests []*docs.Request) result.Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.BulkFor())
	defer cancel()

	resp, err := c.docs.Documents.BatchUpdate(documentID, &docs.BatchUpdateDocumentRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return Failure(err)
	}
	return fromValue(resp)
}

// BatchUpdateRaw posts caller-supplied request objects to the batchUpdate
// endpoint byte for byte. Unlike BatchUpdate, explicit zero values such as
// "bold": false are preserved.
func (c *Client) BatchUpdateRaw(ctx context.Context, documentID string, requests []json.RawMessage) result.Result {
	return c.raw.Do(ctx, httpapi.Request{
		Method: http.MethodPost,
		Path:   "/v1/documents/" + url.PathEscape(documentID) + ":batchUpdate",
		Body:   map[string]any{"requests": requests},
		Bulk:   true,
	})
}

// InsertText inserts text at index, or at the end of the body when index is
// nil. Appending takes two calls: the document is fetched to find its end
// index, then the insert is sent. A concurrent edit between the two can leave
// the index stale; the Docs API offers no way to make the pair atomic.
func (c *Client) InsertText(ctx context.Context, documentID, text string, index *int64, segmentID string) result.Result {
	location := &docs.Location{SegmentId: segmentID}

	if index != nil {
		location.Index = *index
	} else {
		doc, err := c.getDocument(ctx, documentID)
		if err != nil {
			return Failure(err)
		}
		location.Index = AppendIndex(doc)
	}

	return c.BatchUpdate(ctx, documentID, []*docs.Request{{
		InsertText: &docs.InsertTextRequest{
			Location: location,
			Text:     text,
		},
	}})
}

// ReplaceAllText replaces every occurrence of findText.
func (c *Client) ReplaceAllText(ctx context.Context, documentID, findText, replaceText string, matchCase bool) result.Result {
	return c.BatchUpdate(ctx, documentID, []*docs.Request{{
		ReplaceAllText: &docs.ReplaceAllTextRequest{
			ContainsText: &docs.SubstringMatchCriteria{
				Text:            findText,
				MatchCase:       matchCase,
				ForceSendFields: []string{"MatchCase"},
			},
			ReplaceText: replaceText,
		},
	}})
}

// InsertImage inserts a publicly reachable image at index. Sizes are in
// points and optional.
func (c *Client) InsertImage(ctx context.Context, documentID, imageURI string, index int64, widthPt, heightPt *float64) result.Result {
	req := &docs.InsertInlineImageRequest{
		Location: &docs.Location{Index: index},
		Uri:      imageURI,
	}

	if widthPt != nil || heightPt != nil {
		size := &docs.Size{}
		if widthPt != nil {
			size.Width = points(*widthPt)
		}
		if heightPt != nil {
			size.Height = points(*heightPt)
		}
		req.ObjectSize = size
	}

	return c.BatchUpdate(ctx, documentID, []*docs.Request{{InsertInlineImage: req}})
}

// FormatText applies style to [startIndex, endIndex). At least one style
// option is required; otherwise no call is made.
func (c *Client) FormatText(ctx context.Context, documentID string, startIndex, endIndex int64, style TextStyle) result.Result {
	textStyle, fields := style.build()
	if len(fields) == 0 {
		return result.Error("No formatting options specified")
	}

	return c.BatchUpdate(ctx, documentID, []*docs.Request{{
		UpdateTextStyle: &docs.UpdateTextStyleRequest{
			Range: &docs.Range{
				StartIndex: startIndex,
				EndIndex:   endIndex,
			},
			TextStyle: textStyle,
			Fields:    strings.Join(fields, ","),
		},
	}})
}

// CreateList turns the paragraphs in range into a list using bulletPreset.
func (c *Client) CreateList(ctx context.Context, documentID string, startIndex, endIndex int64, bulletPreset string) result.Result {
	if bulletPreset == "" {
		bulletPreset = BulletPreset
	}

	return c.BatchUpdate(ctx, documentID, []*docs.Request{{
		CreateParagraphBullets: &docs.CreateParagraphBulletsRequest{
			Range: &docs.Range{
				StartIndex: startIndex,
				EndIndex:   endIndex,
			},
			BulletPreset: bulletPreset,
		},
	}})
}

// AddComment creates a Drive comment on the document, optionally anchored to
// quotedText.
func (c *Client) AddComment(ctx context.Context, documentID, content, quotedText string) result.Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.DefaultFor())
	defer cancel()

	comment := &drive.Comment{Content: content}
	if quotedText != "" {
		comment.QuotedFileContent = &drive.CommentQuotedFileContent{Value: quotedText}
	}

	created, err := c.drive.Comments.Create(documentID, comment).Fields("*").Context(ctx).Do()
	if err != nil {
		return Failure(err)
	}
	return fromValue(created)
}

// ExportDocument exports the document as mimeType and returns the bytes
// base64 encoded.
func (c *Client) ExportDocument(ctx context.Context, documentID, mimeType string) result.Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.BulkFor())
	defer cancel()

	resp, err := c.drive.Files.Export(documentID, mimeType).Context(ctx).Download()
	if err != nil {
		return Failure(err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return httpapi.TransportError(err)
	}

	return result.Result{
		"document_id":    documentID,
		"mime_type":      mimeType,
		"content_base64": base64.StdEncoding.EncodeToString(content),
		"size_bytes":     len(content),
	}
}

// AppendIndex is the index just before the body's final newline, or 1 for an
// empty body.
func AppendIndex(doc *docs.Document) int64 {
	if doc == nil || doc.Body == nil || len(doc.Body.Content) == 0 {
		return 1
	}

	last := doc.Body.Content[len(doc.Body.Content)-1]
	return max(last.EndIndex-1, 1)
}

// DocumentURL returns the browser URL for documentID.
func DocumentURL(documentID string) string {
	return fmt.Sprintf(DocumentURLFormat, documentID)
}

// Failure translates a Docs or Drive call error into the uniform shape.
func Failure(err error) result.Result {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		detail := apiErr.Message
		if detail == "" {
			detail = httpapi.ErrorDetail([]byte(apiErr.Body))
		}
		return Messages.Failure(apiErr.Code, apiErr.Header, detail)
	}
	return httpapi.TransportError(err)
}

func (c *Client) getDocument(ctx context.Context, documentID string) (*docs.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.DefaultFor())
	defer cancel()

	return c.docs.Documents.Get(documentID).Context(ctx).Do()
}

func fromValue(v any) result.Result {
	r, err := result.FromValue(v)
	if err != nil {
		return result.Errorf("Google Docs API error: %v", err)
	}
	return r
}

func points(magnitude float64) *docs.Dimension {
	return &docs.Dimension{Magnitude: magnitude, Unit: "PT"}
}

func withTrailingSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
