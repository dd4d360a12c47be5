package googledocs

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/docs/v1"

	"github.com/papercomputeco/toolbelt/pkg/result"
)

// Bullet presets accepted by createParagraphBullets.
const (
	BulletPreset   = "BULLET_DISC_CIRCLE_SQUARE"
	NumberedPreset = "NUMBERED_DECIMAL_ALPHA_ROMAN"
)

// DefaultExportMIME is used for unknown export formats.
const DefaultExportMIME = "application/pdf"

var bulletPresets = map[string]string{
	"bullet":   BulletPreset,
	"numbered": NumberedPreset,
}

var exportMIMETypes = map[string]string{
	"pdf":  "application/pdf",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"txt":  "text/plain",
	"html": "text/html",
	"odt":  "application/vnd.oasis.opendocument.text",
	"rtf":  "application/rtf",
	"epub": "application/epub+zip",
}

var (
	// ErrInvalidJSON is returned when a batch payload is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrNotArray is returned when a batch payload is valid JSON but not an
	// array of request objects.
	ErrNotArray = errors.New("requests_json must be a JSON array of request objects")
)

// BulletPresetFor maps a friendly list type ("bullet", "numbered") to its
// preset. Unknown types fall back to BulletPreset.
func BulletPresetFor(listType string) string {
	if preset, ok := bulletPresets[strings.ToLower(strings.TrimSpace(listType))]; ok {
		return preset
	}
	return BulletPreset
}

// ExportMIMEFor maps a format name (pdf, docx, txt, html, odt, rtf, epub) to a
// MIME type. Unknown formats fall back to PDF.
func ExportMIMEFor(format string) string {
	if mime, ok := exportMIMETypes[strings.ToLower(strings.TrimSpace(format))]; ok {
		return mime
	}
	return DefaultExportMIME
}

// RGB is a color with components in 0.0..1.0.
type RGB struct {
	Red   float64
	Green float64
	Blue  float64
}

// TextStyle lists the style options to apply. Nil fields are left untouched.
type TextStyle struct {
	Bold            *bool
	Italic          *bool
	Underline       *bool
	FontSizePt      *float64
	ForegroundColor *RGB
}

// IsEmpty reports whether no style option is set.
func (s TextStyle) IsEmpty() bool {
	_, fields := s.build()
	return len(fields) == 0
}

// build returns the API text style and the field mask naming what is set.
func (s TextStyle) build() (*docs.TextStyle, []string) {
	style := &docs.TextStyle{}
	var fields []string

	if s.Bold != nil {
		style.Bold = *s.Bold
		style.ForceSendFields = append(style.ForceSendFields, "Bold")
		fields = append(fields, "bold")
	}
	if s.Italic != nil {
		style.Italic = *s.Italic
		style.ForceSendFields = append(style.ForceSendFields, "Italic")
		fields = append(fields, "italic")
	}
	if s.Underline != nil {
		style.Underline = *s.Underline
		style.ForceSendFields = append(style.ForceSendFields, "Underline")
		fields = append(fields, "underline")
	}
	if s.FontSizePt != nil {
		style.FontSize = points(*s.FontSizePt)
		fields = append(fields, "fontSize")
	}
	if s.ForegroundColor != nil {
		style.ForegroundColor = &docs.OptionalColor{
			Color: &docs.Color{
				RgbColor: &docs.RgbColor{
					Red:             s.ForegroundColor.Red,
					Green:           s.ForegroundColor.Green,
					Blue:            s.ForegroundColor.Blue,
					ForceSendFields: []string{"Red", "Green", "Blue"},
				},
			},
		}
		fields = append(fields, "foregroundColor")
	}

	return style, fields
}

// ParseRequests splits a JSON array of batchUpdate request objects into its
// elements. Each element is kept byte for byte so explicit false, 0 and ""
// values reach the API unchanged.
func ParseRequests(raw string) ([]json.RawMessage, error) {
	var generic any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	items, ok := generic.([]any)
	if !ok {
		return nil, ErrNotArray
	}
	for _, item := range items {
		if _, ok := item.(map[string]any); !ok {
			return nil, ErrNotArray
		}
	}

	var requests []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &requests); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	return requests, nil
}

// OccurrencesChanged sums replaceAllText occurrence counts across the replies
// of a batchUpdate result.
func OccurrencesChanged(r result.Result) int {
	replies, _ := r["replies"].([]any)

	total := 0
	for _, reply := range replies {
		m, ok := reply.(map[string]any)
		if !ok {
			continue
		}
		replace, ok := m["replaceAllText"].(map[string]any)
		if !ok {
			continue
		}
		if n, ok := replace["occurrencesChanged"].(float64); ok {
			total += int(n)
		}
	}

	return total
}
