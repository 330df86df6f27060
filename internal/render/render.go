package render

import (
	"bytes"
	"embed"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"

	"github.com/malonaz/tgexport/internal/export"
)

//go:embed templates
var templatesFS embed.FS

// mediaLabels maps canonical media kinds onto their icon + label line.
var mediaLabels = map[string]string{
	"photo":     "📷 Photo",
	"document":  "📎 File",
	"video":     "🎥 Video",
	"audio":     "🎵 Audio",
	"voice":     "🎤 Voice message",
	"sticker":   "🏷 Sticker",
	"animation": "🎬 GIF",
}

type pageData struct {
	Title      string
	ExportedAt string
	SelfName   string
	OtherName  string
	Total      int
	Sent       int
	Received   int
	Days       []*daySection
}

type daySection struct {
	Label    string
	Messages []*messageView
}

type messageView struct {
	Class      string
	Time       string
	MediaLine  string
	Forwarded  bool
	Edited     bool
	Body       template.HTML
	SearchText string
}

// Render turns a bundle into a self-contained interactive HTML document:
// records grouped by calendar date, left/right aligned by direction, with
// a client-side substring search. Rendering the same bundle twice yields
// the same document.
func Render(bundle *export.Bundle) (string, error) {
	tmpl, err := template.New("").Funcs(sprig.HtmlFuncMap()).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return "", errors.Wrap(err, "parsing template")
	}

	data := &pageData{
		Title:      "Conversation with " + bundle.Other().Name,
		ExportedAt: bundle.Info.ExportedAt,
		SelfName:   bundle.Self().Name,
		OtherName:  bundle.Other().Name,
		Total:      bundle.Info.TotalMessages,
	}

	var currentDay *daySection
	for _, record := range bundle.Messages {
		if record.FromMe {
			data.Sent++
		} else {
			data.Received++
		}

		timestamp := time.Unix(record.Timestamp, 0)
		label := timestamp.Format("2 January 2006")
		if currentDay == nil || currentDay.Label != label {
			currentDay = &daySection{Label: label}
			data.Days = append(data.Days, currentDay)
		}
		currentDay.Messages = append(currentDay.Messages, &messageView{
			Class:      directionClass(record.FromMe),
			Time:       timestamp.Format("15:04"),
			MediaLine:  mediaLine(record.Media),
			Forwarded:  record.Forward != nil,
			Edited:     record.EditDate != "",
			Body:       formatBody(record.Text),
			SearchText: strings.ToLower(record.Text),
		})
	}

	var buffer bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buffer, "dialog.tmpl", data); err != nil {
		return "", errors.Wrap(err, "executing template")
	}
	return buffer.String(), nil
}

// WriteFile renders the bundle and writes the document to path.
func WriteFile(bundle *export.Bundle, path string) error {
	content, err := Render(bundle)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.Wrap(err, "writing file")
	}
	return nil
}

func directionClass(fromMe bool) string {
	if fromMe {
		return "from-me"
	}
	return "from-other"
}

func mediaLine(media *export.MediaDescriptor) string {
	if media == nil {
		return ""
	}
	label, ok := mediaLabels[media.Kind]
	if !ok {
		label = "📎 " + media.Kind
	}
	if media.FileName != "" {
		return label + ": " + media.FileName
	}
	return label
}

// formatBody makes the text HTML-safe and converts newlines to breaks.
func formatBody(text string) template.HTML {
	escaped := template.HTMLEscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return template.HTML(escaped)
}
