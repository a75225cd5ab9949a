// Package render turns a generated itinerary into shareable documents.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/indotrip/internal/trip"
)

// Format identifies an export format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// ParseFormat accepts "md", "markdown" and "html", case-insensitively.
// Empty input selects Markdown.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, true
	case "html":
		return FormatHTML, true
	}
	return "", false
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	if f == FormatHTML {
		return ".html"
	}
	return ".md"
}

// ContentType returns the HTTP content type for f.
func (f Format) ContentType() string {
	if f == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

// Render produces the document for f.
func Render(f Format, tripName string, it *trip.Itinerary) ([]byte, error) {
	md := Markdown(tripName, it)
	if f == FormatHTML {
		return HTML(tripName, md)
	}
	return []byte(md), nil
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"|", `\|`,
)

func esc(s string) string {
	return mdEscaper.Replace(s)
}

// Markdown renders the itinerary as a Markdown document.
func Markdown(tripName string, it *trip.Itinerary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", esc(tripName))
	fmt.Fprintf(&b, "_%d days, generated %s_\n\n", it.Days, it.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "%s\n\n", esc(it.Summary))

	if len(it.Suggestions) > 0 {
		b.WriteString("## Suggestions\n\n")
		for _, s := range it.Suggestions {
			fmt.Fprintf(&b, "- %s\n", esc(s))
		}
		b.WriteString("\n")
	}

	for _, d := range it.Plan {
		fmt.Fprintf(&b, "## Day %d: %s\n\n", d.Day, esc(d.Location))
		if d.Transition != nil {
			fmt.Fprintf(&b, "> %s\n\n", esc(*d.Transition))
		}
		fmt.Fprintf(&b, "Zone: %s · Intensity: %s\n\n", esc(d.ZoneHint), d.Intensity)
		if len(d.Items) == 0 {
			b.WriteString("- Free time\n\n")
			continue
		}
		for _, item := range d.Items {
			fmt.Fprintf(&b, "- **%s** (%s), score %d (%d like, %d maybe, %d no)",
				esc(item.Title), esc(item.Category), item.Score,
				item.Votes.Like, item.Votes.Maybe, item.Votes.No)
			if item.Place != "" {
				fmt.Fprintf(&b, " at %s", esc(item.Place))
			}
			b.WriteString("\n")
			if item.Note != "" {
				fmt.Fprintf(&b, "  %s\n", esc(item.Note))
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>body{font-family:system-ui,sans-serif;max-width:48rem;margin:2rem auto;padding:0 1rem}blockquote{color:#555}</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// HTML converts a Markdown document into a standalone HTML page. Raw HTML in
// the source is dropped by the converter.
func HTML(title, markdown string) ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	var out bytes.Buffer
	err := page.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{title, template.HTML(body.String())})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return out.Bytes(), nil
}
