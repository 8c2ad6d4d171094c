package render

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/vango-dev/vdirective/pkg/attrs"
	"github.com/vango-dev/vdirective/pkg/directive"
	"github.com/vango-dev/vdirective/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root node for the page content.
	Body *vdom.VNode

	// Context is the render context for Body.
	Context *directive.Context

	// Title is the page title.
	Title string

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// AppAttr, when set, wraps Body in <div AppAttr=""> so the markup
	// matches a client mount into a marked container.
	AppAttr string
}

// RenderPage renders a complete HTML document. Like RenderToWriter it
// writes nothing if the body fails to render.
func (r *Renderer) RenderPage(ctx context.Context, w io.Writer, page PageData) error {
	body, err := r.RenderToString(ctx, page.Body, page.Context)
	if err != nil {
		return err
	}

	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n")
	fmt.Fprintf(&buf, "<html lang=\"%s\">\n<head>\n", attrs.EscapeAttr(lang))
	buf.WriteString("<meta charset=\"utf-8\">\n")
	if page.Title != "" {
		fmt.Fprintf(&buf, "<title>%s</title>\n", attrs.EscapeText(page.Title))
	}
	for _, href := range page.StyleSheets {
		fmt.Fprintf(&buf, "<link rel=\"stylesheet\" href=\"%s\">\n", attrs.EscapeAttr(href))
	}
	buf.WriteString("</head>\n<body>\n")
	if page.AppAttr != "" {
		fmt.Fprintf(&buf, "<div %s=\"\">%s</div>\n", page.AppAttr, body)
	} else {
		buf.WriteString(body)
		buf.WriteByte('\n')
	}
	buf.WriteString("</body>\n</html>\n")

	_, err = buf.WriteTo(w)
	return err
}
