package render

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vango-dev/vdirective/pkg/attrs"
	"github.com/vango-dev/vdirective/pkg/directive"
	"github.com/vango-dev/vdirective/pkg/vdom"
)

func TestRenderPage(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	page := PageData{
		Body:        vdom.Div(vdom.Text("Hello, World!")),
		Title:       "Test <Page>",
		StyleSheets: []string{"/app.css"},
		AppAttr:     "data-v-app",
	}

	var buf bytes.Buffer
	if err := renderer.RenderPage(context.Background(), &buf, page); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"<!DOCTYPE html>\n",
		`<html lang="en">`,
		`<meta charset="utf-8">`,
		"<title>Test &lt;Page&gt;</title>",
		`<link rel="stylesheet" href="/app.css">`,
		`<div data-v-app=""><div>Hello, World!</div></div>`,
		"</body>\n</html>\n",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q:\n%s", want, html)
		}
	}
}

func TestRenderPageLang(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	var buf bytes.Buffer
	if err := renderer.RenderPage(context.Background(), &buf, PageData{Body: vdom.Div(), Lang: "de"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `<html lang="de">`) {
		t.Errorf("lang not applied:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "<title>") {
		t.Error("empty title should be omitted")
	}
}

func TestRenderPageBodyErrorWritesNothing(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})
	fail := &directive.Definition{
		Name: "fail",
		SSR: func(*directive.Binding) (attrs.Props, error) {
			return attrs.Props{}, errors.New("boom")
		},
	}

	var buf bytes.Buffer
	err := renderer.RenderPage(context.Background(), &buf, PageData{
		Body:  vdom.WithDirectives(vdom.Div(), vdom.Dir(fail, nil, "")),
		Title: "x",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %q on failure", buf.String())
	}
}
