package web

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iliyamo/door-access-admin/internal/view"
)

func TestDataPageEscapesDeleteAction(t *testing.T) {
	r := MustRenderer()
	pv := &view.PageView{
		Title: view.PageDoors,
		Rows: []view.Row{
			{ID: "a%41"},
			{ID: "Kamer?2"},
			{ID: "A/B"},
		},
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, TemplateData, pv, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`action="/delete/deurStatus/a%2541"`,
		`action="/delete/deurStatus/Kamer%3F2"`,
		`action="/delete/deurStatus/A%2FB"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %s in rendered page", want)
		}
	}
}

func TestHomeEscapesPageLinks(t *testing.T) {
	r := MustRenderer()
	var buf bytes.Buffer
	if err := r.Render(&buf, TemplateHome, HomePage{Pages: []string{"deur Status"}}, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), `href="/data/deur%20Status"`) {
		t.Errorf("Expected escaped page link, got %s", buf.String())
	}
}
