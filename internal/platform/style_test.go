package platform

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestPaintBorderReplacesDeclarationsInPlace(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div style="color: red; border: 1px solid black"></div>`))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	target := doc.Find("div")

	spec := BorderSpec{Width: 4, Style: "solid", Color: "#4ade80", Radius: "8px"}
	PaintBorder(target, spec)
	PaintBorder(target, spec)

	style, _ := target.Attr("style")
	want := "color: red; border: 4px solid #4ade80 !important; border-radius: 8px !important;"
	if style != want {
		t.Fatalf("expected %q, got %q", want, style)
	}
}

func TestPaintBorderDefaultsStyle(t *testing.T) {
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(`<div></div>`))
	target := doc.Find("div")

	PaintBorder(target, BorderSpec{Property: "border-left", Width: 2, Color: "red"})
	if got := StyleValue(target, "border-left"); got != "2px solid red" {
		t.Fatalf("unexpected border-left %q", got)
	}
}

func TestParseLeadingFloat(t *testing.T) {
	tests := map[string]float64{"12": 12, "12.5": 12.5, "12-5": 12, " 7abc": 7}
	for raw, want := range tests {
		got := ParseLeadingFloat(raw)
		if got == nil || *got != want {
			t.Fatalf("ParseLeadingFloat(%q) = %v, want %v", raw, got, want)
		}
	}
	if ParseLeadingFloat("abc") != nil {
		t.Fatalf("expected nil for non-numeric input")
	}
	if FormatChapter(12) != "12" || FormatChapter(12.5) != "12.5" {
		t.Fatalf("unexpected chapter formatting")
	}
}

func TestSlugify(t *testing.T) {
	if got := Slugify("Tower of God: Season 3!"); got != "tower-of-god-season-3" {
		t.Fatalf("unexpected slug %q", got)
	}
}
