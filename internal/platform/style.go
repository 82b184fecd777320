package platform

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const importantSuffix = "!important"

type StyleDecl struct {
	Property  string
	Value     string
	Important bool
}

// BorderSpec describes one status border. Property defaults to "border".
type BorderSpec struct {
	Property  string
	Width     int
	Style     string
	Color     string
	Radius    string
	BoxSizing bool
	Relative  bool
}

// PaintBorder writes the border declarations into the inline style of every
// node in target. Existing declarations are replaced in place, so repeated
// calls with the same spec leave the same style attribute behind.
func PaintBorder(target *goquery.Selection, spec BorderSpec) {
	if target == nil || target.Length() == 0 {
		return
	}

	property := spec.Property
	if property == "" {
		property = "border"
	}
	style := spec.Style
	if style == "" {
		style = "solid"
	}

	decls := []StyleDecl{{
		Property:  property,
		Value:     fmt.Sprintf("%dpx %s %s", spec.Width, style, spec.Color),
		Important: true,
	}}
	if spec.Radius != "" {
		decls = append(decls, StyleDecl{Property: "border-radius", Value: spec.Radius, Important: true})
	}
	if spec.BoxSizing {
		decls = append(decls, StyleDecl{Property: "box-sizing", Value: "border-box", Important: true})
	}
	if spec.Relative {
		decls = append(decls, StyleDecl{Property: "position", Value: "relative", Important: true})
	}

	SetStyle(target, decls...)
}

func SetStyle(target *goquery.Selection, decls ...StyleDecl) {
	target.Each(func(_ int, node *goquery.Selection) {
		raw, _ := node.Attr("style")
		current := ParseStyle(raw)
		for _, decl := range decls {
			current = upsertDecl(current, decl)
		}
		node.SetAttr("style", FormatStyle(current))
	})
}

// StyleValue returns the value of property in the first node's inline
// style, without any !important marker.
func StyleValue(target *goquery.Selection, property string) string {
	if target == nil || target.Length() == 0 {
		return ""
	}
	raw, _ := target.First().Attr("style")
	property = strings.ToLower(strings.TrimSpace(property))
	for _, decl := range ParseStyle(raw) {
		if decl.Property == property {
			return decl.Value
		}
	}
	return ""
}

func ParseStyle(raw string) []StyleDecl {
	parts := strings.Split(raw, ";")
	decls := make([]StyleDecl, 0, len(parts))
	for _, part := range parts {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" {
			continue
		}
		important := false
		if strings.HasSuffix(strings.ToLower(value), importantSuffix) {
			important = true
			value = strings.TrimSpace(value[:len(value)-len(importantSuffix)])
		}
		decls = upsertDecl(decls, StyleDecl{Property: name, Value: value, Important: important})
	}
	return decls
}

func FormatStyle(decls []StyleDecl) string {
	parts := make([]string, 0, len(decls))
	for _, decl := range decls {
		value := decl.Value
		if decl.Important {
			value += " " + importantSuffix
		}
		parts = append(parts, decl.Property+": "+value)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ") + ";"
}

func upsertDecl(decls []StyleDecl, decl StyleDecl) []StyleDecl {
	decl.Property = strings.ToLower(strings.TrimSpace(decl.Property))
	for i := range decls {
		if decls[i].Property == decl.Property {
			decls[i] = decl
			return decls
		}
	}
	return append(decls, decl)
}
