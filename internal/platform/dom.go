package platform

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const ClickedAttr = "data-bmh-clicked"

var (
	slugSpacePattern   = regexp.MustCompile(`\s+`)
	slugInvalidPattern = regexp.MustCompile(`[^a-z0-9-]`)
)

// FirstMatch tries each selector in order and returns the first element
// found, or nil. Site markup is unstable, so callers list the most specific
// selector first.
func FirstMatch(scope *goquery.Selection, selectors ...string) *goquery.Selection {
	if scope == nil {
		return nil
	}
	for _, selector := range selectors {
		if found := scope.Find(selector).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}

// SelfOrFind returns scope when it matches selector itself, otherwise its
// first matching descendant.
func SelfOrFind(scope *goquery.Selection, selector string) *goquery.Selection {
	if scope == nil || scope.Length() == 0 {
		return nil
	}
	if scope.Is(selector) {
		return scope.First()
	}
	if found := scope.Find(selector).First(); found.Length() > 0 {
		return found
	}
	return nil
}

func Text(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(sel.Text())
}

func Attr(sel *goquery.Selection, name string) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	value, _ := sel.Attr(name)
	return strings.TrimSpace(value)
}

func HasClass(sel *goquery.Selection, class string) bool {
	return sel != nil && sel.Length() > 0 && sel.First().HasClass(class)
}

func HostAllowed(host string, allowed []string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return false
	}
	for _, candidate := range allowed {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		if candidate == "" {
			continue
		}
		if host == candidate || strings.HasSuffix(host, "."+candidate) {
			return true
		}
	}
	return false
}

func MatchesHosts(rawURL string, hosts []string) bool {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	return HostAllowed(parsed.Hostname(), hosts)
}

// ResolveURL turns a possibly relative href into an absolute URL using base.
func ResolveURL(base string, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	baseURL, err := url.Parse(base)
	if err != nil || base == "" {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

// Href returns the resolved href of sel, or of its closest anchor.
func Href(sel *goquery.Selection, base string) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	href := Attr(sel, "href")
	if href == "" {
		href = Attr(sel.Closest("a"), "href")
	}
	return ResolveURL(base, href)
}

// Click marks the control as clicked and reports where it leads.
func Click(sel *goquery.Selection, base string) NavAction {
	if sel == nil || sel.Length() == 0 {
		return NavAction{}
	}
	target := sel.First()
	target.SetAttr(ClickedAttr, "true")
	return NavAction{Found: true, Href: Href(target, base)}
}

// ClickAnchorWithText clicks the first anchor whose text contains one of
// the needles.
func ClickAnchorWithText(doc *goquery.Selection, base string, needles ...string) NavAction {
	if doc == nil {
		return NavAction{}
	}
	var match *goquery.Selection
	doc.Find("a").EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		text := anchor.Text()
		for _, needle := range needles {
			if strings.Contains(text, needle) {
				match = anchor
				return false
			}
		}
		return true
	})
	return Click(match, base)
}

func Slugify(title string) string {
	if title == "" {
		return ""
	}
	slug := slugSpacePattern.ReplaceAllString(strings.ToLower(title), "-")
	return slugInvalidPattern.ReplaceAllString(slug, "")
}

func PathSegments(rawURL string) []string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil
	}
	parts := strings.Split(parsed.Path, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
