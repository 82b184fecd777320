package library

import (
	"strings"

	"github.com/gabriel/bmh/internal/platform"
	"github.com/gabriel/bmh/internal/searchutil"
)

func NamespacedKey(prefix string, slug string) string {
	return prefix + slug
}

// ParseNamespacedKey splits a history key into its platform id and slug.
// Keys without a known prefix come back with an empty platform id.
func ParseNamespacedKey(key string, prefixes map[string]string) (string, string) {
	longest := ""
	for prefix := range prefixes {
		if strings.HasPrefix(key, prefix) && len(prefix) > len(longest) {
			longest = prefix
		}
	}
	if longest == "" {
		return "", key
	}
	return prefixes[longest], strings.TrimPrefix(key, longest)
}

// HistoryKeys lists every key a card's reading history may be stored
// under, most specific first.
func HistoryKeys(adapter platform.Adapter, card *platform.CardRecord) []string {
	if card == nil {
		return nil
	}

	keys := make([]string, 0, 5)
	seen := map[string]struct{}{}
	add := func(key string) {
		if key == "" {
			return
		}
		if _, exists := seen[key]; exists {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	if card.Slug != "" {
		if adapter != nil && adapter.Prefix() != "" {
			add(NamespacedKey(adapter.Prefix(), card.Slug))
		}
		add(card.Slug)
		if base, _, found := strings.Cut(card.Slug, "."); found {
			add(base)
		}
	}
	add(strings.TrimSpace(card.Title))
	add(searchutil.Compact(card.Title))
	return keys
}
