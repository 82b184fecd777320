package defaults

import (
	"fmt"

	"github.com/gabriel/bmh/internal/platform"
	"github.com/gabriel/bmh/internal/platform/native/asurascans"
	"github.com/gabriel/bmh/internal/platform/native/mangadex"
	"github.com/gabriel/bmh/internal/platform/native/mangafire"
	"github.com/gabriel/bmh/internal/platform/native/manganato"
	"github.com/gabriel/bmh/internal/platform/native/mangaplus"
	"github.com/gabriel/bmh/internal/platform/native/webtoons"
	"github.com/gabriel/bmh/internal/platform/yamladapter"
)

// NewRegistry registers the built-in adapters followed by any YAML adapters
// found in yamlAdaptersPath. Registration order decides detection ties, so
// built-ins always win over YAML files claiming the same host.
func NewRegistry(yamlAdaptersPath string) (*platform.Registry, error) {
	registry := platform.NewRegistry()
	_ = registry.Register(asurascans.NewAdapter())
	_ = registry.Register(mangadex.NewAdapter())
	_ = registry.Register(mangafire.NewAdapter())
	_ = registry.Register(manganato.NewAdapter())
	_ = registry.Register(mangaplus.NewAdapter())
	_ = registry.Register(webtoons.NewAdapter())

	loaded, loadErr := yamladapter.LoadFromDir(yamlAdaptersPath)
	for _, adapter := range loaded {
		if err := registry.Register(adapter); err != nil {
			if loadErr == nil {
				loadErr = fmt.Errorf("register yaml adapter %q: %w", adapter.ID(), err)
			}
		}
	}

	return registry, loadErr
}
