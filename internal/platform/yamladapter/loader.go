package yamladapter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gabriel/bmh/internal/platform"
)

// LoadFromDir builds one adapter per enabled *.yaml/*.yml file in dirPath,
// in file-name order. A missing directory is not an error. Files that fail
// to parse are skipped and reported together.
func LoadFromDir(dirPath string) ([]platform.Adapter, error) {
	trimmed := strings.TrimSpace(dirPath)
	if trimmed == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read yaml adapters dir: %w", err)
	}

	files := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		lower := strings.ToLower(entry.Name())
		if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
			files = append(files, filepath.Join(trimmed, entry.Name()))
		}
	}
	sort.Strings(files)

	loaded := make([]platform.Adapter, 0, len(files))
	failures := make([]string, 0)

	for _, filePath := range files {
		content, err := os.ReadFile(filePath)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", filepath.Base(filePath), err))
			continue
		}

		var cfg Config
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", filepath.Base(filePath), err))
			continue
		}
		if !cfg.isEnabled() {
			continue
		}

		adapter, err := NewAdapter(cfg)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", filepath.Base(filePath), err))
			continue
		}
		loaded = append(loaded, adapter)
	}

	if len(failures) > 0 {
		return loaded, fmt.Errorf("yaml adapters failed to load: %s", strings.Join(failures, " | "))
	}

	return loaded, nil
}
