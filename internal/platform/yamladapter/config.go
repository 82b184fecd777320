package yamladapter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gabriel/bmh/internal/platform"
)

type Config struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Enabled *bool    `yaml:"enabled"`
	BaseURL string   `yaml:"base_url"`
	Hosts   []string `yaml:"hosts"`
	Unit    string   `yaml:"unit"`
	Prefix  string   `yaml:"prefix"`

	Selectors struct {
		Card         string   `yaml:"card"`
		Link         string   `yaml:"link"`
		Title        []string `yaml:"title"`
		BorderTarget string   `yaml:"border_target"`
		Next         []string `yaml:"next"`
		Prev         []string `yaml:"prev"`
		Exit         []string `yaml:"exit"`
	} `yaml:"selectors"`

	Patterns struct {
		Slug       string `yaml:"slug"`
		Reader     string `yaml:"reader"`
		ChapterURL string `yaml:"chapter_url"`
		ReaderPage string `yaml:"reader_page"`
	} `yaml:"patterns"`

	Border struct {
		Radius    string `yaml:"radius"`
		BoxSizing *bool  `yaml:"box_sizing"`
		Relative  bool   `yaml:"relative"`
	} `yaml:"border"`

	Badge platform.BadgePosition `yaml:"badge"`

	slugPattern   *regexp.Regexp
	readerPattern *regexp.Regexp
}

func (c *Config) normalizeAndValidate() error {
	c.ID = strings.ToLower(strings.TrimSpace(c.ID))
	c.Name = strings.TrimSpace(c.Name)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.Selectors.Card = strings.TrimSpace(c.Selectors.Card)
	c.Selectors.Link = strings.TrimSpace(c.Selectors.Link)

	if c.ID == "" {
		return fmt.Errorf("id is required")
	}
	if c.Name == "" {
		c.Name = c.ID
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.Selectors.Card == "" {
		return fmt.Errorf("selectors.card is required")
	}
	if c.Selectors.Link == "" {
		c.Selectors.Link = "a[href]"
	}

	hosts := make([]string, 0, len(c.Hosts))
	for _, host := range c.Hosts {
		if host = strings.ToLower(strings.TrimSpace(host)); host != "" {
			hosts = append(hosts, host)
		}
	}
	if len(hosts) == 0 {
		return fmt.Errorf("hosts must list at least one host")
	}
	c.Hosts = hosts

	switch platform.Unit(strings.ToLower(strings.TrimSpace(c.Unit))) {
	case "", platform.UnitChapter:
		c.Unit = string(platform.UnitChapter)
	case platform.UnitEpisode:
		c.Unit = string(platform.UnitEpisode)
	default:
		return fmt.Errorf("unit %q must be chapter or episode", c.Unit)
	}

	var err error
	if c.Patterns.Slug != "" {
		if c.slugPattern, err = compileWithGroups(c.Patterns.Slug, 1); err != nil {
			return fmt.Errorf("patterns.slug: %w", err)
		}
	}
	if c.Patterns.Reader != "" {
		if c.readerPattern, err = compileWithGroups(c.Patterns.Reader, 2); err != nil {
			return fmt.Errorf("patterns.reader: %w", err)
		}
	}

	if c.Border.Radius == "" {
		c.Border.Radius = "8px"
	}
	if c.Badge == (platform.BadgePosition{}) {
		c.Badge = platform.BadgePosition{Bottom: "4px", Left: "4px"}
	}

	return nil
}

func compileWithGroups(expr string, groups int) (*regexp.Regexp, error) {
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	if pattern.NumSubexp() < groups {
		return nil, fmt.Errorf("expected at least %d capture groups", groups)
	}
	return pattern, nil
}

func (c *Config) isEnabled() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

func (c *Config) boxSizing() bool {
	if c.Border.BoxSizing == nil {
		return true
	}
	return *c.Border.BoxSizing
}
