package config

import "github.com/mrgkanev/datadiver/internal/link"

// SiteRules holds filter overrides for a single site domain.
// This allows tightening the crawl per site without recompiling: extensions
// and path segments listed here are excluded in addition to the built-ins.
type SiteRules struct {
	// ExcludeExtensions are additional file extensions to skip,
	// without the leading dot (e.g. "webm", "json").
	ExcludeExtensions []string `yaml:"excludeExtensions,omitempty"`

	// ExcludePaths are additional URL substrings to skip (e.g. "tags").
	ExcludePaths []string `yaml:"excludePaths,omitempty"`

	// MaxPages overrides the global page budget for this site.
	// If zero, the global MaxPages is used.
	MaxPages int `yaml:"maxPages,omitempty"`

	// UserAgent overrides the User-Agent header for this site.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// File represents the structure of the .datadiver configuration file.
type File struct {
	// Sites maps site domains to their filter overrides.
	// Keys are bare hosts (e.g. "example.com").
	Sites map[string]SiteRules `yaml:"sites,omitempty"`

	// Defaults contains overrides applied to every site unless the
	// site-specific entry replaces them.
	Defaults SiteRules `yaml:"defaults,omitempty"`
}

// SiteRulesFor returns the merged rules for the given host.
// Site-specific entries replace the corresponding default entries.
func (cf *File) SiteRulesFor(host string) SiteRules {
	result := cf.Defaults

	if site, ok := cf.Sites[host]; ok {
		if len(site.ExcludeExtensions) > 0 {
			result.ExcludeExtensions = site.ExcludeExtensions
		}
		if len(site.ExcludePaths) > 0 {
			result.ExcludePaths = site.ExcludePaths
		}
		if site.MaxPages != 0 {
			result.MaxPages = site.MaxPages
		}
		if site.UserAgent != "" {
			result.UserAgent = site.UserAgent
		}
	}

	return result
}

// LinkRules converts the site rules into the filter form consumed by the
// link package.
func (sr SiteRules) LinkRules() link.Rules {
	return link.Rules{
		ExtraExtensions: sr.ExcludeExtensions,
		ExtraPaths:      sr.ExcludePaths,
	}
}
