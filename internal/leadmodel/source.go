package leadmodel

// ScraperKind names the dispatch strategy a Source declares (spec component F).
type ScraperKind string

const (
	ScraperSelenium    ScraperKind = "selenium"
	ScraperUniversity  ScraperKind = "university"
	ScraperGovernment  ScraperKind = "government"
	ScraperThirdParty  ScraperKind = "third_party"
	ScraperFoundation  ScraperKind = "foundation"
)

// DiscoveryMode selects which Discovery Engine mode a Source uses.
type DiscoveryMode string

const (
	DiscoveryModeBreadth DiscoveryMode = "breadth"
	DiscoveryModeSeedBFS DiscoveryMode = "seed_bfs"
	DiscoveryModeNone    DiscoveryMode = ""
)

// Source is one configured crawl target, loaded from sources.yml.
type Source struct {
	Name                 string        `yaml:"name"`
	Type                 SourceType    `yaml:"type"`
	URL                  string        `yaml:"url"`
	Enabled              bool          `yaml:"enabled"`
	Scraper              ScraperKind   `yaml:"scraper"`
	Priority             int           `yaml:"priority,omitempty"`
	DiscoveryMode        DiscoveryMode `yaml:"discovery_mode,omitempty"`
	Mode                 string        `yaml:"mode,omitempty"`
	MaxDepth             int           `yaml:"max_depth,omitempty"`
	AllowDomainsOutbound []string      `yaml:"allow_domains_outbound,omitempty"`
	DenyPatterns         []string      `yaml:"deny_patterns,omitempty"`
	SearchEndpoints      []string      `yaml:"search_endpoints,omitempty"`
	SearchKeywords       []string      `yaml:"search_keywords,omitempty"`
	WhitelistedPaths     []string      `yaml:"whitelisted_paths,omitempty"`
	IndexOnly            bool          `yaml:"index_only,omitempty"`
}
