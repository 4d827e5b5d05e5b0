package search

import (
	"net/url"
	"strings"
)

// SourceTier classifies a domain's credibility, tier_1 highest.
type SourceTier string

const (
	Tier1 SourceTier = "tier_1" // academic journals, government, top universities
	Tier2 SourceTier = "tier_2" // reputable mainstream news and professional bodies
	Tier3 SourceTier = "tier_3" // generally reliable, verify before citing
	Tier4 SourceTier = "tier_4" // opinion sites and blogs
	Tier5 SourceTier = "tier_5" // known misinformation sources
)

func ValidSourceTier(s string) bool {
	switch SourceTier(s) {
	case Tier1, Tier2, Tier3, Tier4, Tier5:
		return true
	}
	return false
}

// rank orders tiers for comparisons; lower is more credible.
func (t SourceTier) rank() int {
	switch t {
	case Tier1:
		return 1
	case Tier2:
		return 2
	case Tier3:
		return 3
	case Tier4:
		return 4
	default:
		return 5
	}
}

// AtLeast reports whether t is at least as credible as min.
func (t SourceTier) AtLeast(min SourceTier) bool {
	return t.rank() <= min.rank()
}

// Credibility maps a tier to a 0..1 score used when ranking evidence.
func (t SourceTier) Credibility() float64 {
	switch t {
	case Tier1:
		return 1.0
	case Tier2:
		return 0.8
	case Tier3:
		return 0.6
	case Tier4:
		return 0.3
	default:
		return 0.0
	}
}

var tierDomains = map[SourceTier][]string{
	Tier1: {
		"nature.com", "science.org", "cell.com", "nejm.org", "thelancet.com",
		"bmj.com", "jamanetwork.com", "pnas.org", "arxiv.org",
		"pubmed.ncbi.nlm.nih.gov", "jstor.org", "sciencedirect.com",
		"ieeexplore.ieee.org", "springer.com",
		"who.int", "cdc.gov", "nih.gov", "fda.gov", "europa.eu",
		"un.org", "worldbank.org", "imf.org", "oecd.org",
		"mit.edu", "stanford.edu", "harvard.edu", "oxford.ac.uk",
		"cambridge.org",
	},
	Tier2: {
		"reuters.com", "apnews.com", "bbc.com", "bbc.co.uk", "npr.org",
		"economist.com", "ft.com", "wsj.com", "nytimes.com",
		"washingtonpost.com", "theguardian.com", "bloomberg.com",
		"scientificamerican.com", "nationalgeographic.com",
		"arstechnica.com", "technologyreview.com", "quantamagazine.org",
		"phys.org", "sciencenews.org", "apa.org", "acm.org", "ieee.org",
	},
	Tier3: {
		"wikipedia.org", "britannica.com", "mayoclinic.org", "webmd.com",
		"healthline.com", "investopedia.com", "techcrunch.com", "wired.com",
		"theatlantic.com", "newyorker.com", "vox.com", "brookings.edu",
	},
	Tier4: {
		"medium.com", "substack.com", "blogger.com", "wordpress.com",
		"tumblr.com", "quora.com", "reddit.com", "dev.to",
	},
	Tier5: {
		"infowars.com", "naturalnews.com", "mercola.com",
		"globalresearch.ca", "zerohedge.com", "beforeitsnews.com",
	},
}

// Verifier classifies URLs into credibility tiers.
type Verifier struct{}

func NewVerifier() *Verifier {
	return &Verifier{}
}

// DomainTier returns the credibility tier for a URL. Unknown .gov and
// .edu domains still rate tier_1; everything else unknown defaults to
// tier_4 so it is never silently treated as reputable.
func (v *Verifier) DomainTier(rawURL string) SourceTier {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Tier4
	}
	domain := strings.ToLower(parsed.Hostname())
	domain = strings.TrimPrefix(domain, "www.")

	// Best tier first, so a domain listed explicitly in a high tier is
	// never shadowed by a broader suffix entry in a lower one.
	for _, tier := range []SourceTier{Tier1, Tier2, Tier3, Tier4, Tier5} {
		for _, trusted := range tierDomains[tier] {
			if domain == trusted || strings.HasSuffix(domain, "."+trusted) {
				return tier
			}
		}
	}

	if strings.HasSuffix(domain, ".gov") || strings.HasSuffix(domain, ".edu") {
		return Tier1
	}
	return Tier4
}
