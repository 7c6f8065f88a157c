package provider

import "regexp"

const (
	IDHianime = "hianime"
	IDGeneric = "yt-dlp-generic"
)

var (
	hianimeRegexp = regexp.MustCompile(`hianime(?:z)?\.(?:to|is|nz|bz|pe|cx|gs|do)`)
)

// Matcher reports whether a URL belongs to a provider.
type Matcher struct {
	ID    string
	Match func(url string) bool
}

// Resolver classifies URLs. Matchers are tried in order; the first match wins
// and anything unmatched belongs to the generic provider.
type Resolver struct {
	matchers []Matcher
}

func NewResolver(matchers ...Matcher) *Resolver {
	return &Resolver{matchers: matchers}
}

// NewDefaultResolver knows the providers the extractor needs special handling for.
func NewDefaultResolver() *Resolver {
	return NewResolver(
		Matcher{ID: IDHianime, Match: hianimeRegexp.MatchString},
	)
}

func (r *Resolver) Resolve(url string) string {
	for _, m := range r.matchers {
		if m.Match(url) {
			return m.ID
		}
	}

	return IDGeneric
}

// IsSpecialized reports whether the provider needs the plugin-enabled launcher.
func IsSpecialized(id string) bool {
	return id == IDHianime
}
