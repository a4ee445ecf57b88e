// Package linkext scans free text for recognizable artwork references and
// yields their canonical identities. It is a pure function over the input and
// the static pattern table; adding a platform means adding a table entry.
package linkext

import (
	"regexp"
	"strconv"
	"strings"

	"hayami/internal/platform"
)

// Link is one recognized artwork reference: the platform, the platform-native
// numeric id, and the rebuilt canonical display URL.
type Link struct {
	Type platform.Platform
	URL  string
	ID   int64
}

// pattern is one platform's extraction rule. The id capture group is
// mandatory; author is optional and used only to rebuild the canonical URL.
type pattern struct {
	re   *regexp.Regexp
	url  string // template with {author} and {id} placeholders
	kind platform.Platform
}

var patterns = []pattern{
	{
		re:   regexp.MustCompile(`(?:www\.)?twitter\.com/(?P<author>[^/\s]+)/status(?:es)?/(?P<id>\d+)`),
		url:  "https://twitter.com/{author}/status/{id}",
		kind: platform.Twitter,
	},
	{
		re:   regexp.MustCompile(`(?:www\.)?pixiv\.net/(?:[a-z]{2}/)?artworks/(?P<id>\d+)`),
		url:  "https://www.pixiv.net/artworks/{id}",
		kind: platform.Pixiv,
	},
}

// Extract returns every artwork reference found in text, in order of first
// occurrence, duplicates included. Unmatched text yields an empty result.
func Extract(text string) []Link {
	if text == "" {
		return nil
	}
	var links []Link
	type hit struct {
		link Link
		pos  int
	}
	var hits []hit
	for _, p := range patterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			groups := groupValues(p.re, text, loc)
			id, err := strconv.ParseInt(groups["id"], 10, 64)
			if err != nil {
				continue
			}
			url := p.url
			for name, value := range groups {
				url = strings.ReplaceAll(url, "{"+name+"}", value)
			}
			hits = append(hits, hit{
				link: Link{Type: p.kind, URL: url, ID: id},
				pos:  loc[0],
			})
		}
	}
	// keep text order across platforms
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	for _, h := range hits {
		links = append(links, h.link)
	}
	return links
}

func groupValues(re *regexp.Regexp, text string, loc []int) map[string]string {
	groups := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name == "" || loc[2*i] < 0 {
			continue
		}
		groups[name] = text[loc[2*i]:loc[2*i+1]]
	}
	return groups
}

var selectionRe = regexp.MustCompile(`^(?:\s*\d+(?:\s*-\s*\d+)?\s*,?)+$`)

// IsSelection reports whether text looks like a numeric range selection
// ("1-3, 5") rather than ordinary chatter.
func IsSelection(text string) bool {
	return selectionRe.MatchString(strings.TrimSpace(text))
}
