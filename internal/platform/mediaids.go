package platform

import (
	"regexp"
	"strconv"
)

// file name component of a twitter CDN url, before the extension or the
// format query parameter
var twitterFileRe = regexp.MustCompile(`.*/(?P<id>.+?)(?:\.|\?f)`)

// MediaIDs derives the stable per-file identifiers stored with an artwork.
// Twitter file names are unique per image; pixiv file names all derive from
// the illustration id, so the id itself is enough.
func MediaIDs(media *ArtworkMedia) []string {
	switch media.Type {
	case Twitter:
		ids := make([]string, 0, len(media.Links))
		for _, link := range media.Links {
			m := twitterFileRe.FindStringSubmatch(link)
			if m == nil {
				continue
			}
			ids = append(ids, m[1])
		}
		return ids
	case Pixiv:
		return []string{strconv.FormatInt(media.ID, 10)}
	}
	return nil
}
