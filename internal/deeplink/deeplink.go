// Package deeplink maps channel transport identifiers to the public ids used
// in shareable t.me links, and renders those links.
package deeplink

import "fmt"

// offset is the transport's channel id space marker: internal channel ids are
// negative values below -10^12.
const offset = int64(1_000_000_000_000)

// PublicID converts a channel's internal (negative) id to its public id.
func PublicID(internalID int64) int64 {
	return -(internalID + offset)
}

// InternalID converts a public channel id back to the internal id. The
// transform is self-inverse: InternalID(PublicID(x)) == x.
func InternalID(cid int64) int64 {
	return -(cid + offset)
}

// PostLink renders the shareable deep link for a channel-local post.
func PostLink(cid, postID int64) string {
	return fmt.Sprintf("t.me/c/%d/%d", cid, postID)
}
