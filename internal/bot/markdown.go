package bot

import (
	"fmt"
	"strings"

	"hayami/internal/models"
	"hayami/internal/platform"
	"hayami/internal/telegram"
)

const parseModeMarkdownV2 = "MarkdownV2"

var markdownEscaper = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(", ")", "\\)",
	"~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
)

// esc escapes text for MarkdownV2.
func esc(text string) string {
	return markdownEscaper.Replace(text)
}

// pixivCaption renders the album caption for a pixiv posting in the user's
// chosen style. sendAsText reports that the style carries no images and the
// caption should go out as a plain message instead of an album.
func pixivCaption(media *platform.ArtworkMedia, style models.PixivStyle) (caption string, sendAsText bool) {
	info := esc(fmt.Sprintf("%s | %s\n", media.Desc, media.User))
	switch style {
	case models.StyleImageLink:
		return esc(media.Link), false
	case models.StyleImageInfoLink:
		return info + esc(media.Link), false
	case models.StyleImageInfoEmbedLink:
		return fmt.Sprintf("[%s](%s)", info, esc(media.Link)), false
	case models.StyleInfoLink:
		return info + esc(media.Link), true
	case models.StyleInfoEmbedLink:
		return fmt.Sprintf("[%s](%s)", info, esc(media.Link)), true
	}
	return esc(media.Link), false
}

// styleSample is the preview shown after switching styles.
func styleSample(style models.PixivStyle) string {
	link := esc("https://www.pixiv.net/")
	switch style {
	case models.StyleImageLink:
		return "\\[ `Image(s)` \\]\n\nLink"
	case models.StyleImageInfoLink:
		return "\\[ `Image(s)` \\]\n\nArtwork \\| Author\nLink"
	case models.StyleImageInfoEmbedLink:
		return fmt.Sprintf("\\[ `Image(s)` \\]\n\n[Artwork \\| Author](%s)", link)
	case models.StyleInfoLink:
		return "Artwork \\| Author\nLink"
	case models.StyleInfoEmbedLink:
		return fmt.Sprintf("[Artwork \\| Author](%s)", link)
	}
	return "Unknown"
}

// album builds the photo album for an artwork from its thumbnail urls,
// optionally reordered to a selection of one-based indices.
func album(media *platform.ArtworkMedia, order []int, caption string) []telegram.InputMediaPhoto {
	urls := media.Thumbs
	if len(order) > 0 {
		picked := make([]string, 0, len(order))
		for _, idx := range order {
			picked = append(picked, urls[idx-1])
		}
		urls = picked
	} else if len(urls) > 10 {
		urls = urls[:10]
	}

	photos := make([]telegram.InputMediaPhoto, 0, len(urls))
	for i, url := range urls {
		photo := telegram.InputMediaPhoto{Type: "photo", Media: url}
		if i == 0 {
			photo.Caption = caption
			photo.ParseMode = parseModeMarkdownV2
		}
		photos = append(photos, photo)
	}
	return photos
}

// fullFiles returns the original-quality file urls, optionally reordered.
func fullFiles(media *platform.ArtworkMedia, order []int) []string {
	if len(order) == 0 {
		if len(media.Links) > 10 {
			return media.Links[:10]
		}
		return media.Links
	}
	picked := make([]string, 0, len(order))
	for _, idx := range order {
		picked = append(picked, media.Links[idx-1])
	}
	return picked
}
