package ingest

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

var imageExtRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)(\?|$)`)

// ExtractImage resolves an article image through an ordered fallback
// chain: enclosure, media:content, media:thumbnail, the feed's image
// field, then the first <img src> found in the item content or
// description HTML. Returns "" when nothing usable is found.
func ExtractImage(item *gofeed.Item) string {
	if url := enclosureImage(item); url != "" {
		return normalizeImageURL(url)
	}
	if url := mediaExtensionURL(item, "content"); url != "" {
		return normalizeImageURL(url)
	}
	if url := mediaExtensionURL(item, "thumbnail"); url != "" {
		return normalizeImageURL(url)
	}
	if item.Image != nil && item.Image.URL != "" {
		return normalizeImageURL(item.Image.URL)
	}
	if url := firstImgSrc(item.Content); url != "" {
		return normalizeImageURL(url)
	}
	if url := firstImgSrc(item.Description); url != "" {
		return normalizeImageURL(url)
	}
	return ""
}

func enclosureImage(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if strings.Contains(enc.Type, "image") || imageExtRe.MatchString(enc.URL) {
			return enc.URL
		}
	}
	return ""
}

func mediaExtensionURL(item *gofeed.Item, name string) string {
	media, ok := item.Extensions["media"]
	if !ok {
		return ""
	}
	for _, ext := range media[name] {
		if url := ext.Attrs["url"]; url != "" {
			return url
		}
	}
	return ""
}

func firstImgSrc(html string) string {
	if html == "" || !strings.Contains(html, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return src
}

// normalizeImageURL upgrades protocol-relative URLs to https and discards
// root-relative paths, which are meaningless outside the source site.
func normalizeImageURL(url string) string {
	switch {
	case strings.HasPrefix(url, "//"):
		return "https:" + url
	case strings.HasPrefix(url, "/"):
		return ""
	default:
		return url
	}
}
