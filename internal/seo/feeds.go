package seo

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/dsfolio/dsfolio/internal/content"
)

// Sitemap XML types per the sitemaps.org schema.
type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap renders sitemap.xml for all indexed, non-draft pages.
func Sitemap(baseURL string, idx *content.Index) ([]byte, error) {
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}

	static := []string{"/", "/projects", "/blog", "/about", "/resume", "/contact"}
	for _, p := range static {
		set.URLs = append(set.URLs, sitemapURL{Loc: CanonicalURL(baseURL, p)})
	}
	for _, p := range idx.Projects {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     CanonicalURL(baseURL, "/projects/"+p.Slug),
			LastMod: p.Date.Format("2006-01-02"),
		})
	}
	for _, post := range idx.Posts {
		mod := post.Date
		if !post.Updated.IsZero() {
			mod = post.Updated
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     CanonicalURL(baseURL, "/blog/"+post.Slug),
			LastMod: mod.Format("2006-01-02"),
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// Robots renders robots.txt pointing crawlers at the sitemap.
func Robots(baseURL string) []byte {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Sitemap: " + CanonicalURL(baseURL, "/sitemap.xml") + "\n")
	return []byte(b.String())
}

// RSS 2.0 types.
type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

// Feed renders the blog RSS feed, newest first, capped at 20 items.
func Feed(siteName, baseURL string, idx *content.Index) ([]byte, error) {
	ch := rssChannel{
		Title:       siteName,
		Link:        CanonicalURL(baseURL, "/blog"),
		Description: siteName + " blog",
	}

	posts := idx.Posts
	if len(posts) > 20 {
		posts = posts[:20]
	}
	for _, post := range posts {
		link := CanonicalURL(baseURL, "/blog/"+post.Slug)
		ch.Items = append(ch.Items, rssItem{
			Title:       post.Title,
			Link:        link,
			GUID:        link,
			Description: post.Description,
			PubDate:     post.Date.UTC().Format(time.RFC1123Z),
		})
	}

	out, err := xml.MarshalIndent(rssFeed{Version: "2.0", Channel: ch}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal rss: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
