package showcase

import (
	"encoding/xml"
	"strings"
	"time"
)

// Change frequencies used in the sitemap.
const (
	ChangeDaily   = "daily"
	ChangeWeekly  = "weekly"
	ChangeMonthly = "monthly"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

type URL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority"`
}

// StaticParams returns the identifiers a static build has to produce a page
// for, in listing order.
func StaticParams(e Entries) []string {
	ids := make([]string, 0, len(e))
	for _, s := range e {
		ids = append(ids, s.ID)
	}
	return ids
}

// BuildSitemap lists the home page, the project index and every entry in e
// under baseURL. Entries with an unusable date fall back to the file time.
func BuildSitemap(baseURL string, e Entries, now time.Time) URLSet {
	base := strings.TrimRight(baseURL, "/")
	stamp := func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	}

	set := URLSet{
		XMLNS: sitemapNS,
		URLs: []URL{
			{Loc: base + "/", LastMod: stamp(now), ChangeFreq: ChangeDaily, Priority: 1.0},
			{Loc: base + ProjectsPath, LastMod: stamp(now), ChangeFreq: ChangeWeekly, Priority: 0.9},
		},
	}
	for _, s := range e {
		u := URL{Loc: base + s.Link(), ChangeFreq: ChangeMonthly, Priority: 0.8}
		switch {
		case s.HasDate():
			u.LastMod = stamp(s.Date)
		case !s.ModTime.IsZero():
			u.LastMod = stamp(s.ModTime)
		}
		set.URLs = append(set.URLs, u)
	}
	return set
}

// Marshal encodes the set with the XML header.
func (s URLSet) Marshal() ([]byte, error) {
	b, err := xml.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), b...), nil
}
