package showcase

import (
	"context"
	"html/template"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ProjectsPath is the URL prefix entries are published under.
const ProjectsPath = "/projects"

// Summary is everything known about an entry except its body.
type Summary struct {
	ID          string
	Meta        FrontMatter
	ReadingTime string
	// Date is Meta.Date parsed, or the zero time when it could not be.
	Date    time.Time
	ModTime time.Time
}

// Title returns the front matter title, or a title made from the identifier
// when the file has none.
func (s Summary) Title() string {
	if t := strings.TrimSpace(s.Meta.Title); t != "" {
		return t
	}
	words := strings.NewReplacer("-", " ", "_", " ").Replace(s.ID)
	return cases.Title(language.English).String(words)
}

// Link is the URL path of the entry's page.
func (s Summary) Link() string {
	return path.Join(ProjectsPath, url.PathEscape(s.ID))
}

func (s Summary) Hidden() bool {
	return s.Meta.Hidden
}

// HasDate reports whether the raw date parsed.
func (s Summary) HasDate() bool {
	return !s.Date.IsZero()
}

// Entry is a Summary plus the unrendered body.
type Entry struct {
	Summary
	Body []byte
}

// HTML renders the body through reg. Entries marked unsafe skip sanitising.
func (e *Entry) HTML(ctx context.Context, reg Registry) (template.HTML, error) {
	r := articleRenderer{
		id:       e.ID,
		body:     e.Body,
		registry: reg,
		unsafe:   e.Meta.Unsafe,
	}
	b, err := r.Render(ctx)
	if err != nil {
		return "", err
	}
	return template.HTML(b), nil
}

// Entries orders summaries newest first. Entries without a usable date sort
// last; equal dates fall back to the identifier so the order never depends on
// how the directory happened to be listed.
type Entries []Summary

func (e Entries) Len() int {
	return len(e)
}
func (e Entries) Less(i, j int) bool {
	if !e[i].Date.Equal(e[j].Date) {
		return e[i].Date.After(e[j].Date)
	}
	return e[i].ID < e[j].ID
}
func (e Entries) Swap(i, j int) {
	e[i], e[j] = e[j], e[i]
}

// Visible drops hidden entries, keeping order.
func (e Entries) Visible() Entries {
	ret := make(Entries, 0, len(e))
	for _, v := range e {
		if !v.Hidden() {
			ret = append(ret, v)
		}
	}
	return ret
}

// Head returns at most the first n entries.
func (e Entries) Head(n int) Entries {
	if n <= 0 {
		return Entries{}
	}
	if n > len(e) {
		n = len(e)
	}
	return e[:n]
}
