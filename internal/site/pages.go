// Package site turns a content backend into pages: served over HTTP by
// Handler or written to disk by Exporter.
package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/lemmi/showcase"
	"github.com/lemmi/showcase/backend"
	"github.com/lemmi/showcase/internal/logging"
	"github.com/pkg/errors"
	"github.com/raymondbutcher/tidyhtml"
)

// Options configure Pages, Handler and Exporter alike.
type Options struct {
	Site       showcase.Site
	ContentDir string
	// Recent is the number of entries on the home page.
	Recent      int
	Debug       bool
	CORSOrigins []string
	Registry    showcase.Registry
	Logger      logging.Logger
	Now         func() time.Time
}

func (o Options) withDefaults() Options {
	if o.ContentDir == "" {
		o.ContentDir = showcase.DefaultContentDir
	}
	if o.Registry.IsZero() {
		o.Registry = showcase.DefaultRegistry()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if len(o.CORSOrigins) == 0 {
		o.CORSOrigins = []string{"*"}
	}
	o.Logger = logging.OrNoOp(o.Logger)
	return o
}

// Document is one finished response body.
type Document struct {
	Body        []byte
	ContentType string
	ModTime     time.Time
}

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeXML  = "application/xml; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

// Pages builds every document of the site from one backend snapshot.
type Pages struct {
	fs   backend.Backend
	repo *showcase.Repository
	tmpl *template.Template
	opts Options
}

func NewPages(fs backend.Backend, opts Options) (*Pages, error) {
	opts = opts.withDefaults()
	tmpl, err := parseTemplates(fs)
	if err != nil {
		return nil, err
	}
	return &Pages{
		fs: fs,
		repo: showcase.NewRepository(fs,
			showcase.WithContentDir(opts.ContentDir),
			showcase.WithLogger(opts.Logger),
		),
		tmpl: tmpl,
		opts: opts,
	}, nil
}

func (p *Pages) Repository() *showcase.Repository {
	return p.repo
}

func (p *Pages) html(name string, data interface{}, modTime time.Time) (Document, error) {
	buf := bytes.Buffer{}
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return Document{}, errors.Wrapf(err, "template execution failed: %q\n%s", name, p.tmpl.DefinedTemplates())
	}
	tbuf := bytes.Buffer{}
	if err := tidyhtml.Copy(&tbuf, &buf); err != nil {
		return Document{}, errors.Wrapf(err, "tidyhtml failed: %q", name)
	}
	return Document{Body: tbuf.Bytes(), ContentType: contentTypeHTML, ModTime: modTime}, nil
}

func (p *Pages) Home() (Document, error) {
	page, err := p.repo.HomePage(p.opts.Site, p.opts.Recent)
	if err != nil {
		return Document{}, err
	}
	return p.html("home", page, page.ModTime)
}

func (p *Pages) Projects() (Document, error) {
	page, err := p.repo.ProjectsPage(p.opts.Site)
	if err != nil {
		return Document{}, err
	}
	return p.html("projects", page, page.ModTime)
}

// Project renders the entry id. Unknown ids yield an error for which
// showcase.IsNotFound holds.
func (p *Pages) Project(ctx context.Context, id string) (Document, error) {
	page, err := p.repo.ProjectPage(ctx, p.opts.Site, id, p.opts.Registry)
	if err != nil {
		return Document{}, err
	}
	return p.html("project", page, page.ModTime)
}

func (p *Pages) NotFound(path string) (Document, error) {
	return p.html("notfound", struct {
		Site showcase.Site
		Path string
	}{p.opts.Site, path}, time.Time{})
}

func (p *Pages) Sitemap() (Document, error) {
	entries, err := p.repo.Entries()
	if err != nil {
		return Document{}, err
	}
	b, err := showcase.BuildSitemap(p.opts.Site.BaseURL, entries, p.opts.Now()).Marshal()
	if err != nil {
		return Document{}, errors.Wrap(err, "Cannot encode sitemap")
	}
	return Document{Body: b, ContentType: contentTypeXML}, nil
}

// Robots allows everything and points at the sitemap. A static/robots.txt
// in the backend is served instead when present.
func (p *Pages) Robots() Document {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", trimSlash(p.opts.Site.BaseURL))
	return Document{Body: []byte(body), ContentType: contentTypeText}
}

func (p *Pages) json(v interface{}, modTime time.Time) (Document, error) {
	b, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return Document{}, errors.Wrap(err, "Cannot encode json")
	}
	return Document{Body: append(b, '\n'), ContentType: contentTypeJSON, ModTime: modTime}, nil
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
