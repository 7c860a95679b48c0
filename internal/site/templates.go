package site

import (
	"embed"
	"html/template"
	"io"
	iofs "io/fs"
	"path"
	"strings"

	"github.com/lemmi/showcase"
	"github.com/lemmi/showcase/backend"
	"github.com/pkg/errors"
)

// TemplateDir is where a site may keep its own templates, relative to the
// backend root. Files there replace the built in ones of the same name.
const TemplateDir = "templates"

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

type pageHead struct {
	Title string
	Site  showcase.Site
}

var funcs = template.FuncMap{
	"page": func(title string, site showcase.Site) pageHead {
		return pageHead{Title: title, Site: site}
	},
	"date": func(s showcase.Summary) string {
		if !s.HasDate() {
			return ""
		}
		return s.Date.Format("January 2, 2006")
	},
}

func addTemplate(t *template.Template, fname string, data []byte) error {
	tname := strings.TrimSuffix(path.Base(fname), ".tmpl")
	if _, err := t.New(tname).Parse(string(data)); err != nil {
		return errors.Wrapf(err, "Cannot parse template: %q", fname)
	}
	return nil
}

// parseTemplates loads the built in templates, then the ones the site
// brings along.
func parseTemplates(fs backend.Backend) (*template.Template, error) {
	tmain := template.New("_").Funcs(funcs)

	builtin, err := iofs.ReadDir(defaultTemplates, "templates")
	if err != nil {
		return nil, errors.Wrap(err, "Cannot read built in templates")
	}
	for _, de := range builtin {
		fpath := path.Join("templates", de.Name())
		data, err := iofs.ReadFile(defaultTemplates, fpath)
		if err != nil {
			return nil, errors.Wrapf(err, "Cannot read file: %q", fpath)
		}
		if err := addTemplate(tmain, fpath, data); err != nil {
			return nil, err
		}
	}

	dir, err := fs.Open(TemplateDir)
	if err != nil {
		// no site templates
		return tmain, nil
	}
	defer dir.Close()
	fis, err := dir.Readdir(-1)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read directory: %q", TemplateDir)
	}
	for _, fi := range fis {
		if fi.IsDir() || !strings.HasSuffix(fi.Name(), ".tmpl") {
			continue
		}
		fpath := path.Join(TemplateDir, fi.Name())
		data, err := fs.Open(fpath)
		if err != nil {
			return nil, errors.Wrapf(err, "Cannot open file: %q", fpath)
		}
		databytes, err := io.ReadAll(data)
		data.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "Cannot read file: %q", fpath)
		}

		if err := addTemplate(tmain, fpath, databytes); err != nil {
			return nil, err
		}
	}
	return tmain, nil
}
