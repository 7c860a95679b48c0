package site

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/lemmi/showcase"
	"github.com/lemmi/showcase/backend"
	"github.com/lemmi/showcase/internal/logging"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Opener returns the backend a request is served from.
type Opener func() (backend.Backend, error)

// Handler serves the site. Every request opens the backend again, so edits
// and new commits show up without a restart.
type Handler struct {
	open Opener
	opts Options
	log  logging.Logger
}

func NewHandler(open Opener, opts Options) *Handler {
	opts = opts.withDefaults()
	return &Handler{open: open, opts: opts, log: opts.Logger}
}

func (h *Handler) httpError(w http.ResponseWriter, code int, logErr error) {
	if st, ok := logErr.(stackTracer); ok && h.opts.Debug {
		h.log.Error(logErr.Error(), "status", code, "stack", fmt.Sprintf("%+v", st.StackTrace()))
	} else {
		h.log.Error(logErr.Error(), "status", code)
	}
	http.Error(w, http.StatusText(code), code)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fs, err := h.open()
	if err != nil {
		h.httpError(w, http.StatusInternalServerError, errors.Wrap(err, "Cannot open backend"))
		return
	}
	if c, ok := fs.(backend.CIDer); ok {
		w.Header().Set("ETag", `"`+c.CID()+`"`)
	}

	pages, err := NewPages(fs, h.opts)
	if err != nil {
		h.httpError(w, http.StatusInternalServerError, errors.Wrap(err, "page setup failed"))
		return
	}

	static := NewAssetHandler(fs).Cd(StaticDir)
	api := cors.New(cors.Options{
		AllowedOrigins: h.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
	})

	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static", static))
	mux.Handle("GET /favicon.ico", static)
	mux.HandleFunc("GET /robots.txt", func(w http.ResponseWriter, r *http.Request) {
		if f, err := static.Open("robots.txt"); err == nil {
			f.Close()
			static.ServeHTTP(w, r)
			return
		}
		h.serve(w, r, pages.Robots(), nil)
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		doc, err := pages.Home()
		h.serve(w, r, doc, err)
	})
	mux.HandleFunc("GET /projects", func(w http.ResponseWriter, r *http.Request) {
		doc, err := pages.Projects()
		h.serve(w, r, doc, err)
	})
	mux.HandleFunc("GET /projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		doc, err := pages.Project(r.Context(), r.PathValue("id"))
		h.page(w, r, pages, doc, err)
	})
	mux.HandleFunc("GET /sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		doc, err := pages.Sitemap()
		h.serve(w, r, doc, err)
	})
	mux.Handle("/api/projects", api.Handler(getOnly(func(w http.ResponseWriter, r *http.Request) {
		doc, err := pages.APIProjects()
		h.serve(w, r, doc, err)
	})))
	mux.Handle("/api/projects/{id}", api.Handler(getOnly(func(w http.ResponseWriter, r *http.Request) {
		doc, err := pages.APIProject(r.Context(), r.PathValue("id"))
		if showcase.IsNotFound(err) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.serve(w, r, doc, err)
	})))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		h.page(w, r, pages, Document{}, showcase.ErrNotFound)
	})

	w.Header().Set("Cache-Control", "max-age=32")
	mux.ServeHTTP(w, r)
}

func getOnly(fn http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		fn(w, r)
	})
}

// page is serve with the not found page for missing entries.
func (h *Handler) page(w http.ResponseWriter, r *http.Request, pages *Pages, doc Document, err error) {
	if !showcase.IsNotFound(err) {
		h.serve(w, r, doc, err)
		return
	}
	nf, nfErr := pages.NotFound(r.URL.Path)
	if nfErr != nil {
		h.httpError(w, http.StatusInternalServerError, nfErr)
		return
	}
	w.Header().Set("Content-Type", nf.ContentType)
	w.Header().Del("ETag")
	w.WriteHeader(http.StatusNotFound)
	if _, err := w.Write(nf.Body); err != nil {
		h.log.Debug("writing not found page failed", "path", r.URL.Path, "error", err.Error())
	}
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, doc Document, err error) {
	if err != nil {
		h.httpError(w, http.StatusInternalServerError, errors.Wrapf(err, "page generation failed: %q", r.URL.Path))
		return
	}
	w.Header().Set("Content-Type", doc.ContentType)
	http.ServeContent(w, r, "", doc.ModTime, bytes.NewReader(doc.Body))
}
