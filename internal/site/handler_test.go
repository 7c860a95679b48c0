package site

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/lemmi/showcase"
	"github.com/lemmi/showcase/backend"
)

var testFiles = map[string]string{
	"content/projects/alpha.mdx":  "---\ntitle: Alpha Project\ndate: 2024-05-01\ntags: [go]\n---\n# Alpha\n\n<Callout kind=\"danger\">\nCareful.\n</Callout>\n",
	"content/projects/beta.mdx":   "---\ntitle: Beta Project\ndate: 2024-06-01\nhidden: true\n---\nSecret.\n",
	"content/projects/gamma.mdx":  "---\ntitle: Gamma Project\ndate: 2023-01-01\n---\nOld.\n",
	"content/projects/broken.mdx": "---\ntitle: Broken\n---\n<Callout kind=\"nope\">\nx\n</Callout>\n",
	"static/site.css":             "body{}",
	"static/.secret":              "nope",
}

func testBackend(files map[string]string) backend.Backend {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content), ModTime: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)}
	}
	return http.FS(m)
}

type cidFS struct {
	backend.Backend
}

func (cidFS) CID() string { return "abc123" }

func testHandler(files map[string]string) *Handler {
	return NewHandler(func() (backend.Backend, error) {
		return testBackend(files), nil
	}, Options{
		Site:   showcase.Site{Title: "Test Site", BaseURL: "https://example.com", BookingURL: "https://cal.com/test"},
		Recent: 3,
		Now:    func() time.Time { return time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC) },
	})
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandlerStatus(t *testing.T) {
	h := testHandler(testFiles)
	for _, tc := range []struct {
		path string
		code int
		body []string
	}{
		{"/", http.StatusOK, []string{"Alpha Project", "Gamma Project", "Test Site"}},
		{"/projects", http.StatusOK, []string{"Alpha Project", "Gamma Project"}},
		{"/projects/alpha", http.StatusOK, []string{"Careful.", "alert-02"}},
		{"/projects/beta", http.StatusOK, []string{"Secret."}},
		{"/projects/missing", http.StatusNotFound, []string{"Not found"}},
		{"/projects/broken", http.StatusInternalServerError, nil},
		{"/nowhere", http.StatusNotFound, []string{"Not found"}},
		{"/sitemap.xml", http.StatusOK, []string{"https://example.com/projects/alpha"}},
		{"/robots.txt", http.StatusOK, []string{"Sitemap: https://example.com/sitemap.xml"}},
		{"/static/site.css", http.StatusOK, []string{"body{}"}},
		{"/static/.secret", http.StatusNotFound, nil},
		{"/static/", http.StatusNotFound, nil},
	} {
		rec := get(h, tc.path)
		if rec.Code != tc.code {
			t.Errorf("GET %s: status %d, want %d", tc.path, rec.Code, tc.code)
			continue
		}
		for _, want := range tc.body {
			if !strings.Contains(rec.Body.String(), want) {
				t.Errorf("GET %s: body does not contain %q", tc.path, want)
			}
		}
	}
}

func TestHiddenNotListed(t *testing.T) {
	h := testHandler(testFiles)
	for _, path := range []string{"/", "/projects", "/sitemap.xml", "/api/projects"} {
		if body := get(h, path).Body.String(); strings.Contains(body, "beta") || strings.Contains(body, "Beta Project") {
			t.Errorf("GET %s lists the hidden entry", path)
		}
	}
}

func TestAPI(t *testing.T) {
	h := testHandler(testFiles)

	rec := get(h, "/api/projects")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var list []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0]["id"] != "alpha" {
		t.Errorf("list = %v", list)
	}

	rec = get(h, "/api/projects/alpha")
	var entry map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if html, _ := entry["html"].(string); !strings.Contains(html, "Careful.") {
		t.Errorf("entry html = %q", html)
	}

	if rec := get(h, "/api/projects/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("missing entry: status %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("no CORS header on api response")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/projects", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST: status %d", rec.Code)
	}
}

func TestETag(t *testing.T) {
	h := NewHandler(func() (backend.Backend, error) {
		return cidFS{testBackend(testFiles)}, nil
	}, Options{})

	rec := get(h, "/projects")
	if got := rec.Header().Get("ETag"); got != `"abc123"` {
		t.Fatalf("ETag = %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("If-None-Match", `"abc123"`)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Errorf("conditional GET: status %d, want 304", rec.Code)
	}
}

func TestSiteTemplatesOverride(t *testing.T) {
	files := map[string]string{
		"templates/projects.tmpl": `<ul>{{range .Projects}}<li>{{.ID}}</li>{{end}}</ul>`,
	}
	for k, v := range testFiles {
		files[k] = v
	}
	body := get(testHandler(files), "/projects").Body.String()
	if !strings.Contains(body, "alpha") || strings.Contains(body, "Alpha Project") {
		t.Errorf("site template not used: %q", body)
	}
}

func TestRobotsFromStatic(t *testing.T) {
	files := map[string]string{"static/robots.txt": "User-agent: *\nDisallow: /\n"}
	body := get(testHandler(files), "/robots.txt").Body.String()
	if !strings.Contains(body, "Disallow: /") {
		t.Errorf("robots.txt = %q", body)
	}
}

func TestEmptySite(t *testing.T) {
	h := testHandler(map[string]string{})
	rec := get(h, "/projects")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "No projects found.") {
		t.Errorf("empty site: status %d body %q", rec.Code, rec.Body.String())
	}
}

func TestOptionsKeepEmptiedRegistry(t *testing.T) {
	if (Options{}).withDefaults().Registry.IsZero() {
		t.Error("zero Options got no registry")
	}

	remove := map[string]showcase.RenderFunc{}
	for _, tag := range showcase.DefaultRegistry().Tags() {
		remove[tag] = nil
	}
	o := Options{Registry: showcase.DefaultRegistry().With(remove)}.withDefaults()
	if tags := o.Registry.Tags(); len(tags) != 0 {
		t.Errorf("emptied registry replaced by the defaults: %v", tags)
	}
}

func TestProjectIDWithSpace(t *testing.T) {
	h := testHandler(map[string]string{
		"content/projects/two words.mdx": "---\ntitle: Two Words\ndate: 2024-02-01\n---\nBody.\n",
	})
	listing := get(h, "/projects")
	if !strings.Contains(listing.Body.String(), `href="/projects/two%20words"`) {
		t.Errorf("listing link not escaped:\n%s", listing.Body.String())
	}
	if rec := get(h, "/projects/two%20words"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Body.") {
		t.Errorf("GET escaped link = %d\n%s", rec.Code, rec.Body.String())
	}
}
