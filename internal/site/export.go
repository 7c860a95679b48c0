package site

import (
	"context"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/lemmi/showcase/backend"
	"github.com/lemmi/showcase/internal/logging"
	"github.com/pkg/errors"
)

// Exporter writes the whole site as static files.
type Exporter struct {
	fs     backend.Backend
	outDir string
	opts   Options
	log    logging.Logger
}

func NewExporter(fs backend.Backend, outDir string, opts Options) *Exporter {
	opts = opts.withDefaults()
	return &Exporter{fs: fs, outDir: outDir, opts: opts, log: opts.Logger}
}

// Export renders every page into the output directory. Detail pages are
// written for hidden entries too, they are only missing from the listings.
// It returns the number of files written.
func (e *Exporter) Export(ctx context.Context) (int, error) {
	pages, err := NewPages(e.fs, e.opts)
	if err != nil {
		return 0, err
	}

	n := 0
	write := func(name string, doc Document, err error) error {
		if err != nil {
			return errors.Wrapf(err, "Cannot build %q", name)
		}
		if err := e.writeFile(name, doc.Body); err != nil {
			return err
		}
		n++
		return nil
	}

	home, err := pages.Home()
	if err := write("index.html", home, err); err != nil {
		return n, err
	}
	projects, err := pages.Projects()
	if err := write("projects/index.html", projects, err); err != nil {
		return n, err
	}
	sitemap, err := pages.Sitemap()
	if err := write("sitemap.xml", sitemap, err); err != nil {
		return n, err
	}
	list, err := pages.APIProjects()
	if err := write("api/projects.json", list, err); err != nil {
		return n, err
	}
	nf, err := pages.NotFound("")
	if err := write("404.html", nf, err); err != nil {
		return n, err
	}

	ids, err := pages.Repository().IDs()
	if err != nil {
		return n, err
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		doc, err := pages.Project(ctx, id)
		if err != nil {
			// one broken entry must not stop the others
			e.log.Warn("skipping project", "id", id, "error", err.Error())
			continue
		}
		if err := write(path.Join("projects", id, "index.html"), doc, nil); err != nil {
			return n, err
		}
	}

	copied, err := e.copyStatic()
	n += copied
	if err != nil {
		return n, err
	}
	if _, err := os.Stat(filepath.Join(e.outDir, "robots.txt")); os.IsNotExist(err) {
		if err := write("robots.txt", pages.Robots(), nil); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (e *Exporter) writeFile(name string, body []byte) error {
	fpath := filepath.Join(e.outDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
		return errors.Wrapf(err, "Cannot create directory for %q", fpath)
	}
	if err := os.WriteFile(fpath, body, 0644); err != nil {
		return errors.Wrapf(err, "Cannot write file: %q", fpath)
	}
	return nil
}

// copyStatic copies the static directory into the output. robots.txt and
// favicon.ico also land in the output root, where the server has them.
func (e *Exporter) copyStatic() (int, error) {
	n := 0
	var walk func(dir string) error
	walk = func(dir string) error {
		d, err := e.fs.Open(dir)
		if err != nil {
			return nil
		}
		fis, err := d.Readdir(-1)
		d.Close()
		if err != nil {
			return errors.Wrapf(err, "Cannot read directory: %q", dir)
		}
		for _, fi := range fis {
			if strings.HasPrefix(fi.Name(), ".") {
				continue
			}
			name := path.Join(dir, fi.Name())
			if fi.IsDir() {
				if err := walk(name); err != nil {
					return err
				}
				continue
			}
			b, err := readAll(e.fs, name)
			if err != nil {
				return err
			}
			if err := e.writeFile(name, b); err != nil {
				return err
			}
			n++
			if dir == "/"+StaticDir && (fi.Name() == "robots.txt" || fi.Name() == "favicon.ico") {
				if err := e.writeFile(fi.Name(), b); err != nil {
					return err
				}
				n++
			}
		}
		return nil
	}
	err := walk("/" + StaticDir)
	return n, err
}

func readAll(fs http.FileSystem, name string) ([]byte, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open file: %q", name)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read file: %q", name)
	}
	return b, nil
}

// Watch exports once, then again whenever something below the watched
// directories changes, until ctx is done. Bursts of events are folded into
// one export.
func (e *Exporter) Watch(ctx context.Context, debounce time.Duration, dirs ...string) error {
	if _, err := e.Export(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "Failed to create file watcher")
	}
	defer watcher.Close()

	for _, root := range dirs {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			e.log.Warn("directory not found, not watching", "dir", root)
			continue
		}
		err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				e.log.Warn("walk failed", "path", p, "error", err.Error())
				return nil
			}
			if d.IsDir() {
				if err := watcher.Add(p); err != nil {
					e.log.Warn("watch failed", "path", p, "error", err.Error())
				}
			}
			return nil
		})
		if err != nil {
			return errors.Wrapf(err, "Cannot walk %q", root)
		}
	}

	var timer *time.Timer
	rebuild := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			e.log.Debug("change detected", "path", event.Name, "op", event.Op.String())
			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						e.log.Warn("watch failed", "path", event.Name, "error", err.Error())
					}
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})
		case <-rebuild:
			n, err := e.Export(ctx)
			if err != nil {
				e.log.Error("rebuild failed", "error", err.Error())
				continue
			}
			e.log.Info("site rebuilt", "files", n)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.log.Warn("watcher error", "error", err.Error())
		}
	}
}
