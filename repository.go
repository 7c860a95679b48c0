package showcase

import (
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/lemmi/showcase/backend"
	"github.com/lemmi/showcase/internal/logging"
	"github.com/pkg/errors"
)

const (
	// DefaultContentDir is where entries live relative to the backend root.
	DefaultContentDir = "content/projects"
	// ContentExt is the extension of entry files; the rest of the file name
	// is the identifier.
	ContentExt = ".mdx"
)

// Repository reads entries from a backend. It holds no state between calls:
// every call lists and parses the directory again, so it is safe for
// concurrent use as long as the backend is.
type Repository struct {
	fs     backend.Backend
	dir    string
	logger logging.Logger
}

type RepositoryOption func(*Repository)

// WithContentDir changes the directory entries are read from.
func WithContentDir(dir string) RepositoryOption {
	return func(r *Repository) {
		r.dir = dir
	}
}

func WithLogger(l logging.Logger) RepositoryOption {
	return func(r *Repository) {
		r.logger = logging.OrNoOp(l)
	}
}

func NewRepository(fs backend.Backend, opts ...RepositoryOption) *Repository {
	r := &Repository{
		fs:     fs,
		dir:    DefaultContentDir,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.dir = path.Join("/", strings.Trim(r.dir, "/"))
	return r
}

// Entries returns every entry that is not hidden, newest first. A missing
// content directory is not an error. Files that cannot be read or parsed are
// logged and left out; they never abort the listing.
func (r *Repository) Entries() (Entries, error) {
	all, err := r.all()
	if err != nil {
		return nil, err
	}
	return all.Visible(), nil
}

// Recent returns the first n entries of Entries.
func (r *Repository) Recent(n int) (Entries, error) {
	e, err := r.Entries()
	if err != nil {
		return nil, err
	}
	return e.Head(n), nil
}

// Entry returns the entry with identifier id, hidden or not. An identifier
// without a backing file yields ErrNotFound.
func (r *Repository) Entry(id string) (*Entry, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	e, err := r.load(id)
	if isNotExist(err) {
		return nil, ErrNotFound
	}
	return e, err
}

// IDs lists the identifiers of all content files, hidden ones included,
// without parsing them.
func (r *Repository) IDs() ([]string, error) {
	names, err := r.readDir()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(names))
	for _, name := range names {
		ids = append(ids, strings.TrimSuffix(name, ContentExt))
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *Repository) all() (Entries, error) {
	names, err := r.readDir()
	if err != nil {
		return nil, err
	}

	ret := make(Entries, 0, len(names))
	for _, name := range names {
		id := strings.TrimSuffix(name, ContentExt)
		e, err := r.load(id)
		if err != nil {
			r.logger.Warn("skipping content file", "id", id, "error", err.Error())
			continue
		}
		ret = append(ret, e.Summary)
	}

	sort.Sort(ret)
	return ret, nil
}

// readDir returns the names of the entry files in the content directory.
func (r *Repository) readDir() ([]string, error) {
	dir, err := r.fs.Open(r.dir)
	if err != nil {
		if isNotExist(err) {
			r.logger.Debug("content directory missing", "dir", r.dir)
			return nil, nil
		}
		return nil, errors.Wrapf(err, "Cannot open directory: %q", r.dir)
	}
	defer dir.Close()

	fis, err := dir.Readdir(-1)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read directory: %q", r.dir)
	}

	names := make([]string, 0, len(fis))
	for _, fi := range fis {
		if fi.IsDir() || !strings.HasSuffix(fi.Name(), ContentExt) {
			continue
		}
		if !validID(strings.TrimSuffix(fi.Name(), ContentExt)) {
			continue
		}
		names = append(names, fi.Name())
	}
	return names, nil
}

func (r *Repository) load(id string) (*Entry, error) {
	fpath := path.Join(r.dir, id+ContentExt)
	f, err := r.fs.Open(fpath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot stat file: %q", fpath)
	}
	if stat.IsDir() {
		return nil, &os.PathError{Op: "open", Path: fpath, Err: fs.ErrNotExist}
	}

	src, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read file: %q", fpath)
	}

	meta, body, err := parseFrontMatter(src)
	if err != nil {
		return nil, &MalformedEntryError{ID: id, Err: err}
	}

	date, _ := ParseDate(meta.Date)
	return &Entry{
		Summary: Summary{
			ID:          id,
			Meta:        meta,
			ReadingTime: ReadingTime(body),
			Date:        date,
			ModTime:     stat.ModTime(),
		},
		Body: body,
	}, nil
}

// validID accepts plain file names only, which keeps lookups inside the
// content directory.
func validID(id string) bool {
	if id == "" || id == "." || id == ".." || strings.HasPrefix(id, ".") {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && !strings.ContainsRune(id, 0)
}

func isNotExist(err error) bool {
	if err == nil {
		return false
	}
	return os.IsNotExist(err) || errors.Is(err, fs.ErrNotExist)
}
