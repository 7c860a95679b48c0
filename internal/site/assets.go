package site

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// StaticDir holds files served under /static/, relative to the backend
// root.
const StaticDir = "static"

// AssetHandler serves files from a backend like http.ServeContent, without
// directory listings or dot files.
type AssetHandler struct {
	fs     http.FileSystem
	prefix string
}

func NewAssetHandler(fs http.FileSystem) AssetHandler {
	return AssetHandler{fs: fs}
}

// Serve the file requested by r. Error 404 on directories.
func (ah AssetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f, err := ah.Open(r.URL.Path)
	if err != nil {
		http.Error(w, r.URL.Path, http.StatusNotFound)
		return
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		http.Error(w, r.URL.Path, http.StatusInternalServerError)
		return
	}
	if stat.IsDir() {
		http.Error(w, r.URL.Path, http.StatusNotFound)
		return
	}
	http.ServeContent(w, r, stat.Name(), stat.ModTime(), f)
}

// Cd returns a handler rooted at dir below the current root.
func (ah AssetHandler) Cd(dir string) AssetHandler {
	ah.prefix = path.Join("/", ah.prefix, dir)
	return ah
}

// Open implements http.FileSystem.
func (ah AssetHandler) Open(name string) (http.File, error) {
	name = path.Clean("/" + name)
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
	}
	return ah.fs.Open(path.Join("/", ah.prefix, name))
}
