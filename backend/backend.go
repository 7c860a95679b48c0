// Package backend provides the file systems content is read from: a plain
// directory or the head commit of a git branch.
package backend

import (
	"net/http"
	"path/filepath"
	"strings"

	g "github.com/gogits/git"
	"github.com/lemmi/ghfs"
	"github.com/pkg/errors"
)

type Backend interface {
	http.FileSystem
}

// CIDer is implemented by backends that pin a content version, such as a
// git commit. The id is suitable as an ETag.
type CIDer interface {
	CID() string
}

// Dir serves the directory at prefix.
func Dir(prefix string) (Backend, error) {
	path, err := filepath.Abs(prefix)
	if err != nil {
		return nil, errors.Wrapf(err, "filepath.Abs(%q)", prefix)
	}
	return http.Dir(path), nil
}

type commitFS struct {
	http.FileSystem
	id string
}

func (c commitFS) CID() string {
	return c.id
}

// Git serves the tree of the head commit of branch in the repository at
// prefix.
func Git(prefix, branch string) (Backend, error) {
	path, err := filepath.Abs(prefix)
	if err != nil {
		return nil, errors.Wrapf(err, "filepath.Abs(%q)", prefix)
	}
	repo, err := g.OpenRepository(path)
	if err != nil {
		return nil, errors.Wrapf(err, "g.OpenRepository(%q)", path)
	}
	if branch == "" {
		branch = "master"
	}
	commit, err := repo.GetCommitOfBranch(branch)
	if err != nil {
		return nil, errors.Wrapf(err, "Can not open %s branch", branch)
	}
	return commitFS{
		FileSystem: ghfs.FromCommit(commit),
		id:         strings.Trim(commit.Id.String(), "\""),
	}, nil
}

// Open picks Git or Dir.
func Open(prefix string, git bool, branch string) (Backend, error) {
	if git {
		return Git(prefix, branch)
	}
	return Dir(prefix)
}
