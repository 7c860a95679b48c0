package showcase

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
)

// FrontMatter is the metadata block at the top of a content file. Keys the
// struct does not name are kept in Extra.
type FrontMatter struct {
	Title       string   `yaml:"title" toml:"title" json:"title"`
	Description string   `yaml:"description" toml:"description" json:"description"`
	Date        string   `yaml:"date" toml:"date" json:"date"`
	Tags        []string `yaml:"tags" toml:"tags" json:"tags"`
	Thumbnail   string   `yaml:"thumbnail,omitempty" toml:"thumbnail" json:"thumbnail,omitempty"`
	Hidden      bool     `yaml:"hidden,omitempty" toml:"hidden" json:"hidden,omitempty"`
	Unsafe      bool     `yaml:"unsafe,omitempty" toml:"unsafe" json:"-"`

	Extra map[string]interface{} `yaml:",inline" toml:"-" json:"extra,omitempty"`
}

// Validate checks the fields that have a shape. Title and date are optional.
func (m FrontMatter) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Tags, validation.Each(validation.Required)),
		validation.Field(&m.Thumbnail, validation.By(insideSite)),
	)
}

func insideSite(value interface{}) error {
	s, _ := value.(string)
	for _, seg := range strings.Split(s, "/") {
		if seg == ".." {
			return errors.New("must not leave the site root")
		}
	}
	return nil
}

// parseFrontMatter splits src into front matter and body. A file without a
// metadata block yields a zero FrontMatter and the whole file as body.
func parseFrontMatter(src []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		return FrontMatter{}, nil, errors.Wrap(err, "parse front matter")
	}

	tags := make([]string, 0, len(meta.Tags))
	for _, t := range meta.Tags {
		tags = append(tags, strings.TrimSpace(t))
	}
	meta.Tags = tags
	extra := make(map[string]interface{}, len(meta.Extra))
	for k, v := range meta.Extra {
		extra[k] = stringKeys(v)
	}
	meta.Extra = extra

	if err := meta.Validate(); err != nil {
		return FrontMatter{}, nil, errors.Wrap(err, "validate front matter")
	}
	return meta, body, nil
}

// stringKeys converts the map[interface{}]interface{} values YAML produces
// for nested mappings, so extras can be encoded as JSON.
func stringKeys(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, v := range t {
			m[fmt.Sprint(k)] = stringKeys(v)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, v := range t {
			m[k] = stringKeys(v)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, v := range t {
			s[i] = stringKeys(v)
		}
		return s
	}
	return v
}
