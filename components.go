package showcase

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// Element is one node handed to a RenderFunc: its tag, its attributes and
// its already wired children.
type Element struct {
	Tag      string
	Attrs    Attributes
	Children templ.Component
}

// RenderFunc renders one element. It must not keep or mutate shared state;
// the same element always yields the same output.
type RenderFunc func(el Element) templ.Component

// Attributes of an element. Keys are stored lower case.
type Attributes map[string]string

// NewAttributes copies kv pairs into Attributes. Empty values are kept.
func NewAttributes(kv ...string) Attributes {
	a := make(Attributes, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		a[strings.ToLower(kv[i])] = kv[i+1]
	}
	return a
}

func (a Attributes) Get(key string) string {
	return a[strings.ToLower(key)]
}

func (a Attributes) Has(key string) bool {
	_, ok := a[strings.ToLower(key)]
	return ok
}

// First returns the value of the first key that is set and non-empty. It
// resolves attribute aliases such as kind/type.
func (a Attributes) First(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(a.Get(k)); v != "" {
			return v
		}
	}
	return ""
}

// Keys returns the attribute names in lexical order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Tags rendered by DefaultRegistry. Markdown element tags are lower case,
// component embeds start upper case.
const (
	TagH1         = "h1"
	TagH2         = "h2"
	TagH3         = "h3"
	TagH4         = "h4"
	TagParagraph  = "p"
	TagLink       = "a"
	TagImage      = "img"
	TagBlockquote = "blockquote"
	TagCode       = "code"
	TagPre        = "pre"
	TagUL         = "ul"
	TagOL         = "ol"
	TagLI         = "li"
	TagTable      = "table"
	TagTHead      = "thead"
	TagTR         = "tr"
	TagTH         = "th"
	TagTD         = "td"
	TagHR         = "hr"
	TagStrong     = "strong"
	TagEm         = "em"

	TagCaptionedImage = "Image"
	TagCallout        = "Callout"
	TagVideo          = "Video"
	TagYouTubeVideo   = "YouTubeVideo"
)

// Registry maps tags to renderers. It is a value: With returns a new
// Registry and never changes the receiver, so one Registry can be shared by
// concurrent renders.
type Registry struct {
	renderers map[string]RenderFunc
}

// DefaultRegistry returns the built in table.
func DefaultRegistry() Registry {
	return Registry{renderers: defaultRenderers()}
}

// NewRegistry returns the defaults with overrides applied on top.
func NewRegistry(overrides map[string]RenderFunc) Registry {
	return DefaultRegistry().With(overrides)
}

// With returns a copy of r where overrides replace or add entries. A nil
// RenderFunc removes the tag, which sends it to Passthrough.
func (r Registry) With(overrides map[string]RenderFunc) Registry {
	m := make(map[string]RenderFunc, len(r.renderers)+len(overrides))
	for k, v := range r.renderers {
		m[k] = v
	}
	for k, v := range overrides {
		if v == nil {
			delete(m, k)
			continue
		}
		m[k] = v
	}
	return Registry{renderers: m}
}

// IsZero reports whether r is the zero Registry, as opposed to one built by
// DefaultRegistry, NewRegistry or With, which may still have no tags.
func (r Registry) IsZero() bool {
	return r.renderers == nil
}

func (r Registry) Lookup(tag string) (RenderFunc, bool) {
	fn, ok := r.renderers[tag]
	return fn, ok
}

// Tags lists the registered tags in lexical order.
func (r Registry) Tags() []string {
	tags := make([]string, 0, len(r.renderers))
	for t := range r.renderers {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

func (r Registry) resolve(tag string) RenderFunc {
	if fn, ok := r.renderers[tag]; ok {
		return fn
	}
	return Passthrough
}

// Passthrough is used for every tag the registry has no entry for. Markdown
// tags come out as the plain HTML element; unknown embeds keep their
// children inside a div naming the component.
func Passthrough(el Element) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if isComponentName(el.Tag) {
			h.raw(`<div data-component="`)
			h.text(el.Tag)
			h.raw(`">`)
			h.component(ctx, el.Children)
			h.raw(`</div>`)
			return h.err
		}

		tag := el.Tag
		if !validTagName(tag) {
			tag = "div"
		}
		h.open(tag, "", el.Attrs)
		if voidElements[tag] {
			return h.err
		}
		h.component(ctx, el.Children)
		h.close(tag)
		return h.err
	})
}

var voidElements = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true, "source": true, "wbr": true,
}

func isComponentName(tag string) bool {
	return tag != "" && tag[0] >= 'A' && tag[0] <= 'Z'
}

func validTagName(tag string) bool {
	if tag == "" || tag[0] < 'a' || tag[0] > 'z' {
		return false
	}
	for _, c := range tag {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func validAttrName(name string) bool {
	if name == "" || name[0] < 'a' || name[0] > 'z' {
		return false
	}
	for _, c := range name {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-') {
			return false
		}
	}
	return true
}

// htmlWriter keeps the first write error so renderers can emit markup
// without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" ")
	h.raw(name)
	h.raw(`="`)
	h.text(value)
	h.raw(`"`)
}

func (h *htmlWriter) url(name, value string) {
	h.attr(name, string(templ.URL(value)))
}

// open writes a start tag. class is written first; attrs follow in key
// order with URL attributes sanitised.
func (h *htmlWriter) open(tag, class string, attrs Attributes) {
	h.raw("<")
	h.raw(tag)
	if class != "" {
		h.attr("class", class)
	}
	for _, k := range attrs.Keys() {
		if !validAttrName(k) || strings.HasPrefix(k, "on") || (k == "class" && class != "") {
			continue
		}
		switch k {
		case "href", "src":
			h.url(k, attrs[k])
		default:
			h.attr(k, attrs[k])
		}
	}
	h.raw(">")
}

func (h *htmlWriter) close(tag string) {
	h.raw("</")
	h.raw(tag)
	h.raw(">")
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
}
