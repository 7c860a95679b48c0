package showcase

import (
	"bytes"
	"html"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	xhtml "golang.org/x/net/html"
)

// Block is one top level piece of a body: either a run of Markdown or a
// component embed with its own child blocks.
type Block struct {
	// Name is empty for Markdown runs.
	Name     string
	Attrs    Attributes
	Markdown []byte
	Children []Block
	// Line is the 1-based line the block starts on.
	Line int
	// Inline Markdown runs render as phrasing content, without a
	// paragraph around them.
	Inline bool
}

func (b Block) IsComponent() bool {
	return b.Name != ""
}

// ParseBlocks splits body into Markdown runs and component embeds. An embed
// block is a tag starting with an upper case letter in the first column,
// either self-closing or paired with a closing tag, that ends its line.
// Embeds anywhere else stay in the Markdown run and are picked up when the
// run is rendered. Fenced code is never searched for tags.
func ParseBlocks(body []byte) ([]Block, error) {
	body = bytes.ReplaceAll(body, []byte("\r\n"), []byte("\n"))
	return parseBlocks(body, 1)
}

func parseBlocks(src []byte, firstLine int) ([]Block, error) {
	var (
		blocks  []Block
		f       fence
		pos     int
		mdStart int
	)
	lineAt := func(off int) int {
		return firstLine + bytes.Count(src[:off], []byte{'\n'})
	}
	flush := func(end int) {
		if md := src[mdStart:end]; len(bytes.TrimSpace(md)) > 0 {
			blocks = append(blocks, Block{Markdown: md, Line: lineAt(mdStart)})
		}
	}

	for pos < len(src) {
		eol := lineEnd(src, pos)
		line := src[pos:eol]
		if f.step(line) {
			pos = eol + 1
			continue
		}
		name := componentName(line)
		if name == "" {
			pos = eol + 1
			continue
		}

		start := pos
		tagEnd, selfClosing, ok := scanTagEnd(src, start)
		if !ok {
			return nil, errors.Errorf("line %d: unterminated <%s> tag", lineAt(start), name)
		}
		attrs, err := parseAttributes(src[start:tagEnd])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineAt(start))
		}
		b := Block{Name: name, Attrs: attrs, Line: lineAt(start)}
		end := tagEnd
		if !selfClosing {
			closeStart, closeEnd, ok := findClose(src, tagEnd, name)
			if !ok {
				return nil, errors.Errorf("line %d: <%s> is never closed", b.Line, name)
			}
			b.Children, err = childBlocks(src[tagEnd:closeStart], lineAt(tagEnd))
			if err != nil {
				return nil, err
			}
			end = closeEnd
		}
		if rest := skipBlankRest(src, end); rest == end && end < len(src) {
			// text follows on the same line: inline embed
			pos = lineEnd(src, end) + 1
			continue
		}

		flush(pos)
		blocks = append(blocks, b)
		pos = skipBlankRest(src, end)
		mdStart = pos
	}
	flush(len(src))
	return blocks, nil
}

// childBlocks parses the content between an open and a close tag. Content
// on a single line is phrasing content, as in <Badge>Go</Badge>.
func childBlocks(inner []byte, firstLine int) ([]Block, error) {
	blocks, err := parseBlocks(dedent(inner), firstLine)
	if err != nil {
		return nil, err
	}
	if !bytes.Contains(inner, []byte{'\n'}) {
		for i := range blocks {
			if !blocks[i].IsComponent() {
				blocks[i].Inline = true
			}
		}
	}
	return blocks, nil
}

// fence tracks ``` and ~~~ code fences line by line.
type fence struct {
	marker byte
	n      int
}

// step reports whether line is a fence delimiter or inside a fence.
func (f *fence) step(line []byte) bool {
	t := line
	for i := 0; i < 3 && len(t) > 0 && t[0] == ' '; i++ {
		t = t[1:]
	}
	if f.n > 0 {
		if n := run(t, f.marker); n >= f.n && len(bytes.TrimSpace(t[n:])) == 0 {
			f.n = 0
		}
		return true
	}
	if len(t) > 0 && (t[0] == '`' || t[0] == '~') {
		if n := run(t, t[0]); n >= 3 {
			f.marker, f.n = t[0], n
			return true
		}
	}
	return false
}

func run(b []byte, c byte) int {
	n := 0
	for n < len(b) && b[n] == c {
		n++
	}
	return n
}

func lineEnd(src []byte, pos int) int {
	if i := bytes.IndexByte(src[pos:], '\n'); i >= 0 {
		return pos + i
	}
	return len(src)
}

// componentName returns the name of the component tag s starts with, or ""
// if s does not start one.
func componentName(s []byte) string {
	if len(s) < 2 || s[0] != '<' || s[1] < 'A' || s[1] > 'Z' {
		return ""
	}
	i := 2
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	if i < len(s) && !isTagBoundary(s[i]) {
		return ""
	}
	return string(s[1:i])
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '.'
}

func isTagBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '>', '/':
		return true
	}
	return false
}

// scanTagEnd finds the '>' closing the tag that starts at src[start]. Quoted
// strings and {} expressions may contain '>' and span lines.
func scanTagEnd(src []byte, start int) (end int, selfClosing bool, ok bool) {
	var quote byte
	depth := 0
	for i := start + 1; i < len(src); i++ {
		c := src[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '{':
			depth++
		case c == '}':
			if depth > 0 {
				depth--
			}
		case c == '>' && depth == 0:
			prev := bytes.TrimRight(src[start:i], " \t\n")
			return i + 1, len(prev) > 0 && prev[len(prev)-1] == '/', true
		}
	}
	return 0, false, false
}

// findClose finds the closing tag for name, skipping nested tags of the
// same name and fenced code. It returns the offsets of the closing tag.
func findClose(src []byte, from int, name string) (int, int, bool) {
	var f fence
	open := []byte("<" + name)
	closing := []byte("</" + name)
	depth := 0

	pos := from
	for pos < len(src) {
		eol := lineEnd(src, pos)
		if f.step(src[pos:eol]) {
			pos = eol + 1
			continue
		}
		next := eol + 1
		for i := pos; i < eol; i++ {
			if src[i] != '<' {
				continue
			}
			rest := src[i:]
			if bytes.HasPrefix(rest, closing) {
				j := i + len(closing)
				for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
					j++
				}
				if j < len(src) && src[j] == '>' {
					if depth == 0 {
						return i, j + 1, true
					}
					depth--
					i = j
				}
				continue
			}
			if bytes.HasPrefix(rest, open) && len(rest) > len(open) && isTagBoundary(rest[len(open)]) {
				end, selfClosing, ok := scanTagEnd(src, i)
				if !ok {
					return 0, 0, false
				}
				if !selfClosing {
					depth++
				}
				if end > eol {
					next = end
					break
				}
				i = end - 1
			}
		}
		pos = next
	}
	return 0, 0, false
}

// skipBlankRest moves past the rest of the line at off when it holds only
// whitespace.
func skipBlankRest(src []byte, off int) int {
	i := off
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	if i == len(src) {
		return i
	}
	if src[i] == '\n' {
		return i + 1
	}
	return off
}

// dedent strips the indentation shared by all non-blank lines, so indented
// embed content is not read as a Markdown code block.
func dedent(b []byte) []byte {
	lines := bytes.Split(b, []byte{'\n'})
	common := -1
	for _, l := range lines {
		if len(bytes.TrimSpace(l)) == 0 {
			continue
		}
		n := len(l) - len(bytes.TrimLeft(l, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	if common <= 0 {
		return b
	}
	for i, l := range lines {
		if len(l) >= common {
			lines[i] = l[common:]
		} else {
			lines[i] = bytes.TrimLeft(l, " \t")
		}
	}
	return bytes.Join(lines, []byte{'\n'})
}

// parseAttributes reads the attributes of a component open tag. JSX style
// values such as {"x"} or {16} are unwrapped first; bare attributes read as
// empty strings.
func parseAttributes(tag []byte) (Attributes, error) {
	z := xhtml.NewTokenizer(bytes.NewReader(unwrapExpressions(tag)))
	switch z.Next() {
	case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
	default:
		return nil, errors.Errorf("cannot read tag %q", tagHead(tag))
	}
	attrs := Attributes{}
	_, more := z.TagName()
	for more {
		var k, v []byte
		k, v, more = z.TagAttr()
		attrs[strings.ToLower(string(k))] = string(v)
	}
	return attrs, nil
}

func unwrapExpressions(tag []byte) []byte {
	var out bytes.Buffer
	var quote byte
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			out.WriteByte(c)
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{':
			if end := matchBrace(tag, i); end > 0 {
				out.WriteByte('"')
				out.WriteString(html.EscapeString(exprValue(tag[i+1 : end])))
				out.WriteByte('"')
				i = end
				continue
			}
		}
		out.WriteByte(c)
	}
	return out.Bytes()
}

func matchBrace(b []byte, open int) int {
	var quote byte
	depth := 0
	for i := open; i < len(b); i++ {
		c := b[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func exprValue(expr []byte) string {
	s := strings.TrimSpace(string(expr))
	if len(s) >= 2 {
		switch q := s[0]; q {
		case '"', '\'', '`':
			if s[len(s)-1] == q {
				return s[1 : len(s)-1]
			}
		}
	}
	return s
}

func tagHead(b []byte) []byte {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i]
	}
	return b
}

// Placeholders stand in for the embeds of a Markdown run while blackfriday
// renders it.
const (
	markOpen  = '\x02'
	markClose = '\x03'
)

// inlineEmbed is a component found inside a Markdown run and the source it
// replaced.
type inlineEmbed struct {
	Block
	src []byte
}

func placeholder(i int) string {
	return string(markOpen) + strconv.Itoa(i) + string(markClose)
}

// placeholderAt reads the placeholder b starts with. It returns the embed
// index and the placeholder length.
func placeholderAt(b []byte) (int, int, bool) {
	if len(b) < 3 || b[0] != markOpen {
		return 0, 0, false
	}
	end := bytes.IndexByte(b, markClose)
	if end < 2 {
		return 0, 0, false
	}
	n, err := strconv.Atoi(string(b[1:end]))
	if err != nil || n < 0 {
		return 0, 0, false
	}
	return n, end + 1, true
}

// extractEmbeds replaces the components inside a Markdown run with
// placeholders: tags within a line of text, inside block quotes or inside
// list items. Code is left alone, and so are tags that are never closed.
func extractEmbeds(src []byte, firstLine int) ([]byte, []inlineEmbed, error) {
	if bytes.IndexByte(src, markOpen) >= 0 || bytes.IndexByte(src, markClose) >= 0 {
		clean := make([]byte, 0, len(src))
		for _, c := range src {
			if c != markOpen && c != markClose {
				clean = append(clean, c)
			}
		}
		src = clean
	}
	if bytes.IndexByte(src, '<') < 0 {
		return src, nil, nil
	}

	var (
		out    bytes.Buffer
		embeds []inlineEmbed
		f      fence
		pos    int
	)
	lineAt := func(off int) int {
		return firstLine + bytes.Count(src[:off], []byte{'\n'})
	}
	for pos < len(src) {
		if pos == 0 || src[pos-1] == '\n' {
			eol := lineEnd(src, pos)
			if f.step(src[pos:eol]) {
				next := min(eol+1, len(src))
				out.Write(src[pos:next])
				pos = next
				continue
			}
		}

		c := src[pos]
		if c == '`' {
			end := codeSpanEnd(src, pos)
			out.Write(src[pos:end])
			pos = end
			continue
		}
		if c == '<' && (pos == 0 || !isNameByte(src[pos-1])) {
			e, end, err := embedAt(src, pos, lineAt)
			if err != nil {
				return nil, nil, err
			}
			if end > pos {
				out.WriteString(placeholder(len(embeds)))
				embeds = append(embeds, e)
				pos = end
				continue
			}
		}
		out.WriteByte(c)
		pos++
	}
	return out.Bytes(), embeds, nil
}

// embedAt reads the component starting at src[pos]. end is zero when there
// is none, or when it is not closed.
func embedAt(src []byte, pos int, lineAt func(int) int) (e inlineEmbed, end int, err error) {
	name := componentName(src[pos:])
	if name == "" {
		return e, 0, nil
	}
	tagEnd, selfClosing, ok := scanTagEnd(src, pos)
	if !ok {
		return e, 0, nil
	}
	attrs, err := parseAttributes(src[pos:tagEnd])
	if err != nil {
		return e, 0, nil
	}

	b := Block{Name: name, Attrs: attrs, Line: lineAt(pos)}
	end = tagEnd
	if !selfClosing {
		closeStart, closeEnd, ok := findClose(src, tagEnd, name)
		if !ok {
			return e, 0, nil
		}
		inner := unquote(src[tagEnd:closeStart], quoteDepth(src, pos))
		if b.Children, err = childBlocks(inner, lineAt(tagEnd)); err != nil {
			return e, 0, err
		}
		end = closeEnd
	}
	return inlineEmbed{Block: b, src: src[pos:end]}, end, nil
}

// quoteDepth counts the block quote markers in front of pos when nothing
// else precedes it on its line.
func quoteDepth(src []byte, pos int) int {
	prefix := src[bytes.LastIndexByte(src[:pos], '\n')+1 : pos]
	if len(bytes.Trim(prefix, " \t>")) > 0 {
		return 0
	}
	return bytes.Count(prefix, []byte{'>'})
}

// unquote strips depth block quote markers from every line after the first.
func unquote(b []byte, depth int) []byte {
	if depth == 0 || !bytes.Contains(b, []byte{'\n'}) {
		return b
	}
	lines := bytes.Split(b, []byte{'\n'})
	for i := 1; i < len(lines); i++ {
		l := lines[i]
		for d := 0; d < depth; d++ {
			t := bytes.TrimLeft(l, " \t")
			if len(t) == 0 || t[0] != '>' {
				break
			}
			l = t[1:]
			if len(l) > 0 && l[0] == ' ' {
				l = l[1:]
			}
		}
		lines[i] = l
	}
	return bytes.Join(lines, []byte{'\n'})
}

// codeSpanEnd returns the end of the code span opening at pos. A span that
// is not closed within its paragraph is just its backticks.
func codeSpanEnd(src []byte, pos int) int {
	n := run(src[pos:], '`')
	limit := len(src)
	if i := bytes.Index(src[pos:], []byte("\n\n")); i >= 0 {
		limit = pos + i
	}
	for i := pos + n; i < limit; {
		if src[i] != '`' {
			i++
			continue
		}
		m := run(src[i:limit], '`')
		if m == n {
			return i + m
		}
		i += m
	}
	return pos + n
}
