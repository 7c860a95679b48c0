package showcase

import (
	"bytes"
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/pkg/errors"
	bf "github.com/russross/blackfriday"
)

const markdownExtensions = bf.EXTENSION_TABLES |
	bf.EXTENSION_FENCED_CODE |
	bf.EXTENSION_AUTOLINK |
	bf.EXTENSION_STRIKETHROUGH |
	bf.EXTENSION_SPACE_HEADERS |
	bf.EXTENSION_HEADER_IDS |
	bf.EXTENSION_AUTO_HEADER_IDS |
	bf.EXTENSION_NO_INTRA_EMPHASIS

// mdRenderer sends every element blackfriday reports through the registry.
// Text, entities and raw HTML stay with the embedded renderer. Embeds inside
// the run reach blackfriday as placeholders and are rendered afterwards.
type mdRenderer struct {
	bf.Renderer
	ctx      context.Context
	registry Registry
	embeds   []inlineEmbed
	inline   bool
	err      error
}

func renderMarkdown(ctx context.Context, reg Registry, b Block) ([]byte, error) {
	src, embeds, err := extractEmbeds(b.Markdown, b.Line)
	if err != nil {
		return nil, err
	}
	md := &mdRenderer{
		Renderer: bf.HtmlRenderer(0, "", ""),
		ctx:      ctx,
		registry: reg,
		embeds:   embeds,
		inline:   b.Inline,
	}
	out := bf.Markdown(src, md, markdownExtensions)
	if md.err != nil {
		return nil, errors.Wrapf(md.err, "line %d", b.Line)
	}
	return md.expand(out)
}

// expand renders the embeds in place of their placeholders.
func (md *mdRenderer) expand(html []byte) ([]byte, error) {
	if len(md.embeds) == 0 {
		return html, nil
	}
	var buf bytes.Buffer
	for {
		i := bytes.IndexByte(html, markOpen)
		if i < 0 {
			buf.Write(html)
			return buf.Bytes(), nil
		}
		buf.Write(html[:i])
		n, width, ok := placeholderAt(html[i:])
		if !ok || n >= len(md.embeds) {
			html = html[i+1:]
			continue
		}
		if err := md.registry.renderComponent(md.ctx, &buf, md.embeds[n].Block); err != nil {
			return nil, err
		}
		html = html[i+width:]
	}
}

// restore puts the source of embeds back where blackfriday treats text
// literally: code and attribute values.
func (md *mdRenderer) restore(text []byte) []byte {
	if len(md.embeds) == 0 || bytes.IndexByte(text, markOpen) < 0 {
		return text
	}
	var buf bytes.Buffer
	for {
		i := bytes.IndexByte(text, markOpen)
		if i < 0 {
			buf.Write(text)
			return buf.Bytes()
		}
		buf.Write(text[:i])
		n, width, ok := placeholderAt(text[i:])
		if !ok || n >= len(md.embeds) {
			text = text[i+1:]
			continue
		}
		buf.Write(md.embeds[n].src)
		text = text[i+width:]
	}
}

// soleEmbed reports whether a paragraph holds nothing but one embed. Such
// an embed is a block of its own and gets no paragraph around it.
func (md *mdRenderer) soleEmbed(children []byte) bool {
	t := bytes.TrimSpace(children)
	n, width, ok := placeholderAt(t)
	return ok && width == len(t) && n < len(md.embeds)
}

// capture runs a blackfriday content callback and takes what it wrote back
// out of the buffer.
func capture(out *bytes.Buffer, text func() bool) ([]byte, bool) {
	mark := out.Len()
	ok := text()
	children := append([]byte(nil), out.Bytes()[mark:]...)
	out.Truncate(mark)
	return children, ok
}

func (md *mdRenderer) emit(out *bytes.Buffer, tag string, attrs Attributes, children []byte) {
	if md.err != nil {
		return
	}
	if attrs == nil {
		attrs = Attributes{}
	}
	el := Element{Tag: tag, Attrs: attrs}
	if children != nil {
		el.Children = templ.Raw(string(children))
	}
	md.err = md.registry.resolve(tag)(el).Render(md.ctx, out)
}

func (md *mdRenderer) block(out *bytes.Buffer, tag string, attrs Attributes, children []byte) {
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
	md.emit(out, tag, attrs, children)
	out.WriteByte('\n')
}

func (md *mdRenderer) Header(out *bytes.Buffer, text func() bool, level int, id string) {
	children, ok := capture(out, text)
	if !ok {
		return
	}
	attrs := Attributes{}
	if id != "" {
		attrs["id"] = id
	}
	md.block(out, "h"+strconv.Itoa(level), attrs, children)
}

func (md *mdRenderer) Paragraph(out *bytes.Buffer, text func() bool) {
	children, ok := capture(out, text)
	if !ok {
		return
	}
	switch {
	case md.inline:
		out.Write(bytes.TrimSpace(children))
	case md.soleEmbed(children):
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.Write(bytes.TrimSpace(children))
		out.WriteByte('\n')
	default:
		md.block(out, TagParagraph, nil, children)
	}
}

func (md *mdRenderer) List(out *bytes.Buffer, text func() bool, flags int) {
	children, ok := capture(out, text)
	if !ok {
		return
	}
	tag := TagUL
	if flags&bf.LIST_TYPE_ORDERED != 0 {
		tag = TagOL
	}
	md.block(out, tag, nil, children)
}

func (md *mdRenderer) ListItem(out *bytes.Buffer, text []byte, flags int) {
	md.emit(out, TagLI, nil, bytes.TrimRight(text, "\n"))
	out.WriteByte('\n')
}

func (md *mdRenderer) BlockQuote(out *bytes.Buffer, text []byte) {
	md.block(out, TagBlockquote, nil, text)
}

func (md *mdRenderer) BlockCode(out *bytes.Buffer, text []byte, lang string) {
	var code bytes.Buffer
	attrs := Attributes{}
	if lang != "" {
		attrs["class"] = "language-" + lang
	}
	md.emit(&code, TagCode, attrs, []byte(templ.EscapeString(string(md.restore(text)))))
	md.block(out, TagPre, nil, code.Bytes())
}

func (md *mdRenderer) CodeSpan(out *bytes.Buffer, text []byte) {
	md.emit(out, TagCode, nil, []byte(templ.EscapeString(string(md.restore(text)))))
}

func (md *mdRenderer) HRule(out *bytes.Buffer) {
	md.block(out, TagHR, nil, nil)
}

func (md *mdRenderer) Link(out *bytes.Buffer, link []byte, title []byte, content []byte) {
	md.emit(out, TagLink, NewAttributes("href", string(md.restore(link)), "title", string(md.restore(title))), content)
}

func (md *mdRenderer) AutoLink(out *bytes.Buffer, link []byte, kind int) {
	href := string(link)
	if kind == bf.LINK_TYPE_EMAIL && !bytes.HasPrefix(link, []byte("mailto:")) {
		href = "mailto:" + href
	}
	md.emit(out, TagLink, NewAttributes("href", href), []byte(templ.EscapeString(string(link))))
}

func (md *mdRenderer) Image(out *bytes.Buffer, link []byte, title []byte, alt []byte) {
	md.emit(out, TagImage, NewAttributes("src", string(link), "title", string(md.restore(title)), "alt", string(md.restore(alt))), nil)
}

func (md *mdRenderer) Table(out *bytes.Buffer, header []byte, body []byte, columnData []int) {
	var head bytes.Buffer
	md.emit(&head, TagTHead, nil, header)
	children := append(head.Bytes(), "<tbody>"...)
	children = append(children, body...)
	children = append(children, "</tbody>"...)
	md.block(out, TagTable, nil, children)
}

func (md *mdRenderer) TableRow(out *bytes.Buffer, text []byte) {
	md.emit(out, TagTR, nil, text)
}

func (md *mdRenderer) TableHeaderCell(out *bytes.Buffer, text []byte, align int) {
	md.emit(out, TagTH, alignAttrs(align), text)
}

func (md *mdRenderer) TableCell(out *bytes.Buffer, text []byte, align int) {
	md.emit(out, TagTD, alignAttrs(align), text)
}

func alignAttrs(flags int) Attributes {
	switch flags {
	case bf.TABLE_ALIGNMENT_LEFT:
		return NewAttributes("align", "left")
	case bf.TABLE_ALIGNMENT_RIGHT:
		return NewAttributes("align", "right")
	case bf.TABLE_ALIGNMENT_CENTER:
		return NewAttributes("align", "center")
	}
	return nil
}

func (md *mdRenderer) DoubleEmphasis(out *bytes.Buffer, text []byte) {
	md.emit(out, TagStrong, nil, text)
}

func (md *mdRenderer) Emphasis(out *bytes.Buffer, text []byte) {
	md.emit(out, TagEm, nil, text)
}

func (md *mdRenderer) TripleEmphasis(out *bytes.Buffer, text []byte) {
	var em bytes.Buffer
	md.emit(&em, TagEm, nil, text)
	md.emit(out, TagStrong, nil, em.Bytes())
}

func (md *mdRenderer) StrikeThrough(out *bytes.Buffer, text []byte) {
	md.emit(out, "del", nil, text)
}
