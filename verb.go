package twiml

import (
	"strconv"
	"strings"
)

// attr is one rendered attribute. Values are stored already escaped.
type attr struct {
	name  string
	value string
}

// verb is the in-memory form of a single element: tag, ordered attributes,
// optional text content and ordered child fragments. Builders populate one,
// validate their input, then call render exactly once. Rendering touches no
// shared state, so equal inputs always produce byte-identical output.
type verb struct {
	tag      string
	attrs    []attr
	text     string
	children []string
}

func newVerb(tag string) *verb {
	return &verb{tag: tag}
}

// attrString appends a string attribute, escaping the value.
func (v *verb) attrString(name, value string) {
	v.attrs = append(v.attrs, attr{name: name, value: Escape(value)})
}

// attrInt appends a numeric attribute.
func (v *verb) attrInt(name string, n int) {
	v.attrs = append(v.attrs, attr{name: name, value: strconv.Itoa(n)})
}

// attrBool appends a boolean attribute as "true" or "false".
func (v *verb) attrBool(name string, b bool) {
	v.attrs = append(v.attrs, attr{name: name, value: strconv.FormatBool(b)})
}

// setText sets the element's text content, escaping it.
func (v *verb) setText(s string) {
	v.text = Escape(s)
}

// addChildren appends pre-rendered child fragments in order.
func (v *verb) addChildren(fragments ...string) {
	v.children = append(v.children, fragments...)
}

// render serializes the element. Elements without text and children
// self-close; everything else gets an explicit closing tag.
func (v *verb) render() string {
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(v.tag)
	for _, a := range v.attrs {
		sb.WriteString(" ")
		sb.WriteString(a.name)
		sb.WriteString(`="`)
		sb.WriteString(a.value)
		sb.WriteString(`"`)
	}
	if v.text == "" && len(v.children) == 0 {
		sb.WriteString("/>")
		return sb.String()
	}
	sb.WriteString(">")
	sb.WriteString(v.text)
	for _, c := range v.children {
		sb.WriteString(c)
	}
	sb.WriteString("</")
	sb.WriteString(v.tag)
	sb.WriteString(">")
	return sb.String()
}

// fragmentTag extracts the element name a rendered fragment opens with, or ""
// when the fragment does not start with an element. Used to enforce nesting
// rules on already-serialized children.
func fragmentTag(fragment string) string {
	s := strings.TrimSpace(fragment)
	if len(s) < 2 || s[0] != '<' {
		return ""
	}
	rest := s[1:]
	if end := strings.IndexAny(rest, " \t\r\n/>"); end >= 0 {
		return rest[:end]
	}
	return ""
}
