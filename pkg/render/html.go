package render

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// HTML writes a node tree as nested div markup, the display surface for
// the render command. Overlays are emitted as data-attributed siblings so
// a styling layer can composite them; display renders carry none.
type HTML struct {
	// Indent is the per-level indentation (default two spaces).
	Indent string
}

// Print renders the tree to a string.
func (h HTML) Print(n *Node) string {
	var sb strings.Builder
	h.Write(&sb, n)
	return sb.String()
}

// Write streams the tree to w.
func (h HTML) Write(w io.Writer, n *Node) {
	if n == nil {
		return
	}
	indent := h.Indent
	if indent == "" {
		indent = "  "
	}
	h.write(w, n, indent, 0)
}

func (h HTML) write(w io.Writer, n *Node, indent string, depth int) {
	pad := strings.Repeat(indent, depth)

	var attrs strings.Builder
	classes := append([]string{"slot-" + n.Kind}, n.Classes...)
	fmt.Fprintf(&attrs, ` class="%s"`, html.EscapeString(strings.Join(classes, " ")))
	if n.SlotID != "" {
		fmt.Fprintf(&attrs, ` data-slot-id="%s"`, html.EscapeString(n.SlotID))
	}
	if len(n.Styles) > 0 {
		var style strings.Builder
		for _, k := range sortedStyleKeys(n.Styles) {
			fmt.Fprintf(&style, "%s:%s;", k, n.Styles[k])
		}
		fmt.Fprintf(&attrs, ` style="%s"`, html.EscapeString(style.String()))
	}

	tag, selfClosing := tagFor(n)
	if selfClosing {
		// Void elements carry their content as an attribute.
		switch {
		case n.Kind == "image" && n.Content != "":
			fmt.Fprintf(&attrs, ` src="%s"`, html.EscapeString(n.Content))
		case n.Kind == "input" && n.Content != "":
			fmt.Fprintf(&attrs, ` value="%s"`, html.EscapeString(n.Content))
		}
		fmt.Fprintf(w, "%s<%s%s/>\n", pad, tag, attrs.String())
		return
	}

	fmt.Fprintf(w, "%s<%s%s>", pad, tag, attrs.String())
	if n.Content != "" {
		io.WriteString(w, html.EscapeString(n.Content))
	}

	if len(n.Children) > 0 || n.Overlay != nil {
		io.WriteString(w, "\n")
		for _, c := range n.Children {
			h.write(w, c, indent, depth+1)
		}
		if n.Overlay != nil {
			h.writeOverlay(w, n.Overlay, indent, depth+1)
		}
		io.WriteString(w, pad)
	}
	fmt.Fprintf(w, "</%s>\n", tag)
}

func (h HTML) writeOverlay(w io.Writer, ov *Node, indent string, depth int) {
	pad := strings.Repeat(indent, depth)
	fmt.Fprintf(w, `%s<div class="%s" data-overlay-for="%s">`+"\n",
		pad, html.EscapeString(strings.Join(ov.Classes, " ")), html.EscapeString(ov.SlotID))
	for _, c := range ov.Children {
		fmt.Fprintf(w, `%s%s<span class="%s"></span>`+"\n",
			pad, indent, html.EscapeString(strings.Join(c.Classes, " ")))
	}
	fmt.Fprintf(w, "%s</div>\n", pad)
}

func tagFor(n *Node) (tag string, selfClosing bool) {
	switch n.Kind {
	case "page", "container":
		return "div", false
	case "button":
		return "button", false
	case "image":
		return "img", true
	case "input":
		return "input", true
	default:
		return "div", false
	}
}
