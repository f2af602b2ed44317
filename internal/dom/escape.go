package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// EscapeAttr escapes a value for use inside a double-quoted CSS attribute
// selector, so ids containing quotes or backslashes still produce a valid
// lookup.
func EscapeAttr(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch {
		case r == '\\' || r == '"':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == 0:
			b.WriteRune('�')
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, "\\%x ", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AttrSelector builds `tag[attr="value"]` with the value escaped.
func AttrSelector(tag, attr, value string) string {
	return fmt.Sprintf(`%s[%s="%s"]`, tag, attr, EscapeAttr(value))
}

// CSSPath returns an nth-of-type path from <html> to n that a live browser
// can resolve with querySelector.
func CSSPath(n *html.Node) string {
	var parts []string
	for cur := n; IsElement(cur); cur = cur.Parent {
		tag := Tag(cur)
		index := 1
		for sib := cur.PrevSibling; sib != nil; sib = sib.PrevSibling {
			if IsElement(sib) && Tag(sib) == tag {
				index++
			}
		}
		if cur.Parent == nil || !IsElement(cur.Parent) {
			parts = append(parts, tag)
			break
		}
		parts = append(parts, fmt.Sprintf("%s:nth-of-type(%d)", tag, index))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

// OuterHTML serializes n and its subtree.
func OuterHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}
