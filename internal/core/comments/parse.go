package comments

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	listID        = "comments-list"
	formID        = "comment-form"
	attrCommentID = "data-comment-id"
	classAuthor   = "comment-author"
	classBody     = "comment-body"
	classReplies  = "replies"
)

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// ParseThread reads the comment section of a lesson page. A page without a
// comment list yields an empty thread.
func ParseThread(r io.Reader) (*Thread, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	t := &Thread{}
	if form := byID(doc, formID); form != nil {
		t.Action = attr(form, "action")
	}

	list := byID(doc, listID)
	if list == nil {
		return t, nil
	}

	t.Roots = commentsUnder(list)
	return t, nil
}

// ParseFragment reads the single comment rendered in fragment.
func ParseFragment(fragment string) (*Comment, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	for _, n := range nodes {
		if isComment(n) {
			return parseComment(n), nil
		}
		holder := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
		holder.AppendChild(n)
		if found := commentsUnder(holder); len(found) > 0 {
			return found[0], nil
		}
	}
	return nil, ErrNoComment
}

// commentsUnder returns the outermost comments below n, in document order.
func commentsUnder(n *html.Node) []*Comment {
	var out []*Comment
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isComment(c) {
			out = append(out, parseComment(c))
			continue
		}
		out = append(out, commentsUnder(c)...)
	}
	return out
}

func parseComment(n *html.Node) *Comment {
	c := &Comment{ID: attr(n, attrCommentID)}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch {
		case hasClass(child, classReplies):
			c.Replies = append(c.Replies, commentsUnder(child)...)
		case hasClass(child, classBody):
			c.Body = toMarkdown(child)
		default:
			if a := findClass(child, classAuthor); a != nil && c.Author == "" {
				c.Author = text(a)
			}
			if tm := findAtom(child, atom.Time); tm != nil && c.Date == "" {
				c.Date = text(tm)
			}
		}
	}
	return c
}

func toMarkdown(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}

	md, err := mdConverter.ConvertString(buf.String())
	if err != nil || strings.TrimSpace(md) == "" {
		return text(n)
	}
	return strings.TrimSpace(md)
}

func isComment(n *html.Node) bool {
	return n.Type == html.ElementNode && attr(n, attrCommentID) != ""
}

func byID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := byID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func findClass(n *html.Node, class string) *html.Node {
	if hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func findAtom(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findAtom(c, a); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	return slices.Contains(strings.Fields(attr(n, "class")), class)
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
