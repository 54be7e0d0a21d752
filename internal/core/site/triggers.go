package site

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DeleteTrigger is an element carrying data-delete-* attributes. Empty
// fields take the delete modal's defaults.
type DeleteTrigger struct {
	URL          string
	Title        string
	Message      string
	Warning      string
	Confirmation bool
	ConfirmWord  string
	ButtonText   string
	// Label is the text surrounding the trigger, naming what it deletes.
	Label string
}

// DeleteTriggers returns every element with a data-delete-url attribute, in
// document order.
func (p Page) DeleteTriggers() ([]DeleteTrigger, error) {
	doc, err := html.Parse(bytes.NewReader(p.Body))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	var triggers []DeleteTrigger
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if u := attrValue(n, "data-delete-url"); u != "" {
				triggers = append(triggers, DeleteTrigger{
					URL:          u,
					Title:        attrValue(n, "data-delete-title"),
					Message:      attrValue(n, "data-delete-message"),
					Warning:      attrValue(n, "data-delete-warning"),
					Confirmation: attrValue(n, "data-delete-confirmation") == "true",
					ConfirmWord:  attrValue(n, "data-delete-confirm-word"),
					ButtonText:   attrValue(n, "data-delete-button-text"),
					Label:        siblingText(n),
				})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)

	return triggers, nil
}

// Heading returns the text of the page's first h1.
func (p Page) Heading() string {
	doc, err := html.Parse(bytes.NewReader(p.Body))
	if err != nil {
		return ""
	}
	var found *html.Node
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.H1 {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
	if found == nil {
		return ""
	}
	return collectText(found, nil)
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// siblingText is the text of n's parent without n's own text.
func siblingText(n *html.Node) string {
	if n.Parent == nil {
		return ""
	}
	return collectText(n.Parent, n)
}

func collectText(n, skip *html.Node) string {
	var parts []string
	var visit func(c *html.Node)
	visit = func(c *html.Node) {
		if c == skip {
			return
		}
		if c.Type == html.TextNode {
			if s := strings.TrimSpace(c.Data); s != "" {
				parts = append(parts, s)
			}
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			visit(cc)
		}
	}
	visit(n)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
