package toast

import (
	"fmt"
	"html/template"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// Markup contract shared with the server templates.
const (
	ContainerID       = "toast-container"
	classMessage      = "toast-message"
	classProgressBar  = "toast-progress-bar"
	classCloseButton  = "toast-close-btn"
	attrMessageType   = "data-message-type"
	attrMessageID     = "data-message-id"
	attrCloseTargetID = "data-toast-id"
	elementIDPrefix   = "toast-"
)

// ScanMarkup parses an HTML document and returns a container holding the
// notifications rendered inside the element with id "toast-container", in
// document order. A document without that element yields a nil container
// and no error; a Manager built over it is inert.
func ScanMarkup(r io.Reader) (*Container, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse toast markup: %w", err)
	}

	root := findElementByID(doc, ContainerID)
	if root == nil {
		return nil, nil
	}

	c := NewContainer()
	index := 0
	walk(root, func(n *html.Node) bool {
		if !hasClass(n, classMessage) {
			return true
		}
		t := scanToast(n)
		if t.ID == "" || c.lookup(t.ID) != nil {
			t.ID = fallbackID(c, index)
		}
		c.add(t)
		index++
		return false
	})

	return c, nil
}

// fallbackID returns "markup-<index>", bumped past ids already taken by
// earlier toasts.
func fallbackID(c *Container, index int) string {
	id := fmt.Sprintf("markup-%d", index)
	for c.lookup(id) != nil {
		index++
		id = fmt.Sprintf("markup-%d", index)
	}
	return id
}

func scanToast(n *html.Node) *Notification {
	kind, _ := ParseKind(attr(n, attrMessageType))

	id := attr(n, attrMessageID)
	if id == "" {
		id = strings.TrimPrefix(attr(n, "id"), elementIDPrefix)
	}

	t := &Notification{
		ID:    id,
		Kind:  kind,
		State: StateCreated,
	}

	var text []string
	walk(n, func(c *html.Node) bool {
		switch {
		case hasClass(c, classProgressBar):
			t.HasProgress = true
			return false
		case hasClass(c, classCloseButton):
			t.Closable = closes(c, n, id)
			return false
		case c.Type == html.TextNode:
			if s := strings.TrimSpace(c.Data); s != "" {
				text = append(text, s)
			}
		}
		return true
	})
	t.Message = strings.Join(strings.Fields(strings.Join(text, " ")), " ")

	return t
}

// closes reports whether button targets toast n, either by message id or by
// the element id "toast-<data-toast-id>".
func closes(button, n *html.Node, id string) bool {
	target := attr(button, attrCloseTargetID)
	if target == "" {
		return false
	}
	return (id != "" && target == id) || elementIDPrefix+target == attr(n, "id")
}

// walk visits n's descendants depth-first in document order. Returning false
// from fn skips the children of the visited node.
func walk(n *html.Node, fn func(*html.Node) bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if fn(c) {
			walk(c, fn)
		}
	}
}

func findElementByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElementByID(c, id); found != nil {
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

var markupTmpl = template.Must(template.New("toasts").Parse(`<div id="toast-container" class="fixed top-4 right-4 z-50 space-y-2">
{{- range . }}
  <div id="toast-{{ .ID }}" class="toast-message transform translate-x-full" data-message-type="{{ .Kind }}" data-message-id="{{ .ID }}" role="alert" aria-live="polite" aria-atomic="true">
    <div class="flex items-start p-4">
      <p class="text-sm font-medium">{{ .Message }}</p>
      <button type="button" class="toast-close-btn" aria-label="Cerrar mensaje" data-toast-id="{{ .ID }}"></button>
    </div>
    <div class="toast-progress"><div class="toast-progress-bar" style="width: 100%"></div></div>
  </div>
{{- end }}
</div>`))

// RenderMarkup writes the toast container markup for the given
// notifications, in the form ScanMarkup reads.
func RenderMarkup(w io.Writer, items []Notification) error {
	return markupTmpl.Execute(w, items)
}
