// Package comments models the threaded comment section of a lesson page:
// root comments newest first, replies under their parent, and the reply
// target the comment form is currently attached to.
package comments

import (
	"errors"

	"github.com/colonyops/aula/internal/core/site"
)

const (
	MsgPosted       = "Comentario publicado correctamente."
	MsgPostFailed   = "Error al enviar el comentario."
	MsgNetworkError = "Error de red al enviar el comentario."
)

var (
	ErrNoComment      = errors.New("fragment contains no comment")
	ErrParentNotFound = errors.New("parent comment not found")
	ErrUnknownComment = errors.New("unknown comment")
)

// Comment is one rendered comment. Body is markdown.
type Comment struct {
	ID      string
	Author  string
	Date    string
	Body    string
	Replies []*Comment
}

// Thread is the comment list of one lesson.
type Thread struct {
	// Action is the comment form's post path.
	Action string
	Roots  []*Comment

	target string
}

// Find returns the comment with the given id anywhere in the thread.
func (t *Thread) Find(id string) *Comment {
	return find(t.Roots, id)
}

func find(list []*Comment, id string) *Comment {
	for _, c := range list {
		if c.ID == id {
			return c
		}
		if found := find(c.Replies, id); found != nil {
			return found
		}
	}
	return nil
}

// Reply attaches the form to the comment with the given id.
func (t *Thread) Reply(parentID string) error {
	if t.Find(parentID) == nil {
		return ErrUnknownComment
	}
	t.target = parentID
	return nil
}

// CancelReply moves the form back to the root.
func (t *Thread) CancelReply() {
	t.target = ""
}

// Target returns the id the form replies to, or "" for a root comment.
func (t *Thread) Target() string {
	return t.target
}

// Request builds the form submission for content at the current target.
func (t *Thread) Request(content string) site.CommentRequest {
	return site.CommentRequest{Content: content, ParentID: t.target}
}

// Insert adds the comment rendered in fragment. Root comments go first;
// replies are appended to their parent's replies. A reply whose parent is no
// longer in the thread is dropped and ErrParentNotFound returned.
func (t *Thread) Insert(parentID, fragment string) (*Comment, error) {
	c, err := ParseFragment(fragment)
	if err != nil {
		return nil, err
	}

	if parentID == "" {
		t.Roots = append([]*Comment{c}, t.Roots...)
		return c, nil
	}

	parent := t.Find(parentID)
	if parent == nil {
		return nil, ErrParentNotFound
	}
	parent.Replies = append(parent.Replies, c)
	return c, nil
}

// Reset returns the form to the root after a successful post.
func (t *Thread) Reset() {
	t.target = ""
}

// Len counts every comment in the thread.
func (t *Thread) Len() int {
	n := 0
	t.Walk(func(*Comment, int) { n++ })
	return n
}

// Walk visits comments depth-first in display order with their nesting
// depth, roots at depth 0.
func (t *Thread) Walk(fn func(c *Comment, depth int)) {
	var visit func([]*Comment, int)
	visit = func(list []*Comment, depth int) {
		for _, c := range list {
			fn(c, depth)
			visit(c.Replies, depth+1)
		}
	}
	visit(t.Roots, 0)
}

// ErrorMessage turns the outcome of a failed post into the message shown
// to the user.
func ErrorMessage(res site.CommentResult, err error) string {
	if err != nil {
		return MsgNetworkError
	}
	if msg := res.Errors.Joined(); msg != "" {
		return msg
	}
	return MsgPostFailed
}
