package tui

import (
	"bytes"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/aula/internal/core/comments"
	"github.com/colonyops/aula/internal/core/site"
	"github.com/colonyops/aula/internal/core/styles"
)

const commentIndent = 4

// LessonView shows a lesson's comment thread and the comment form.
type LessonView struct {
	heading   string
	thread    *comments.Thread
	cursor    int
	composer  textarea.Model
	composing bool
	posting   bool
	width     int
}

func NewLessonView() *LessonView {
	ta := textarea.New()
	ta.Placeholder = "Escribe tu comentario..."
	ta.SetHeight(3)
	ta.SetWidth(60)
	ta.ShowLineNumbers = false

	return &LessonView{
		heading:  "Sesión",
		thread:   &comments.Thread{},
		composer: ta,
	}
}

// Thread returns the comment thread.
func (v *LessonView) Thread() *comments.Thread { return v.thread }

// Composing reports whether the comment form has focus.
func (v *LessonView) Composing() bool { return v.composing }

// Posting reports whether a comment is in flight.
func (v *LessonView) Posting() bool { return v.posting }

// SetWidth sets the render width.
func (v *LessonView) SetWidth(w int) {
	v.width = w
	v.composer.SetWidth(min(max(w-6, 20), 80))
}

// SetPage replaces the thread with the one parsed from p.
func (v *LessonView) SetPage(p site.Page) error {
	thread, err := comments.ParseThread(bytes.NewReader(p.Body))
	if err != nil {
		return err
	}
	if h := p.Heading(); h != "" {
		v.heading = h
	}
	v.thread = thread
	v.cursor = min(v.cursor, max(thread.Len()-1, 0))
	return nil
}

// selected returns the comment under the cursor.
func (v *LessonView) selected() *comments.Comment {
	var found *comments.Comment
	i := 0
	v.thread.Walk(func(c *comments.Comment, _ int) {
		if i == v.cursor {
			found = c
		}
		i++
	})
	return found
}

// Compose focuses the form. With a parent id the form targets that
// comment's replies; without one it targets the root.
func (v *LessonView) Compose(parentID string) tea.Cmd {
	if parentID == "" {
		v.thread.CancelReply()
	} else if err := v.thread.Reply(parentID); err != nil {
		return nil
	}
	v.composing = true
	return v.composer.Focus()
}

// CancelReply returns the form to the root and drops focus.
func (v *LessonView) CancelReply() {
	v.thread.CancelReply()
	v.composing = false
	v.composer.Blur()
}

// Submit returns the post to send for the typed content. ok is false while
// a post is in flight or the thread has no form.
func (v *LessonView) Submit() (path string, req site.CommentRequest, ok bool) {
	if v.posting || v.thread.Action == "" {
		return "", site.CommentRequest{}, false
	}
	v.posting = true
	return v.thread.Action, v.thread.Request(v.composer.Value()), true
}

// Resolve applies the answer to a post made with parentID. It returns the
// message to show and whether the post succeeded.
func (v *LessonView) Resolve(parentID string, res site.CommentResult, err error) (string, bool) {
	v.posting = false

	if err != nil || !res.Success {
		return comments.ErrorMessage(res, err), false
	}

	if _, insErr := v.thread.Insert(parentID, res.HTML); insErr != nil {
		log.Debug().Err(insErr).Str("parent", parentID).Msg("posted comment not inserted")
	}
	v.composer.Reset()
	v.thread.Reset()
	v.composing = false
	v.composer.Blur()
	return comments.MsgPosted, true
}

// Update handles navigation and typing.
func (v *LessonView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, isKey := msg.(tea.KeyPressMsg)

	if v.composing {
		if isKey && keyMsg.String() == "esc" {
			v.CancelReply()
			return nil
		}
		var cmd tea.Cmd
		v.composer, cmd = v.composer.Update(msg)
		return cmd
	}

	if !isKey {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < v.thread.Len()-1 {
			v.cursor++
		}
	case "r":
		if c := v.selected(); c != nil {
			return v.Compose(c.ID)
		}
	case "c":
		return v.Compose("")
	}
	return nil
}

// View renders the thread with the form attached under its target.
func (v *LessonView) View() string {
	width := v.width
	if width <= 0 {
		width = 80
	}

	lines := []string{styles.TextPrimaryBoldStyle.Render(styles.IconComment + " " + v.heading), ""}

	target := v.thread.Target()
	if v.composing && target == "" {
		lines = append(lines, v.formView(), "")
	}

	renderer := newCommentRenderer(width - commentIndent*3)

	i := 0
	v.thread.Walk(func(c *comments.Comment, depth int) {
		pad := strings.Repeat(" ", depth*commentIndent)

		marker := "  "
		if i == v.cursor {
			marker = styles.CommentTargetStyle.Render("› ")
		}
		meta := styles.CommentAuthorStyle.Render(c.Author) + " " + styles.CommentMetaStyle.Render(c.Date)
		lines = append(lines, pad+marker+meta)

		for _, l := range strings.Split(renderCommentBody(renderer, c.Body), "\n") {
			lines = append(lines, pad+"  "+l)
		}

		if v.composing && target == c.ID {
			lines = append(lines, indentBlock(v.formView(), pad+"  "))
		}
		i++
	})

	if v.thread.Len() == 0 {
		lines = append(lines, styles.TextMutedStyle.Render("Todavía no hay comentarios."))
	}

	help := "c comentar  r responder  j/k mover"
	if v.composing {
		help = "ctrl+s publicar  esc cancelar"
	}
	lines = append(lines, "", styles.ModalHelpStyle.Render(help))

	return strings.Join(lines, "\n")
}

func (v *LessonView) formView() string {
	label := "Nuevo comentario"
	if c := v.thread.Find(v.thread.Target()); c != nil {
		label = styles.IconReply + " Respondiendo a " + c.Author
	}
	if v.posting {
		label += styles.TextMutedStyle.Render("  enviando...")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.FormTitleStyle.Render(label),
		styles.FormFieldFocusedStyle.Render(v.composer.View()),
	)
}

func newCommentRenderer(width int) *glamour.TermRenderer {
	style := styles.GlamourStyle()
	noMargin := uint(0)
	style.Document.Margin = &noMargin

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw comments")
		return nil
	}
	return r
}

func renderCommentBody(r *glamour.TermRenderer, body string) string {
	if r == nil {
		return body
	}
	out, err := r.Render(body)
	if err != nil {
		return body
	}
	return strings.Trim(out, "\n")
}

func indentBlock(s, pad string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
