package devserver

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Program is a deletable item on the programs page.
type Program struct {
	ID    int
	Title string
}

// Comment is a comment on a lesson, with its replies oldest first.
type Comment struct {
	ID        int
	Author    string
	Content   string
	CreatedAt time.Time
	Replies   []*Comment
}

// Paragraphs splits the content on blank lines.
func (c *Comment) Paragraphs() []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(c.Content, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Lesson is a program session with its comment thread.
type Lesson struct {
	ID       int
	Title    string
	Comments []*Comment // root comments, oldest first
}

// data is the in-memory state of the fixture site.
type data struct {
	mu       sync.Mutex
	now      func() time.Time
	programs []Program
	lessons  map[int]*Lesson
	leads    map[string]bool
	nextID   int
	author   string
}

// ChapterFileName is the name the download endpoint gives the chapter.
const ChapterFileName = "Capitulo1_CaminoVerdadVida.pdf"

func newData(now func() time.Time) *data {
	d := &data{
		now:     now,
		lessons: make(map[int]*Lesson),
		leads:   make(map[string]bool),
		nextID:  100,
		author:  "estudiante",
	}

	d.programs = []Program{
		{ID: 1, Title: "Filosofía Sapiencial"},
		{ID: 2, Title: "Lectura y Escritura"},
		{ID: 3, Title: "Oratoria"},
	}

	created := now().Add(-48 * time.Hour)
	d.lessons[1] = &Lesson{
		ID:    1,
		Title: "Sesión 1: El camino",
		Comments: []*Comment{
			{
				ID: 1, Author: "maria", Content: "Muy buena sesión.\n\nGracias por el material.", CreatedAt: created,
				Replies: []*Comment{
					{ID: 2, Author: "prof", Content: "¡Gracias, María!", CreatedAt: created.Add(time.Hour)},
				},
			},
			{ID: 3, Author: "juan", Content: "¿Dónde está la lectura **obligatoria**?", CreatedAt: created.Add(2 * time.Hour)},
		},
	}

	d.leads["registrado@example.com"] = true

	return d
}

func (d *data) listPrograms() []Program {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Program, len(d.programs))
	copy(out, d.programs)
	return out
}

func (d *data) deleteProgram(id int) (Program, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, p := range d.programs {
		if p.ID == id {
			d.programs = append(d.programs[:i], d.programs[i+1:]...)
			return p, true
		}
	}
	return Program{}, false
}

func (d *data) lesson(id int) (*Lesson, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.lessons[id]
	return l, ok
}

// addComment appends a comment to the lesson, as a reply when parentID is
// set. It fails when the parent does not exist.
func (d *data) addComment(lessonID int, parentID string, content string) (*Comment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.lessons[lessonID]
	if !ok {
		return nil, fmt.Errorf("lesson %d not found", lessonID)
	}

	d.nextID++
	c := &Comment{ID: d.nextID, Author: d.author, Content: content, CreatedAt: d.now()}

	if parentID == "" {
		l.Comments = append(l.Comments, c)
		return c, nil
	}

	pid, err := strconv.Atoi(parentID)
	if err != nil {
		return nil, fmt.Errorf("invalid parent %q", parentID)
	}
	parent := findComment(l.Comments, pid)
	if parent == nil {
		return nil, fmt.Errorf("parent %d not found", pid)
	}
	parent.Replies = append(parent.Replies, c)
	return c, nil
}

func findComment(list []*Comment, id int) *Comment {
	for _, c := range list {
		if c.ID == id {
			return c
		}
		if found := findComment(c.Replies, id); found != nil {
			return found
		}
	}
	return nil
}

// registerLead records the email, reporting false when it already exists.
func (d *data) registerLead(email string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := strings.ToLower(email)
	if d.leads[key] {
		return false
	}
	d.leads[key] = true
	return true
}
