package devserver

import (
	"bytes"
	"html/template"
	"io"
	"strconv"

	"github.com/colonyops/aula/internal/core/toast"
)

var pageTmpl = template.Must(template.New("layout").Funcs(template.FuncMap{
	"date": func(c *Comment) string { return c.CreatedAt.Format("02/01/2006 15:04") },
}).Parse(`{{ define "layout" -}}
<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>{{ .Title }}</title></head>
<body>
<nav id="mobile-menu" class="hidden">
  <a href="/">Inicio</a>
  <a href="/libro/">Libro</a>
  <a href="/programas/">Programas</a>
  <a href="/programas/sesion/1/">Sesión</a>
</nav>
<main id="content">
{{ template "content" . }}
</main>
{{ .Toasts }}
</body>
</html>
{{- end }}

{{ define "comment" -}}
<div class="comment" id="comment-{{ .ID }}" data-comment-id="{{ .ID }}">
  <div class="comment-meta"><span class="comment-author">{{ .Author }}</span> <time>{{ date . }}</time></div>
  <div class="comment-body">{{ range .Paragraphs }}<p>{{ . }}</p>{{ end }}</div>
  <button type="button" class="reply-btn" data-parent="{{ .ID }}">Responder</button>
  <div id="reply-form-{{ .ID }}"></div>
  {{- if .Replies }}
  <div class="ml-6 mt-3 border-l-2 border-primary-100 pl-4 replies">
    {{- range .Replies }}{{ template "comment" . }}{{ end }}
  </div>
  {{- end }}
</div>
{{- end }}
`))

var (
	homeTmpl = template.Must(template.Must(pageTmpl.Clone()).Parse(`{{ define "content" -}}
<h1>Bienvenido</h1>
<p>Formación en filosofía sapiencial.</p>
{{- end }}`))

	landingTmpl = template.Must(template.Must(pageTmpl.Clone()).Parse(`{{ define "content" -}}
<h1>Camino, Verdad y Vida</h1>
<h2>Filosofía Sapiencial con olor a Chamamé</h2>
{{- if .Data }}
<div id="form-container" data-downloaded="true"><p>Ya descargaste el capítulo 1.</p></div>
{{- else }}
<div id="form-container">
  <form method="post" action="/libro/">
    <label for="id_email">Correo Electrónico</label>
    <input type="email" name="email" id="id_email" placeholder="tu@email.com" autocomplete="email">
    <button type="submit">Descargar capítulo 1</button>
  </form>
</div>
{{- end }}
{{- end }}`))

	programsTmpl = template.Must(template.Must(pageTmpl.Clone()).Parse(`{{ define "content" -}}
<h1>Programas</h1>
<ul id="program-list">
{{- range .Data }}
  <li data-program-id="{{ .ID }}">
    <span class="program-title">{{ .Title }}</span>
    <a href="#" data-delete-url="/programas/{{ .ID }}/eliminar/"
       data-delete-title="Eliminar programa"
       data-delete-message="¿Estás seguro de que deseas eliminar el programa &quot;{{ .Title }}&quot;?"
       data-delete-confirmation="true">Eliminar</a>
  </li>
{{- else }}
  <li class="empty">No hay programas.</li>
{{- end }}
</ul>
{{- end }}`))

	lessonTmpl = template.Must(template.Must(pageTmpl.Clone()).Parse(`{{ define "content" -}}
<h1>{{ .Data.Title }}</h1>
<section id="comments">
  <div id="root-comment-form">
    <form id="comment-form" method="post" action="/programas/sesion/{{ .Data.ID }}/comentar/">
      <textarea name="content"></textarea>
      <input type="hidden" name="parent" value="">
      <button type="submit">Publicar</button>
    </form>
  </div>
  <div id="comments-list">
  {{- range .Roots }}{{ template "comment" . }}{{ end }}
  </div>
</section>
{{- end }}`))

	commentTmpl = template.Must(template.Must(pageTmpl.Clone()).Parse(`{{ define "content" }}{{ end }}`))
)

type pageData struct {
	Title  string
	Data   any
	Roots  []*Comment
	Toasts template.HTML
}

// renderToasts renders the flashes as the toast container. Ids continue
// from next so they stay unique across pages.
func renderToasts(flashes []flash, next func() int) (template.HTML, error) {
	items := make([]toast.Notification, 0, len(flashes))
	for _, f := range flashes {
		items = append(items, toast.Notification{
			ID:      strconv.Itoa(next()),
			Kind:    f.Kind,
			Message: f.Message,
		})
	}

	var buf bytes.Buffer
	if err := toast.RenderMarkup(&buf, items); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}

func renderComment(w io.Writer, c *Comment) error {
	return commentTmpl.ExecuteTemplate(w, "comment", c)
}
