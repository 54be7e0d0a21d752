package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/colonyops/aula/internal/core/toast"
)

const (
	msgEmailRequired  = "El correo electrónico es obligatorio"
	msgEmailInvalid   = "Ingresa un correo electrónico válido"
	msgEmailTaken     = "Este correo ya está registrado. Revisa tu email para el link de descarga."
	msgLeadSuccess    = "¡Descarga iniciada! Revisa tu email para completar tu perfil."
	msgChapterMissing = "El archivo no se encontró. Por favor contacta al administrador."
	msgFormInvalid    = "Por favor corrige los errores en el formulario."
	msgUnauthorized   = "No autorizado"
	msgFileNotFound   = "Archivo no encontrado"
	msgFieldRequired  = "Este campo es obligatorio."
	msgBadParent      = "El comentario al que respondes no existe."
)

type leadForm struct {
	Email string `validate:"required,email"`
}

type commentForm struct {
	Content string `validate:"required"`
}

func isAJAX(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, pd pageData) {
	toasts, err := renderToasts(s.sessions.takeFlashes(w, r), s.nextToastID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	pd.Toasts = toasts

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", pd); err != nil {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("render page")
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, homeTmpl, pageData{Title: "Inicio"})
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, landingTmpl, pageData{
		Title: "Camino, Verdad y Vida",
		Data:  s.sessions.downloaded(w, r),
	})
}

func (s *Server) handleLead(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	form := leadForm{Email: strings.TrimSpace(r.PostForm.Get("email"))}
	errs := s.leadErrors(form)

	if len(errs) > 0 {
		if isAJAX(r) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "errors": errs})
			return
		}
		s.sessions.addFlash(w, r, toast.KindError, msgFormInvalid)
		http.Redirect(w, r, "/libro/", http.StatusFound)
		return
	}

	s.sessions.markDownloaded(w, r)

	if !isAJAX(r) {
		if s.cfg.Chapter == nil {
			s.sessions.addFlash(w, r, toast.KindError, "Error al descargar el capítulo. "+msgChapterMissing)
		} else {
			s.sessions.addFlash(w, r, toast.KindSuccess, msgLeadSuccess)
		}
		http.Redirect(w, r, "/libro/", http.StatusFound)
		return
	}

	if s.cfg.Chapter == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": msgChapterMissing})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"download_url": "/download-chapter/",
		"message":      msgLeadSuccess,
	})
}

// leadErrors validates the form and registers the email, returning the
// field errors keyed the way the site serializes them.
func (s *Server) leadErrors(form leadForm) map[string][]string {
	if err := s.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return map[string][]string{"__all__": {err.Error()}}
		}
		msg := msgEmailInvalid
		if verrs[0].Tag() == "required" {
			msg = msgEmailRequired
		}
		return map[string][]string{"email": {msg}}
	}

	if !s.data.registerLead(form.Email) {
		return map[string][]string{"email": {msgEmailTaken}}
	}
	return nil
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.downloaded(w, r) {
		writeJSON(w, http.StatusForbidden, map[string]any{"success": false, "error": msgUnauthorized})
		return
	}
	if s.cfg.Chapter == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": msgFileNotFound})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ChapterFileName))
	_, _ = w.Write(s.cfg.Chapter)
}

func (s *Server) handlePrograms(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, programsTmpl, pageData{Title: "Programas", Data: s.data.listPrograms()})
}

func (s *Server) handleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "programID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if p, ok := s.data.deleteProgram(id); ok {
		s.sessions.addFlash(w, r, toast.KindSuccess, fmt.Sprintf("Programa %q eliminado correctamente.", p.Title))
	} else {
		s.sessions.addFlash(w, r, toast.KindError, "El programa no existe o ya fue eliminado.")
	}
	http.Redirect(w, r, "/programas/", http.StatusFound)
}

func (s *Server) handleLesson(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "lessonID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	lesson, ok := s.data.lesson(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	s.data.mu.Lock()
	roots := slices.Clone(lesson.Comments)
	s.data.mu.Unlock()
	slices.Reverse(roots)

	s.render(w, r, lessonTmpl, pageData{Title: lesson.Title, Data: lesson, Roots: roots})
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "lessonID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, ok := s.data.lesson(id); !ok {
		http.NotFound(w, r)
		return
	}

	form := commentForm{Content: strings.TrimSpace(r.PostForm.Get("content"))}
	if err := s.validate.Struct(form); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"errors":  map[string][]string{"content": {msgFieldRequired}},
		})
		return
	}

	c, err := s.data.addComment(id, strings.TrimSpace(r.PostForm.Get("parent")), form.Content)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"errors":  map[string][]string{"parent": {msgBadParent}},
		})
		return
	}

	var buf strings.Builder
	if err := renderComment(&buf, c); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "html": buf.String()})
}
