// Package leadform is the book-download form: email validation, the
// submission state machine, and the mapping of the site's answer onto
// field and general errors.
package leadform

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/colonyops/aula/internal/core/site"
	"github.com/colonyops/aula/pkg/timeline"
)

// DownloadDelay separates showing the success state from starting the
// download.
const DownloadDelay = 300 * time.Millisecond

const (
	FieldEmail = "email"

	MsgEmailRequired = "El correo electrónico es obligatorio"
	MsgEmailInvalid  = "Ingresa un correo electrónico válido"
	MsgGeneric       = "Ocurrió un error. Por favor intenta nuevamente."

	SubmitLabel     = "Descargar capítulo 1"
	SubmittingLabel = "Procesando..."
	SuccessTitle    = "¡Descarga exitosa!"
	SuccessBody     = "Tu capítulo 1 ya fue descargado. Revisa tu email para completar tu perfil y acceder a más contenido exclusivo."
)

// NextSteps are shown under the success message.
var NextSteps = []string{
	"Revisa tu correo electrónico",
	"Completa tu perfil con el link recibido",
	"Accede a contenido exclusivo y recursos",
}

// ErrBusy is returned by Begin while a submission is in flight.
var ErrBusy = errors.New("submission in progress")

// State is the form's submission state.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type input struct {
	Email string `validate:"required,email"`
}

// Form holds the form's state between submissions.
type Form struct {
	state        State
	email        string
	fieldErrors  []string
	generalError string
	downloadURL  string
	message      string
}

// New returns an idle form.
func New() *Form {
	return &Form{}
}

func (f *Form) State() State          { return f.state }
func (f *Form) Email() string         { return f.email }
func (f *Form) FieldErrors() []string { return f.fieldErrors }
func (f *Form) GeneralError() string  { return f.generalError }
func (f *Form) DownloadURL() string   { return f.downloadURL }
func (f *Form) Message() string       { return f.message }

// CanSubmit reports whether the submit control is enabled.
func (f *Form) CanSubmit() bool {
	return f.state != StateSubmitting && f.state != StateSucceeded
}

// SubmitText is the submit control's current label.
func (f *Form) SubmitText() string {
	if f.state == StateSubmitting {
		return SubmittingLabel
	}
	return SubmitLabel
}

// Validate checks an email the way the site does and returns the field
// message, or "" when it is acceptable.
func Validate(email string) string {
	err := validate.Struct(input{Email: strings.TrimSpace(email)})
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "required" {
		return MsgEmailRequired
	}
	return MsgEmailInvalid
}

// Begin validates email and moves to submitting. A validation failure
// leaves the form failed with the field error set and returns false.
func (f *Form) Begin(email string) (site.LeadRequest, bool, error) {
	if !f.CanSubmit() {
		return site.LeadRequest{}, false, ErrBusy
	}

	f.email = strings.TrimSpace(email)
	f.clearErrors()

	if msg := Validate(f.email); msg != "" {
		f.fieldErrors = []string{msg}
		f.state = StateFailed
		return site.LeadRequest{}, false, nil
	}

	f.state = StateSubmitting
	return site.LeadRequest{Email: f.email}, true, nil
}

// Resolve applies the outcome of a submission. It reports whether the form
// succeeded.
func (f *Form) Resolve(res site.LeadResult, err error) bool {
	if f.state != StateSubmitting {
		return false
	}
	f.clearErrors()

	switch {
	case err != nil:
		f.generalError = MsgGeneric
	case res.Success:
		f.state = StateSucceeded
		f.downloadURL = res.DownloadURL
		f.message = res.Message
		return true
	case len(res.Errors) > 0:
		f.applyFieldErrors(res.Errors)
	case res.Error != "":
		f.generalError = res.Error
	default:
		f.generalError = MsgGeneric
	}

	f.state = StateFailed
	return false
}

// applyFieldErrors attaches email errors to the field; the first message of
// any other key becomes the general error.
func (f *Form) applyFieldErrors(errs site.FieldErrors) {
	for _, field := range errs.Fields() {
		msgs := errs.Field(field)
		if len(msgs) == 0 {
			continue
		}
		if field == FieldEmail {
			f.fieldErrors = append(f.fieldErrors, msgs...)
			continue
		}
		if f.generalError == "" {
			f.generalError = msgs[0]
		}
	}
	if len(f.fieldErrors) == 0 && f.generalError == "" {
		f.generalError = MsgGeneric
	}
}

// ScheduleDownload calls start with the download URL DownloadDelay after
// now. It returns nil unless the form has succeeded.
func (f *Form) ScheduleDownload(tl *timeline.Timeline, start func(url string)) *timeline.Token {
	if f.state != StateSucceeded {
		return nil
	}
	url := f.downloadURL
	return tl.After(DownloadDelay, func() { start(url) })
}

// Reset returns the form to idle, keeping nothing.
func (f *Form) Reset() {
	*f = Form{}
}

func (f *Form) clearErrors() {
	f.fieldErrors = nil
	f.generalError = ""
}
