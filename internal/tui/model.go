package tui

import (
	"context"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/aula/internal/core/config"
	"github.com/colonyops/aula/internal/core/notify"
	"github.com/colonyops/aula/internal/core/site"
	"github.com/colonyops/aula/internal/core/styles"
	"github.com/colonyops/aula/internal/core/toast"
	"github.com/colonyops/aula/internal/tui/components"
	tuinotify "github.com/colonyops/aula/internal/tui/notify"
	"github.com/colonyops/aula/pkg/timeline"
)

// UIState represents which dialog, if any, owns the keyboard.
type UIState int

const (
	stateNormal UIState = iota
	stateShowingHelp
	stateShowingNotifications
	stateShowingInfo
)

// Options configures the TUI behavior.
type Options struct {
	Client   SiteClient       // Site the TUI browses
	Store    notify.Store     // Notification history (optional)
	Now      func() time.Time // Clock; defaults to time.Now
	Build    BuildInfo        // Shown in the info dialog
	Warnings []string         // Startup warnings to display as toasts
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	cfg    *config.Config
	client SiteClient
	keys   KeyMap
	now    func() time.Time
	build  BuildInfo

	// tl drives every delayed transition: toasts, menu, modals, downloads.
	tl      *timeline.Timeline
	ticking bool

	state    UIState
	section  string
	path     string
	width    int
	height   int
	loading  bool
	spinner  spinner.Model
	quitting bool

	homeHeading string
	download    *DownloadView
	programs    *ProgramsView
	lesson      *LessonView

	menu         *components.Offcanvas
	deleteModal  *components.DeleteModal
	successModal *components.SuccessModal
	clearConfirm *components.ConfirmModal
	helpDialog   *components.HelpDialog
	infoDialog   *components.InfoDialog

	// Notifications
	notifyStore       notify.Store
	notifyBus         *tuinotify.Bus
	toastController   *ToastController
	toastView         *ToastView
	notificationModal *NotificationModal
}

// pageLoadedMsg is sent when a page fetch completes.
type pageLoadedMsg struct {
	path    string
	section string
	page    site.Page
	err     error
}

// leadSubmittedMsg is sent when the book form answer arrives.
type leadSubmittedMsg struct {
	res site.LeadResult
	err error
}

// downloadDoneMsg is sent when the chapter download finishes.
type downloadDoneMsg struct {
	path string
	err  error
}

// commentPostedMsg is sent when a comment post completes.
type commentPostedMsg struct {
	parentID string
	res      site.CommentResult
	err      error
}

// deleteDoneMsg is sent when a delete confirmation has been posted.
type deleteDoneMsg struct {
	url  string
	page site.Page
	err  error
}

// New creates a new TUI model.
func New(cfg *config.Config, opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	tl := timeline.New(now())

	manager := toast.NewManager(toast.NewContainer(), tl, cfg.ToastTimings())
	manager.Initialize()

	notifyBus := tuinotify.NewBus(opts.Store, tuinotify.WithClock(now))
	toastCtrl := NewToastController(manager)
	toastView := NewToastView(toastCtrl)

	// Wire bus -> toast controller
	notifyBus.Subscribe(func(n notify.Notification) {
		toastCtrl.Push(n)
	})

	for _, w := range opts.Warnings {
		notifyBus.Warnf("%s", w)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.TextPrimaryStyle

	lesson := NewLessonView()

	return Model{
		cfg:             cfg,
		client:          opts.Client,
		keys:            DefaultKeyMap(),
		now:             now,
		build:           opts.Build,
		tl:              tl,
		ticking:         true, // Init schedules the first tick
		state:           stateNormal,
		section:         config.SectionHome,
		spinner:         s,
		download:        NewDownloadView(),
		programs:        NewProgramsView(),
		lesson:          lesson,
		menu:            components.NewOffcanvas(tl, cfg.Menu),
		deleteModal:     components.NewDeleteModal(tl),
		successModal:    components.NewSuccessModal(),
		notifyStore:     opts.Store,
		notifyBus:       notifyBus,
		toastController: toastCtrl,
		toastView:       toastView,
	}
}

// Init loads the home page and starts the timeline.
func (m Model) Init() tea.Cmd {
	home, ok := m.cfg.MenuFor(config.SectionHome)
	if !ok {
		home = config.MenuItem{Label: "Inicio", Path: "/", Section: config.SectionHome}
	}
	return tea.Batch(
		m.fetchPage(home.Path, home.Section),
		m.spinner.Tick,
		scheduleTimelineTick(),
	)
}

// Section returns the active section.
func (m Model) Section() string {
	return m.section
}

// Toasts returns the toast controller.
func (m Model) Toasts() *ToastController {
	return m.toastController
}

// quit sets the quitting flag.
func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// sectionForPath returns the section of the menu entry pointing at path.
func (m Model) sectionForPath(path, fallback string) string {
	for _, item := range m.cfg.Menu {
		if item.Path == path {
			return item.Section
		}
	}
	return fallback
}

func (m Model) fetchPage(path, section string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		page, err := client.FetchPage(context.Background(), path)
		return pageLoadedMsg{path: path, section: section, page: page, err: err}
	}
}

func (m Model) submitLead(req site.LeadRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		res, err := client.SubmitLead(context.Background(), req)
		return leadSubmittedMsg{res: res, err: err}
	}
}

func (m Model) downloadChapter(url string) tea.Cmd {
	client := m.client
	dir := m.cfg.DownloadsDir()
	return func() tea.Msg {
		path, err := client.Download(context.Background(), url, dir)
		return downloadDoneMsg{path: path, err: err}
	}
}

func (m Model) postComment(path string, req site.CommentRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		res, err := client.PostComment(context.Background(), path, req)
		return commentPostedMsg{parentID: req.ParentID, res: res, err: err}
	}
}

func (m Model) deleteItem(url string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		page, err := client.Delete(context.Background(), url)
		return deleteDoneMsg{url: url, page: page, err: err}
	}
}

// ingestToasts adopts the notifications rendered into page, when the page
// is one that is scanned, and records them in the history.
func (m Model) ingestToasts(page site.Page) {
	if !m.cfg.ScansToasts(page.Path) {
		return
	}

	container, err := page.Toasts()
	if err != nil {
		log.Warn().Err(err).Str("path", page.Path).Msg("failed to scan page notifications")
		return
	}
	if container == nil {
		return
	}

	for _, n := range container.List() {
		m.notifyBus.Record(notify.Notification{
			Level:   notify.Level(n.Kind),
			Message: n.Message,
			Source:  page.Path,
		})
	}
	m.toastController.Ingest(container)
}
