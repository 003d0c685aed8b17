package main

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"menuedit/internal/catalog"
	"menuedit/internal/config"
	"menuedit/internal/editor"
	"menuedit/internal/history"
	"menuedit/internal/models"
	"menuedit/internal/resolver"
	"menuedit/internal/ui"
	"menuedit/internal/ui/components"
	"menuedit/internal/watch"
)

// Screen represents different screens in the app
type Screen int

const (
	ScreenMain Screen = iota
	ScreenEdit     // Inline textarea editor
	ScreenDiff     // Unsaved changes
	ScreenHistory  // Recorded saves of the open file
	ScreenHelp
	ScreenSettings
	ScreenConfirm // Discard unsaved changes?
)

// Panel represents which panel is focused
type Panel int

const (
	PanelList Panel = iota
	PanelPreview
)

// SettingsField represents which field is selected in settings
type SettingsField int

const (
	SettingsTheme SettingsField = iota
	SettingsLineNumbers
	SettingsHistory
	SettingsEditor
	SettingsCategories
	SettingsFieldCount // Used to wrap around
)

// Model is the main application model
type Model struct {
	config   *config.Config
	catalog  *catalog.Catalog
	resolver *resolver.Resolver
	history  *history.Repo
	watcher  *watch.Watcher

	listing models.Listing
	doc     *models.Document

	// UI Components
	highlighter  *ui.Highlighter
	appList      *components.AppList
	preview      *components.Preview
	diffView     *components.DiffView
	historyPanel *components.HistoryPanel
	help         help.Model
	helpVP       viewport.Model
	keys         ui.KeyMap
	textInput    textinput.Model
	textArea     textarea.Model

	// State
	screen       Screen
	focusedPanel Panel
	status       string
	notify       string // ui.Notify* kind of the status
	width        int
	height       int
	saving       bool

	searchMode bool

	settingsField   SettingsField
	settingsEditing bool

	// Confirmation dialog
	confirmPath string // File to open after discarding
	confirmQuit bool
}

// Messages
type listingMsg struct {
	listing  models.Listing
	reselect string // Path to put the cursor on
	quiet    bool   // Keep the current status
	err      error
}

type loadedMsg struct {
	doc *models.Document
	err error
}

type savedMsg struct {
	source  models.Location // Document location when the save started
	content string          // Text that was written
	outcome resolver.SaveOutcome
	hash    string // History commit, "" if none
}

type dirChangedMsg struct {
	events []watch.Event
}

type editorFinishedMsg struct {
	content string
	err     error
}

type historyMsg struct {
	name    string
	entries []history.Entry
	err     error
}

type restoredMsg struct {
	hash    string
	content string
	err     error
}

// New creates the model. History and the directory watcher are optional:
// when they cannot start the failure is logged and the feature is off.
func New(cfg *config.Config) *Model {
	cats, err := catalog.LoadCategoryMap(cfg.CategoriesFile)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.CategoriesFile).Msg("Using default categories")
		cats = catalog.DefaultCategories()
	}

	ti := textinput.New()
	ti.Placeholder = "name or glob, e.g. org.gnome.*"
	ti.CharLimit = 256
	ti.Width = 40

	ta := textarea.New()
	ta.ShowLineNumbers = cfg.ShowLineNumbers
	ta.CharLimit = 0
	ta.MaxHeight = 0

	hl := ui.NewHighlighter(cfg.Theme)
	preview := components.NewPreview(hl)
	preview.ShowLineNumbers = cfg.ShowLineNumbers

	m := &Model{
		config:       cfg,
		catalog:      catalog.New(cfg.SystemDir, cfg.UserDir, cats),
		resolver:     resolver.New(cfg.SystemDir, cfg.UserDir),
		highlighter:  hl,
		appList:      components.NewAppList(cats),
		preview:      preview,
		diffView:     components.NewDiffView(hl),
		historyPanel: components.NewHistoryPanel(),
		help:         help.New(),
		keys:         ui.DefaultKeyMap(),
		textInput:    ti,
		textArea:     ta,
		screen:       ScreenMain,
		focusedPanel: PanelList,
		status:       "Ready",
		width:        80,
		height:       24,
	}

	if cfg.HistoryEnabled {
		m.openHistory()
	}

	w, err := watch.New(watch.DefaultInterval, cfg.SystemDir, cfg.UserDir)
	if err != nil {
		log.Warn().Err(err).Msg("Directory watching disabled")
	} else {
		m.watcher = w
		go w.Start()
	}

	m.updatePanelSizes()
	return m
}

func (m *Model) openHistory() {
	repo, err := history.Open(config.HistoryDir())
	if err != nil {
		log.Warn().Err(err).Msg("Save history disabled")
		return
	}
	m.history = repo
}

// Close releases the watcher
func (m *Model) Close() error {
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.scan("", false), m.waitForChange())
}

// scan re-reads both application directories
func (m *Model) scan(reselect string, quiet bool) tea.Cmd {
	c := m.catalog
	return func() tea.Msg {
		listing, err := c.Scan()
		return listingMsg{listing: listing, reselect: reselect, quiet: quiet, err: err}
	}
}

func (m *Model) load(path string) tea.Cmd {
	r := m.resolver
	return func() tea.Msg {
		doc, err := r.Load(path)
		return loadedMsg{doc: doc, err: err}
	}
}

// save routes the buffer through the resolver and records the result in
// the history repository. History failures are logged only.
func (m *Model) save() tea.Cmd {
	r, repo := m.resolver, m.history
	loc, content := m.doc.Location, m.doc.Content
	return func() tea.Msg {
		outcome := r.Save(loc, content)
		msg := savedMsg{source: loc, content: content, outcome: outcome}
		if !outcome.Succeeded || repo == nil {
			return msg
		}
		hash, err := repo.Record(outcome.FinalPath, content)
		if err != nil {
			log.Warn().Err(err).Str("path", outcome.FinalPath).Msg("Failed to record history")
		}
		msg.hash = hash
		return msg
	}
}

// waitForChange delivers the next batch of directory events
func (m *Model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	events := m.watcher.Events()
	return func() tea.Msg {
		batch, ok := <-events
		if !ok {
			return nil
		}
		return dirChangedMsg{events: batch}
	}
}

// openEditor hands a temp copy of the buffer to the external editor
func (m *Model) openEditor() tea.Cmd {
	cfg := editor.DefaultConfig()
	cfg.Editor = m.config.Editor

	ed, err := editor.Detect(cfg)
	if err != nil {
		m.setStatus(ui.NotifyError, fmt.Sprintf("No editor found: %v", err))
		return nil
	}

	session, err := editor.NewSession(m.doc.Location.Base(), m.doc.Content)
	if err != nil {
		m.setStatus(ui.NotifyError, fmt.Sprintf("Editor error: %v", err))
		return nil
	}

	log.Debug().Str("editor", ed.Name).Str("file", session.Path).Msg("Opening external editor")
	m.setStatus(ui.NotifyInfo, fmt.Sprintf("Editing in %s...", ed.Name))
	return tea.ExecProcess(ed.Command(session.Path), func(err error) tea.Msg {
		if err != nil {
			session.Close()
			return editorFinishedMsg{err: err}
		}
		content, err := session.Result()
		return editorFinishedMsg{content: content, err: err}
	})
}

func (m *Model) loadHistory() tea.Cmd {
	repo, name := m.history, m.doc.Location.Base()
	return func() tea.Msg {
		entries, err := repo.Log(name, 50)
		return historyMsg{name: name, entries: entries, err: err}
	}
}

func (m *Model) restore(entry history.Entry) tea.Cmd {
	repo := m.history
	return func() tea.Msg {
		content, err := repo.Content(entry.Hash, entry.File)
		return restoredMsg{hash: entry.Short, content: content, err: err}
	}
}

func (m *Model) setStatus(kind, status string) {
	m.notify = kind
	m.status = status
}

// selectedPath is the file to keep the cursor on across refreshes
func (m *Model) selectedPath() string {
	if m.doc != nil {
		return m.doc.Location.Path
	}
	if app, ok := m.appList.Current(); ok {
		return app.Path
	}
	return ""
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updatePanelSizes()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		if m.screen == ScreenMain {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}

	case listingMsg:
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("Scan failed")
			m.setStatus(ui.NotifyError, fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}
		m.listing = msg.listing
		m.appList.SetListing(msg.listing)
		if msg.reselect != "" {
			m.appList.Select(msg.reselect)
		}
		if !msg.quiet {
			m.setStatus("", fmt.Sprintf("%d system, %d user applications",
				len(msg.listing.System.Apps), len(msg.listing.User.Apps)))
		}

	case loadedMsg:
		if msg.err != nil {
			m.setStatus(ui.NotifyError, fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}
		m.doc = msg.doc
		m.preview.SetDocument(m.doc)
		m.setStatus("", fmt.Sprintf("Opened %s (%s)", m.doc.Location.Path, m.doc.Location.Scope))

	case savedMsg:
		return m.handleSaved(msg)

	case dirChangedMsg:
		return m.handleDirChanged(msg)

	case editorFinishedMsg:
		if msg.err != nil {
			m.setStatus(ui.NotifyError, fmt.Sprintf("Editor error: %v", msg.err))
			return m, nil
		}
		if m.doc != nil {
			m.doc.Content = msg.content
			m.preview.Refresh()
		}
		if m.doc != nil && m.doc.Dirty() {
			m.setStatus(ui.NotifyInfo, "Buffer updated from editor (unsaved)")
		} else {
			m.setStatus("", "Editor closed without changes")
		}

	case historyMsg:
		m.historyPanel.SetEntries(msg.name, msg.entries, msg.err)
		m.screen = ScreenHistory

	case restoredMsg:
		m.screen = ScreenMain
		if msg.err != nil {
			m.setStatus(ui.NotifyError, fmt.Sprintf("Restore failed: %v", msg.err))
			return m, nil
		}
		if m.doc != nil {
			m.doc.Content = msg.content
			m.preview.Refresh()
			m.setStatus(ui.NotifyInfo, fmt.Sprintf("Restored %s into the buffer (unsaved)", msg.hash))
		}
	}

	return m, nil
}

func (m *Model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	out := msg.outcome

	if !out.Succeeded {
		log.Error().Err(out.Err).Str("path", msg.source.Path).Msg("Save failed")
		m.setStatus(ui.NotifyError, "Error: "+out.ErrorMessage())
		return m, nil
	}

	log.Info().Str("path", out.FinalPath).Bool("redirected", out.Redirected).Str("history", msg.hash).Msg("Saved")

	// Only the document that was saved moves to the final path
	reselect := m.selectedPath()
	if m.doc != nil && m.doc.Location == msg.source {
		m.doc.MarkSaved(out.Location(), msg.content)
		m.preview.SetDocument(m.doc)
		reselect = out.FinalPath
	}

	if out.Redirected {
		m.setStatus(ui.NotifyWarning, out.Notice())
	} else {
		m.setStatus(ui.NotifySuccess, "Saved "+out.FinalPath)
	}

	// A redirected save may have created the user directory
	if m.watcher != nil {
		if err := m.watcher.Add(m.resolver.UserDir()); err != nil {
			log.Debug().Err(err).Msg("Not watching user directory")
		}
	}

	return m, m.scan(reselect, true)
}

func (m *Model) handleDirChanged(msg dirChangedMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.scan(m.selectedPath(), true), m.waitForChange()}

	for _, ev := range msg.events {
		log.Debug().Str("path", ev.Path).Str("op", ev.Op.String()).Msg("Directory changed")

		// Reload a clean buffer whose file changed on disk
		if m.doc != nil && !m.doc.Dirty() && !m.saving && ev.Op != watch.OpRemove &&
			filepath.Clean(ev.Path) == filepath.Clean(m.doc.Location.Path) {
			cmds = append(cmds, m.load(m.doc.Location.Path))
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) updatePanelSizes() {
	listWidth := max(30, (m.width-4)*2/5)
	previewWidth := max(30, m.width-4-listWidth-2)
	panelHeight := max(8, m.height-6)

	m.appList.Width = listWidth
	m.appList.Height = panelHeight
	m.preview.SetSize(previewWidth, panelHeight)

	m.diffView.Width = m.width - 4
	m.diffView.Height = m.height - 2
	m.historyPanel.Width = m.width - 4
	m.historyPanel.Height = m.height - 2

	m.textArea.SetWidth(max(20, m.width-6))
	m.textArea.SetHeight(max(5, m.height-7))

	m.helpVP.Width = m.width - 4
	m.helpVP.Height = m.height - 4
	m.help.Width = m.width - 4
}
