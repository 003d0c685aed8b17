package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"menuedit/internal/catalog"
	"menuedit/internal/config"
	"menuedit/internal/diff"
	"menuedit/internal/editor"
	"menuedit/internal/ui"
)

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case ScreenEdit:
		return m.handleEditKeys(msg)
	case ScreenDiff:
		return m.handleDiffKeys(msg)
	case ScreenHistory:
		return m.handleHistoryKeys(msg)
	case ScreenConfirm:
		return m.handleConfirmKeys(msg)
	case ScreenSettings:
		return m.handleSettingsKeys(msg)
	case ScreenHelp:
		if key.Matches(msg, m.keys.Escape, m.keys.Help, m.keys.Quit) {
			m.screen = ScreenMain
			return m, nil
		}
		var cmd tea.Cmd
		m.helpVP, cmd = m.helpVP.Update(msg)
		return m, cmd
	}

	if m.searchMode {
		return m.handleSearchKeys(msg)
	}
	return m.handleMainKeys(msg)
}

func (m *Model) handleMainKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.doc != nil && m.doc.Dirty() {
			m.confirmQuit = true
			m.confirmPath = ""
			m.screen = ScreenConfirm
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		if m.appList.Query != "" {
			m.appList.SetQuery("")
			m.textInput.SetValue("")
			m.setStatus("", "Search cleared")
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.helpVP = viewport.New(m.width-4, m.height-4)
		m.helpVP.SetContent(m.renderHelp())
		m.screen = ScreenHelp
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.textInput.SetValue(m.appList.Query)
		m.textInput.Focus()
		m.setStatus("", "Search: type to filter, Enter to confirm, Esc to cancel")
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Tab):
		m.togglePanel()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.handleNavigation(true)
	case key.Matches(msg, m.keys.Down):
		m.handleNavigation(false)
	case key.Matches(msg, m.keys.PageUp):
		m.handlePageNavigation(true)
	case key.Matches(msg, m.keys.PageDown):
		m.handlePageNavigation(false)
	case key.Matches(msg, m.keys.Home):
		m.handleHomeEnd(true)
	case key.Matches(msg, m.keys.End):
		m.handleHomeEnd(false)

	case key.Matches(msg, m.keys.Enter):
		if m.focusedPanel == PanelPreview {
			return m.handleEdit()
		}
		if m.appList.OnCategory() {
			m.appList.Toggle()
			return m, nil
		}
		return m.handleOpen()

	case key.Matches(msg, m.keys.Toggle):
		m.appList.Toggle()

	case key.Matches(msg, m.keys.Hidden):
		m.appList.ToggleHidden()
		if m.appList.ShowHidden {
			m.setStatus("", "Showing hidden entries")
		} else {
			m.setStatus("", "Hiding NoDisplay entries")
		}

	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("", "Refreshing...")
		return m, m.scan(m.selectedPath(), false)

	case key.Matches(msg, m.keys.Settings):
		m.screen = ScreenSettings
		m.settingsField = SettingsTheme
		m.settingsEditing = false
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		return m.handleEdit()

	case key.Matches(msg, m.keys.External):
		if m.doc == nil {
			m.setStatus(ui.NotifyWarning, "Open an application first")
			return m, nil
		}
		return m, m.openEditor()

	case key.Matches(msg, m.keys.Save):
		return m.handleSave()

	case key.Matches(msg, m.keys.Revert):
		return m.handleRevert()

	case key.Matches(msg, m.keys.Diff):
		return m.handleDiff()

	case key.Matches(msg, m.keys.History):
		return m.handleHistory()
	}

	return m, nil
}

func (m *Model) togglePanel() {
	if m.focusedPanel == PanelList {
		m.focusedPanel = PanelPreview
	} else {
		m.focusedPanel = PanelList
	}
	m.appList.Focused = m.focusedPanel == PanelList
	m.preview.Focused = m.focusedPanel == PanelPreview
}

func (m *Model) handleNavigation(up bool) {
	switch {
	case m.focusedPanel == PanelPreview && up:
		m.preview.ScrollUp()
	case m.focusedPanel == PanelPreview:
		m.preview.ScrollDown()
	case up:
		m.appList.MoveUp()
	default:
		m.appList.MoveDown()
	}
}

func (m *Model) handlePageNavigation(up bool) {
	switch {
	case m.focusedPanel == PanelPreview && up:
		m.preview.PageUp()
	case m.focusedPanel == PanelPreview:
		m.preview.PageDown()
	case up:
		m.appList.PageUp()
	default:
		m.appList.PageDown()
	}
}

func (m *Model) handleHomeEnd(home bool) {
	switch {
	case m.focusedPanel == PanelPreview && home:
		m.preview.GoToTop()
	case m.focusedPanel == PanelPreview:
		m.preview.GoToBottom()
	case home:
		m.appList.GoToFirst()
	default:
		m.appList.GoToLast()
	}
}

// handleOpen loads the application under the cursor, asking first when the
// open buffer has unsaved changes.
func (m *Model) handleOpen() (tea.Model, tea.Cmd) {
	app, ok := m.appList.Current()
	if !ok {
		return m, nil
	}
	if m.doc != nil && m.doc.Location.Path == app.Path {
		return m, nil
	}
	if m.saving {
		m.setStatus(ui.NotifyWarning, "Save in progress, try again when it finishes")
		return m, nil
	}
	if m.doc != nil && m.doc.Dirty() {
		m.confirmPath = app.Path
		m.confirmQuit = false
		m.screen = ScreenConfirm
		return m, nil
	}
	return m, m.load(app.Path)
}

func (m *Model) handleEdit() (tea.Model, tea.Cmd) {
	if m.doc == nil {
		m.setStatus(ui.NotifyWarning, "Open an application first")
		return m, nil
	}
	m.textArea.SetValue(m.doc.Content)
	m.textArea.ShowLineNumbers = m.config.ShowLineNumbers
	m.screen = ScreenEdit
	m.setStatus("", "Editing - ctrl+s to save, esc to keep changes and go back")
	return m, m.textArea.Focus()
}

func (m *Model) handleSave() (tea.Model, tea.Cmd) {
	if m.doc == nil {
		m.setStatus(ui.NotifyWarning, "Nothing to save")
		return m, nil
	}
	if m.saving {
		return m, nil
	}
	m.saving = true
	m.screen = ScreenMain
	target := m.resolver.Target(m.doc.Location)
	m.setStatus(ui.NotifyInfo, "Saving to "+target.Path+"...")
	return m, m.save()
}

func (m *Model) handleRevert() (tea.Model, tea.Cmd) {
	if m.doc == nil || !m.doc.Dirty() {
		m.setStatus("", "No unsaved changes")
		return m, nil
	}
	m.doc.Revert()
	m.preview.Refresh()
	m.screen = ScreenMain
	m.setStatus(ui.NotifyInfo, "Reverted unsaved changes")
	return m, nil
}

func (m *Model) handleDiff() (tea.Model, tea.Cmd) {
	if m.doc == nil {
		m.setStatus(ui.NotifyWarning, "Open an application first")
		return m, nil
	}
	result := diff.Compute(m.doc.Original, m.doc.Content)
	if !result.HasChanges() {
		m.setStatus("", "No unsaved changes")
		return m, nil
	}
	m.diffView.SetDiff(result, m.doc.Location.Path)
	m.screen = ScreenDiff
	m.setStatus("", result.Summary())
	return m, nil
}

func (m *Model) handleHistory() (tea.Model, tea.Cmd) {
	if m.doc == nil {
		m.setStatus(ui.NotifyWarning, "Open an application first")
		return m, nil
	}
	if m.history == nil {
		m.setStatus(ui.NotifyWarning, "Save history is disabled (see settings)")
		return m, nil
	}
	return m, m.loadHistory()
}

func (m *Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.commitTextArea()
		m.screen = ScreenMain
		if m.doc.Dirty() {
			m.setStatus(ui.NotifyInfo, "Unsaved changes - ctrl+s to save, u to revert")
		} else {
			m.setStatus("", "No changes")
		}
		return m, nil

	case tea.KeyCtrlS:
		m.commitTextArea()
		return m.handleSave()
	}

	var cmd tea.Cmd
	m.textArea, cmd = m.textArea.Update(msg)
	return m, cmd
}

// commitTextArea copies the textarea into the document buffer
func (m *Model) commitTextArea() {
	m.textArea.Blur()
	m.doc.Content = m.textArea.Value()
	m.preview.Refresh()
}

func (m *Model) handleDiffKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape, m.keys.Diff, m.keys.Quit):
		m.screen = ScreenMain
	case key.Matches(msg, m.keys.Up):
		m.diffView.ScrollUp()
	case key.Matches(msg, m.keys.Down):
		m.diffView.ScrollDown()
	case key.Matches(msg, m.keys.Save):
		return m.handleSave()
	case key.Matches(msg, m.keys.Revert):
		return m.handleRevert()
	default:
		switch msg.String() {
		case "n":
			m.diffView.NextHunk()
		case "N", "p":
			m.diffView.PrevHunk()
		case "h":
			m.diffView.ToggleHighlight()
		}
	}
	return m, nil
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape, m.keys.History, m.keys.Quit):
		m.screen = ScreenMain
	case key.Matches(msg, m.keys.Up):
		m.historyPanel.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.historyPanel.MoveDown()
	case key.Matches(msg, m.keys.Enter):
		if entry, ok := m.historyPanel.Current(); ok {
			return m, m.restore(entry)
		}
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		if m.saving && !m.confirmQuit {
			// Keep the dialog open until the save lands
			m.setStatus(ui.NotifyWarning, "Save in progress, try again when it finishes")
			return m, nil
		}
		m.screen = ScreenMain
		if m.confirmQuit {
			return m, tea.Quit
		}
		path := m.confirmPath
		m.confirmPath = ""
		m.setStatus(ui.NotifyWarning, "Discarded unsaved changes")
		return m, m.load(path)

	case key.Matches(msg, m.keys.No, m.keys.Escape):
		m.screen = ScreenMain
		m.confirmPath = ""
		m.confirmQuit = false
		m.setStatus("", "Cancelled")
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searchMode = false
		m.textInput.Blur()
		m.textInput.SetValue("")
		m.appList.SetQuery("")
		m.setStatus("", "Search cancelled")
		return m, nil

	case tea.KeyEnter:
		m.searchMode = false
		m.textInput.Blur()
		if m.appList.Query == "" {
			m.setStatus("", "Showing all applications")
		} else {
			m.setStatus("", fmt.Sprintf("Filtered by %q", m.appList.Query))
		}
		return m, nil

	case tea.KeyUp:
		m.appList.MoveUp()
		return m, nil

	case tea.KeyDown:
		m.appList.MoveDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.appList.SetQuery(m.textInput.Value())
	return m, cmd
}

func (m *Model) handleSettingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.settingsEditing {
		switch msg.Type {
		case tea.KeyEnter:
			m.applyTextSetting(strings.TrimSpace(m.textInput.Value()))
			m.settingsEditing = false
			m.textInput.Blur()
			return m, m.saveSettings()

		case tea.KeyEsc:
			m.settingsEditing = false
			m.textInput.Blur()
			return m, nil
		}

		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "esc", ",":
		m.screen = ScreenMain
		m.setStatus("", "Ready")
		return m, nil

	case "j", "down":
		m.settingsField = SettingsField((int(m.settingsField) + 1) % int(SettingsFieldCount))

	case "k", "up":
		m.settingsField = SettingsField((int(m.settingsField) - 1 + int(SettingsFieldCount)) % int(SettingsFieldCount))

	case "enter", " ":
		switch m.settingsField {
		case SettingsTheme:
			m.config.NextTheme()
			// Shared with the diff view
			m.preview.SetTheme(m.config.Theme)
		case SettingsLineNumbers:
			m.config.ShowLineNumbers = !m.config.ShowLineNumbers
			m.preview.ShowLineNumbers = m.config.ShowLineNumbers
			m.preview.Refresh()
		case SettingsHistory:
			m.config.HistoryEnabled = !m.config.HistoryEnabled
			if m.config.HistoryEnabled && m.history == nil {
				m.openHistory()
			}
			if !m.config.HistoryEnabled {
				m.history = nil
			}
		case SettingsEditor:
			placeholder := "$VISUAL or $EDITOR"
			if installed := editor.ListInstalled(nil); len(installed) > 0 {
				placeholder += ", installed: " + strings.Join(installed, ", ")
			}
			return m, m.editSetting(m.config.Editor, placeholder)
		case SettingsCategories:
			return m, m.editSetting(m.config.CategoriesFile, "~/.config/menuedit/categories.yaml")
		}
		return m, m.saveSettings()
	}

	return m, nil
}

func (m *Model) editSetting(value, placeholder string) tea.Cmd {
	m.settingsEditing = true
	m.textInput.SetValue(value)
	m.textInput.Placeholder = placeholder
	m.textInput.Focus()
	return textinput.Blink
}

func (m *Model) applyTextSetting(value string) {
	switch m.settingsField {
	case SettingsEditor:
		m.config.Editor = value
	case SettingsCategories:
		if strings.HasPrefix(value, "~/") {
			homeDir, _ := os.UserHomeDir()
			value = filepath.Join(homeDir, value[2:])
		}
		cats, err := catalog.LoadCategoryMap(value)
		if err != nil {
			m.setStatus(ui.NotifyError, fmt.Sprintf("Error: %v", err))
			return
		}
		m.config.CategoriesFile = value
		m.catalog = catalog.New(m.config.SystemDir, m.config.UserDir, cats)
		m.appList.SetCategories(cats)
	}
}

// saveSettings writes the settings file and rescans so category changes apply
func (m *Model) saveSettings() tea.Cmd {
	if err := m.config.Save(); err != nil {
		log.Error().Err(err).Msg("Failed to save settings")
		m.setStatus(ui.NotifyError, fmt.Sprintf("Error saving settings: %v", err))
		return nil
	}
	m.setStatus(ui.NotifySuccess, "Settings saved to "+config.ConfigPath())
	return m.scan(m.selectedPath(), true)
}
