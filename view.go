package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"menuedit/internal/config"
	"menuedit/internal/models"
	"menuedit/internal/ui"
)

func (m *Model) View() string {
	switch m.screen {
	case ScreenEdit:
		return m.renderEdit()
	case ScreenDiff:
		return ui.AppStyle.Render(m.diffView.View())
	case ScreenHistory:
		return ui.AppStyle.Render(m.historyPanel.View())
	case ScreenConfirm:
		return m.renderConfirm()
	case ScreenSettings:
		return m.renderSettings()
	case ScreenHelp:
		return ui.AppStyle.Render(m.renderHeader() + "\n" + m.helpVP.View())
	default:
		return m.renderMain()
	}
}

func (m *Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.appList.View(),
		"  ",
		m.preview.View(),
	)
	b.WriteString(panels)

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())

	return ui.AppStyle.Render(b.String())
}

func (m *Model) renderHeader() string {
	title := ui.TitleStyle.Render("menuedit")
	ver := ui.VersionStyle.Render("v" + version)
	dirs := ui.MutedStyle.Render(fmt.Sprintf("  %s → %s", m.resolver.SystemDir(), m.resolver.UserDir()))
	return ui.HeaderStyle.Render(title + "  " + ver + dirs)
}

func (m *Model) renderStatusBar() string {
	var stats []string
	stats = append(stats, fmt.Sprintf("System: %d", len(m.listing.System.Apps)))
	stats = append(stats, fmt.Sprintf("User: %d", len(m.listing.User.Apps)))
	if m.doc != nil {
		name := m.doc.Location.Base()
		if m.doc.Dirty() {
			name = ui.DirtyStyle.Render(name + " ●")
		}
		stats = append(stats, name)
	}

	panelIndicator := "☰"
	if m.focusedPanel == PanelPreview {
		panelIndicator = "📄"
	}

	styledStatus := m.status
	if m.notify != "" {
		// Multi-line notices (redirect) are shown on one line
		styledStatus = ui.RenderNotification(m.notify, strings.ReplaceAll(m.status, "\n", " "))
	}

	return ui.StatusBarStyle.Render(
		panelIndicator + " " + styledStatus + "  •  " + strings.Join(stats, "  •  "),
	)
}

func (m *Model) renderHelpBar() string {
	if m.searchMode {
		return ui.HelpBarStyle.Render("/" + m.textInput.View())
	}

	return ui.HelpBarStyle.Render(m.help.View(m.keys))
}

func (m *Model) renderEdit() string {
	var b strings.Builder

	name := m.doc.Location.Base()
	target := m.resolver.Target(m.doc.Location)
	b.WriteString(ui.PanelTitleStyle.Render("Editing " + name))
	b.WriteString(ui.MutedStyle.Render("  saves to " + target.Path))
	if m.doc.Location.Scope == models.ScopeSystem {
		b.WriteString(" " + ui.RenderScope(true))
	}
	b.WriteString("\n\n")
	b.WriteString(m.textArea.View())
	b.WriteString("\n")

	items := []string{
		ui.RenderHelpItem("ctrl+s", "save"),
		ui.RenderHelpItem("esc", "keep changes and close"),
	}
	b.WriteString(ui.HelpBarStyle.Render(strings.Join(items, "  ")))

	return ui.AppStyle.Render(b.String())
}

func (m *Model) renderConfirm() string {
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(ui.Warning).Render("Unsaved changes")
	b.WriteString(title)
	b.WriteString("\n\n")

	if m.doc != nil {
		b.WriteString(fmt.Sprintf("%s has unsaved changes.\n", ui.FilePathStyle.Render(m.doc.Location.Path)))
	}
	if m.confirmQuit {
		b.WriteString("Quit and discard them?")
	} else {
		b.WriteString("Discard them and open " + ui.FilePathStyle.Render(m.confirmPath) + "?")
	}
	b.WriteString("\n\n")
	b.WriteString(ui.RenderButton("y Discard", true) + "  " + ui.RenderButton("n Cancel", false))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, ui.DialogStyle.Render(b.String()))
}

func (m *Model) renderSettings() string {
	style := lipgloss.NewStyle().
		Width(70).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.Primary)

	var b strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.Primary).
		Render("⚙️  Settings")
	b.WriteString(title)
	b.WriteString("\n\n")

	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}
	orDefault := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}

	fields := []struct {
		name  string
		value string
		field SettingsField
	}{
		{"Theme", m.config.Theme, SettingsTheme},
		{"Line numbers", onOff(m.config.ShowLineNumbers), SettingsLineNumbers},
		{"Save history", onOff(m.config.HistoryEnabled), SettingsHistory},
		{"Editor", orDefault(m.config.Editor, "(auto)"), SettingsEditor},
		{"Categories", orDefault(m.config.CategoriesFile, "(built-in)"), SettingsCategories},
	}

	for _, f := range fields {
		isSelected := m.settingsField == f.field

		labelStyle := lipgloss.NewStyle().Width(15)
		if isSelected {
			labelStyle = labelStyle.Bold(true).Foreground(ui.Primary)
		} else {
			labelStyle = labelStyle.Foreground(lipgloss.Color("#6c7086"))
		}
		b.WriteString(labelStyle.Render(f.name + ":"))
		b.WriteString(" ")

		if isSelected && m.settingsEditing {
			b.WriteString(m.textInput.View())
		} else {
			valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4"))
			if isSelected {
				valueStyle = valueStyle.
					Background(lipgloss.Color("#313244")).
					Padding(0, 1)
			}
			b.WriteString(valueStyle.Render(f.value))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	if m.settingsEditing {
		b.WriteString(helpStyle.Render("Enter: save  •  Esc: cancel"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓: navigate  •  Enter: change  •  Esc/q: back"))
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("Config file: " + config.ConfigPath()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("History: " + config.HistoryDir()))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, style.Render(b.String()))
}

func (m *Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(ui.PanelTitleStyle.Render("⌨️  Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []string{"Navigation", "List", "Editing", "General"}
	for i, group := range m.keys.FullHelp() {
		b.WriteString(ui.MutedStyle.Render("  ─── " + sections[i] + " ───"))
		b.WriteString("\n")
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				ui.HelpKeyStyle.Width(14).Render(h.Key),
				ui.HelpDescStyle.Render(h.Desc),
			))
		}
		b.WriteString("\n")
	}

	b.WriteString(ui.MutedStyle.Render("  ─── Saving ───"))
	b.WriteString("\n")
	notes := []string{
		"Files under " + m.config.SystemDir + " are never written.",
		"Saving one writes a copy to " + m.config.UserDir + ",",
		"which takes precedence in application menus.",
		"Entries marked * are system entries with a user copy.",
	}
	for _, n := range notes {
		b.WriteString("  " + ui.HelpDescStyle.Render(n) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(ui.MutedStyle.Render("  esc/?/q to close"))
	return b.String()
}
