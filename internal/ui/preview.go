package ui

import (
	"strings"

	"github.com/atomicstack/shell-sync/internal/menu"
)

// selectionDetail describes the selected server: its session page, badge
// and certificate decision. Command entries have no detail.
func (m *Model) selectionDetail() string {
	item, ok := m.list.Selected()
	if !ok || !m.servers[item.ID] {
		return ""
	}
	parts := []string{item.ID}
	if m.deps.Sessions != nil {
		parts = append(parts, "page "+m.deps.Sessions.Page(item.ID))
	}
	if m.deps.Sidebar != nil {
		if badge := m.deps.Sidebar.Badge(item.ID); badge != "" {
			parts = append(parts, "unread "+string(badge))
		}
	}
	if m.deps.Certificates != nil {
		if _, trusted := m.deps.Certificates.Trusted(item.ID); trusted {
			parts = append(parts, "certificate trusted")
		}
	}
	return strings.Join(parts, "  ")
}

// itemDetail is the right-hand column of an entry: a server's badge or a
// toggle's current value.
func (m *Model) itemDetail(item menu.Item) string {
	if m.servers[item.ID] {
		if m.deps.Sidebar == nil {
			return ""
		}
		return string(m.deps.Sidebar.Badge(item.ID))
	}
	command, err := menu.Parse(item.ID)
	if err != nil || command.ID != menu.CommandToggle {
		return ""
	}
	if m.toggleValue(command.Option) {
		return "on"
	}
	return "off"
}

func (m *Model) toggleValue(option menu.Option) bool {
	switch option {
	case menu.OptionShowTrayIcon:
		return m.menu.ShowTrayIcon
	case menu.OptionShowFullScreen:
		return m.menu.ShowFullScreen
	case menu.OptionShowWindowOnUnreadChanged:
		return m.menu.ShowWindowOnUnreadChanged
	case menu.OptionShowMenuBar:
		return m.menu.ShowMenuBar
	case menu.OptionShowServerList:
		return m.menu.ShowServerList
	}
	return false
}
