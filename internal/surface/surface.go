// Package surface defines the declarative snapshots pushed to the native UI
// adapters (application menu, tray icon, dock/taskbar) and the contracts
// those adapters satisfy.
//
// Adapters own deduplication: the synchronizer pushes a full snapshot on
// every recompute and never diffs against a previous push.
package surface

import "strconv"

// Badge is the aggregate unread indicator: empty, a decimal count, or
// BadgeActivity.
type Badge string

// BadgeActivity marks unread activity without a count.
const BadgeActivity Badge = "•"

// CountBadge renders n as a badge. Non-positive counts yield no badge.
func CountBadge(n int) Badge {
	if n <= 0 {
		return ""
	}
	return Badge(strconv.Itoa(n))
}

// Count returns the numeric value when the badge carries one.
func (b Badge) Count() (int, bool) {
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ServerItem is one entry of the menu's server list.
type ServerItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// MenuState is the full application-menu snapshot.
type MenuState struct {
	ShowTrayIcon              bool         `json:"showTrayIcon"`
	ShowFullScreen            bool         `json:"showFullScreen"`
	ShowWindowOnUnreadChanged bool         `json:"showWindowOnUnreadChanged"`
	ShowMenuBar               bool         `json:"showMenuBar"`
	ShowServerList            bool         `json:"showServerList"`
	Servers                   []ServerItem `json:"servers"`
	// CurrentServerURL is empty when no server is selected.
	CurrentServerURL string `json:"currentServerUrl"`
}

// TrayState is the full tray snapshot.
type TrayState struct {
	ShowIcon            bool  `json:"showIcon"`
	Badge               Badge `json:"badge"`
	IsMainWindowVisible bool  `json:"isMainWindowVisible"`
}

// DockState is the full dock/taskbar snapshot.
type DockState struct {
	HasTrayIcon bool  `json:"hasTrayIcon"`
	Badge       Badge `json:"badge"`
}

// MenuAdapter renders MenuState.
type MenuAdapter interface {
	SetState(MenuState) error
}

// TrayAdapter renders TrayState. SetMainWindowVisible is the narrow update
// driven by window-manager hide/show events.
type TrayAdapter interface {
	SetState(TrayState) error
	SetMainWindowVisible(visible bool) error
	Destroy() error
}

// DockAdapter renders DockState.
type DockAdapter interface {
	SetState(DockState) error
	Destroy() error
}
