// Package ui is the terminal console that stands in for the desktop shell.
// It implements the surface adapters the synchronizer pushes to (menu, tray
// and dock), the main window, the embedded-session host and the process
// surface, and renders them with Bubble Tea.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are
//     routed through a typed handler registry so each tea.Msg is handled by
//     a focused function (keys, resizes, focus changes, command results).
//   - Adapters are driven from other goroutines by the shell's event bus.
//     They never touch the model; they record state and signal a Notifier.
//     A waiting tea.Cmd turns the signal into a refreshMsg, and every update
//     also drains a pending signal, so the model re-reads the surfaces on
//     the UI goroutine.
//   - Creating or destroying the tray icon is queued by TraySurface and
//     published during refresh, outside the synchronizer's push.
//
// Input modes:
//   - shell: the entry list of servers and menu commands, with a quick
//     filter. Enter runs the selected entry through the synchronizer.
//   - landing: the add-server form backed by the landing controller.
//   - command: a ":" line accepting menu commands plus verbs that simulate
//     the window manager, the tray and session unread reports.
package ui
