package tui

import (
	"fmt"
	"time"

	"github.com/derailed/tview"
)

// setStatusPersistent replaces the status line without scheduling a revert.
func (a *App) setStatusPersistent(msg string) {
	a.setStatusText(msg)
	if a.statusTimer != nil {
		a.statusTimer.Stop()
		a.statusTimer = nil
	}
}

// showToast shows a transient status message that reverts to the baseline
// after the configured toast duration.
func (a *App) showToast(msg string) {
	a.flash(fmt.Sprintf("[green]%s[-]", msg))
}

// showError shows a transient error message in the status line.
func (a *App) showError(msg string) {
	a.flash(fmt.Sprintf("[red]%s[-]", msg))
}

func (a *App) flash(msg string) {
	a.setStatusText(msg)
	if a.statusTimer != nil {
		a.statusTimer.Stop()
	}
	a.statusTimer = time.AfterFunc(a.Config.ToastDuration(), func() {
		a.QueueUpdateDraw(func() {
			a.setStatusText(a.baselineStatus())
		})
	})
}

func (a *App) setStatusText(msg string) {
	if status, ok := a.views["status"].(*tview.TextView); ok {
		status.SetText(" " + msg)
	}
}

func (a *App) baselineStatus() string {
	return "[::d]/ поиск · ←→ категории · f избранное · v только избранное · c копировать · s сортировка · p профиль · q выход[-:-:-]"
}
