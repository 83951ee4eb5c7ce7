package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"promptdeck/internal/catalog"
	"promptdeck/internal/services"
	"promptdeck/internal/store"
)

// openPromptModal opens the carousel on the prompt under the given table
// row. The carousel walks the visible list, so navigation respects the
// active filters.
func (a *App) openPromptModal(row int) {
	idx := row - 1
	if idx < 0 || idx >= len(a.state.Visible) {
		return
	}
	a.state.OpenModal(a.state.Visible[idx].ID)
	a.showPromptModal()
}

func (a *App) showPromptModal() {
	view, ok := a.views["promptModal"].(*tview.TextView)
	if !ok {
		view = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
		view.SetBorder(true)
		view.SetInputCapture(a.promptModalKeys)
		a.views["promptModal"] = view
		a.Pages.AddPage("prompt", centered(view, 72, 22), true, false)
	}

	a.renderPromptModal()
	a.Pages.ShowPage("prompt")
	a.SetFocus(view)
}

func (a *App) renderPromptModal() {
	view, ok := a.views["promptModal"].(*tview.TextView)
	if !ok {
		return
	}
	p := a.state.Current()
	if p == nil {
		return
	}
	pos, total := a.state.ModalPosition()
	view.SetTitle(fmt.Sprintf(" %d / %d ", pos, total))

	marker := "♡"
	if a.state.IsFavorite(p.ID) {
		marker = "[red]♥[-]"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[::b]%s[-:-:-]  %s\n\n", p.Title, marker)
	fmt.Fprintf(&b, "[::d]Категория:[-:-:-] %s\n", p.Category)
	fmt.Fprintf(&b, "[::d]Копий:[-:-:-] %d   [::d]В избранном:[-:-:-] %d\n", p.Copies, p.Favorites)
	if len(p.Tags) > 0 {
		fmt.Fprintf(&b, "[::d]Теги:[-:-:-] %s\n", strings.Join(p.Tags, ", "))
	}
	if p.Image != "" {
		fmt.Fprintf(&b, "[::d]Изображение:[-:-:-] %s\n", p.Image)
	}
	fmt.Fprintf(&b, "\n%s\n", p.Description)
	if p.PromptText != "" {
		fmt.Fprintf(&b, "\n[yellow]%s[-]\n", p.PromptText)
	}
	b.WriteString("\n[::d]←→ листать · f избранное · c копировать · Esc закрыть[-:-:-]")
	view.SetText(b.String())
	view.ScrollToBeginning()
}

func (a *App) promptModalKeys(ev *tcell.EventKey) *tcell.EventKey {
	switch ev.Key() {
	case tcell.KeyLeft:
		a.state.Prev()
		a.renderPromptModal()
		return nil
	case tcell.KeyRight:
		a.state.Next()
		a.renderPromptModal()
		return nil
	case tcell.KeyEscape:
		a.closePromptModal()
		return nil
	}
	switch ev.Rune() {
	case 'q':
		a.closePromptModal()
		return nil
	case 'f':
		if p := a.state.Current(); p != nil {
			a.toggleFavorite(p.ID, a.renderPromptModal)
		}
		return nil
	case 'c':
		if p := a.state.Current(); p != nil {
			a.copyPrompt(p, a.renderPromptModal)
		}
		return nil
	}
	return ev
}

func (a *App) closePromptModal() {
	a.Pages.HidePage("prompt")
	a.SetFocus(a.views["cards"])
	a.renderCards()
	a.renderHeader()
}

// openProfileModal shows the profile panel with balances, generation stats
// and the referral link.
func (a *App) openProfileModal() {
	view, ok := a.views["profileModal"].(*tview.TextView)
	if !ok {
		view = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
		view.SetBorder(true)
		view.SetTitle(" Профиль ")
		view.SetInputCapture(a.profileModalKeys)
		a.views["profileModal"] = view
		a.Pages.AddPage("profile", centered(view, 64, 20), true, false)
	}

	p := a.profileSvc.ProfileOrDemo()
	view.SetText(profileText(p, a.profileSvc.ReferralLink(p)))

	a.Pages.ShowPage("profile")
	a.SetFocus(view)
}

// profileText renders the profile panel body: identity, balances,
// generation stats with the success rate, and the referral link when one
// can be derived.
func profileText(p catalog.Profile, link string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]ID пользователя:[-:-:-] %d\n", p.UserID)
	if reg := services.FormatRegisteredAt(p.RegisteredAt); reg != "" {
		fmt.Fprintf(&b, "[::b]Дата регистрации:[-:-:-] %s\n", reg)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Баланс токенов:    [::b]%d[-:-:-]\n", p.TokenBalance)
	fmt.Fprintf(&b, "Бонусный баланс:   [::b]%d[-:-:-]\n", p.BonusBalance)
	fmt.Fprintf(&b, "Заработано бонусов: [::b]%d[-:-:-]\n", p.EarnedBonuses)
	fmt.Fprintf(&b, "Приглашено друзей: [::b]%d[-:-:-]\n", p.Referrals)
	b.WriteString("\n[::u]Генерации[-:-:-]\n")
	fmt.Fprintf(&b, "Всего: %d · Успешно: %d · Не завершено: %d · Отменено: %d\n",
		p.Generations.Total, p.Generations.Success, p.Generations.Unfinished, p.Generations.Canceled)
	fmt.Fprintf(&b, "Успешность: [green]%d%%[-]\n", p.SuccessRate)

	if link != "" {
		fmt.Fprintf(&b, "\n[::u]Реферальная ссылка[-:-:-]\n%s\n", link)
		b.WriteString("\n[::d]r — скопировать ссылку · Esc закрыть[-:-:-]")
	} else {
		b.WriteString("\n[::d]Esc закрыть[-:-:-]")
	}
	return b.String()
}

func (a *App) profileModalKeys(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' || ev.Rune() == 'p' {
		a.Pages.HidePage("profile")
		a.SetFocus(a.views["cards"])
		return nil
	}
	if ev.Rune() == 'r' {
		link := a.profileSvc.ReferralLink(a.profileSvc.ProfileOrDemo())
		if link == "" {
			return nil
		}
		if err := clipboard.WriteAll(link); err != nil {
			a.logger.Warnw("clipboard write failed", "error", err)
			a.showError("Ошибка копирования")
			return nil
		}
		a.showToast("Ссылка скопирована")
		return nil
	}
	return ev
}

// maybeShowTutorial shows the first-run hint once per process lifetime.
// The seen flag lives in the session bucket so a restart shows it again.
func (a *App) maybeShowTutorial() {
	if a.store == nil {
		return
	}
	if seen, ok := a.store.SessionGet(store.KeyTutorialSeen); ok && seen == "true" {
		return
	}

	modal := tview.NewModal().
		SetText("Добро пожаловать в каталог промптов!\n\n" +
			"Листайте категории стрелками, ищите через /,\n" +
			"отмечайте избранное клавишей f и копируйте промпт\n" +
			"клавишей c, чтобы вставить его в чат с ботом.").
		AddButtons([]string{"Понятно"}).
		SetDoneFunc(func(int, string) {
			a.store.SessionSet(store.KeyTutorialSeen, "true")
			a.Pages.HidePage("tutorial")
			a.SetFocus(a.views["cards"])
		})

	a.Pages.AddPage("tutorial", modal, true, true)
	a.SetFocus(modal)
}

// centered wraps a primitive in a fixed-size centered frame.
func centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}
