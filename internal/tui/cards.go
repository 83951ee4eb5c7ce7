package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/derailed/tview"
	"github.com/mattn/go-runewidth"

	"promptdeck/internal/catalog"
)

const maxTitleWidth = 48

// renderTabs draws the category bar with the active tab highlighted.
func (a *App) renderTabs() {
	tabs, ok := a.views["tabs"].(*tview.TextView)
	if !ok {
		return
	}
	parts := make([]string, 0, len(a.categories))
	for i, cat := range a.categories {
		label := capitalize(cat)
		if i == a.categoryIdx {
			parts = append(parts, fmt.Sprintf("[black:aqua] %s [-:-:-]", label))
		} else {
			parts = append(parts, fmt.Sprintf(" %s ", label))
		}
	}
	tabs.SetText(strings.Join(parts, ""))
}

// renderHeader draws the visible/total counters, the favorites badge and
// the active sort mode.
func (a *App) renderHeader() {
	header, ok := a.views["header"].(*tview.TextView)
	if !ok {
		return
	}
	favBadge := ""
	if n := len(a.state.Favorites); n > 0 {
		favBadge = fmt.Sprintf(" · [red]♥ %d[-]", n)
	}
	onlyFav := ""
	if a.state.Filter.FavoritesOnly {
		onlyFav = " · [yellow]только избранное[-]"
	}
	header.SetText(fmt.Sprintf(" [::b]%d[-:-:-] из [::b]%d[-:-:-]%s%s · %s",
		len(a.state.Visible), len(a.state.Prompts), favBadge, onlyFav, a.state.Filter.Sort.Label()))
}

// renderCards redraws the prompt table from the visible list.
func (a *App) renderCards() {
	cards, ok := a.views["cards"].(*tview.Table)
	if !ok {
		return
	}
	row, _ := cards.GetSelection()
	cards.Clear()

	for col, h := range []string{"", "Название", "Категория", "Копий", "В избранном"} {
		cards.SetCell(0, col, tview.NewTableCell("[::b]"+h).SetSelectable(false))
	}

	if len(a.state.Visible) == 0 {
		cards.SetCell(1, 1, tview.NewTableCell(a.emptyStateText()).SetSelectable(false))
		return
	}

	for i, p := range a.state.Visible {
		marker := " "
		if a.state.IsFavorite(p.ID) {
			marker = "[red]♥[-]"
		}
		cards.SetCell(i+1, 0, tview.NewTableCell(marker))
		cards.SetCell(i+1, 1, tview.NewTableCell(runewidth.Truncate(p.Title, maxTitleWidth, "…")).SetExpansion(1))
		cards.SetCell(i+1, 2, tview.NewTableCell(p.Category))
		cards.SetCell(i+1, 3, tview.NewTableCell(fmt.Sprintf("⧉ %d", p.Copies)))
		cards.SetCell(i+1, 4, tview.NewTableCell(fmt.Sprintf("♥ %d", p.Favorites)))
	}

	if row < 1 {
		row = 1
	}
	if row > len(a.state.Visible) {
		row = len(a.state.Visible)
	}
	cards.Select(row, 0)
}

// emptyStateText mirrors the two empty states: favorites empty vs nothing
// found.
func (a *App) emptyStateText() string {
	if a.state.Filter.FavoritesOnly {
		return "В избранном пока пусто — открывайте промпты и нажимайте f"
	}
	return "Промпты не найдены — попробуйте изменить фильтры или поиск"
}

// selectedPrompt resolves the prompt under the table cursor.
func (a *App) selectedPrompt() *catalog.Prompt {
	cards, ok := a.views["cards"].(*tview.Table)
	if !ok {
		return nil
	}
	row, _ := cards.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(a.state.Visible) {
		return nil
	}
	return a.state.Visible[idx]
}

// toggleSelectedFavorite toggles the favorite status of the selected
// prompt. The remote call runs off the event loop; the result re-enters
// via QueueUpdateDraw.
func (a *App) toggleSelectedFavorite() {
	p := a.selectedPrompt()
	if p == nil {
		return
	}
	a.toggleFavorite(p.ID, nil)
}

// toggleFavorite runs the synchronizer and refreshes the UI. The remote
// resolution happens on a worker goroutine; the state mutation and the
// refresh run inside QueueUpdateDraw, on the loop that owns the state. The
// optional onDone callback runs after the refresh (used by the modal to
// update its own text).
func (a *App) toggleFavorite(promptID int, onDone func()) {
	go func() {
		res := a.favoriteSvc.ResolveToggle(a.ctx, promptID)
		a.QueueUpdateDraw(func() {
			outcome, err := a.favoriteSvc.ApplyToggle(a.ctx, res)
			if err != nil {
				a.logger.Errorw("favorites persistence failed", "promptId", promptID, "error", err)
			}
			a.renderCards()
			a.renderHeader()
			if outcome.Added {
				a.showToast("Добавлено в избранное")
			} else {
				a.showToast("Удалено из избранного")
			}
			if onDone != nil {
				onDone()
			}
		})
	}()
}

// copySelectedPrompt copies the selected prompt text to the clipboard and
// records the copy.
func (a *App) copySelectedPrompt() {
	p := a.selectedPrompt()
	if p == nil {
		return
	}
	a.copyPrompt(p, nil)
}

func (a *App) copyPrompt(p *catalog.Prompt, onDone func()) {
	text := p.PromptText
	if text == "" {
		text = p.Title
	}
	if err := clipboard.WriteAll(text); err != nil {
		a.logger.Warnw("clipboard write failed", "error", err)
		a.showError("Ошибка копирования")
		return
	}
	a.showToast("Промпт скопирован. Вставьте его в чат с ботом")

	promptID := p.ID
	go func() {
		res := a.favoriteSvc.ResolveCopy(a.ctx, promptID)
		a.QueueUpdateDraw(func() {
			if err := a.favoriteSvc.ApplyCopy(a.ctx, res); err != nil {
				a.logger.Warnw("copy tracking failed", "promptId", promptID, "error", err)
				return
			}
			a.renderCards()
			a.renderHeader()
			if onDone != nil {
				onDone()
			}
		})
	}()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
