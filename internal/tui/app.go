// Package tui renders the prompt catalog in the terminal. The event loop
// owns the catalog state: only the resolve/fetch halves of the services run
// on worker goroutines, and their results are applied to the state inside
// QueueUpdateDraw callbacks, so every state access happens on the loop.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/bep/debounce"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"go.uber.org/zap"

	"promptdeck/internal/catalog"
	"promptdeck/internal/config"
	"promptdeck/internal/services"
	"promptdeck/internal/store"
)

// App is the main PromptDeck application.
type App struct {
	*tview.Application
	Pages  *tview.Pages
	Config *config.Config

	state       *catalog.State
	catalogSvc  services.CatalogService
	favoriteSvc services.FavoriteService
	profileSvc  services.ProfileService
	store       *store.Store
	logger      *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc

	views          map[string]tview.Primitive
	categories     []string
	categoryIdx    int
	searchDebounce func(func())
	statusTimer    *time.Timer
}

// NewApp creates the application around an explicitly owned state object.
func NewApp(cfg *config.Config, state *catalog.State, catalogSvc services.CatalogService,
	favoriteSvc services.FavoriteService, profileSvc services.ProfileService,
	kv *store.Store, logger *zap.SugaredLogger) *App {
	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		Application:    tview.NewApplication(),
		Pages:          tview.NewPages(),
		Config:         cfg,
		state:          state,
		catalogSvc:     catalogSvc,
		favoriteSvc:    favoriteSvc,
		profileSvc:     profileSvc,
		store:          kv,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
		views:          make(map[string]tview.Primitive),
		categories:     []string{catalog.CategoryAll},
		searchDebounce: debounce.New(cfg.SearchDebounce()),
	}
}

// Run builds the layout, kicks off the initial load and enters the event
// loop.
func (a *App) Run() error {
	a.initViews()
	a.SetRoot(a.Pages, true)
	a.bindKeys()

	a.setStatusPersistent("Загрузка каталога…")
	a.state.Loading = true
	go a.initialLoad()

	defer a.cancel()
	return a.Application.Run()
}

// initialLoad gathers the catalog and the profile off the event loop, then
// applies and renders inside QueueUpdateDraw. The fetch phase never touches
// the state.
func (a *App) initialLoad() {
	load := a.catalogSvc.FetchCatalog(a.ctx)
	a.profileSvc.LoadProfile(a.ctx)

	a.QueueUpdateDraw(func() {
		a.catalogSvc.ApplyCatalog(a.ctx, load)
		a.categories = catalog.Categories(a.state.Prompts)
		a.categoryIdx = 0
		a.renderAll()
		a.setStatusPersistent(a.baselineStatus())
		a.maybeShowTutorial()
	})
}

func (a *App) initViews() {
	tabs := tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	a.views["tabs"] = tabs

	cards := tview.NewTable()
	cards.SetSelectable(true, false)
	cards.SetBorder(true)
	cards.SetTitle(" Промпты ")
	cards.SetSelectedFunc(func(row, col int) {
		a.openPromptModal(row)
	})
	a.views["cards"] = cards

	search := tview.NewInputField().SetLabel(" Поиск: ")
	search.SetChangedFunc(func(text string) {
		// Recompute only after the input has been quiescent for the
		// debounce delay.
		a.searchDebounce(func() {
			a.QueueUpdateDraw(func() {
				a.state.Filter.Query = strings.TrimSpace(text)
				a.state.Recompute()
				a.renderCards()
				a.renderHeader()
			})
		})
	})
	search.SetDoneFunc(func(key tcell.Key) {
		a.SetFocus(a.views["cards"])
	})
	a.views["search"] = search

	header := tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	a.views["header"] = header

	status := tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	a.views["status"] = status

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.views["search"], 1, 0, false).
		AddItem(a.views["tabs"], 1, 0, false).
		AddItem(a.views["header"], 1, 0, false).
		AddItem(a.views["cards"], 0, 1, true).
		AddItem(a.views["status"], 1, 0, false)

	a.Pages.AddPage("main", layout, true, true)
	a.renderAll()
}

func (a *App) renderAll() {
	a.renderTabs()
	a.renderHeader()
	a.renderCards()
}

// bindKeys installs the global shortcuts. Keys only apply on the main page;
// modals install their own handlers.
func (a *App) bindKeys() {
	a.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		front, _ := a.Pages.GetFrontPage()
		if front != "main" {
			return ev
		}
		if a.GetFocus() == a.views["search"] {
			return ev
		}

		switch ev.Key() {
		case tcell.KeyLeft:
			a.cycleCategory(-1)
			return nil
		case tcell.KeyRight:
			a.cycleCategory(1)
			return nil
		}

		switch ev.Rune() {
		case 'q':
			a.Stop()
			return nil
		case '/':
			a.SetFocus(a.views["search"])
			return nil
		case 'f':
			a.toggleSelectedFavorite()
			return nil
		case 'v':
			a.toggleFavoritesOnly()
			return nil
		case 'c':
			a.copySelectedPrompt()
			return nil
		case 's':
			a.cycleSort()
			return nil
		case 'p':
			a.openProfileModal()
			return nil
		}
		return ev
	})
}

func (a *App) cycleCategory(delta int) {
	if len(a.categories) == 0 {
		return
	}
	a.categoryIdx = (a.categoryIdx + delta + len(a.categories)) % len(a.categories)
	a.state.Filter.SelectCategory(a.categories[a.categoryIdx])
	a.state.Recompute()
	a.renderAll()
}

func (a *App) cycleSort() {
	for i, mode := range catalog.SortModes {
		if mode == a.state.Filter.Sort {
			a.state.Filter.Sort = catalog.SortModes[(i+1)%len(catalog.SortModes)]
			break
		}
	}
	a.state.Recompute()
	a.renderCards()
	a.renderHeader()
	a.showToast("Сортировка: " + a.state.Filter.Sort.Label())
}

func (a *App) toggleFavoritesOnly() {
	a.state.Filter.FavoritesOnly = !a.state.Filter.FavoritesOnly
	a.state.Recompute()
	a.renderCards()
	a.renderHeader()
	if a.state.Filter.FavoritesOnly {
		a.showToast("Показаны только избранные промпты")
	} else {
		a.showToast("Показаны все промпты")
	}
}
