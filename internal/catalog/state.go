package catalog

import "sort"

// State is the explicitly owned application state: the full prompt set, the
// favorites set, the active filter and the derived visible list. It has no
// synchronization of its own. Mutations funnel through the service layer,
// and concurrent updates resolve last-write-wins.
type State struct {
	Prompts   []*Prompt
	Favorites map[int]struct{}
	Filter    Filter
	Visible   []*Prompt
	Loading   bool

	modalIndex int
}

// NewState returns an empty state with the unrestricted filter.
func NewState() *State {
	return &State{
		Favorites: make(map[int]struct{}),
		Filter:    NewFilter(),
	}
}

// Recompute re-derives the visible list from the full set, the favorites
// set and the filter. Call after every mutation that can affect the view,
// including counter updates (they feed the default and copies sorts).
func (s *State) Recompute() {
	s.Visible = Visible(s.Prompts, s.Favorites, s.Filter)
}

// SetPrompts replaces the full prompt set and recomputes.
func (s *State) SetPrompts(prompts []*Prompt) {
	s.Prompts = prompts
	s.Recompute()
}

// SetFavorites replaces the favorites set from an id list.
func (s *State) SetFavorites(ids []int) {
	s.Favorites = make(map[int]struct{}, len(ids))
	for _, id := range ids {
		s.Favorites[id] = struct{}{}
	}
}

// SetFavorite forces membership of id to the given value and reports
// whether the set changed.
func (s *State) SetFavorite(id int, favorite bool) bool {
	_, has := s.Favorites[id]
	if favorite == has {
		return false
	}
	if favorite {
		s.Favorites[id] = struct{}{}
	} else {
		delete(s.Favorites, id)
	}
	return true
}

// ToggleLocal flips membership of id and reports the new membership.
func (s *State) ToggleLocal(id int) bool {
	if _, has := s.Favorites[id]; has {
		delete(s.Favorites, id)
		return false
	}
	s.Favorites[id] = struct{}{}
	return true
}

// IsFavorite reports membership of id in the favorites set.
func (s *State) IsFavorite(id int) bool {
	_, ok := s.Favorites[id]
	return ok
}

// FavoriteIDs returns the favorites as a sorted id list, the canonical
// form persisted to the store.
func (s *State) FavoriteIDs() []int {
	ids := make([]int, 0, len(s.Favorites))
	for id := range s.Favorites {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Prompt looks up a prompt by id in the full set.
func (s *State) Prompt(id int) *Prompt {
	for _, p := range s.Prompts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// carouselList is the navigation basis for the modal: the visible list, or
// the full list when every prompt is filtered out.
func (s *State) carouselList() []*Prompt {
	if len(s.Visible) > 0 {
		return s.Visible
	}
	return s.Prompts
}

// OpenModal positions the carousel on the prompt with the given id and
// reports whether it was found in the navigation list.
func (s *State) OpenModal(id int) bool {
	list := s.carouselList()
	for i, p := range list {
		if p.ID == id {
			s.modalIndex = i
			return true
		}
	}
	return false
}

// Current returns the prompt under the carousel cursor, or nil when the
// catalog is empty.
func (s *State) Current() *Prompt {
	list := s.carouselList()
	if len(list) == 0 {
		return nil
	}
	if s.modalIndex >= len(list) {
		s.modalIndex = len(list) - 1
	}
	return list[s.modalIndex]
}

// Next advances the carousel with wrap-around and returns the new current
// prompt.
func (s *State) Next() *Prompt {
	list := s.carouselList()
	if len(list) == 0 {
		return nil
	}
	s.modalIndex = (s.modalIndex + 1) % len(list)
	return list[s.modalIndex]
}

// Prev steps the carousel back with wrap-around and returns the new current
// prompt.
func (s *State) Prev() *Prompt {
	list := s.carouselList()
	if len(list) == 0 {
		return nil
	}
	s.modalIndex = (s.modalIndex - 1 + len(list)) % len(list)
	return list[s.modalIndex]
}

// ModalPosition returns the 1-based carousel position and the list length,
// for the "N / M" counter.
func (s *State) ModalPosition() (int, int) {
	list := s.carouselList()
	if len(list) == 0 {
		return 0, 0
	}
	return s.modalIndex + 1, len(list)
}
