package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"promptdeck/internal/catalog"
)

// referralBotURL is the bot deep-link prefix used when the backend supplies
// a referral code instead of a full link.
const referralBotURL = "https://t.me/neurokartochkaBot?start=ref_"

// ProfileServiceImpl implements ProfileService. The runtime profile is
// fetched once per session and never merged with the demo profile. The
// mutex lets LoadProfile run on a worker goroutine while the UI reads.
type ProfileServiceImpl struct {
	edge   EdgeAPI
	logger *zap.SugaredLogger

	mu      sync.RWMutex
	runtime *catalog.Profile
}

// NewProfileService creates a new profile service.
func NewProfileService(edgeAPI EdgeAPI, logger *zap.SugaredLogger) *ProfileServiceImpl {
	return &ProfileServiceImpl{edge: edgeAPI, logger: logger}
}

// LoadProfile fetches the profile when a session context exists. Any
// failure leaves the runtime profile nil; demo content substitutes
// seamlessly, so the failure is logged and never surfaced.
func (s *ProfileServiceImpl) LoadProfile(ctx context.Context) {
	s.setRuntime(nil)
	if s.edge == nil || !s.edge.HasSession() {
		return
	}
	p, err := s.edge.FetchProfile(ctx)
	if err != nil {
		s.logger.Warnw("profile fetch failed, using demo profile", "error", err)
		return
	}
	s.setRuntime(&p)
}

func (s *ProfileServiceImpl) setRuntime(p *catalog.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runtime = p
}

// ProfileOrDemo returns the runtime profile when present, else the demo
// profile. Never a partial merge of the two.
func (s *ProfileServiceImpl) ProfileOrDemo() catalog.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.runtime != nil {
		return *s.runtime
	}
	return catalog.DemoProfile()
}

// ReferralLink derives the user's referral link. The backend referral code
// is the priority source; the full referralLink field is the fallback.
func (s *ProfileServiceImpl) ReferralLink(p catalog.Profile) string {
	if code := strings.TrimSpace(p.RefCode); code != "" {
		return referralBotURL + code
	}
	return p.ReferralLink
}

var ruMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// FormatRegisteredAt renders a profile date in the ru-RU long form
// ("3 ноября 2025 г."). Unparseable input is returned verbatim.
func FormatRegisteredAt(value string) string {
	var t time.Time
	var err error
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err = time.Parse(layout, value); err == nil {
			return fmt.Sprintf("%d %s %d г.", t.Day(), ruMonths[t.Month()-1], t.Year())
		}
	}
	return value
}
