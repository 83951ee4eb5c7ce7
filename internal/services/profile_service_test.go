package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"promptdeck/internal/catalog"
)

func TestLoadProfile_NoSessionUsesDemo(t *testing.T) {
	svc := NewProfileService(&fakeEdge{session: false}, testLogger())
	svc.LoadProfile(context.Background())

	p := svc.ProfileOrDemo()
	assert.Equal(t, catalog.DemoProfile(), p)
}

func TestLoadProfile_FetchFailureUsesDemo(t *testing.T) {
	svc := NewProfileService(&fakeEdge{session: true, profileErr: errors.New("HTTP 401")}, testLogger())
	svc.LoadProfile(context.Background())

	assert.Equal(t, catalog.DemoProfile(), svc.ProfileOrDemo())
}

func TestLoadProfile_RuntimeProfileWins(t *testing.T) {
	remote := catalog.Profile{UserID: 99, TokenBalance: 7, RefCode: "zzz"}
	svc := NewProfileService(&fakeEdge{session: true, profile: remote}, testLogger())
	svc.LoadProfile(context.Background())

	p := svc.ProfileOrDemo()
	assert.Equal(t, remote, p, "runtime profile is used whole, never merged")
}

func TestLoadProfile_ReloadClearsStaleRuntime(t *testing.T) {
	remote := &fakeEdge{session: true, profile: catalog.Profile{UserID: 99}}
	svc := NewProfileService(remote, testLogger())
	svc.LoadProfile(context.Background())
	assert.Equal(t, int64(99), svc.ProfileOrDemo().UserID)

	remote.profileErr = errors.New("HTTP 500")
	svc.LoadProfile(context.Background())
	assert.Equal(t, catalog.DemoProfile(), svc.ProfileOrDemo())
}

func TestReferralLink(t *testing.T) {
	svc := NewProfileService(&fakeEdge{}, testLogger())

	tests := []struct {
		name    string
		profile catalog.Profile
		want    string
	}{
		{
			"ref_code_is_priority_source",
			catalog.Profile{RefCode: "abc", ReferralLink: "https://t.me/other"},
			"https://t.me/neurokartochkaBot?start=ref_abc",
		},
		{
			"whitespace_code_falls_back",
			catalog.Profile{RefCode: "   ", ReferralLink: "https://t.me/other"},
			"https://t.me/other",
		},
		{
			"full_link_fallback",
			catalog.Profile{ReferralLink: "https://t.me/neurophoto_bot?start=ref_224753455"},
			"https://t.me/neurophoto_bot?start=ref_224753455",
		},
		{"nothing", catalog.Profile{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.ReferralLink(tt.profile))
		})
	}
}

func TestFormatRegisteredAt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"date_only", "2025-11-03", "3 ноября 2025 г."},
		{"rfc3339", "2025-01-15T10:30:00Z", "15 января 2025 г."},
		{"unparseable_returned_verbatim", "когда-то", "когда-то"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRegisteredAt(tt.value))
		})
	}
}
