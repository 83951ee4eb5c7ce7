package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// The edge functions are not consistent about response shapes: the same
// logical payload may arrive wrapped ({ok, profile: {...}}), wrapped in a
// list ({ok, prompts: [...]}), as a bare object, or as a bare list. The
// normalizers below collapse all accepted shapes into a canonical record or
// list, returning ok=false for anything unrecognized. They never error on a
// shape mismatch; "absent" is the only failure mode.

// NormalizeProfile extracts a single profile record from a decoded payload.
// Accepted shapes, in order: JSON string (re-decoded), bare list (first
// element), wrapper object with a "profile" or "data" field (which may
// itself be a list), bare object.
func NormalizeProfile(payload any) (map[string]any, bool) {
	payload, ok := reparse(payload)
	if !ok {
		return nil, false
	}
	if list, ok := payload.([]any); ok {
		return firstRecord(list)
	}
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	inner := m
	if v, ok := nested(m, "profile", "data"); ok {
		if list, ok := v.([]any); ok {
			return firstRecord(list)
		}
		vm, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		inner = vm
	}
	return inner, true
}

// NormalizePrompts extracts a list of prompt records from a decoded payload.
// A bare list is returned as-is; otherwise a "prompts" or "data" field must
// hold a list. Anything else is absent; callers must distinguish absent
// from an empty list and only replace demo data on a non-empty result.
func NormalizePrompts(payload any) ([]any, bool) {
	payload, ok := reparse(payload)
	if !ok {
		return nil, false
	}
	if list, ok := payload.([]any); ok {
		return list, true
	}
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := nested(m, "prompts", "data")
	if !ok {
		return nil, false
	}
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	return list, true
}

// DecodePrompt coerces one raw prompt record into a Prompt. Field alias
// precedence (first present wins):
//
//	promptText:  promptText, prompt_text
//	image:       image, image_url
//	copies:      copies, copies_count
//	favorites:   favorites, favorites_count
//	tags:        tags (list), categories (comma-separated string)
//
// category defaults to CategoryAll; numeric fields default to 0 on
// missing or invalid values.
func DecodePrompt(raw any) (Prompt, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Prompt{}, false
	}
	p := Prompt{
		ID:          intField(m, "id"),
		Title:       stringField(m, "title"),
		Description: stringField(m, "description"),
		PromptText:  stringField(m, "promptText", "prompt_text"),
		Image:       stringField(m, "image", "image_url"),
		Category:    stringField(m, "category"),
		Copies:      intField(m, "copies", "copies_count"),
		Favorites:   intField(m, "favorites", "favorites_count"),
		Tags:        tagsField(m),
		IsFavorite:  boolField(m, "isFavorite"),
	}
	if p.Category == "" {
		p.Category = CategoryAll
	}
	return p, true
}

// DecodePrompts maps a normalized list through DecodePrompt, dropping
// entries that are not objects.
func DecodePrompts(list []any) []*Prompt {
	out := make([]*Prompt, 0, len(list))
	for _, raw := range list {
		if p, ok := DecodePrompt(raw); ok {
			cp := p
			out = append(out, &cp)
		}
	}
	return out
}

// DecodeProfile coerces a normalized profile record into a Profile. The
// backend speaks snake_case, the demo data camelCase; snake_case wins when
// both spellings are present:
//
//	tokenBalance:  balance, tokenBalance
//	bonusBalance:  bonus_balance, bonusBalance
//	earnedBonuses: bonus_total, earnedBonuses
//	referrals:     referrals_count, referrals
//	registeredAt:  created_at, registeredAt
//	generations:   total_generations/done_count/not_finished_count/
//	               cancel_count, else the nested generations object
//	successRate:   success_rate, else derived from success/total
func DecodeProfile(m map[string]any) Profile {
	gen, _ := m["generations"].(map[string]any)
	p := Profile{
		UserID:        int64(intField(m, "userId", "user_id")),
		RegisteredAt:  stringField(m, "created_at", "registeredAt"),
		TokenBalance:  intField(m, "balance", "tokenBalance"),
		BonusBalance:  intField(m, "bonus_balance", "bonusBalance"),
		EarnedBonuses: intField(m, "bonus_total", "earnedBonuses"),
		Referrals:     intField(m, "referrals_count", "referrals"),
		RefCode:       stringField(m, "ref_code"),
		ReferralLink:  stringField(m, "referralLink"),
	}
	p.Generations = GenerationStats{
		Total:      intFieldOr(m, gen, "total_generations", "total"),
		Success:    intFieldOr(m, gen, "done_count", "success"),
		Unfinished: intFieldOr(m, gen, "not_finished_count", "unfinished"),
		Canceled:   intFieldOr(m, gen, "cancel_count", "canceled"),
	}
	if _, ok := m["success_rate"]; ok {
		p.SuccessRate = intField(m, "success_rate")
	} else if p.Generations.Total > 0 {
		p.SuccessRate = int(math.Round(float64(p.Generations.Success) / float64(p.Generations.Total) * 100))
	}
	return p
}

// reparse re-decodes a payload that arrived as a JSON string and rejects
// nil. Any other value passes through untouched.
func reparse(payload any) (any, bool) {
	if payload == nil {
		return nil, false
	}
	s, ok := payload.(string)
	if !ok {
		return payload, true
	}
	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return nil, false
	}
	if decoded == nil {
		return nil, false
	}
	return decoded, true
}

func nested(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func firstRecord(list []any) (map[string]any, bool) {
	if len(list) == 0 {
		return nil, false
	}
	m, ok := list[0].(map[string]any)
	return m, ok
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

func intField(m map[string]any, keys ...string) int {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if n, ok := asInt(v); ok {
			return n
		}
	}
	return 0
}

// intFieldOr prefers a flat snake_case key on the record and falls back to
// a camelCase key on the nested generations object.
func intFieldOr(m, nested map[string]any, flatKey, nestedKey string) int {
	if v, ok := m[flatKey]; ok && v != nil {
		if n, ok := asInt(v); ok {
			return n
		}
	}
	if nested != nil {
		return intField(nested, nestedKey)
	}
	return 0
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return int(f), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

func tagsField(m map[string]any) []string {
	if v, ok := m["tags"].([]any); ok {
		tags := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok && s != "" {
				tags = append(tags, s)
			}
		}
		return tags
	}
	if s, ok := m["categories"].(string); ok && s != "" {
		parts := strings.Split(s, ",")
		tags := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}
		return tags
	}
	return []string{}
}
