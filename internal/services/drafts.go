package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/redis/go-redis/v9"
)

const (
	DraftTTL      = 7 * 24 * time.Hour
	MaxDraftBytes = 256 * 1024
)

var (
	ErrDraftNotFound     = errors.New("draft not found")
	ErrDraftForm         = errors.New("unknown draft form")
	ErrDraftTooLarge     = errors.New("draft too large")
	ErrDraftInvalid      = errors.New("draft must be a JSON object")
	ErrDraftsUnavailable = errors.New("draft storage unavailable")
)

// Admin forms that keep server-side drafts.
const (
	DraftFormTask      = "task"
	DraftFormHackathon = "hackathon"
)

func draftKey(userID, form string) string {
	return fmt.Sprintf("draft:%s:%s", userID, form)
}

func validDraftForm(form string) bool {
	return form == DraftFormTask || form == DraftFormHackathon
}

// SaveDraft overwrites the user's draft for form and refreshes its TTL.
func SaveDraft(userID, form string, data json.RawMessage) error {
	if !validDraftForm(form) {
		return ErrDraftForm
	}
	if len(data) > MaxDraftBytes {
		return ErrDraftTooLarge
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return ErrDraftInvalid
	}
	if database.Redis == nil {
		return ErrDraftsUnavailable
	}
	return database.Redis.Set(database.Ctx, draftKey(userID, form), []byte(data), DraftTTL).Err()
}

func LoadDraft(userID, form string) (json.RawMessage, error) {
	if !validDraftForm(form) {
		return nil, ErrDraftForm
	}
	if database.Redis == nil {
		return nil, ErrDraftsUnavailable
	}
	raw, err := database.Redis.Get(database.Ctx, draftKey(userID, form)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// ClearDraft is idempotent.
func ClearDraft(userID, form string) error {
	if !validDraftForm(form) {
		return ErrDraftForm
	}
	if database.Redis == nil {
		return nil
	}
	return database.Redis.Del(database.Ctx, draftKey(userID, form)).Err()
}
