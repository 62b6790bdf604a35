package services

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	database.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		database.Redis.Close()
		database.Redis = nil
	})
	return mr
}

func TestDrafts_RoundTrip(t *testing.T) {
	mr := setupTestRedis(t)

	draft := json.RawMessage(`{"title":"Two Sum","difficulty":"easy"}`)
	require.NoError(t, SaveDraft("admin1", DraftFormTask, draft))
	assert.Equal(t, DraftTTL, mr.TTL("draft:admin1:task"))

	got, err := LoadDraft("admin1", DraftFormTask)
	require.NoError(t, err)
	assert.JSONEq(t, string(draft), string(got))

	// drafts are per user and per form
	_, err = LoadDraft("admin2", DraftFormTask)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	_, err = LoadDraft("admin1", DraftFormHackathon)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	require.NoError(t, ClearDraft("admin1", DraftFormTask))
	require.NoError(t, ClearDraft("admin1", DraftFormTask))
	_, err = LoadDraft("admin1", DraftFormTask)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDrafts_Validation(t *testing.T) {
	setupTestRedis(t)

	assert.ErrorIs(t, SaveDraft("u", "profile", json.RawMessage(`{}`)), ErrDraftForm)
	assert.ErrorIs(t, SaveDraft("u", DraftFormTask, json.RawMessage(`[1,2]`)), ErrDraftInvalid)
	assert.ErrorIs(t, SaveDraft("u", DraftFormTask, json.RawMessage(`not json`)), ErrDraftInvalid)

	big := `{"description":"` + strings.Repeat("x", MaxDraftBytes) + `"}`
	assert.ErrorIs(t, SaveDraft("u", DraftFormTask, json.RawMessage(big)), ErrDraftTooLarge)

	_, err := LoadDraft("u", "profile")
	assert.ErrorIs(t, err, ErrDraftForm)
}

func TestDrafts_NoRedis(t *testing.T) {
	database.Redis = nil

	assert.ErrorIs(t, SaveDraft("u", DraftFormTask, json.RawMessage(`{}`)), ErrDraftsUnavailable)
	_, err := LoadDraft("u", DraftFormTask)
	assert.ErrorIs(t, err, ErrDraftsUnavailable)
	assert.NoError(t, ClearDraft("u", DraftFormTask))
}
