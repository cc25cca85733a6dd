package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertSessionRequestDefaultsOmittedFields(t *testing.T) {
	// originalMessage is NOT NULL in the store; an omitted field must
	// come through as the empty string, never as a SQL NULL.
	payload := []byte(`{"telegramUserId": 42, "activeTicketId": 5}`)

	var req UpsertSessionRequest
	require.NoError(t, json.Unmarshal(payload, &req))

	session := req.ToDomain()
	assert.Equal(t, int64(42), session.UserID)
	require.NotNil(t, session.ActiveTicketID)
	assert.Equal(t, int64(5), *session.ActiveTicketID)
	assert.Equal(t, "", session.OriginalMessage)
	assert.False(t, session.AwaitingClarification)
	assert.Nil(t, session.PendingMediaType)
}

func TestUpsertSessionRequestRoundTrip(t *testing.T) {
	payload := []byte(`{
		"telegramUserId": 42,
		"awaitingClarification": true,
		"originalMessage": "не работает приложение",
		"pendingMediaType": "photo",
		"pendingMediaFileId": "f1"
	}`)

	var req UpsertSessionRequest
	require.NoError(t, json.Unmarshal(payload, &req))

	session := req.ToDomain()
	assert.True(t, session.AwaitingClarification)
	assert.Equal(t, "не работает приложение", session.OriginalMessage)
	require.NotNil(t, session.PendingMediaType)
	assert.Equal(t, "photo", *session.PendingMediaType)

	resp := NewSessionResponse(session)
	assert.Equal(t, int64(42), resp.TelegramUserID)
	assert.Equal(t, "не работает приложение", resp.OriginalMessage)
}
