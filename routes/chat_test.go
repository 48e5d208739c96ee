package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestChatQueryGreeting(t *testing.T) {
	app := newTestApp(t, nil)

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/chat/query",
		`{"session_id":"s1","query":"hello there"}`))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "s1", body["session_id"])
	assert.Equal(t, "hello there", body["query"])
	assert.Contains(t, body["response"], "Hello!")
	assert.Equal(t, false, body["booking_detected"])
}

func TestChatQueryBookingDetected(t *testing.T) {
	app := newTestApp(t, nil)

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/chat/query",
		`{"session_id":"s1","query":"I want to book an interview"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["booking_detected"])
	assert.Contains(t, body["response"], "book an interview")
}

func TestChatQueryMissingSessionID(t *testing.T) {
	app := newTestApp(t, nil)

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/chat/query",
		`{"query":"hello"}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request data", decodeBody(t, rec)["message"])
}

func TestChatQueryEmptyQuery(t *testing.T) {
	app := newTestApp(t, nil)

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/chat/query",
		`{"session_id":"s1","query":""}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatQueryMalformedJSON(t *testing.T) {
	app := newTestApp(t, nil)

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/chat/query", `{"session_id":`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatHistoryAfterQueries(t *testing.T) {
	app := newTestApp(t, nil)

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/chat/query",
		`{"session_id":"s1","query":"hello there"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/history/s1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "s1", body["session_id"])
	history := body["history"].([]any)
	require.Len(t, history, 2)
	first := history[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "hello there", first["content"])
	assert.Equal(t, "assistant", history[1].(map[string]any)["role"])
}

func TestChatHistoryUnknownSession(t *testing.T) {
	app := newTestApp(t, nil)

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/history/nope", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Empty(t, body["history"])
}

func TestBookInterview(t *testing.T) {
	app := newTestApp(t, nil)

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/chat/book-interview",
		`{"name":"Ada","email":"ada@example.com","interview_date":"2026-09-15","interview_time":"14:30"}`))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Interview booked successfully", body["message"])
	booking := body["booking"].(map[string]any)
	assert.Equal(t, "Ada", booking["name"])
	assert.Equal(t, "ada@example.com", booking["email"])
	assert.NotZero(t, booking["id"])
}

func TestBookInterviewInvalidEmail(t *testing.T) {
	app := newTestApp(t, nil)

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/chat/book-interview",
		`{"name":"Ada","email":"not-an-email","interview_date":"2026-09-15","interview_time":"14:30"}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid booking data", decodeBody(t, rec)["message"])
}

func TestBookInterviewMissingFields(t *testing.T) {
	app := newTestApp(t, nil)

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/chat/book-interview",
		`{"name":"Ada"}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
