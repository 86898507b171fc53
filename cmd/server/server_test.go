package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collections-probe/internal/models"
	"collections-probe/internal/services/database"
)

type fakeInvoker struct {
	result string
	err    error
	state  database.State
	events []json.RawMessage
}

func (f *fakeInvoker) Handle(ctx context.Context, event json.RawMessage) (string, error) {
	f.events = append(f.events, event)
	return f.result, f.err
}

func (f *fakeInvoker) State() database.State {
	return f.state
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHealthHandler(t *testing.T) {
	server := NewServer(&fakeInvoker{state: database.StateConnected}, "dev")

	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "CONNECTED", data["connection"])
	assert.Equal(t, "dev", data["stage"])
}

func TestInvokeHandler_Success(t *testing.T) {
	invoker := &fakeInvoker{result: "SUCCESS"}
	server := NewServer(invoker, "dev")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/invoke", strings.NewReader(`{"key":"value"}`))
	server.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "SUCCESS", resp.Data)
	require.Len(t, invoker.events, 1)
	assert.JSONEq(t, `{"key":"value"}`, string(invoker.events[0]))
}

func TestInvokeHandler_Failure(t *testing.T) {
	invoker := &fakeInvoker{err: models.NewConnectionError(errors.New("timed out"))}
	server := NewServer(invoker, "dev")

	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/invoke", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "database connection failed")
}

func TestInvokeHandler_InvalidJSON(t *testing.T) {
	invoker := &fakeInvoker{result: "SUCCESS"}
	server := NewServer(invoker, "dev")

	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/invoke", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, invoker.events)
}

func TestMethodNotAllowed(t *testing.T) {
	server := NewServer(&fakeInvoker{}, "dev")

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/health"},
		{http.MethodGet, "/invoke"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			server.Routes().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}
