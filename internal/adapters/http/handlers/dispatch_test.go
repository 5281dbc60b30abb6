package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/longregen/roomgate/internal/adapters/http/dto"
	"github.com/longregen/roomgate/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reservedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestDispatchHandler_List(t *testing.T) {
	confirmed := models.NewReservation("alpha", 1, reservedAt).Confirm("AD_1", reservedAt.Add(time.Second))
	pending := models.NewReservation("beta", 2, reservedAt)

	dispatcher := new(MockDispatcher)
	dispatcher.On("Snapshot").Return([]models.DispatchRecord{confirmed, pending})

	rr := httptest.NewRecorder()
	NewDispatchHandler(dispatcher, time.Hour).List(rr, httptest.NewRequest("GET", "/api/v1/dispatches", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var response dto.DispatchListResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	require.Equal(t, 2, response.Total)

	assert.Equal(t, "alpha", response.Dispatches[0].Room)
	assert.Equal(t, "confirmed", response.Dispatches[0].State)
	assert.Equal(t, "AD_1", response.Dispatches[0].DispatchID)
	require.NotNil(t, response.Dispatches[0].ExpiresAt)
	assert.True(t, response.Dispatches[0].ExpiresAt.Equal(reservedAt.Add(time.Hour+time.Second)))

	assert.Equal(t, "reserved", response.Dispatches[1].State)
	assert.Nil(t, response.Dispatches[1].ExpiresAt)
}

func TestDispatchHandler_List_Empty(t *testing.T) {
	dispatcher := new(MockDispatcher)
	dispatcher.On("Snapshot").Return(nil)

	rr := httptest.NewRecorder()
	NewDispatchHandler(dispatcher, time.Hour).List(rr, httptest.NewRequest("GET", "/api/v1/dispatches", nil))

	assert.JSONEq(t, `{"dispatches":[],"total":0}`, rr.Body.String())
}

func TestDispatchHandler_Get(t *testing.T) {
	dispatcher := new(MockDispatcher)
	dispatcher.On("Status", "alpha").Return(models.NewReservation("alpha", 1, reservedAt), true)
	dispatcher.On("Status", "ghost").Return(models.DispatchRecord{}, false)
	handler := NewDispatchHandler(dispatcher, time.Hour)

	t.Run("found", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest("GET", "/api/v1/dispatches/alpha", nil), "room", "alpha")
		rr := httptest.NewRecorder()
		handler.Get(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var response dto.DispatchResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
		assert.Equal(t, "alpha", response.Room)
		assert.Equal(t, "reserved", response.State)
	})

	t.Run("not found", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest("GET", "/api/v1/dispatches/ghost", nil), "room", "ghost")
		rr := httptest.NewRecorder()
		handler.Get(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		var response dto.ErrorResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
		assert.Equal(t, "not_found", response.Error)
	})

	t.Run("blank room", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest("GET", "/api/v1/dispatches/", nil), "room", " ")
		rr := httptest.NewRecorder()
		handler.Get(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDispatchHandler_Delete(t *testing.T) {
	dispatcher := new(MockDispatcher)
	dispatcher.On("Forget", "alpha").Return(true)
	dispatcher.On("Forget", "ghost").Return(false)
	handler := NewDispatchHandler(dispatcher, time.Hour)

	req := withURLParam(httptest.NewRequest("DELETE", "/api/v1/dispatches/alpha", nil), "room", "alpha")
	rr := httptest.NewRecorder()
	handler.Delete(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	req = withURLParam(httptest.NewRequest("DELETE", "/api/v1/dispatches/ghost", nil), "room", "ghost")
	rr = httptest.NewRecorder()
	handler.Delete(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	dispatcher.AssertExpectations(t)
}
