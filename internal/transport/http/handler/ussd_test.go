package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sikacredit/ussd-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockDialogSvc struct{ mock.Mock }

func (m *mockDialogSvc) Handle(ctx context.Context, req domain.USSDRequest) domain.USSDResponse {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.USSDResponse)
}

func TestUSSDCallback_InvalidBody(t *testing.T) {
	h := NewUSSDHandler(&mockDialogSvc{})

	req := httptest.NewRequest(http.MethodPost, "/v1/ussd", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	h.Callback(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUSSDCallback_MissingRequiredFields(t *testing.T) {
	h := NewUSSDHandler(&mockDialogSvc{})

	body, _ := json.Marshal(domain.USSDRequest{SessionID: "s1"}) // no msisdn
	req := httptest.NewRequest(http.MethodPost, "/v1/ussd", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Callback(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "MSISDN")
}

func TestUSSDCallback_HappyPath(t *testing.T) {
	svc := &mockDialogSvc{}
	inbound := domain.USSDRequest{
		SessionID:  "s1",
		UserID:     "gw",
		NewSession: true,
		MSISDN:     "0551234567",
	}
	svc.On("Handle", mock.Anything, inbound).Return(domain.USSDResponse{
		SessionID:       "s1",
		UserID:          "gw",
		Message:         "Welcome back, Kwame Mensah.",
		ContinueSession: true,
		MSISDN:          "0551234567",
	})

	h := NewUSSDHandler(svc)
	body, _ := json.Marshal(inbound)
	req := httptest.NewRequest(http.MethodPost, "/v1/ussd", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Callback(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp domain.USSDResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "s1", resp.SessionID)
	assert.True(t, resp.ContinueSession)
	assert.Contains(t, resp.Message, "Welcome back")
	svc.AssertExpectations(t)
}
