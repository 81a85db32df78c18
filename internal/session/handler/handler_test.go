package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/internal/model"
	"github.com/warekit/rfid-scan-service/internal/session"
	"github.com/warekit/rfid-scan-service/internal/session/dto"
)

type stubUseCase struct {
	startErr      error
	handle        *dto.SessionHandle
	active        *model.ScanSession
	stoppedWith   uint64
	stoppedTarget string
	stopResult    bool
}

func (u *stubUseCase) Start(ctx context.Context, mode model.SessionMode, targetID, lineID string) (*dto.SessionHandle, error) {
	if u.startErr != nil {
		return nil, u.startErr
	}
	return u.handle, nil
}

func (u *stubUseCase) Stop(ctx context.Context, version uint64) bool {
	u.stoppedWith = version
	return u.stopResult
}

func (u *stubUseCase) StopTarget(ctx context.Context, targetID string) bool {
	u.stoppedTarget = targetID
	return u.stopResult
}

func (u *stubUseCase) Active() *model.ScanSession { return u.active }

func (u *stubUseCase) RunSweeper(ctx context.Context) {}

func newTestRouter(uc session.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSessionHandler(uc, zap.NewNop())

	r := gin.New()
	r.POST("/scanrfid/:poId/start/:itemId", h.StartReceive)
	r.POST("/scanrfid/:poId/stop", h.StopReceive)
	r.POST("/sales/:id/start-sell", h.StartSell)
	r.POST("/sales/stop-sell", h.StopSell)
	r.GET("/sessions/active", h.Active)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStartReceive_ReturnsHandle(t *testing.T) {
	uc := &stubUseCase{handle: &dto.SessionHandle{SessionID: "sess-1", Version: 7}}
	r := newTestRouter(uc)

	w := doRequest(r, http.MethodPost, "/scanrfid/po-1/start/line-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var handle dto.SessionHandle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &handle))
	assert.Equal(t, "sess-1", handle.SessionID)
	assert.Equal(t, uint64(7), handle.Version)
}

func TestStartReceive_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"slot busy", session.ErrSessionBusy, http.StatusConflict},
		{"line not eligible", session.ErrTargetNotEligible, http.StatusUnprocessableEntity},
		{"order missing", session.ErrTargetNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&stubUseCase{startErr: tc.err})
			w := doRequest(r, http.MethodPost, "/scanrfid/po-1/start/line-1", "")
			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestStopReceive_VersionedAndTargeted(t *testing.T) {
	uc := &stubUseCase{stopResult: true}
	r := newTestRouter(uc)

	// With a version the stop is matched against the exact session.
	w := doRequest(r, http.MethodPost, "/scanrfid/po-1/stop", `{"version":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint64(3), uc.stoppedWith)
	assert.JSONEq(t, `{"stopped":true}`, w.Body.String())

	// Without one it falls back to whatever session targets the order.
	w = doRequest(r, http.MethodPost, "/scanrfid/po-2/stop", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "po-2", uc.stoppedTarget)
}

func TestStopReceive_StaleVersionIsQuietNoOp(t *testing.T) {
	uc := &stubUseCase{stopResult: false}
	r := newTestRouter(uc)

	w := doRequest(r, http.MethodPost, "/scanrfid/po-1/stop", `{"version":99}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"stopped":false}`, w.Body.String())
}

func TestStopSell_UsesActiveSellSession(t *testing.T) {
	uc := &stubUseCase{
		stopResult: true,
		active:     &model.ScanSession{ID: "sess-1", Mode: model.ModeSell, Version: 5},
	}
	r := newTestRouter(uc)

	w := doRequest(r, http.MethodPost, "/sales/stop-sell", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint64(5), uc.stoppedWith)
	assert.JSONEq(t, `{"stopped":true}`, w.Body.String())
}

func TestStopSell_IgnoresReceiveSession(t *testing.T) {
	uc := &stubUseCase{
		stopResult: true,
		active:     &model.ScanSession{ID: "sess-1", Mode: model.ModeReceive, Version: 5},
	}
	r := newTestRouter(uc)

	w := doRequest(r, http.MethodPost, "/sales/stop-sell", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint64(0), uc.stoppedWith)
	assert.JSONEq(t, `{"stopped":false}`, w.Body.String())
}

func TestActive(t *testing.T) {
	r := newTestRouter(&stubUseCase{})
	w := doRequest(r, http.MethodGet, "/sessions/active", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"active":false}`, w.Body.String())

	r = newTestRouter(&stubUseCase{active: &model.ScanSession{ID: "sess-1", Mode: model.ModeSell}})
	w = doRequest(r, http.MethodGet, "/sessions/active", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Active  bool `json:"active"`
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Active)
	assert.Equal(t, "sess-1", body.Session.ID)
}
