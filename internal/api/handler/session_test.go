package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fabrica-vision/presenca/internal/attendance"
	"github.com/fabrica-vision/presenca/internal/domain"
	"github.com/fabrica-vision/presenca/internal/metrics"
	"github.com/fabrica-vision/presenca/internal/provider"
	"github.com/fabrica-vision/presenca/internal/recognizer"
	"github.com/fabrica-vision/presenca/internal/session"
)

type stubLister struct{}

func (stubLister) ListWithEmbeddings(context.Context) ([]domain.Student, error) {
	return []domain.Student{}, nil
}

type stubRecorder struct{}

func (stubRecorder) Insert(context.Context, *domain.AttendanceRecord) error { return nil }
func (stubRecorder) Has(context.Context, string, string) (bool, error)      { return false, nil }

type stubEncoder struct{}

func (stubEncoder) DetectAndEncode(context.Context, []byte) ([]provider.EncodedFace, error) {
	return []provider.EncodedFace{}, nil
}

var _ provider.FaceEncoder = stubEncoder{}

func newSessionFixture() (*session.Controller, *session.FrameBuffer) {
	logger := testLogger()
	cache := recognizer.NewKnownFaceCache(stubLister{}, time.Hour, logger)
	guard := attendance.NewGuard(stubRecorder{}, logger)
	ctrl := session.NewController(cache, recognizer.NewMatcher(0.5), stubEncoder{}, guard, metrics.New(), logger)
	return ctrl, session.NewFrameBuffer()
}

type recordingHub struct {
	mock.Mock
}

func (h *recordingHub) BroadcastJSON(event string, payload any) {
	h.Called(event, payload)
}

func TestSessionHandler_StartStop(t *testing.T) {
	ctrl, buffer := newSessionFixture()
	hub := new(recordingHub)
	hub.On("BroadcastJSON", "session.started", mock.Anything).Return()
	hub.On("BroadcastJSON", "session.ended", mock.Anything).Return()

	h := NewSessionHandler(ctrl, buffer, hub, nil, testLogger())

	app := newTestApp()
	app.Post("/v1/sessions", h.Start)
	app.Delete("/v1/sessions/current", h.Stop)
	app.Get("/v1/sessions/current", h.Status)

	// start
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/v1/sessions", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// double start conflicts
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/v1/sessions", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// status shows active
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/v1/sessions/current", nil))
	require.NoError(t, err)
	var status session.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.True(t, status.Active)

	// stop returns summary
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/v1/sessions/current", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// stop again is a conflict
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/v1/sessions/current", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	hub.AssertCalled(t, "BroadcastJSON", "session.started", mock.Anything)
	hub.AssertCalled(t, "BroadcastJSON", "session.ended", mock.Anything)
}

func TestSessionHandler_SubmitFrame(t *testing.T) {
	ctrl, buffer := newSessionFixture()
	h := NewSessionHandler(ctrl, buffer, nil, nil, testLogger())

	app := newTestApp()
	app.Post("/v1/sessions/current/frames", h.SubmitFrame)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="image"; filename="frame.jpg"`},
		"Content-Type":        {"image/jpeg"},
	})
	_, _ = part.Write([]byte("frame-bytes"))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/current/frames", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	frame, ok := buffer.Take()
	assert.True(t, ok)
	assert.Equal(t, []byte("frame-bytes"), frame)
}
