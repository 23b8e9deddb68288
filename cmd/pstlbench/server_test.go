package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(RunResult), args.Error(1)
}

func postRun(t *testing.T, h http.Handler, req any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := cbor.Marshal(req)
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader(data))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	return rr
}

func TestServer_Run(t *testing.T) {
	req := RunRequest{Algo: "sort", N: 100, Policy: "par", Repeat: 2}
	want := RunResult{
		Algo:      "sort",
		Policy:    "par",
		N:         100,
		Durations: []time.Duration{3 * time.Millisecond, 2 * time.Millisecond},
		Best:      2 * time.Millisecond,
		Mean:      2500 * time.Microsecond,
		Checksum:  42,
	}

	mr := &mockRunner{}
	mr.On("Run", mock.Anything, req).Return(want, nil)
	h := NewServer(mr, 10).Handler()

	rr := postRun(t, h, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/cbor", rr.Header().Get("Content-Type"))

	var got RunResult
	require.NoError(t, cbor.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, want, got)
	mr.AssertExpectations(t)
}

func TestServer_RunErrors(t *testing.T) {
	mr := &mockRunner{}
	mr.On("Run", mock.Anything, RunRequest{Algo: "nope", N: 1}).
		Return(RunResult{}, fmt.Errorf("%w %q", errUnknownAlgo, "nope"))
	mr.On("Run", mock.Anything, RunRequest{Algo: "sort", N: 1, Policy: "device"}).
		Return(RunResult{}, fmt.Errorf("sort under device: boom"))
	h := NewServer(mr, 10).Handler()

	rr := postRun(t, h, RunRequest{Algo: "nope", N: 1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = postRun(t, h, RunRequest{Algo: "sort", N: 1, Policy: "device"})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "boom")
	mr.AssertExpectations(t)

	r := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader([]byte{0xff, 0x00}))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	r = httptest.NewRequest(http.MethodGet, "/run", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestServer_AdmissionControl(t *testing.T) {
	mr := &mockRunner{}
	mr.On("Run", mock.Anything, mock.Anything).Return(RunResult{}, nil)
	srv := NewServer(mr, 10)

	// A request that fits the whole capacity runs alone.
	rr := postRun(t, srv.Handler(), RunRequest{Algo: "sort", N: 10})
	assert.Equal(t, http.StatusOK, rr.Code)

	// Anything larger never reaches the runner.
	rr = postRun(t, srv.Handler(), RunRequest{Algo: "sort", N: 1 << 20})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Contains(t, rr.Body.String(), "exceeds server capacity")
	mr.AssertNumberOfCalls(t, "Run", 1)

	// With the capacity held elsewhere the request is turned away once its
	// context ends.
	require.NoError(t, srv.sem.Acquire(context.Background(), 10))
	defer srv.sem.Release(10)
	data, err := cbor.Marshal(RunRequest{Algo: "sort", N: 5})
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	r := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader(data)).WithContext(ctx)
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, r)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	mr.AssertNumberOfCalls(t, "Run", 1)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	h := NewServer(&mockRunner{}, 1).Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pstlbench_request_duration_seconds")
}
