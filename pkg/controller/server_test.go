package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Seann-Moser/ledpin/pkg/command"
	"github.com/Seann-Moser/ledpin/pkg/led"
	"github.com/fortytw2/leaktest"
	"github.com/kelindar/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleList(t *testing.T) {
	c, _ := newTestController(t)
	rec := do(t, c.Handler(), http.MethodGet, "/api/leds", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
	assert.Equal(t, "green", got[0].Name)
}

func TestHandleSet(t *testing.T) {
	c, _ := newTestController(t)
	h := c.Handler()

	rec := do(t, h, http.MethodPost, "/api/leds/red/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var st Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.True(t, st.On)

	rec = do(t, h, http.MethodGet, "/api/leds/red", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "active", st.State)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/leds/blue/on", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/leds/blue", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/leds/red/blink", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/api/leds/red/on", "").Code)
}

func TestHandleCommand(t *testing.T) {
	c, _ := newTestController(t)
	h := c.Handler()

	rec := do(t, h, http.MethodPost, "/api/command", "LED_RED:0\nLED_GREEN:1\n")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.False(t, got[0].On)
	assert.True(t, got[1].On)

	rec = do(t, h, http.MethodPost, "/api/command", "LED_RED:9")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad value")
}

func TestFrontendAndMetrics(t *testing.T) {
	c, _ := newTestController(t)
	h := c.Handler()

	rec := do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/leds")

	metricsBody := func() string {
		rec := do(t, h, http.MethodGet, "/metrics", "")
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.String()
	}
	assert.Contains(t, metricsBody(), `ledpin_led_state{led="red"} 0`)

	do(t, h, http.MethodPost, "/api/leds/red/on", "")
	require.Eventually(t, func() bool {
		body := metricsBody()
		return strings.Contains(body, `ledpin_led_state{led="red"} 1`) &&
			strings.Contains(body, `ledpin_led_writes_total{action="on",led="red"} 1`)
	}, time.Second, 5*time.Millisecond)

	// Metrics follow the event bus, not the HTTP handler.
	event.Publish(c.events, StateChanged{Name: "green", Pin: 27, Action: command.Toggle, State: led.Active})
	require.Eventually(t, func() bool {
		body := metricsBody()
		return strings.Contains(body, `ledpin_led_state{led="green"} 1`) &&
			strings.Contains(body, `ledpin_led_writes_total{action="toggle",led="green"} 1`)
	}, time.Second, 5*time.Millisecond)
}

func TestStartServer(t *testing.T) {
	c, _ := newTestController(t)
	defer leaktest.Check(t)()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.NoError(t, c.StartServer(ctx, "127.0.0.1:0"))

	assert.Error(t, c.StartServer(context.Background(), "127.0.0.1:-1"))
}
