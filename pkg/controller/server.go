package controller

import (
	"bufio"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Seann-Moser/ledpin/pkg/command"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed index.html
var index []byte

// maxCommandBody caps POST /api/command bodies.
const maxCommandBody = 64 << 10

// Handler returns the HTTP API:
//
//	GET  /                          control page
//	GET  /api/leds                  all LEDs
//	GET  /api/leds/{name}           one LED
//	POST /api/leds/{name}/{action}  on, off or toggle
//	POST /api/command               protocol lines, one per line
//	GET  /metrics                   Prometheus metrics
func (c *Controller) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", serveFrontend)
	mux.HandleFunc("GET /api/leds", c.handleList)
	mux.HandleFunc("GET /api/leds/{name}", c.handleGet)
	mux.HandleFunc("POST /api/leds/{name}/{action}", c.handleSet)
	mux.HandleFunc("POST /api/command", c.handleCommand)
	mux.Handle("GET /metrics", promhttp.HandlerFor(c.metrics.registry, promhttp.HandlerOpts{}))
	return mux
}

// StartServer serves the API on addr until ctx is cancelled.
func (c *Controller) StartServer(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           c.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		c.logger.Info("server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func serveFrontend(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(index)
}

func (c *Controller) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.List())
}

func (c *Controller) handleGet(w http.ResponseWriter, r *http.Request) {
	st, err := c.Status(r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (c *Controller) handleSet(w http.ResponseWriter, r *http.Request) {
	a, err := command.ParseAction(r.PathValue("action"))
	if err != nil {
		writeError(w, err)
		return
	}
	st, err := c.Set(r.PathValue("name"), a)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleCommand applies every line of the body in order and stops at the
// first failure.
func (c *Controller) handleCommand(w http.ResponseWriter, r *http.Request) {
	out := []Status{}
	scanner := bufio.NewScanner(http.MaxBytesReader(w, r.Body, maxCommandBody))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		st, err := c.ApplyLine(line)
		if err != nil {
			writeError(w, err)
			return
		}
		out = append(out, st)
	}
	if err := scanner.Err(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrUnknownLED):
		code = http.StatusNotFound
	case errors.Is(err, command.ErrSyntax), errors.Is(err, command.ErrBadValue):
		code = http.StatusBadRequest
	}
	writeJSON(w, code, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
