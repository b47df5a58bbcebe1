package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"

	"github.com/tr1v3r/pkg/log"

	"github.com/tr1v3r/mpvsub/internal/monitoring"
	"github.com/tr1v3r/mpvsub/internal/state"
	"github.com/tr1v3r/mpvsub/internal/subtitle"
)

const maxControlBody = 1 << 20

func NewMux() *http.ServeMux {
	return http.NewServeMux()
}

func RegisterHTTP(mux *http.ServeMux, st *state.Session) {
	mux.HandleFunc("GET /subs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, st.Subs())
	})
	mux.HandleFunc("GET /secondary_subs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, st.SecondarySubs())
	})
	mux.HandleFunc("GET /modes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, subtitle.SubModes)
	})
	mux.HandleFunc("POST /mpv_control", MPVControlHandler(st))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("mpvsub companion running\n"))
	})
}

// MPVControlHandler forwards the request body to mpv as one JSON IPC line.
// The command vocabulary is mpv's business, not ours.
func MPVControlHandler(st *state.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics := monitoring.GetMetrics()

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxControlBody))
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}

		resp, err := st.Forward(body)
		if err != nil {
			metrics.RecordForwardError()
			log.CtxError(st.Context(), "mpv control forward error: %v", err)
			http.Error(w, "mpv unavailable", http.StatusBadGateway)
			return
		}
		metrics.RecordCommandForwarded()
		log.CtxDebug(st.Context(), "mpv control: %s -> %s", body, resp.Error)
		w.WriteHeader(http.StatusOK)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(data)
}

// Listen binds the first free port in [port, portMax] on host.
func Listen(host string, port, portMax int) (net.Listener, error) {
	if portMax < port {
		portMax = port
	}
	var lastErr error
	for p := port; p <= portMax; p++ {
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(p)))
		if err == nil {
			return ln, nil
		}
		lastErr = err
		if !errors.Is(err, syscall.EADDRINUSE) {
			break
		}
	}
	return nil, fmt.Errorf("no free port in %d-%d on %s: %w", port, portMax, host, lastErr)
}

func LogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("HTTP request method=%s path=%s remote_addr=%s user_agent=%s",
			r.Method, r.URL.Path, r.RemoteAddr, r.UserAgent())

		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)

		// Record metrics
		monitoring.GetMetrics().RecordHTTPRequest(r.Method, duration)

		log.Debug("HTTP request completed method=%s path=%s duration=%s",
			r.Method, r.URL.Path, duration.String())
	})
}
