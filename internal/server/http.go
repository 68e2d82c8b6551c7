package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/draupnir/draupnir/internal/models"
	"github.com/draupnir/draupnir/internal/observability/logging"
)

// Handler exposes the JSON-RPC dispatch over HTTP POST at /rpc, plus a
// /healthz endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintln(w, s.engine.Healthcheck())
	})
	mux.HandleFunc("/rpc", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, MaxNDJSONLineSize))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		req, err := decodeRequest(body)
		if err != nil {
			writeJSON(w, errorResponse(nil, models.JSONRPCParseError, err.Error()))
			return
		}

		resp := s.Dispatch(r.Context(), req)
		if resp == nil {
			w.WriteHeader(http.StatusAccepted) // notification
			return
		}
		writeJSON(w, *resp)
	})
	return mux
}

// ServeHTTP runs the handler on addr (host:port) until ctx is cancelled.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	log := logging.From(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info("server", "http listener started", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}
