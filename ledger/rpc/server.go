// Package rpc exposes a host over HTTP.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/Taraxa-project/networth-ledger/ledger/host"
	"github.com/Taraxa-project/networth-ledger/ledger/state/contract"
)

type Server struct {
	host   *host.Host
	log    *logrus.Entry
	router chi.Router
}

type executeRequest struct {
	Sender string          `json:"sender"`
	Msg    json.RawMessage `json:"msg"`
}

func NewServer(h *host.Host, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	self := &Server{host: h, log: log}
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Post("/execute", self.execute)
	r.Post("/query", self.query)
	self.router = r
	return self
}

func (self *Server) Handler() http.Handler {
	return self.router
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (self *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: self.router, ReadHeaderTimeout: 10 * time.Second}
	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()
	self.log.WithField("addr", addr).Info("rpc listening")
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	shutdown_ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown_ctx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (self *Server) execute(w http.ResponseWriter, r *http.Request) {
	request_id := newRequestID()
	var req executeRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, request_id, "BAD_JSON", err.Error())
		return
	}
	ctx := host.WithCallID(r.Context(), request_id)
	if err := self.host.Execute(ctx, req.Sender, req.Msg); err != nil {
		self.writeCallError(w, request_id, err)
		return
	}
	writeJSON(w, 200, map[string]interface{}{"request_id": request_id, "ok": true})
}

func (self *Server) query(w http.ResponseWriter, r *http.Request) {
	request_id := newRequestID()
	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, 400, request_id, "BAD_JSON", err.Error())
		return
	}
	answer, err := self.host.Query(host.WithCallID(r.Context(), request_id), body)
	if err != nil {
		self.writeCallError(w, request_id, err)
		return
	}
	writeRaw(w, 200, answer)
}

func (self *Server) writeCallError(w http.ResponseWriter, request_id string, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		writeError(w, 503, request_id, "CANCELED", err.Error())
		return
	}
	kind := contract.KindOf(err)
	message := err.Error()
	if kind == contract.StorageFailure {
		// details are in the host log under the same id
		message = "internal storage failure"
	}
	writeError(w, statusOf(kind), request_id, strings.ToUpper(kind.String()), message)
}

func statusOf(kind contract.Kind) int {
	switch kind {
	case contract.Validation:
		return 400
	case contract.Authentication:
		return 401
	case contract.Authorization:
		return 403
	case contract.Policy:
		return 409
	}
	return 500
}
