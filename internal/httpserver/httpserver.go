// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package httpserver wires the OpenMetrics exposition endpoint, the
// self-observability endpoint, and a health probe behind a
// gorilla/mux router with gorilla/handlers middleware, following the
// teacher's server.go idiom (SPEC_FULL.md §4.10).
package httpserver

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gufolabs/gufoagent/internal/sender"
	"github.com/gufolabs/gufoagent/internal/selfmetrics"
	"github.com/gufolabs/gufoagent/internal/store"
	"github.com/gufolabs/gufoagent/pkg/log"
)

// Options configures the exposition server.
type Options struct {
	Addr         string
	Path         string // defaults to /metrics
	CertFile     string
	KeyFile      string
	SelfMetrics  *selfmetrics.Registry
}

// Server hosts the agent's HTTP surface.
type Server struct {
	http *http.Server
}

// New builds a Server reading from snd's Store on every /metrics
// request and from opts.SelfMetrics on /agent-metrics (SPEC_FULL.md
// §4.8).
func New(snd *sender.Sender, opts Options) *Server {
	path := opts.Path
	if path == "" {
		path = "/metrics"
	}

	r := mux.NewRouter()
	r.HandleFunc(path, metricsHandler(snd.Store()))
	r.HandleFunc("/healthz", healthzHandler)
	if opts.SelfMetrics != nil {
		r.Handle("/agent-metrics", promhttp.HandlerFor(opts.SelfMetrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Use(handlers.CompressHandler)
	r.Use(handlers.CORS(
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodHead}),
		handlers.AllowedOrigins([]string{"*"}),
	))
	h := handlers.CustomLoggingHandler(log.InfoWriter, r, func(w io.Writer, params handlers.LogFormatterParams) {
		log.Finfof(w, "%s %s (Response: %d, Size: %d)", params.Request.Method, params.URL.RequestURI(), params.StatusCode, params.Size)
	})
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)

	return &Server{http: &http.Server{
		Addr:         opts.Addr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}}
}

// ListenAndServe starts the server, optionally over TLS when both
// cert/key files were configured. Blocks until the server stops; a
// clean Shutdown returns nil.
func (s *Server) ListenAndServe(certFile, keyFile string) error {
	var err error
	if certFile != "" && keyFile != "" {
		log.Infof("http server listening at %s (TLS)", s.http.Addr)
		err = s.http.ListenAndServeTLS(certFile, keyFile)
	} else {
		log.Infof("http server listening at %s", s.http.Addr)
		err = s.http.ListenAndServe()
	}
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// metricsHandler buffers the serialized body before writing anything
// to the response, so a serialization error still yields a clean 500
// with an empty body rather than a truncated 200 (spec.md §4.6).
func metricsHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := st.WriteOpenMetrics(&buf); err != nil {
			log.Errorf("httpserver: serialization error: %s", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", store.ContentType)
		w.Write(buf.Bytes())
	}
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
