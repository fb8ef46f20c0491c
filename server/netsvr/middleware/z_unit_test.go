package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/zintix-labs/cyclelab/server/netsvr/middleware"
)

func body(n int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"x":"` + strings.Repeat("a", n) + `"}`))
	}
}

func serve(h http.Handler, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if accept != "" {
		req.Header.Set("Accept-Encoding", accept)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCompressionSkipsSmallBodies(t *testing.T) {
	rec := serve(middleware.Compression(body(10)), "gzip, zstd")
	if enc := rec.Header().Get("Content-Encoding"); enc != "" {
		t.Fatalf("small body encoded as %q", enc)
	}
	if !strings.HasPrefix(rec.Body.String(), `{"x":"aaaaaaaaaa"}`) {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestCompressionGzip(t *testing.T) {
	rec := serve(middleware.Compression(body(4096)), "gzip")
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("headers = %v", rec.Header())
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 4096+8 || !json.Valid(raw) {
		t.Fatalf("decoded %d bytes", len(raw))
	}
}

func TestCompressionPrefersZstd(t *testing.T) {
	rec := serve(middleware.Compression(body(4096)), "gzip, zstd")
	if rec.Header().Get("Content-Encoding") != "zstd" {
		t.Fatalf("headers = %v", rec.Header())
	}
	zr, err := zstd.NewReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 4096+8 {
		t.Fatalf("decoded %d bytes", len(raw))
	}
}

func TestCompressionHonoursQZero(t *testing.T) {
	rec := serve(middleware.Compression(body(4096)), "zstd;q=0, gzip")
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("headers = %v", rec.Header())
	}
	rec = serve(middleware.Compression(body(4096)), "gzip;q=0")
	if rec.Header().Get("Content-Encoding") != "" {
		t.Fatalf("headers = %v", rec.Header())
	}
}

func TestCompressionNoContent(t *testing.T) {
	h := middleware.Compression(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := serve(h, "gzip")
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 || rec.Header().Get("Content-Encoding") != "" {
		t.Fatalf("code=%d body=%q headers=%v", rec.Code, rec.Body.String(), rec.Header())
	}
}

func TestCompressionKeepsStatus(t *testing.T) {
	h := middleware.Compression(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(strings.Repeat("b", 2048)))
	}))
	rec := serve(h, "gzip")
	if rec.Code != http.StatusCreated || rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("code=%d headers=%v", rec.Code, rec.Header())
	}
}

func TestRecover(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))
	h := middleware.RequestID(middleware.Recover(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})))
	rec := serve(h, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"errors"`) {
		t.Fatalf("body = %q", rec.Body.String())
	}
	if !strings.Contains(logs.String(), "kaboom") || !strings.Contains(logs.String(), "http.panic") {
		t.Fatalf("logs = %s", logs.String())
	}
}

func TestRequestIDHeader(t *testing.T) {
	var seen string
	h := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = middleware.GetReqId(r)
	}))
	rec := serve(h, "")
	if seen == "" || rec.Header().Get("X-Request-Id") != seen {
		t.Fatalf("ctx id %q, header %q", seen, rec.Header().Get("X-Request-Id"))
	}
}

func TestAccessLogLevels(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := middleware.AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	serve(h, "")
	if !strings.Contains(logs.String(), `"level":"ERROR"`) || !strings.Contains(logs.String(), `"status":502`) {
		t.Fatalf("logs = %s", logs.String())
	}
}
