package middleware

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

func isWebSocketUpgrade(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade") ||
		r.Header.Get("Upgrade") != ""
}

func isNoBodyStatus(code int) bool {
	// 204 No Content, 304 Not Modified, 1xx Informational
	return (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified
}

// CompressConfig
// MinSize 以下的回應（多數的驗證結果、錯誤清單）直接原樣寫出。
type CompressConfig struct {
	GzipLevel int
	ZstdLevel zstd.EncoderLevel
	MinSize   int
}

var DefaultCompressConfig = CompressConfig{
	GzipLevel: gzip.DefaultCompression,
	ZstdLevel: zstd.SpeedFastest,
	MinSize:   1024,
}

const (
	encZstd = "zstd"
	encGzip = "gzip"
)

// encoder gzip.Writer 與 zstd.Encoder 共同的方法
type encoder interface {
	io.WriteCloser
	Flush() error
	Reset(w io.Writer)
}

// --- Pools ---
var (
	gzipPool sync.Pool
	zstdPool sync.Pool
)

func getEncoder(enc string, w io.Writer) encoder {
	switch enc {
	case encZstd:
		if v := zstdPool.Get(); v != nil {
			zw := v.(*zstd.Encoder)
			zw.Reset(w)
			return zw
		}
		zw, err := zstd.NewWriter(w,
			zstd.WithEncoderLevel(DefaultCompressConfig.ZstdLevel),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			panic(err)
		}
		return zw
	default:
		if v := gzipPool.Get(); v != nil {
			gw := v.(*gzip.Writer)
			gw.Reset(w)
			return gw
		}
		gw, _ := gzip.NewWriterLevel(w, DefaultCompressConfig.GzipLevel)
		return gw
	}
}

func releaseEncoder(e encoder) {
	_ = e.Close()
	switch v := e.(type) {
	case *zstd.Encoder:
		zstdPool.Put(v)
	case *gzip.Writer:
		gzipPool.Put(v)
	}
}

// negotiate 依 Accept-Encoding 選擇編碼，zstd 優先；q=0 視為拒絕
func negotiate(accept string) string {
	var zstdOK, gzipOK bool
	for _, part := range strings.Split(accept, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if q, ok := strings.CutPrefix(strings.ReplaceAll(params, " ", ""), "q="); ok {
			if v, err := strconv.ParseFloat(q, 64); err == nil && v == 0 {
				continue
			}
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case encZstd:
			zstdOK = true
		case encGzip:
			gzipOK = true
		}
	}
	switch {
	case zstdOK:
		return encZstd
	case gzipOK:
		return encGzip
	default:
		return ""
	}
}

// --- ResponseWriter Wrapper ---

// compressResponseWriter 先緩衝到 minSize，超過才開始壓縮；
// 結束時仍不足 minSize 就原樣寫出。
type compressResponseWriter struct {
	http.ResponseWriter
	enc         string
	minSize     int
	buf         []byte
	status      int
	w           encoder // 開始壓縮後才有值
	passthrough bool    // 204/304 或已決定不壓縮
	headerSent  bool
}

func (cw *compressResponseWriter) WriteHeader(code int) {
	if cw.headerSent || cw.status != 0 {
		return
	}
	cw.status = code
	if isNoBodyStatus(code) {
		cw.passthrough = true
		cw.sendHeader()
	}
}

func (cw *compressResponseWriter) sendHeader() {
	if cw.headerSent {
		return
	}
	cw.headerSent = true
	if cw.status == 0 {
		cw.status = http.StatusOK
	}
	cw.ResponseWriter.WriteHeader(cw.status)
}

func (cw *compressResponseWriter) Write(b []byte) (int, error) {
	if cw.passthrough {
		cw.sendHeader()
		return cw.ResponseWriter.Write(b)
	}
	if cw.w != nil {
		return cw.w.Write(b)
	}
	cw.buf = append(cw.buf, b...)
	if len(cw.buf) >= cw.minSize {
		if err := cw.start(); err != nil {
			return 0, err
		}
	}
	return len(b), nil
}

func (cw *compressResponseWriter) sniff() {
	if cw.Header().Get("Content-Type") == "" && len(cw.buf) > 0 {
		cw.Header().Set("Content-Type", http.DetectContentType(cw.buf))
	}
}

// start 送出壓縮標頭並把緩衝內容寫入壓縮器
func (cw *compressResponseWriter) start() error {
	cw.sniff()
	h := cw.Header()
	if h.Get("Content-Encoding") != "" {
		// handler 自己處理了編碼
		cw.passthrough = true
		cw.sendHeader()
		_, err := cw.ResponseWriter.Write(cw.buf)
		cw.buf = nil
		return err
	}
	h.Del("Content-Length")
	h.Set("Content-Encoding", cw.enc)
	h.Add("Vary", "Accept-Encoding")
	cw.sendHeader()

	cw.w = getEncoder(cw.enc, cw.ResponseWriter)
	_, err := cw.w.Write(cw.buf)
	cw.buf = nil
	return err
}

// finish 在 handler 返回後呼叫
func (cw *compressResponseWriter) finish() {
	if cw.w != nil {
		releaseEncoder(cw.w)
		return
	}
	if cw.passthrough {
		return
	}
	if len(cw.buf) == 0 && cw.status == 0 {
		return
	}
	cw.sniff()
	cw.Header().Add("Vary", "Accept-Encoding")
	cw.sendHeader()
	_, _ = cw.ResponseWriter.Write(cw.buf)
	cw.buf = nil
}

func (cw *compressResponseWriter) Flush() {
	if !cw.passthrough && cw.w == nil && (len(cw.buf) > 0 || cw.status != 0) {
		_ = cw.start()
	}
	if cw.w != nil {
		_ = cw.w.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (cw *compressResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := cw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("underlying response writer does not support Hijacker")
	}
	return hj.Hijack()
}

// --- Middleware 入口 ---

func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// WebSocket / Head
		if r.Method == http.MethodHead || isWebSocketUpgrade(r) {
			next.ServeHTTP(w, r)
			return
		}
		// 避免二次壓縮
		if w.Header().Get("Content-Encoding") != "" {
			next.ServeHTTP(w, r)
			return
		}
		enc := negotiate(r.Header.Get("Accept-Encoding"))
		if enc == "" {
			next.ServeHTTP(w, r)
			return
		}

		cw := &compressResponseWriter{ResponseWriter: w, enc: enc, minSize: max(1, DefaultCompressConfig.MinSize)}
		defer cw.finish()
		next.ServeHTTP(cw, r)
	})
}
