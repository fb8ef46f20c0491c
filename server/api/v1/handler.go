// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package v1 是 /v1 底下的 HTTP handler。
package v1

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/zintix-labs/cyclelab"
	"github.com/zintix-labs/cyclelab/server/httperr"
)

// Handler 所有 v1 路由共用同一個 Lab，建立、編輯與預覽走相同的 Planner
type Handler struct {
	lab     *cyclelab.Lab
	log     *slog.Logger
	timeout time.Duration
}

func NewHandler(lab *cyclelab.Lab, log *slog.Logger, timeout time.Duration) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{lab: lab, log: log, timeout: timeout}
}

// 請求解析完成後才設置超時 context
func (h *Handler) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httperr.Log(h.log, r.Method+" "+r.URL.Path, err)
	httperr.Errs(w, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
