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

package svrcfg

import (
	"log/slog"
	"time"

	"github.com/zintix-labs/cyclelab"
	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/server/app"
	"github.com/zintix-labs/cyclelab/server/logger"
)

type SvrCfg struct {
	Log            *slog.Logger
	Lab            *cyclelab.Lab
	Addr           string
	CORSOrigins    []string
	RequestTimeout time.Duration   // 單一請求（含 bot 服務呼叫）的上限
	Components     []app.Component // 與 HTTP server 一起啟停的背景元件，例如 preset 快照
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}

	// 1s <= RequestTimeout <= 60s
	if sc.RequestTimeout <= 0 {
		sc.RequestTimeout = 10 * time.Second
	}
	sc.RequestTimeout = max(time.Second, sc.RequestTimeout)
	sc.RequestTimeout = min(time.Minute, sc.RequestTimeout)
	if sc.Lab == nil {
		return errs.NewFatal("cyclelab is required")
	}
	for i, c := range sc.Components {
		if c == nil {
			return errs.Fatalf("component[%d] is nil", i)
		}
	}
	return nil
}
