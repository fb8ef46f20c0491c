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

package server

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/server/api"
	"github.com/zintix-labs/cyclelab/server/app"
	"github.com/zintix-labs/cyclelab/server/netsvr"
	"github.com/zintix-labs/cyclelab/server/svrcfg"
)

// Run 是 server 套件的「組裝器（assembler）」與「啟動入口（runtime entry）」。
//
// 它負責：
//  1. 驗證輸入的 SvrConfig（包含必要依賴，例如 logger、Lab）。
//  2. 建立 HTTP server（netsvr）。
//  3. 註冊路由與 middleware（api.RegisterRoutes）。
//  4. 連同 SvrCfg.Components 一起交給 app.Run()，回傳停止原因。
func Run(sCfg *svrcfg.SvrCfg) error {
	if err := sCfg.Vaild(); err != nil {
		// 防止外層傳入的logger不可用
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	// WriteTimeout 要涵蓋整個請求
	svr := netsvr.NewChiServerWith(netsvr.Options{
		Addr:         sCfg.Addr,
		WriteTimeout: sCfg.RequestTimeout + 5*time.Second,
	})
	return RunWithSvr(sCfg, svr)
}

// RunWithSvr 與 Run() 相同，但允許呼叫端注入自訂的 NetSvr。
//   - svr 參數必須非 nil，且若是 ChiAdapter 會要求 Ready() 為 true（避免注入不完整的 server）。
//   - 這一層只負責「註冊 routes + 啟動 app.Run()」，不接管整個系統的組裝方式。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if err := sCfg.Vaild(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		err := errs.NewFatal("svr is required")
		sCfg.Log.Error(err.Error())
		return err
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		err := errs.NewFatal("default server is not ready")
		sCfg.Log.Error(err.Error())
		return err
	}

	// 註冊 Api
	api.RegisterRoutes(svr, sCfg)

	// 運行
	app := app.NewWith(svr)
	for _, c := range sCfg.Components {
		app.Register(c)
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok {
		sCfg.Log.Info("[cyclelab] listening", slog.String("addr", s.Address()))
	} else {
		sCfg.Log.Info("[cyclelab] listening")
	}
	if err := app.Run(); err != nil {
		sCfg.Log.Error("app stopped:", slog.Any("err", err))
		return err
	}
	return nil
}
