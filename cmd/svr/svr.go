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

package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/zintix-labs/cyclelab"
	"github.com/zintix-labs/cyclelab/botapi"
	"github.com/zintix-labs/cyclelab/catalog"
	"github.com/zintix-labs/cyclelab/config"
	"github.com/zintix-labs/cyclelab/engine"
	"github.com/zintix-labs/cyclelab/preset"
	"github.com/zintix-labs/cyclelab/seeds"
	"github.com/zintix-labs/cyclelab/server"
	"github.com/zintix-labs/cyclelab/server/app"
	"github.com/zintix-labs/cyclelab/server/logger"
	"github.com/zintix-labs/cyclelab/server/svrcfg"
)

// cyclelab 管理後台的 HTTP server。
// 設定來源依序為 yaml 檔、CYCLELAB_* 環境變數、預設值，最後由 flag 覆蓋。
func main() {
	os.Exit(run())
}

type flags struct {
	config  string
	addr    string
	logMode string
	driver  string
}

func run() int {
	fl := new(flags)
	flag.StringVar(&fl.config, "config", "cyclelab.yaml", "path to yaml config")
	flag.StringVar(&fl.addr, "addr", "", "listen address (overrides config)")
	flag.StringVar(&fl.logMode, "log-mode", "", "log mode: dev|prod|silence (overrides config)")
	flag.StringVar(&fl.driver, "store", "", "store driver: memory|sqlite|redis|postgres (overrides config)")
	flag.Parse()

	cfg, err := config.Load(fl.config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fl.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeLog()

	sCfg, cleanup, err := assemble(cfg, log)
	if err != nil {
		log.Error("startup failed", "err", err)
		return 1
	}
	defer cleanup()

	if err := server.Run(sCfg); err != nil {
		log.Error("server stopped", "err", err)
		return 1
	}
	return 0
}

func (fl *flags) apply(cfg *config.Config) {
	if fl.addr != "" {
		cfg.Server.Addr = fl.addr
	}
	if fl.logMode != "" {
		cfg.Log.Mode = fl.logMode
	}
	if fl.driver != "" {
		cfg.Store.Driver = fl.driver
	}
}

func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	mode, err := logger.ParseMode(cfg.Log.Mode)
	if err != nil {
		return nil, nil, err
	}
	lv, err := logger.ParseLevel(cfg.Log.Level, mode)
	if err != nil {
		return nil, nil, err
	}
	log, closeFn := logger.New(mode, lv, cfg.Log.Async)
	return log, closeFn, nil
}

// assemble 組裝 store → repository → Lab → seeds → server 設定
func assemble(cfg *config.Config, log *slog.Logger) (*svrcfg.SvrCfg, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	kv, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := kv.Close(); err != nil {
			log.Warn("close store", "err", err)
		}
	}
	repo := preset.NewKeyed(kv, cfg.Store.Key)

	opts := []cyclelab.Option{
		cyclelab.WithLogger(log),
		cyclelab.WithPlanner(engine.New(cfg.Limits)),
	}
	if cfg.BotAPI.BaseURL != "" {
		bots, err := botapi.NewHTTPClient(botapi.Options{
			BaseURL: cfg.BotAPI.BaseURL,
			Token:   cfg.BotAPI.Token,
			Timeout: cfg.BotAPI.Timeout,
			Retry:   botapi.NewRetry(cfg.BotAPI.Retries, 200*time.Millisecond),
		})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		opts = append(opts, cyclelab.WithBotClient(bots))
	} else {
		log.Warn("bot_api.base_url is empty, bot submission disabled")
	}
	lab, err := cyclelab.New(repo, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	if err := seed(ctx, cfg, lab, log); err != nil {
		cleanup()
		return nil, nil, err
	}

	var comps []app.Component
	if cfg.Snapshot.Schedule != "" {
		snap, err := preset.NewSnapshotter(repo, cfg.Snapshot.Schedule, cfg.Snapshot.Path, log)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		comps = append(comps, snap)
	}

	sCfg := &svrcfg.SvrCfg{
		Log:            log,
		Lab:            lab,
		Addr:           cfg.Server.Addr,
		CORSOrigins:    cfg.Server.CORSOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		Components:     comps,
	}
	return sCfg, cleanup, nil
}

func seed(ctx context.Context, cfg *config.Config, lab *cyclelab.Lab, log *slog.Logger) error {
	var src []fs.FS
	if cfg.Seeds.Embedded {
		src = append(src, seeds.FS)
	}
	if cfg.Seeds.Dir != "" {
		src = append(src, os.DirFS(cfg.Seeds.Dir))
	}
	if len(src) == 0 {
		return nil
	}
	cat, err := catalog.New(src...)
	if err != nil {
		return err
	}
	n, err := lab.Seed(ctx, cat)
	if err != nil {
		return err
	}
	log.Info("presets seeded", "added", n, "catalog", cat.Len())
	return nil
}
