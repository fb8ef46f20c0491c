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

package preset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/spec"
)

// Snapshotter 依 cron 排程把整份 preset 清單寫成 YAML 檔。
// 輸出格式與種子檔相同，可以直接拿來當下一次啟動的 seed。
//
// 實作 app.Component：Run 阻塞到 Shutdown 被呼叫。
type Snapshotter struct {
	repo     Repository
	path     string
	schedule string
	log      *slog.Logger

	cron *cron.Cron
	once sync.Once
	done chan struct{}
}

// NewSnapshotter 排程格式含秒欄位，例如 "0 0 * * * *"（每小時整點）
func NewSnapshotter(repo Repository, schedule, path string, log *slog.Logger) (*Snapshotter, error) {
	if repo == nil {
		return nil, errs.NewFatal("snapshot needs a preset repository")
	}
	if path == "" {
		return nil, errs.NewFatal("snapshot path is required")
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Snapshotter{
		repo:     repo,
		path:     path,
		schedule: schedule,
		log:      log,
		cron:     cron.New(cron.WithSeconds()),
		done:     make(chan struct{}),
	}
	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return nil, errs.Wrap(err, "register snapshot schedule")
	}
	return s, nil
}

func (s *Snapshotter) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Snapshot(ctx); err != nil {
		s.log.Error("preset snapshot failed", "path", s.path, "err", err)
	}
}

// Snapshot 立即寫一次快照。先寫暫存檔再 rename，讀的人不會看到寫一半的檔案。
func (s *Snapshotter) Snapshot(ctx context.Context) error {
	ps, err := s.repo.List(ctx)
	if err != nil {
		return errs.Wrap(err, "list presets for snapshot")
	}
	raw, err := spec.MarshalPresetsYAML(ps)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(err, "create snapshot dir")
	}
	tmp, err := os.CreateTemp(dir, ".presets-*.yaml")
	if err != nil {
		return errs.Wrap(err, "create snapshot temp file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return errs.Wrap(err, "write snapshot")
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(err, "close snapshot")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errs.Wrap(err, "rename snapshot")
	}
	s.log.Info("preset snapshot written", "path", s.path, "count", len(ps))
	return nil
}

func (s *Snapshotter) Run() error {
	s.cron.Start()
	s.log.Info("preset snapshot scheduled", "schedule", s.schedule, "path", s.path)
	<-s.done
	s.cron.Stop()
	return nil
}

// Shutdown 停止排程並等待正在執行的快照結束（或 ctx 到期）
func (s *Snapshotter) Shutdown(ctx context.Context) error {
	s.once.Do(func() { close(s.done) })
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
