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

// Package cyclelab 組裝 bot 週期規劃所需的元件，提供建立、編輯、預覽與 preset 管理的單一入口。
//
// Lab 持有三個相依：
//  1. engine.Planner：分配、再平衡、經濟推算與驗證。建立、編輯、預覽都走同一個 Planner。
//  2. preset.Repository：preset 的持久化。
//  3. botapi.Client：後端 bot 服務。可以為 nil（只做預覽與 preset 管理）。
//
// 送出流程：表單 → Plan → 有任何驗證錯誤就整批回傳（errs.List）不呼叫後端 → 組 payload → 後端。
package cyclelab

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/zintix-labs/cyclelab/botapi"
	"github.com/zintix-labs/cyclelab/catalog"
	"github.com/zintix-labs/cyclelab/engine"
	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/preset"
	"github.com/zintix-labs/cyclelab/spec"
)

// ErrNoBackend 沒有設定 bot 服務時送出
var ErrNoBackend = errs.NewFatal("bot service is not configured")

type Lab struct {
	planner engine.Planner
	presets preset.Repository
	bots    botapi.Client
	log     *slog.Logger
}

type Option func(*Lab)

func WithLogger(l *slog.Logger) Option {
	return func(lab *Lab) {
		if l != nil {
			lab.log = l
		}
	}
}

func WithPlanner(p engine.Planner) Option {
	return func(lab *Lab) {
		if p != nil {
			lab.planner = p
		}
	}
}

func WithBotClient(c botapi.Client) Option {
	return func(lab *Lab) { lab.bots = c }
}

// New 建立 Lab。repo 必填；沒有指定 Planner 時使用預設界線。
func New(repo preset.Repository, opts ...Option) (*Lab, error) {
	if repo == nil {
		return nil, errs.NewFatal("preset repository required")
	}
	lab := &Lab{
		planner: engine.NewDefault(),
		presets: repo,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(lab)
	}
	return lab, nil
}

func (l *Lab) Planner() engine.Planner {
	return l.planner
}

// Preview 表單任何欄位變動後重新推算。永遠回傳結果，錯誤放在 Plan.Errors。
func (l *Lab) Preview(f spec.BotForm) *engine.Plan {
	return l.planner.Plan(f.WithDefaults())
}

func (l *Lab) Validate(f spec.BotForm) errs.List {
	return l.planner.Validate(f.WithDefaults())
}

// Sweep 勝率掃描，見 engine.Sweep
func (l *Lab) Sweep(f spec.BotForm, from, to float64, steps int) (*engine.SweepResult, error) {
	return engine.Sweep(l.planner, f.WithDefaults(), from, to, steps)
}

// Submission 送出結果
type Submission struct {
	Plan     *engine.Plan     `json:"plan"`
	Payload  spec.BotPayload  `json:"payload"`
	Response *botapi.Response `json:"response"`
	Elapsed  time.Duration    `json:"-"`
}

// CreateBot 驗證並建立 bot
func (l *Lab) CreateBot(ctx context.Context, f spec.BotForm) (*Submission, error) {
	return l.submit(ctx, "", f)
}

// UpdateBot 驗證並更新 bot；與建立共用同一套推算
func (l *Lab) UpdateBot(ctx context.Context, id string, f spec.BotForm) (*Submission, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errs.NewWarn("bot id required")
	}
	return l.submit(ctx, id, f)
}

func (l *Lab) submit(ctx context.Context, id string, f spec.BotForm) (*Submission, error) {
	f = f.WithDefaults()
	f.Name = strings.TrimSpace(f.Name)
	plan := l.planner.Plan(f)
	if !plan.Valid() {
		l.log.Info("bot submission rejected", "bot", f.Name, "errors", len(plan.Errors))
		return nil, plan.Errors
	}
	if l.bots == nil {
		return nil, ErrNoBackend
	}
	sub := &Submission{Plan: plan, Payload: plan.Payload(f)}
	start := time.Now()
	var err error
	if id == "" {
		sub.Response, err = l.bots.CreateBot(ctx, sub.Payload)
	} else {
		sub.Response, err = l.bots.UpdateBot(ctx, id, sub.Payload)
	}
	sub.Elapsed = time.Since(start)
	if err != nil {
		l.log.Warn("bot service request failed", "bot", f.Name, "id", id, "err", err)
		return nil, err
	}
	l.log.Info("bot submitted",
		"bot", f.Name,
		"id", sub.Response.ID,
		"update", id != "",
		"counts", plan.Counts,
		"elapsed_ms", sub.Elapsed.Milliseconds(),
	)
	return sub, nil
}

// ============================================================
// ** Presets **
// ============================================================

// SavePreset 驗證後存入，驗證失敗回傳 errs.List
func (l *Lab) SavePreset(ctx context.Context, p spec.Preset) (spec.Preset, error) {
	if errList := l.planner.ValidatePreset(p); len(errList) > 0 {
		return p, errList
	}
	saved, err := l.presets.Save(ctx, p)
	if err != nil {
		return saved, err
	}
	l.log.Info("preset saved", "id", saved.ID, "name", saved.Name)
	return saved, nil
}

func (l *Lab) LoadPreset(ctx context.Context, id string) (spec.Preset, error) {
	return l.presets.Load(ctx, id)
}

func (l *Lab) ListPresets(ctx context.Context) ([]spec.Preset, error) {
	return l.presets.List(ctx)
}

func (l *Lab) DeletePreset(ctx context.Context, id string) error {
	if err := l.presets.Delete(ctx, id); err != nil {
		return err
	}
	l.log.Info("preset deleted", "id", id)
	return nil
}

// FormFromPreset 套用 preset 到新表單
func (l *Lab) FormFromPreset(ctx context.Context, id, botName string) (spec.BotForm, error) {
	p, err := l.presets.Load(ctx, id)
	if err != nil {
		return spec.BotForm{}, err
	}
	return p.Form(botName).WithDefaults(), nil
}

// Seed 把種子中 repo 還沒有的 preset 寫入；每一筆都先經過 ValidatePreset
func (l *Lab) Seed(ctx context.Context, cat *catalog.Catalog) (int, error) {
	n, err := cat.Seed(ctx, l.presets, func(p spec.Preset) error {
		return l.planner.ValidatePreset(p).Err()
	})
	if err != nil {
		return n, err
	}
	if n > 0 {
		l.log.Info("preset seeds applied", "added", n, "available", cat.Len())
	}
	return n, nil
}
