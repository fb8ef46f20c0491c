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
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/zintix-labs/cyclelab/dto"
	"github.com/zintix-labs/cyclelab/engine"
	"github.com/zintix-labs/cyclelab/spec"
	"github.com/zintix-labs/cyclelab/stats"
)

// plan 在終端機預覽一個 cycle 的局數分配與經濟預估，或做勝率掃描。
//
//	go run ./cmd/plan -min 1 -max 100 -w 44 -l 36 -d 20 -n 16
//	go run ./cmd/plan -w 0 -l 30 -d 20 -sweep -from 0 -to 60 -steps 7 -format yaml
var cfg = new(config)

type config struct {
	name     string
	minBet   float64
	maxBet   float64
	wins     float64
	losses   float64
	draws    float64
	games    int
	flow     string
	limits   string
	format   string
	sweep    bool
	from, to float64
	steps    int
}

func bindVar() {
	flag.StringVar(&cfg.name, "name", "preview", "bot name")
	flag.Float64Var(&cfg.minBet, "min", 1, "min bet amount")
	flag.Float64Var(&cfg.maxBet, "max", 100, "max bet amount")
	flag.Float64Var(&cfg.wins, "w", 50, "wins percentage")
	flag.Float64Var(&cfg.losses, "l", 30, "losses percentage")
	flag.Float64Var(&cfg.draws, "d", 20, "draws percentage")
	flag.IntVar(&cfg.games, "n", 10, "cycle games")
	flag.StringVar(&cfg.flow, "flow", string(spec.FlowDefault), "flow: default|strict")
	flag.StringVar(&cfg.limits, "limits", "", "optional limits yaml file")
	flag.StringVar(&cfg.format, "format", "table", "output: table|json|yaml")
	flag.BoolVar(&cfg.sweep, "sweep", false, "sweep wins percentage instead of a single plan")
	flag.Float64Var(&cfg.from, "from", 0, "sweep start (wins %)")
	flag.Float64Var(&cfg.to, "to", 100, "sweep end (wins %)")
	flag.IntVar(&cfg.steps, "steps", 11, "sweep points")
	flag.Parse()
}

func main() {
	bindVar()

	format, err := stats.ParseFormat(cfg.format)
	if err != nil {
		log.Fatal(err)
	}
	planner, err := newPlanner(cfg.limits)
	if err != nil {
		log.Fatal(err)
	}
	f := cfg.form()

	if cfg.sweep {
		res, err := engine.Sweep(planner, f, cfg.from, cfg.to, cfg.steps)
		if err != nil {
			log.Fatal(err)
		}
		if err := stats.SweepRenderFor(format).Write(os.Stdout, res); err != nil {
			log.Fatal(err)
		}
		return
	}

	plan := planner.Plan(f)
	resp := dto.NewPlanResponse(f, plan)
	if err := stats.PlanRenderFor(format).Write(os.Stdout, &resp); err != nil {
		log.Fatal(err)
	}
	if !plan.Valid() {
		os.Exit(2)
	}
}

func (c *config) form() spec.BotForm {
	return spec.BotForm{
		Name:       c.name,
		Bets:       spec.BetRange{Min: c.minBet, Max: c.maxBet},
		Dist:       spec.Distribution{WinsPct: c.wins, LossesPct: c.losses, DrawsPct: c.draws},
		CycleGames: c.games,
		Flow:       spec.Flow(c.flow),
	}.WithDefaults()
}

func newPlanner(path string) (engine.Planner, error) {
	if path == "" {
		return engine.NewDefault(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read limits: %w", err)
	}
	l, err := spec.GetLimitsByYAML(data)
	if err != nil {
		return nil, err
	}
	return engine.New(*l), nil
}
