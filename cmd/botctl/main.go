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
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"

	"github.com/zintix-labs/cyclelab"
	"github.com/zintix-labs/cyclelab/botapi"
	"github.com/zintix-labs/cyclelab/preset/memory"
	"github.com/zintix-labs/cyclelab/server/logger"
	"github.com/zintix-labs/cyclelab/spec"
)

// botctl 依照 preset 種子檔批次建立 bot：每個 preset 建立 -copies 個，名稱為 <prefix><preset>-<序號>。
//
//	go run ./cmd/botctl -file seeds/default.yaml -url http://localhost:9000/api -copies 5
var cfg = new(config)

type config struct {
	file    string
	url     string
	token   string
	prefix  string
	copies  int
	workers int
	timeout time.Duration
	retries int
	dryRun  bool
	quiet   bool
}

func bindVar() {
	flag.StringVar(&cfg.file, "file", "", "preset seed file (yaml or json)")
	flag.StringVar(&cfg.url, "url", os.Getenv("CYCLELAB_BOT_API_URL"), "bot service base url")
	flag.StringVar(&cfg.token, "token", os.Getenv("CYCLELAB_BOT_API_TOKEN"), "bot service bearer token")
	flag.StringVar(&cfg.prefix, "prefix", "", "bot name prefix")
	flag.IntVar(&cfg.copies, "copies", 1, "bots per preset")
	flag.IntVar(&cfg.workers, "worker", 4, "concurrent requests")
	flag.DurationVar(&cfg.timeout, "timeout", 10*time.Second, "per request timeout")
	flag.IntVar(&cfg.retries, "retries", 3, "attempts per request")
	flag.BoolVar(&cfg.dryRun, "dry-run", false, "validate only, do not call the bot service")
	flag.BoolVar(&cfg.quiet, "q", false, "hide progress bar")
	flag.Parse()
}

type job struct {
	name string
	form spec.BotForm
}

type result struct {
	name string
	id   string
	err  error
}

func main() {
	bindVar()
	if cfg.file == "" {
		log.Fatal("-file is required")
	}
	presets, err := readPresets(cfg.file)
	if err != nil {
		log.Fatal(err)
	}

	opts := []cyclelab.Option{cyclelab.WithLogger(logger.NewDefaultLogger(logger.ModeSilence))}
	if !cfg.dryRun {
		bots, err := botapi.NewHTTPClient(botapi.Options{
			BaseURL: cfg.url,
			Token:   cfg.token,
			Timeout: cfg.timeout,
			Retry:   botapi.NewRetry(cfg.retries, 200*time.Millisecond),
		})
		if err != nil {
			log.Fatal(err)
		}
		opts = append(opts, cyclelab.WithBotClient(bots))
	}
	lab, err := cyclelab.New(memory.New(), opts...)
	if err != nil {
		log.Fatal(err)
	}

	jobs := expand(presets)
	results := runJobs(lab, jobs)

	failed := 0
	for _, r := range results {
		switch {
		case r.err != nil:
			failed++
			fmt.Printf("FAIL %-24s %v\n", r.name, r.err)
		case cfg.dryRun:
			fmt.Printf("OK   %-24s (dry-run)\n", r.name)
		default:
			fmt.Printf("OK   %-24s id=%s\n", r.name, r.id)
		}
	}
	fmt.Printf("%d/%d succeeded\n", len(results)-failed, len(results))
	if failed > 0 {
		os.Exit(1)
	}
}

func readPresets(path string) ([]spec.Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return spec.GetPresetsByJSON(data)
	default:
		return spec.GetPresetsByYAML(data)
	}
}

func expand(presets []spec.Preset) []job {
	out := make([]job, 0, len(presets)*max(1, cfg.copies))
	for _, p := range presets {
		for i := 1; i <= max(1, cfg.copies); i++ {
			name := fmt.Sprintf("%s%s-%03d", cfg.prefix, p.Name, i)
			out = append(out, job{name: name, form: p.Form(name)})
		}
	}
	return out
}

// runJobs 以固定數量的 worker 併發送出，結果依輸入順序回傳
func runJobs(lab *cyclelab.Lab, jobs []job) []result {
	results := make([]result, len(jobs))
	idx := make(chan int)

	bar := pb.StartNew(len(jobs))
	if cfg.quiet {
		bar.SetWriter(io.Discard)
	}
	wg := new(sync.WaitGroup)
	wg.Add(max(1, cfg.workers))
	for w := 0; w < max(1, cfg.workers); w++ {
		go func() {
			defer wg.Done()
			for i := range idx {
				results[i] = submit(lab, jobs[i])
				bar.Increment()
			}
		}()
	}
	for i := range jobs {
		idx <- i
	}
	close(idx)
	wg.Wait()
	bar.Finish()
	return results
}

func submit(lab *cyclelab.Lab, j job) result {
	if cfg.dryRun {
		return result{name: j.name, err: lab.Validate(j.form).Err()}
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout*time.Duration(max(1, cfg.retries)))
	defer cancel()
	sub, err := lab.CreateBot(ctx, j.form)
	if err != nil {
		return result{name: j.name, err: err}
	}
	return result{name: j.name, id: sub.Response.ID}
}
