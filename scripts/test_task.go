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
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// runTest 單元測試：-short 會跳過 redis / postgres 整合測試
func runTest() {
	PrintGreen("running unit tests")
	cleanCache()
	goTest([]string{"./...", "-short", "-cover", "-count=1"}, func(line string) bool {
		return strings.HasPrefix(line, "ok") || strings.HasPrefix(line, "FAIL") ||
			strings.Contains(line, "build failed") || strings.Contains(line, "setup failed")
	})
}

// runTestIntegration 整合測試：store 後端需要 docker（testcontainers）與 REDIS_TEST_URL
func runTestIntegration() {
	if os.Getenv("REDIS_TEST_URL") == "" {
		PrintYellow("REDIS_TEST_URL is not set, redis tests will be skipped")
	}
	PrintGreen("running integration tests (store backends)")
	cleanCache()
	goTest([]string{"./store/...", "./preset/...", "-v", "-count=1"}, nil)
}

// runTestDetail verbose，過濾掉 "[no test files]"
func runTestDetail() {
	PrintGreen("running tests (detail)")
	cleanCache()
	goTest([]string{"./...", "-short", "-v", "-count=1"}, func(line string) bool {
		return !strings.Contains(line, "[no test files]")
	})
}

// runPreview 轉呼叫 cmd/plan，例如 go run ./scripts preview -w 44 -l 36 -d 20 -n 16
func runPreview(args []string) {
	cmd := exec.Command("go", append([]string{"run", "./cmd/plan"}, args...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		PrintRed(fmt.Sprintf("preview failed: %v", err))
		os.Exit(1)
	}
}

func cleanCache() {
	cleanCmd := exec.Command("go", "clean", "-testcache")
	if err := cleanCmd.Run(); err != nil {
		PrintRed(err.Error())
	}
}

// goTest 執行 go test，stdout/stderr 合併後逐行上色；keep 為 nil 時全部印出
func goTest(args []string, keep func(string) bool) {
	cmd := exec.Command("go", append([]string{"test"}, args...)...)
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		PrintRed(fmt.Sprintf("failed to get stdout pipe: %v", err))
		os.Exit(1)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		PrintRed(fmt.Sprintf("Error starting go test: %v", err))
		os.Exit(1)
	}

	scanner := bufio.NewScanner(stdoutPipe)
	for scanner.Scan() {
		line := scanner.Text()
		if keep != nil && !keep(line) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "ok"):
			PrintGreen(line)
		case strings.HasPrefix(line, "FAIL"), strings.HasPrefix(line, "--- FAIL"):
			PrintRed(line)
		case strings.HasPrefix(line, "--- SKIP"):
			PrintYellow(line)
		default:
			fmt.Println(line)
		}
	}
	if err := scanner.Err(); err != nil {
		PrintRed(fmt.Sprintf("scanner error: %v", err))
	}

	if err := cmd.Wait(); err != nil {
		PrintRed("\nTests finished with errors\n")
		os.Exit(1)
	}
}
