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

package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/cyclelab/dto"
	"github.com/zintix-labs/cyclelab/engine"
)

// Format 輸出格式
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (table|json|yaml)", s)
	}
}

type PlanRender interface {
	Write(w io.Writer, r *dto.PlanResponse) error
}

type SweepRender interface {
	Write(w io.Writer, r *engine.SweepResult) error
}

func PlanRenderFor(f Format) PlanRender {
	switch f {
	case FormatJSON:
		return &JsonPlanRender{}
	case FormatYAML:
		return &YAMLPlanRender{}
	default:
		return &TablePlanRender{}
	}
}

func SweepRenderFor(f Format) SweepRender {
	switch f {
	case FormatJSON:
		return &JsonSweepRender{}
	case FormatYAML:
		return &YAMLSweepRender{}
	default:
		return &TableSweepRender{}
	}
}

// Json渲染
type JsonPlanRender struct{}

func (jr *JsonPlanRender) Write(w io.Writer, r *dto.PlanResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// YAML渲染
type YAMLPlanRender struct{}

func (yr *YAMLPlanRender) Write(w io.Writer, r *dto.PlanResponse) error {
	return forceReadableList(w, r)
}

type JsonSweepRender struct{}

func (jr *JsonSweepRender) Write(w io.Writer, r *engine.SweepResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

type YAMLSweepRender struct{}

func (yr *YAMLSweepRender) Write(w io.Writer, r *engine.SweepResult) error {
	return forceReadableList(w, r)
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}

	// 只有「最內層的一維陣列」輸出成 flow style：[..., ...]，外層維持展開
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
		return

	case yaml.SequenceNode:
		// 元素是 mapping 或 sequence 的屬於外層，保持展開
		nested := false
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				nested = true
				break
			}
		}
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
		if !nested {
			n.Style = yaml.FlowStyle
		}
		return

	default:
		return
	}
}
