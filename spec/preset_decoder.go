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

package spec

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/zintix-labs/cyclelab/errs"
	"gopkg.in/yaml.v3"
)

// PresetFile 種子檔與快照檔共用的格式
//
//	presets:
//	  - name: steady
//	    buttonLabel: Steady
//	    ...
type PresetFile struct {
	Presets []Preset `json:"presets" yaml:"presets"`
}

// GetPresetsByYAML 解析 preset 種子檔（YAML），未知欄位直接報錯
func GetPresetsByYAML(data []byte) ([]Preset, error) {
	f := &PresetFile{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errs.Wrap(err, "failed to unmarshall presets yaml")
	}
	return f.Presets, nil
}

// GetPresetsByJSON 解析 preset 種子檔（JSON）
func GetPresetsByJSON(data []byte) ([]Preset, error) {
	f := &PresetFile{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(f); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall presets json")
	}
	return f.Presets, nil
}

// MarshalPresetsYAML 輸出與 GetPresetsByYAML 對稱的格式
func MarshalPresetsYAML(ps []Preset) ([]byte, error) {
	if ps == nil {
		ps = []Preset{}
	}
	out, err := yaml.Marshal(PresetFile{Presets: ps})
	if err != nil {
		return nil, errs.Wrap(err, "failed to marshall presets yaml")
	}
	return out, nil
}
