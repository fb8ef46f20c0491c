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

// GetLimitsByYAML
// 以預設界線為底解碼 YAML，執行基本檢查後回傳。
// 沒寫的欄位維持預設，明確寫 0 的欄位維持 0。
// 未知欄位（拼錯）直接報錯。
func GetLimitsByYAML(data []byte) (*Limits, error) {
	l := DefaultLimits()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil && !errors.Is(err, io.EOF) {
		return nil, errs.Wrap(err, "failed to unmarshall limits yaml")
	}
	if err := l.init(); err != nil {
		return nil, errs.Wrap(err, "limits initialized err")
	}
	return &l, nil
}

// GetLimitsByJSON
// 以預設界線為底解碼 JSON，執行基本檢查後回傳
func GetLimitsByJSON(data []byte) (*Limits, error) {
	l := DefaultLimits()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&l); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall limits json")
	}
	if err := l.init(); err != nil {
		return nil, errs.Wrap(err, "limits initialized err")
	}
	return &l, nil
}
