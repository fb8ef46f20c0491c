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

package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLevel : Error 分級，使最上層理解問題嚴重程度
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

var errLvMap = map[ErrLevel]string{
	None:  "",
	Fatal: "fatal",
	Warn:  "warn",
	Log:   "log",
}

func ErrLv(errlv ErrLevel) string {
	if str, ok := errLvMap[errlv]; ok {
		return str
	}
	return ""
}

// Code 是驗證層的錯誤種類，對外（HTTP / UI）以字串呈現。
type Code string

const (
	CodeNone              Code = ""
	PercentageOutOfRange  Code = "PercentageOutOfRange"
	PercentageSumMismatch Code = "PercentageSumMismatch"
	BetRangeInvalid       Code = "BetRangeInvalid"
	CycleLengthOutOfRange Code = "CycleLengthOutOfRange"
	PauseOutOfRange       Code = "PauseOutOfRange"
	NameRequired          Code = "NameRequired"
	FlowUnknown           Code = "FlowUnknown"
)

// E 是統一的錯誤型別。
// Message 為主訊息；Extra 為呼叫端可追加的額外上下文；
// Cause 可串接下層錯誤（wrap）；ErrLv 表示嚴重度；
// Code / Fields 只有驗證錯誤會帶，指出錯誤種類與出問題的欄位。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
	Code    Code
	Fields  []string
}

// Error 實作 error 介面並回傳格式化後的錯誤訊息。
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", ErrLv(e.ErrLv), e.Message)
	if e.Code != CodeNone {
		base = fmt.Sprintf("errlv=%s code=%s %s", ErrLv(e.ErrLv), e.Code, e.Message)
	}
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

// New 依錯誤等級與訊息建立錯誤
func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func NewLog(msg string) *E {
	return &E{Message: msg, ErrLv: Log}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

func Logf(format string, a ...any) *E {
	return NewLog(fmt.Sprintf(format, a...))
}

// Invalid 建立一個可恢復（Warn）的驗證錯誤，帶錯誤種類與欄位。
func Invalid(code Code, msg string, fields ...string) *E {
	return &E{Message: msg, ErrLv: Warn, Code: code, Fields: fields}
}

// NewWithExtra 與 New 相同，但可附加額外上下文字串（不影響主訊息）。
func NewWithExtra(errLv ErrLevel, msg string, extra string) *E {
	e := New(errLv, msg)
	e.Extra = extra
	return e
}

// Wrap 使用給定訊息包裝底層錯誤，建立一個 *E。
//
// ErrLevel 規則：
//   - 若 cause 已經是 *E，則沿用其 ErrLv 與 Code（保持原本嚴重度）。
//   - 若 cause 是 List，視為驗證錯誤（Warn）。
//   - 其他（多半是標準庫或三方依賴錯誤）一律視為 Fatal。
func Wrap(cause error, msg string) *E {
	r := New(levelOf(cause), msg)
	if e, ok := AsErr(cause); ok {
		r.Code = e.Code
	}
	r.Cause = cause
	return r
}

// WrapWithExtra 與 Wrap 相同，另外附加上下文。
func WrapWithExtra(cause error, msg string, extra string) *E {
	r := Wrap(cause, msg)
	r.Extra = extra
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}

func levelOf(err error) ErrLevel {
	var l List
	if errors.As(err, &l) {
		return Warn
	}
	if e, ok := AsErr(err); ok {
		return e.ErrLv
	}
	return Fatal
}

// ============================================================
// ** List **
// ============================================================

// List 收集多個錯誤一次回傳（不 fail-fast），讓呼叫端可以一次顯示所有問題。
// 空 List 不是錯誤；請用 Err() 轉成 error。
type List []*E

// Add 追加錯誤，nil 會被忽略。
func (l *List) Add(e ...*E) {
	for _, it := range e {
		if it != nil {
			*l = append(*l, it)
		}
	}
}

// Merge 把另一個 error 併入；若是 List 會攤平，若是 *E 直接加入，其他錯誤包成 Fatal。
func (l *List) Merge(err error) {
	if err == nil {
		return
	}
	var other List
	if errors.As(err, &other) {
		l.Add(other...)
		return
	}
	if e, ok := AsErr(err); ok {
		l.Add(e)
		return
	}
	l.Add(Wrap(err, err.Error()))
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return ""
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, 0, len(l))
	for _, e := range l {
		msgs = append(msgs, e.Error())
	}
	return fmt.Sprintf("%d errors: %s", len(l), strings.Join(msgs, "; "))
}

// Err 回傳 nil（沒有錯誤）或 List 本身。
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Has 判斷是否包含指定種類的錯誤。
func (l List) Has(code Code) bool {
	for _, e := range l {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Codes 依出現順序回傳所有錯誤種類。
func (l List) Codes() []Code {
	out := make([]Code, 0, len(l))
	for _, e := range l {
		out = append(out, e.Code)
	}
	return out
}

// AsList 取出 err 內的 List；單一 *E 會被包成長度 1 的 List。
func AsList(err error) (List, bool) {
	var l List
	if errors.As(err, &l) {
		return l, true
	}
	if e, ok := AsErr(err); ok {
		return List{e}, true
	}
	return nil, false
}
