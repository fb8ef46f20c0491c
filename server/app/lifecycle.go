package app

import "context"

// Component 是交給 App 管理的長生命週期元件，例如 HTTP server 與 preset 快照排程。
//   - Run() 阻塞直到元件停止；正常關閉回傳 nil。
//   - Shutdown(ctx) 要求優雅關閉，須尊重 ctx deadline，且可重複呼叫。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}
