package common

import "time"

const (
	// MaxJSONRequestBody limits JSON request bodies for admin endpoints.
	MaxJSONRequestBody = 1 << 20
	// RequestTimeout はハンドラ内でアプリケーションサービスを呼ぶ際のタイムアウト。
	RequestTimeout = 5 * time.Second
	// ImportTimeout はインポート 1 回あたりの上限時間。
	ImportTimeout = 2 * time.Minute
)
