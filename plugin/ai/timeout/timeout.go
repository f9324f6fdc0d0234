// Package timeout defines centralized timeout constants for AI operations.
// Package timeout 定义 AI 操作的集中式超时常量。
package timeout

import "time"

// AI operation timeout constants.
// AI 操作超时常量。
const (
	// GenerationTimeout bounds a single call to the generative backend.
	// GenerationTimeout 是单次 LLM 调用的超时时间。
	GenerationTimeout = 60 * time.Second

	// RequestTimeout bounds one conversation request end to end.
	// RequestTimeout 是单个会话请求的总超时时间。
	RequestTimeout = 90 * time.Second

	// StoreTimeout bounds the read phase that assembles agent context.
	StoreTimeout = 10 * time.Second

	// ShutdownTimeout is the grace period for in-flight requests on shutdown.
	// ShutdownTimeout 是服务关闭时等待进行中请求的时间。
	ShutdownTimeout = 15 * time.Second
)
