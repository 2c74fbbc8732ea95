// Package syncx 提供并发同步的工具函数
//
// 这个包是对 Go 标准库 sync 包的增强，提供常用的并发模式实现。
//
// # 主要功能
//
// 并发限流:
//   - Semaphore: 基于 channel 的计数信号量
//
// 并发安全容器:
//   - ConcurrentMap: 基于 sync.Map 封装的泛型并发 map
//
// 延迟初始化:
//   - Once / OnceErr: 可返回值（及错误）的泛型 sync.Once
//
// # 使用示例
//
//	import "github.com/everyday-items/hqueue/internal/syncx"
//
//	// Semaphore - 限制并发数
//	sem := syncx.NewSemaphore(3)
//	sem.Acquire()
//	defer sem.Release()
//
//	// ConcurrentMap - 并发安全的只读快照
//	m := syncx.NewConcurrentMap[int64, Stats]()
//	m.Set(1, stats)
//	snapshot := m.ToMap()
//
// # 设计原则
//
// 1. 零外部依赖：只使用 Go 标准库
// 2. 简单易用：API 简洁明了
// 3. 类型安全：提供泛型版本
//
// # 注意事项
//
// - Semaphore: 基于带缓冲 channel，获取顺序不保证 FIFO
// - ConcurrentMap: 直接基于 sync.Map，不做分片
// - 所有类型都是并发安全的
package syncx
