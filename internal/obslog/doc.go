// Package obslog provides the structured logging used throughout hqueue.
//
// It wraps log/slog behind a small Logger type so the manager dispatcher and
// worker client can log at a level and format set once at process start, and
// so a caller can swap in another slog.Handler (e.g. a zap core via zapslog,
// see zap.go) without touching call sites.
//
// Basic usage:
//
//	log, _ := obslog.New(obslog.DefaultConfig())
//	log.Info("queue registered", "queue_id", id)
//	log.Warn("mode violation", "op", "dequeue_nb", "queue_id", id)
//
// Package-level default:
//
//	obslog.Init(cfg)
//	obslog.Default().Debug("frame dispatched", "opcode", op)
package obslog
