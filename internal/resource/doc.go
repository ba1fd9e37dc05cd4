// Package resource implements the Controller for allocation limits.
//
// The Controller provides centralized governance of two resource types:
//
//   - Memory: track and limit bytes held by sequence storage (non-blocking,
//     fail-fast)
//   - Allocation throughput: rate-limit bytes handed out per second so that
//     growth churn cannot monopolize memory bandwidth (token bucket)
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and an atomic
// counter for usage tracking. AcquireMemory is non-blocking and returns
// immediately with ErrMemoryLimitExceeded if the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(1024 * 1024); err != nil {
//	    // ErrMemoryLimitExceeded - caller decides retry/backoff
//	}
//	defer rc.ReleaseMemory(1024 * 1024)
//
// # Allocation Throughput
//
// WaitAlloc blocks until the configured bytes/sec budget admits the request,
// or the context is canceled. With no rate configured it returns immediately.
//
// All methods are nil-safe: a nil *Controller enforces nothing, so callers
// can thread an optional controller through without guarding every call.
package resource
