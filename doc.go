// Package asyncrt provides a single-threaded callback-style async
// runtime backed by a dedicated reactor thread and a fixed worker
// pool, in the style of Node.js's libuv event loop.
//
// # Architecture
//
// A [Runtime] drives three kinds of concurrent activity:
//   - The event loop itself, running on the goroutine that called [Run].
//     All user callbacks execute here, one at a time, never concurrently.
//   - A reactor thread, which blocks in the platform's readiness-polling
//     syscall (epoll on Linux, kqueue on Darwin) and reports socket
//     readiness and timer deadlines back to the loop.
//   - A fixed-size worker pool, which runs blocking operations (file
//     reads, CPU-bound compute) off the loop thread and reports their
//     results back asynchronously.
//
// The reactor and the workers report back through a single inbound
// channel owned by the Runtime. The loop hands jobs to each worker over
// that worker's own channel and passes the reactor its next poll
// timeout through a mutex-guarded field. Callbacks and the callback
// registry never leave the loop's goroutine, so callback execution
// itself never needs a lock.
//
// # Platform support
//
// Readiness polling is implemented using platform-native mechanisms:
//   - Linux: epoll, woken for shutdown via eventfd
//   - Darwin: kqueue, woken for shutdown via EVFILT_USER
//
// # Thread safety
//
// [SetTimeout], [ReadFile], [Compute] and [HTTPGet] are free functions
// that operate on the single process-wide active Runtime; they must be
// called from a callback running on that Runtime's own goroutine. The
// equivalent [Runtime] methods are the primary, explicit API and follow
// the same rule.
//
// # Usage
//
//	err := asyncrt.Run(func(rt *asyncrt.Runtime) {
//	    rt.SetTimeout(100, func(asyncrt.IOResult) {
//	        fmt.Println("hello after 100ms")
//	    })
//	})
package asyncrt
