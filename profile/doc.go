// Package profile provides optional runtime profiling for the c420
// interpreter.
//
// Profiling is built on [github.com/pkg/profile] and compiled in only with
// the "pprof" build tag:
//
//	go build -tags pprof -o c420 .
//
// Without the tag, [Profiler.Start] returns a no-op stopper and [Modes]
// reports no supported modes, so callers never need to check the build
// configuration themselves.
//
// # Modes
//
// With the pprof tag, the following modes are supported:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// # Usage
//
//	p := profile.Make(
//		profile.WithMode("cpu"),
//		profile.WithPath("/tmp/profiles"),
//	)
//	defer p.Start().Stop()
//
// From the command line:
//
//	c420 --pprof-mode=cpu run script.c4
//	c420 --pprof-mode=heap --pprof-dir=./profiles check script.c4
//
// Profile files are named after the mode (cpu.pprof, mem.pprof) and are
// analyzed with go tool pprof:
//
//	go tool pprof -http=: ./c420 /tmp/profiles/cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
