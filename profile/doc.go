// Package profile starts and stops [github.com/pkg/profile] sessions.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	calc --pprof-mode cpu --pprof-dir ./profiles eval 'fn sq x => x * x' 'sq 12'
//	go tool pprof -http=: ./profiles/cpu.pprof
//
// Without the tag, [Modes] is empty and [Profiler.Start] does nothing.
package profile

// Tag is the build tag that enables profiling.
const Tag = `pprof`
