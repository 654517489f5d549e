package profile

// Profiler describes one profiling session.
type Profiler struct {
	Mode  string // one of Modes; empty disables profiling
	Dir   string // output directory; empty uses a temporary directory
	Quiet bool   // suppress the start and stop messages of pkg/profile
}

// Stopper ends a profiling session and writes its output.
type Stopper interface{ Stop() }

// Start begins profiling. An empty or unsupported Mode, or a binary built
// without the pprof tag, yields a Stopper that does nothing.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return nop{}
	}

	return start(p)
}

// Enabled reports whether the binary was built with profiling support.
func Enabled() bool { return len(Modes()) > 0 }

type nop struct{}

func (nop) Stop() {}
