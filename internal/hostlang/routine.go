package hostlang

// YieldFunc is called once per fragment a running routine produces. It
// blocks until the routine's consumer has pulled the value (Next) and
// decided how to proceed; a non-nil returned error is "thrown" back
// into the routine at that exact suspension point, exactly where the
// emitted Go source's own `if err := y.Yield(v); err != nil { ... }`
// check is sitting, so the template author's except_hook branch — or,
// absent one, plain propagation — sees it precisely as if the yield
// expression itself had raised.
type YieldFunc func(v any) error

// Routine runs a func(YieldFunc) error on its own goroutine and lets a
// caller pull its yielded values one at a time with Next, optionally
// injecting an error at a suspension point with Throw instead of
// accepting the pending value. This is the Go-native stand-in for a
// Python-style generator object, built from a goroutine-and-channel
// pair since Go has no language-level generators.
//
// Grounded on the suspend-at-yield-point contract a streaming template
// renderer needs: a template iterator pulling from, and occasionally
// throwing into, an underlying generator. pongo2's own tags execute
// eagerly into a Writer rather than streaming, so this piece has no
// direct pongo2 analogue to adapt from.
type Routine struct {
	values  chan any
	errs    chan error
	resumes chan error
	started bool
	done    bool
}

// Start launches run on a new goroutine. run must call its YieldFunc
// argument once per fragment to produce, in order, and return a
// terminal error (or nil) when finished.
func Start(run func(yield YieldFunc) error) *Routine {
	r := &Routine{
		values:  make(chan any),
		errs:    make(chan error),
		resumes: make(chan error),
	}

	yield := func(v any) error {
		r.values <- v
		return <-r.resumes
	}

	go func() {
		err := run(yield)
		r.errs <- err
	}()

	return r
}

// Next advances the routine to its next yielded value. ok is false
// when the routine has finished (err carries its terminal error, if
// any); otherwise v is the yielded value.
func (r *Routine) Next() (v any, ok bool, err error) {
	return r.resume(nil)
}

// Throw resumes a suspended routine by injecting err at its current
// yield point instead of letting it proceed normally — the routine's
// own Yield call returns err to the generated code, which decides
// whether to recover (via except_hook) or propagate it as the
// routine's terminal error.
func (r *Routine) Throw(err error) (v any, ok bool, terminalErr error) {
	return r.resume(err)
}

func (r *Routine) resume(inject error) (any, bool, error) {
	if r.done {
		return nil, false, nil
	}

	if r.started {
		r.resumes <- inject
	}
	r.started = true

	select {
	case v := <-r.values:
		return v, true, nil
	case err := <-r.errs:
		r.done = true
		return nil, false, err
	}
}

// Close abandons the routine before it has finished, draining any
// pending or future yields with a cancellation error until the
// goroutine exits, so it never leaks regardless of how many fragments
// it had left to produce. Safe to call after the routine has already
// finished.
//
// If the routine is currently suspended at a yield point (Next already
// returned a value that was never followed by another Next/Throw), its
// goroutine is blocked on resumes, not values — draining values first
// would wait forever, so that case is unblocked with its own send
// before entering the drain loop.
func (r *Routine) Close() {
	if r.done {
		return
	}
	r.done = true
	suspended := r.started
	go func() {
		if suspended {
			r.resumes <- errClosed
		}
		for {
			select {
			case <-r.values:
				r.resumes <- errClosed
			case <-r.errs:
				return
			}
		}
	}()
}

var errClosed = &closedError{}

type closedError struct{}

func (*closedError) Error() string { return "hostlang: routine closed before completion" }

// Closed reports whether err is the sentinel Close() injects.
func Closed(err error) bool {
	_, ok := err.(*closedError)
	return ok
}
