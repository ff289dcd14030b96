package trace

import "errors"

// fanout sends every event to a stream tracer and a ring (ModeBoth).
type fanout struct {
	tracers []Tracer
	level   Level
}

func newFanout(level Level, tracers ...Tracer) *fanout {
	return &fanout{tracers: tracers, level: level}
}

// Emit hands each child its own copy; children stamp Seq themselves.
func (t *fanout) Emit(ev *Event) {
	for _, tr := range t.tracers {
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *fanout) Flush() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

func (t *fanout) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

func (t *fanout) Level() Level { return t.level }

func (t *fanout) Enabled() bool { return t.level > LevelOff }

func (t *fanout) ring() *RingTracer {
	for _, tr := range t.tracers {
		if r, ok := tr.(*RingTracer); ok {
			return r
		}
	}
	return nil
}
