package sightline

import "time"

// debouncer coalesces rapid calls into a single delayed invocation of fn.
// Each call replaces the pending timer, so fn runs once, delay after the
// most recent call.
type debouncer struct {
	host  Host
	delay time.Duration
	fn    func()
	stopT func()
}

func newDebouncer(host Host, delay time.Duration, fn func()) *debouncer {
	return &debouncer{host: host, delay: delay, fn: fn}
}

func (d *debouncer) call() {
	d.stop()
	d.stopT = d.host.AfterFunc(d.delay, func() {
		d.stopT = nil
		d.fn()
	})
}

// stop cancels the pending invocation, if any.
func (d *debouncer) stop() {
	if d.stopT != nil {
		d.stopT()
		d.stopT = nil
	}
}

// pending reports whether an invocation is scheduled.
func (d *debouncer) pending() bool {
	return d.stopT != nil
}
