package rr

// ring is a fixed-capacity circular buffer of samples. Not safe for
// concurrent use; RollingSeries guards it.
type ring struct {
	buf   []Sample
	pos   int // next write slot
	count int
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]Sample, capacity)}
}

// newRingFrom builds a ring holding the last cap(ring) entries of samples.
func newRingFrom(capacity int, samples []Sample) *ring {
	r := newRing(capacity)
	if len(samples) > capacity {
		samples = samples[len(samples)-capacity:]
	}
	r.count = copy(r.buf, samples)
	r.pos = r.count % capacity
	return r
}

// push writes at the tail, overwriting the oldest entry when full.
func (r *ring) push(s Sample) {
	r.buf[r.pos] = s
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// values returns the samples in chronological order.
func (r *ring) values() []Sample {
	if r.count == 0 {
		return nil
	}
	out := make([]Sample, r.count)
	if r.count < len(r.buf) {
		copy(out, r.buf[:r.count])
	} else {
		n := copy(out, r.buf[r.pos:])
		copy(out[n:], r.buf[:r.pos])
	}
	return out
}

// last returns the newest sample.
func (r *ring) last() (Sample, bool) {
	if r.count == 0 {
		return Sample{}, false
	}
	idx := (r.pos - 1 + len(r.buf)) % len(r.buf)
	return r.buf[idx], true
}
