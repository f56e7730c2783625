package syncer

import "errors"

// Status summarizes a Push.
type Status int

const (
	// Succeeded means every source was written.
	Succeeded Status = iota
	// PartiallyFailed means at least one source was not written.
	PartiallyFailed
)

func (s Status) String() string {
	if s == Succeeded {
		return "succeeded"
	}
	return "partially failed"
}

// Outcome is the result of writing one source.
type Outcome struct {
	Source Source
	Err    error
}

// OK reports whether the source was written.
func (o Outcome) OK() bool { return o.Err == nil }

// Result records the per-source outcomes of a Push, in source order.
type Result struct {
	Outcomes []Outcome
}

// Status is Succeeded only if every source succeeded.
func (r Result) Status() Status {
	if len(r.Failed()) == 0 {
		return Succeeded
	}
	return PartiallyFailed
}

// OK reports whether every source was written.
func (r Result) OK() bool {
	return r.Status() == Succeeded
}

// Succeeded returns the outcomes that wrote successfully.
func (r Result) Succeeded() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Failed returns the outcomes that failed.
func (r Result) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Err joins the per-source errors, or returns nil if all succeeded.
func (r Result) Err() error {
	var errs []error
	for _, o := range r.Failed() {
		errs = append(errs, o.Err)
	}
	return errors.Join(errs...)
}
