package bridge

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Status is the outcome class of a command.
type Status int

const (
	StatusSuccess Status = iota
	StatusError
	// StatusNotImplemented signals an unknown command name. It is a
	// capability answer, not an error.
	StatusNotImplemented
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	case StatusNotImplemented:
		return "notImplemented"
	}
	return "unknown"
}

// Response is the single answer to one command.
type Response struct {
	Status Status
	Value  any
	Err    *Failure
}

// ErrNotImplemented is returned by Call for unknown commands.
var ErrNotImplemented = errors.New("command not implemented")

// Responder delivers exactly one Response. Later answers are dropped.
type Responder struct {
	method Method
	once   sync.Once
	fn     func(Response)
}

func newResponder(method Method, fn func(Response)) *Responder {
	return &Responder{method: method, fn: fn}
}

func (r *Responder) send(resp Response) {
	sent := false
	r.once.Do(func() {
		sent = true
		r.fn(resp)
	})
	if !sent {
		slog.Warn("Dropping duplicate response", "method", string(r.method), "status", resp.Status.String())
	}
}

// Success answers with value (nil for setters).
func (r *Responder) Success(value any) { r.send(Response{Status: StatusSuccess, Value: value}) }

// Fail answers with a typed failure.
func (r *Responder) Fail(f *Failure) { r.send(Response{Status: StatusError, Err: f}) }

// NotImplemented answers an unknown command.
func (r *Responder) NotImplemented() { r.send(Response{Status: StatusNotImplemented}) }

// Pending is a command whose answer may arrive later, e.g. from an engine
// callback. There is no built-in timeout: a callback that never fires leaves
// Wait blocked until ctx is done.
type Pending struct {
	done chan struct{}
	resp Response
}

func newPending() *Pending { return &Pending{done: make(chan struct{})} }

func (p *Pending) complete(resp Response) {
	p.resp = resp
	close(p.done)
}

// Done is closed once the response is available.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the response arrives or ctx is done.
func (p *Pending) Wait(ctx context.Context) (Response, error) {
	select {
	case <-p.done:
		return p.resp, nil
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}
