package rpc

import (
	"errors"
	"fmt"
	"strings"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// ErrorKind classifies the failure of a call across all endpoints
type ErrorKind int

const (
	// KindTransient means endpoints were unreachable, slow or out of sync; retrying later may work
	KindTransient ErrorKind = iota
	// KindNotSupported means every endpoint answered and the contract does
	// not implement the method (revert or empty return data)
	KindNotSupported
	// KindFatal means the call itself is malformed and will never succeed
	KindFatal
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotSupported:
		return "not_supported"
	case KindFatal:
		return "fatal"
	default:
		return "transient"
	}
}

var (
	// ErrNotSupported marks an endpoint answer meaning the contract lacks the method
	ErrNotSupported = errors.New("method not supported by contract")
	// ErrEmptyResult is returned when a call produced no return data
	ErrEmptyResult = fmt.Errorf("%w: empty return data", ErrNotSupported)
	// ErrNoEndpoints is returned when a call is made without endpoints
	ErrNoEndpoints = errors.New("no rpc endpoints")
)

// EndpointError is the failure of one endpoint within a sweep
type EndpointError struct {
	Endpoint string
	Err      error
}

// SweepError is returned when no endpoint could serve a call
type SweepError struct {
	Op       string
	Kind     ErrorKind
	Failures []EndpointError
}

func (e *SweepError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed on all %d endpoints (%s)", e.Op, len(e.Failures), e.Kind)
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "; %s: %v", redact(f.Endpoint), f.Err)
	}
	return b.String()
}

// Unwrap exposes the per-endpoint errors to errors.Is and errors.As
func (e *SweepError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// Fatal marks err as not worth trying on another endpoint
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// KindOf returns the classification of err. Errors that did not come from
// a sweep are treated as transient.
func KindOf(err error) ErrorKind {
	var sweep *SweepError
	if errors.As(err, &sweep) {
		return sweep.Kind
	}
	var fatal *fatalError
	if errors.As(err, &fatal) {
		return KindFatal
	}
	if errors.Is(err, ErrNotSupported) {
		return KindNotSupported
	}
	return KindTransient
}

// IsNotSupported reports whether err means the contract lacks the method
func IsNotSupported(err error) bool {
	return err != nil && KindOf(err) == KindNotSupported
}

// isRevert reports whether a node answered the call with a revert
func isRevert(err error) bool {
	var rpcErr gethrpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == 3 {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "execution reverted")
}

// isTooManyResults reports whether a log query must be split into smaller ranges
func isTooManyResults(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "more than 10000 results") ||
		strings.Contains(msg, "query timeout exceeded") ||
		strings.Contains(msg, "too many results") ||
		strings.Contains(msg, "exceeded maximum") ||
		strings.Contains(msg, "block range")
}

// redact keeps scheme and host so API keys embedded in endpoint paths are not logged
func redact(endpoint string) string {
	scheme, rest, ok := strings.Cut(endpoint, "://")
	if !ok {
		return "endpoint"
	}
	host, _, _ := strings.Cut(rest, "/")
	return scheme + "://" + host
}
