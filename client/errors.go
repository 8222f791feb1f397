package client

import "github.com/pkg/errors"

// Error taxonomy per spec.md §7. These are sentinel causes; call sites
// wrap them with errors.Wrap to attach the request/window context, the
// same way chain.go wraps with errors.Errorf rather than inventing a new
// error type per failure site.
var (
	// ErrInterruptedAdmission is returned when the caller is interrupted
	// (ctx cancelled) while waiting on the admission gate. The request is
	// never registered on a window.
	ErrInterruptedAdmission = errors.New("interrupted while waiting for admission permit")

	// ErrRetryExhausted is terminal: the retry policy refused a further
	// attempt. The whole window fails with this cause.
	ErrRetryExhausted = errors.New("retry policy exhausted")

	// ErrWindowReset is the cause every other outstanding request in a
	// window is failed with once one of them fails terminally
	// (fate-sharing, spec.md §7 "Policy: per-window fate-sharing"). The
	// request that actually triggered the failure keeps its own cause;
	// its siblings fail with an error that wraps both this sentinel and
	// that cause.
	ErrWindowReset = errors.New("sibling request in window failed terminally")

	// ErrClientClosed is returned by Send once Client.Close has been
	// called; no further requests are admitted.
	ErrClientClosed = errors.New("client is closed")
)

// NotLeaderError signals the addressed server is not (or no longer) the
// Raft leader. SuggestedLeader is empty when the server had no opinion
// about who the leader is.
type NotLeaderError struct {
	SuggestedLeader string
	cause           error
}

func (e *NotLeaderError) Error() string {
	if e.cause != nil {
		return "not leader: " + e.cause.Error()
	}
	return "not leader"
}

func (e *NotLeaderError) Unwrap() error { return e.cause }

// NewNotLeaderError wraps cause as a NotLeaderError with an optional
// leader hint.
func NewNotLeaderError(suggestedLeader string, cause error) *NotLeaderError {
	return &NotLeaderError{SuggestedLeader: suggestedLeader, cause: cause}
}

// EmbeddedExceptionError wraps a Raft-level exception carried inside an
// otherwise normal reply (spec.md §4.7, §7 EmbeddedReplyException). The
// wrapping rule is supplied by the surrounding client; this type is the
// default, whose Unwrap returns the embedded exception.
type EmbeddedExceptionError struct {
	cause error
}

func (e *EmbeddedExceptionError) Error() string {
	return "embedded raft exception: " + e.cause.Error()
}

func (e *EmbeddedExceptionError) Unwrap() error { return e.cause }

// WrapEmbeddedException applies the default embedded-exception wrapping
// rule (spec.md §4.7 "typically a completion-exception wrapper").
func WrapEmbeddedException(cause error) error {
	if cause == nil {
		return nil
	}
	return &EmbeddedExceptionError{cause: cause}
}

// IOError marks a transient, retry-policy-subject transport failure
// (spec.md §7 TransientIO).
type IOError struct {
	ServerID string
	cause    error
}

func (e *IOError) Error() string {
	if e.ServerID != "" {
		return "io error talking to " + e.ServerID + ": " + e.cause.Error()
	}
	return "io error: " + e.cause.Error()
}

func (e *IOError) Unwrap() error { return e.cause }

// NewIOError wraps cause as an IOError.
func NewIOError(serverID string, cause error) *IOError {
	return &IOError{ServerID: serverID, cause: cause}
}

// GroupMismatchError is terminal (spec.md §7 GroupMismatch).
type GroupMismatchError struct {
	cause error
}

func (e *GroupMismatchError) Error() string {
	return "group mismatch: " + e.cause.Error()
}

func (e *GroupMismatchError) Unwrap() error { return e.cause }

// NewGroupMismatchError wraps cause as a GroupMismatchError.
func NewGroupMismatchError(cause error) *GroupMismatchError {
	return &GroupMismatchError{cause: cause}
}
