package vo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Reason why a check failed
type Reason string

const (
	ReasonLocalNotFound     Reason = "local-not-found"
	ReasonFragmentNotFound  Reason = "fragment-not-found"
	ReasonRemoteUnreachable Reason = "remote-unreachable"
	ReasonRemoteGone        Reason = "remote-gone"
	// document level reasons
	ReasonParse Reason = "parse-error"
	ReasonRead  Reason = "read-error"
)

var (
	ErrLocalNotFound     = errors.New("local path not found")
	ErrFragmentNotFound  = errors.New("fragment not found")
	ErrRemoteUnreachable = errors.New("remote url unreachable")
	ErrRemoteGone        = errors.New("remote url gone")
	ErrParse             = errors.New("document can not be parsed")
	ErrRead              = errors.New("document can not be read")
)

var reasonErrors = map[Reason]error{
	ReasonLocalNotFound:     ErrLocalNotFound,
	ReasonFragmentNotFound:  ErrFragmentNotFound,
	ReasonRemoteUnreachable: ErrRemoteUnreachable,
	ReasonRemoteGone:        ErrRemoteGone,
	ReasonParse:             ErrParse,
	ReasonRead:              ErrRead,
}

// Err sentinel error for the reason
func (r Reason) Err() error {
	if err, ok := reasonErrors[r]; ok {
		return err
	}
	return errors.New(string(r))
}

// Outcome result of checking one classified reference, a zero Reason means ok
type Outcome struct {
	Reason     Reason
	StatusCode int
	Detail     string
	// Duration of the remote round trip, zero for local checks
	Duration time.Duration
}

func OK() Outcome {
	return Outcome{}
}

func Failed(reason Reason, detail string) Outcome {
	return Outcome{Reason: reason, Detail: detail}
}

func (o Outcome) OK() bool {
	return o.Reason == ""
}

// Failure a failed check with everything needed to fix it
type Failure struct {
	Document   string
	Target     string
	Label      string
	Element    ElementKind
	Reason     Reason
	StatusCode int
	Detail     string
}

func NewFailure(ref Reference, o Outcome) Failure {
	return Failure{
		Document:   ref.Document,
		Target:     ref.Target,
		Label:      ref.Label,
		Element:    ref.Kind,
		Reason:     o.Reason,
		StatusCode: o.StatusCode,
		Detail:     o.Detail,
	}
}

func (f Failure) Error() string {
	switch f.Reason {
	case ReasonParse, ReasonRead:
		return fmt.Sprintf("%s: %s: %s", f.Document, f.Reason.Err(), f.Detail)
	}
	msg := fmt.Sprintf("%s: %s '%s' (%s)", f.Document, f.Reason.Err(), f.Target, f.Label)
	switch {
	case f.StatusCode > 0:
		msg += " status code: " + strconv.Itoa(f.StatusCode)
	case f.Detail != "":
		msg += ": " + f.Detail
	}
	return msg
}

func (f Failure) Unwrap() error {
	return f.Reason.Err()
}

// BrokenReferencesError all failures of a scan as one error
type BrokenReferencesError struct {
	Failures []Failure
}

func (e *BrokenReferencesError) Error() string {
	lines := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		lines[i] = f.Error()
	}
	noun := "references"
	if len(e.Failures) == 1 {
		noun = "reference"
	}
	return fmt.Sprintf("%d broken %s:\n%s", len(e.Failures), noun, strings.Join(lines, "\n"))
}

// Unwrap lets errors.Is match any of the contained failure reasons
func (e *BrokenReferencesError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}
