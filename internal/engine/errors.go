package engine

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindInvalidURL               Kind = "InvalidURL"
	KindMissingField             Kind = "MissingField"
	KindAccessDenied             Kind = "AccessDenied"
	KindAgeRestricted            Kind = "AgeRestricted"
	KindPrivateVideo             Kind = "PrivateVideo"
	KindAuthRequired             Kind = "AuthRequired"
	KindDownloadFailed           Kind = "DownloadFailed"
	KindArtifactNotFound         Kind = "ArtifactNotFound"
	KindStorageWriteFailed       Kind = "StorageWriteFailed"
	KindUnsupportedFormat        Kind = "UnsupportedFormat"
	KindTranscriptionStartFailed Kind = "TranscriptionStartFailed"
	KindUnknown                  Kind = "Unknown"
)

// IsClient reports whether failures of this kind are caused by the request
// rather than by the pipeline or its collaborators.
func (k Kind) IsClient() bool {
	switch k {
	case KindInvalidURL, KindMissingField, KindAccessDenied, KindAgeRestricted,
		KindPrivateVideo, KindAuthRequired, KindUnsupportedFormat:
		return true
	}
	return false
}

// Error is a classified pipeline failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg == "" && e.Err == nil:
		return string(e.Kind)
	case e.Err == nil:
		return e.Msg
	case e.Msg == "":
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds a classified error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind. A nil err yields nil.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain,
// or KindUnknown when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
