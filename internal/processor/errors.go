package processor

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

var (
	ErrUnreadableSource     = errors.New("unreadable source")
	ErrUnsupportedMode      = errors.New("unsupported color mode")
	ErrWriteFailure         = errors.New("write failure")
	ErrDestinationCollision = errors.New("destination collision")
	ErrInvalidOptions       = errors.New("invalid options")
	ErrOutputDir            = errors.New("output directory unavailable")
)

// failureReason renders err for display. Path errors are reduced to the
// operation and cause so absolute paths never reach the report.
func failureReason(err error) string {
	if err == nil {
		return ""
	}

	kind := "conversion failed"
	for _, sentinel := range []error{
		ErrUnreadableSource,
		ErrUnsupportedMode,
		ErrWriteFailure,
		ErrDestinationCollision,
	} {
		if errors.Is(err, sentinel) {
			kind = sentinel.Error()
			break
		}
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return kind + ": " + pathErr.Op + ": " + pathErr.Err.Error()
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return kind + ": " + linkErr.Op + ": " + linkErr.Err.Error()
	}

	msg := err.Error()
	msg = strings.TrimPrefix(msg, kind)
	msg = strings.TrimPrefix(msg, ": ")
	if msg == "" {
		return kind
	}
	return kind + ": " + msg
}
