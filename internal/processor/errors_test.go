package processor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
	"testing"
)

func TestFailureReason(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			"path error keeps op and cause only",
			fmt.Errorf("%w: %w", ErrUnreadableSource, &fs.PathError{Op: "open", Path: "/secret/dir/a.png", Err: fs.ErrNotExist}),
			"unreadable source: open: file does not exist",
		},
		{
			"link error from rename",
			fmt.Errorf("%w: %w", ErrWriteFailure, &os.LinkError{Op: "rename", Old: "/tmp/x", New: "/out/a.webp", Err: syscall.EISDIR}),
			"write failure: rename: " + syscall.EISDIR.Error(),
		},
		{
			"plain wrapped cause",
			fmt.Errorf("%w: decode png: unexpected EOF", ErrUnreadableSource),
			"unreadable source: decode png: unexpected EOF",
		},
		{
			"bare sentinel",
			ErrUnsupportedMode,
			"unsupported color mode",
		},
		{
			"unclassified",
			errors.New("boom"),
			"conversion failed: boom",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := failureReason(tc.err); got != tc.want {
				t.Fatalf("failureReason = %q, want %q", got, tc.want)
			}
		})
	}

	if failureReason(nil) != "" {
		t.Fatalf("nil error should have empty reason")
	}
}
