package node

import (
	"strings"
	"testing"

	"github.com/five82/distav1/internal/mediatool"
)

func TestFormatEncodeFailureWithStderr(t *testing.T) {
	msg := formatEncodeFailure(3, mediatool.Result{ExitCode: 1, Stderr: "bad parameter"})
	if !strings.Contains(msg, "segment 3") || !strings.Contains(msg, "bad parameter") {
		t.Errorf("formatEncodeFailure() = %q, missing expected content", msg)
	}
}

func TestFormatEncodeFailureWithoutStderr(t *testing.T) {
	msg := formatEncodeFailure(0, mediatool.Result{ExitCode: 137})
	if !strings.Contains(msg, "137") {
		t.Errorf("formatEncodeFailure() = %q, want exit code present", msg)
	}
}
