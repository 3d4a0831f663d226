package errors

import (
	"errors"
	"testing"
)

func TestLofreqError(t *testing.T) {
	tests := []struct {
		name        string
		errorType   ErrorType
		path        string
		message     string
		cause       error
		expectedMsg string
	}{
		{
			name:        "error with path",
			errorType:   ErrTypeConfig,
			path:        "defaults.yaml",
			message:     "invalid max-depth",
			cause:       nil,
			expectedMsg: "config error for defaults.yaml: invalid max-depth",
		},
		{
			name:        "error without path",
			errorType:   ErrTypeUsage,
			path:        "",
			message:     "missing command",
			cause:       nil,
			expectedMsg: "usage error: missing command",
		},
		{
			name:        "error with cause",
			errorType:   ErrTypeDelegate,
			path:        "lofreq2_filter.py",
			message:     "could not start",
			cause:       errors.New("no such file or directory"),
			expectedMsg: "delegate error for lofreq2_filter.py: could not start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &LofreqError{
				Type:    tt.errorType,
				Path:    tt.path,
				Message: tt.message,
				Cause:   tt.cause,
			}

			if err.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, err.Error())
			}

			if err.Unwrap() != tt.cause {
				t.Errorf("expected cause %v, got %v", tt.cause, err.Unwrap())
			}
		})
	}
}

func TestLofreqErrorIs(t *testing.T) {
	tests := []struct {
		name   string
		err1   *LofreqError
		err2   error
		expect bool
	}{
		{
			name:   "same error type",
			err1:   &LofreqError{Type: ErrTypeParse},
			err2:   &LofreqError{Type: ErrTypeParse},
			expect: true,
		},
		{
			name:   "different error type",
			err1:   &LofreqError{Type: ErrTypeParse},
			err2:   &LofreqError{Type: ErrTypeConfig},
			expect: false,
		},
		{
			name:   "non lofreq error",
			err1:   &LofreqError{Type: ErrTypeParse},
			err2:   errors.New("plain"),
			expect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err1.Is(tt.err2); got != tt.expect {
				t.Errorf("Is() = %v, expected %v", got, tt.expect)
			}
		})
	}
}

func TestTypedConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      error
		wantType ErrorType
	}{
		{"usage", NewUsageError("missing command"), ErrTypeUsage},
		{"command", NewUnknownCommandError("cal"), ErrTypeCommand},
		{"config", NewConfigError("bad bonf", cause), ErrTypeConfig},
		{"config with path", NewConfigErrorWithPath("f.yaml", "bad yaml", cause), ErrTypeConfig},
		{"parse", NewParseError("regions.bed", "bad range", nil), ErrTypeParse},
		{"delegate", NewDelegateError("lofreq2_filter.py", "not found", cause), ErrTypeDelegate},
		{"external", NewExternalToolError("samtools", "exited with 1", cause), ErrTypeExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, &LofreqError{Type: tt.wantType}) {
				t.Errorf("expected error of type %q, got %v", tt.wantType, tt.err)
			}
		})
	}
}

func TestUnknownCommandErrorKeepsToken(t *testing.T) {
	err := NewUnknownCommandError("flter")
	if err.Token != "flter" {
		t.Errorf("expected token %q, got %q", "flter", err.Token)
	}
	want := "command error: unrecognized command 'flter'"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("boom"), ExitFailure},
		{"usage", NewUsageError("missing command"), ExitFailure},
		{"unknown command", NewUnknownCommandError("x"), ExitFailure},
		{"config", NewConfigError("bad", nil), ExitFailure},
		{"delegate launch failure", NewDelegateError("lofreq2_filter.py", "not found", nil), ExitLaunchFailure},
		{"external tool", NewExternalToolError("samtools", "failed", nil), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, expected %d", got, tt.want)
			}
		})
	}
}
