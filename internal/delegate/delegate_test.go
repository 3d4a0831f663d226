package delegate

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"lofreq/internal/errors"
)

func TestForwardedArgs(t *testing.T) {
	tests := []struct {
		name string
		prog string
		rest []string
		want []string
	}{
		{
			name: "no extra args",
			prog: "lofreq",
			rest: nil,
			want: []string{"lofreq"},
		},
		{
			name: "one extra arg",
			prog: "lofreq",
			rest: []string{"-h"},
			want: []string{"lofreq", "-h"},
		},
		{
			name: "many extra args keep order",
			prog: "lofreq",
			rest: []string{"-i", "in.snp", "-o", "out.snp", "--strand-bias"},
			want: []string{"lofreq", "-i", "in.snp", "-o", "out.snp", "--strand-bias"},
		},
		{
			name: "program name with path",
			prog: "/usr/local/bin/lofreq",
			rest: []string{"x", "y"},
			want: []string{"/usr/local/bin/lofreq", "x", "y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForwardedArgs(tt.prog, tt.rest)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ForwardedArgs() = %v, expected %v", got, tt.want)
			}
			if len(got) != len(tt.rest)+1 {
				t.Errorf("expected length %d, got %d", len(tt.rest)+1, len(got))
			}
		})
	}
}

func TestForwardedArgsIsFreshCopy(t *testing.T) {
	rest := []string{"a", "b"}
	got := ForwardedArgs("lofreq", rest)
	got[1] = "mutated"
	if rest[0] != "a" {
		t.Errorf("ForwardedArgs must not alias the input slice")
	}
}

func TestReplaceUnknownProgram(t *testing.T) {
	// Empty PATH guarantees lookup failure regardless of the host.
	t.Setenv("PATH", t.TempDir())

	err := Replace("lofreq2_filter.py", []string{"lofreq"})
	if err == nil {
		t.Fatal("expected an error for a program missing from PATH")
	}

	var de *errors.DelegateError
	if !stderrors.As(err, &de) {
		t.Fatalf("expected DelegateError, got %T: %v", err, err)
	}
	if de.Program != "lofreq2_filter.py" {
		t.Errorf("expected program %q in error, got %q", "lofreq2_filter.py", de.Program)
	}
}

func TestReplacePassesResolvedPathAndArgv(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "lofreq2_filter.py")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)

	var gotPath string
	var gotArgv []string
	orig := replaceProcess
	replaceProcess = func(path string, argv []string, env []string) error {
		gotPath = path
		gotArgv = argv
		return stderrors.New("exec blocked in test")
	}
	defer func() { replaceProcess = orig }()

	argv := []string{"lofreq", "-i", "in.snp"}
	err := Replace("lofreq2_filter.py", argv)
	if err == nil {
		t.Fatal("expected error from blocked exec")
	}

	if gotPath != script {
		t.Errorf("expected resolved path %q, got %q", script, gotPath)
	}
	if !reflect.DeepEqual(gotArgv, argv) {
		t.Errorf("expected argv %v, got %v", argv, gotArgv)
	}
}
