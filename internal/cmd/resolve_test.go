package cmd

import (
	"context"
	"strings"
	"testing"
)

func TestResolveCommand(t *testing.T) {
	isolateEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "curly default",
			args: []string{"resolve", "/projects/{projectId}/units/{unitId}", "-p", "projectId=p1", "-p", "unitId=u9"},
			want: "/projects/p1/units/u9",
		},
		{
			name: "colon encodes values",
			args: []string{"resolve", "/projects/:projectId", "--style", "colon", "-p", "projectId=a b"},
			want: "/projects/a%20b",
		},
		{
			name: "both styles in one template",
			args: []string{"resolve", "/projects/{projectId}/units/:unitId", "--style", "both", "-p", "projectId=p1", "-p", "unitId=u/9"},
			want: "/projects/p1/units/u%2F9",
		},
		{
			name: "global path style",
			args: []string{"resolve", "/projects/:projectId", "--path-style", "colon", "-p", "projectId=p1"},
			want: "/projects/p1",
		},
		{
			name: "zero values are present",
			args: []string{"resolve", "/page/{n}", "-p", "n=0"},
			want: "/page/0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureStdout(t, func() {
				if err := Execute(context.Background(), tt.args); err != nil {
					t.Fatalf("resolve failed: %v", err)
				}
			})
			if got := strings.TrimSpace(output); got != tt.want {
				t.Errorf("resolve = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveCommand_MissingParam(t *testing.T) {
	isolateEnv(t)

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"resolve", "/projects/{projectId}/units/{unitId}", "-p", "projectId=p1"})
	})
	if err == nil {
		t.Fatal("expected an error for a missing placeholder value")
	}
	if code := ExitCode(err); code != exitUsage {
		t.Errorf("ExitCode = %d, want %d", code, exitUsage)
	}
	if !strings.Contains(stderr, `Missing path parameter "unitId"`) {
		t.Errorf("stderr missing hint, got: %s", stderr)
	}
}

func TestResolveCommand_Strict(t *testing.T) {
	isolateEnv(t)

	args := []string{"resolve", "/projects/{projectId}/:unitId", "-p", "projectId=p1"}
	output := captureStdout(t, func() {
		if err := Execute(context.Background(), args); err != nil {
			t.Fatalf("non-strict resolve failed: %v", err)
		}
	})
	if got := strings.TrimSpace(output); got != "/projects/p1/:unitId" {
		t.Errorf("non-strict resolve = %q", got)
	}

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), append(args, "--strict"))
	})
	if err == nil {
		t.Fatal("expected --strict to reject leftover colon syntax")
	}
	if !strings.Contains(err.Error(), "not all path parameters replaced") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestResolveCommand_NamesJSON(t *testing.T) {
	isolateEnv(t)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"resolve", "/projects/{projectId}/units/:unitId/{projectId}", "--style", "both", "--names", "-o", "json",
		})
		if err != nil {
			t.Fatalf("resolve --names failed: %v", err)
		}
	})

	var got resolveResult
	decodeJSON(t, output, &got)
	if got.Style.String() != "both" {
		t.Errorf("style = %s, want both", got.Style)
	}
	if len(got.Names) != 2 || got.Names[0] != "projectId" || got.Names[1] != "unitId" {
		t.Errorf("names = %v, want [projectId unitId]", got.Names)
	}
	if got.URL != "" {
		t.Errorf("url should be omitted with --names, got %q", got.URL)
	}
}

func TestResolveCommand_InvalidStyle(t *testing.T) {
	isolateEnv(t)

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"resolve", "/x", "--style", "square"})
	})
	if err == nil || !strings.Contains(err.Error(), "invalid placeholder style") {
		t.Fatalf("expected invalid style error, got %v", err)
	}
	if code := ExitCode(err); code != exitUsage {
		t.Errorf("ExitCode = %d, want %d", code, exitUsage)
	}
}
