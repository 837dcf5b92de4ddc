package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradgraph/internal/app"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want app.Config
	}{
		{
			name: "positional",
			args: []string{"graph.hcl"},
			want: app.Config{GraphPath: "graph.hcl", Tolerance: app.DefaultTolerance, LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "shorthand",
			args: []string{"-g", "g.hcl", "--check", "--tolerance", "0.01"},
			want: app.Config{GraphPath: "g.hcl", Check: true, Tolerance: 0.01, LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "long flag wins",
			args: []string{"--graph", "a.hcl", "-g", "b.hcl", "c.hcl"},
			want: app.Config{GraphPath: "a.hcl", Tolerance: app.DefaultTolerance, LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "everything",
			args: []string{"--output", "c", "--dot", "-", "--log-format", "JSON", "--log-level", "Debug", "g.hcl"},
			want: app.Config{GraphPath: "g.hcl", Output: "c", DOTPath: "-", Tolerance: app.DefaultTolerance, LogFormat: "json", LogLevel: "debug"},
		},
		{
			name: "render",
			args: []string{"--render", "out/graph.svg", "g.hcl"},
			want: app.Config{GraphPath: "g.hcl", RenderPath: "out/graph.svg", Tolerance: app.DefaultTolerance, LogFormat: "text", LogLevel: "info"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, exit, err := Parse(tt.args, &bytes.Buffer{})
			require.NoError(t, err)
			assert.False(t, exit)
			assert.Equal(t, tt.want, *cfg)
		})
	}
}

func TestParse_Usage(t *testing.T) {
	for _, args := range [][]string{nil, {"-h"}} {
		var out bytes.Buffer
		cfg, exit, err := Parse(args, &out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"unknown flag", []string{"--nope"}, "flag provided but not defined"},
		{"log format", []string{"--log-format", "xml", "g.hcl"}, "invalid log-format"},
		{"log level", []string{"--log-level", "loud", "g.hcl"}, "invalid log-level"},
		{"tolerance", []string{"--tolerance", "-1", "g.hcl"}, "tolerance must not be negative"},
		{"render format", []string{"--render", "graph.gif", "g.hcl"}, "unsupported image format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.args, &bytes.Buffer{})
			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Error(), tt.msg)
		})
	}
}
