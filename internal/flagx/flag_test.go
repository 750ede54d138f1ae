package flagx

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

var clientFlags = []string{"-a", "--addr", "-d", "--db", "-t", "--timeout"}

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "subcommand and config flag are dropped",
			args:    []string{"login", "-c", "docvault.json", "-a", "http://127.0.0.1:8080"},
			allowed: clientFlags,
			want:    []string{"-a", "http://127.0.0.1:8080"},
		},
		{
			name:    "equals form",
			args:    []string{"open", "/home", "--db=/tmp/dv.db", "--timeout=3"},
			allowed: clientFlags,
			want:    []string{"--db=/tmp/dv.db", "--timeout=3"},
		},
		{
			name:    "route argument is not taken for an unlisted flag",
			args:    []string{"-x", "/profile", "-d", "session.db"},
			allowed: clientFlags,
			want:    []string{"-d", "session.db"},
		},
		{
			name:    "dangling flag kept without value",
			args:    []string{"whoami", "-t"},
			allowed: clientFlags,
			want:    []string{"-t"},
		},
		{
			name:    "next flag is not swallowed as a value",
			args:    []string{"-a", "--db=x.db"},
			allowed: clientFlags,
			want:    []string{"-a", "--db=x.db"},
		},
		{
			name:    "value with leading dash only via equals",
			args:    []string{"--addr=-weird"},
			allowed: clientFlags,
			want:    []string{"--addr=-weird"},
		},
		{
			name:    "repeats keep order so the last one wins later",
			args:    []string{"-l", "debug", "-s", "k1", "-l", "warn"},
			allowed: []string{"-s", "-l"},
			want:    []string{"-l", "debug", "-s", "k1", "-l", "warn"},
		},
		{
			name:    "nothing given",
			args:    nil,
			allowed: clientFlags,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, FilterArgs(tt.args, tt.allowed)); diff != "" {
				t.Fatalf("FilterArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJsonConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short", args: []string{"-c", "docvault.json"}, want: "docvault.json"},
		{name: "single dash long", args: []string{"-config", "/etc/docvault.json"}, want: "/etc/docvault.json"},
		{name: "double dash equals", args: []string{"--config=/etc/dv.json", "-a", "x"}, want: "/etc/dv.json"},
		{name: "absent", args: []string{"-a", ":8080", "-l", "debug"}, want: ""},
		{name: "last wins", args: []string{"-c", "one.json", "--config", "two.json"}, want: "two.json"},
		{name: "after subcommand", args: []string{"reset-password", "-c", "dv.json", "-t", "5"}, want: "dv.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JsonConfigPath(tt.args))
		})
	}
}
