package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "flag with equals",
			args:         []string{"-config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "value that looks like a flag is not consumed",
			args:         []string{"-f", "-i", "5"},
			allowedFlags: []string{"-f", "-i"},
			want:         []string{"-f", "-i", "5"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "client.json", ConfigPath([]string{"-a", "x:1", "-c", "client.json"}))
	assert.Equal(t, "server.json", ConfigPath([]string{"-config=server.json"}))
	assert.Equal(t, "", ConfigPath([]string{"-a", "x:1"}))
}

func TestJsonConfigFlags_ReadsOsArgs(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	os.Args = []string{"cmd", "-c", "from-args.json"}
	assert.Equal(t, "from-args.json", JsonConfigFlags())
}
