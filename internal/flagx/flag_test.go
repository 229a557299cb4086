package flagx

import (
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
			name:         "separate value",
			args:         []string{"-c", "movielib.yaml", "-d", "movies.db"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "movielib.yaml"},
		},
		{
			name:         "value after equals",
			args:         []string{"--config=alt.yaml", "-single-user"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.yaml"},
		},
		{
			name:         "order preserved",
			args:         []string{"--config=first.yaml", "-c", "second.yaml", "-log-level", "debug"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=first.yaml", "-c", "second.yaml"},
		},
		{
			name:         "nothing allowed",
			args:         []string{"-d", "movies.db", "--log-format=zap", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "trailing flag without value",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next flag is not a value",
			args:         []string{"-c", "--config=alt.yaml"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "--config=alt.yaml"},
		},
		{
			name:         "empty",
			args:         nil,
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

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "/etc/short.yaml", ConfigFileFlag([]string{"-c", "/etc/short.yaml"}))
	assert.Equal(t, "/etc/long.json", ConfigFileFlag([]string{"-config", "/etc/long.json"}))
	assert.Equal(t, "x.toml", ConfigFileFlag([]string{"-d", "movies.db", "--config=x.toml"}))
	assert.Empty(t, ConfigFileFlag([]string{"-d", "movies.db"}))
	assert.Equal(t, "2.yaml", ConfigFileFlag([]string{"-c", "1.yaml", "-config", "2.yaml"}))
}
