package cli

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errb bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errb)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errb.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "quadsparse", cmd.Use)

	for _, name := range []string{"assemble", "version"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "quadsparse dev\n", out)
}

func TestAssemble_TextGolden(t *testing.T) {
	out, _, err := execute(t, "assemble", "--config", "testdata/p1.yaml", "--no-color")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "assemble_text", []byte(out))
}

func TestAssemble_JSON(t *testing.T) {
	for _, backend := range []string{"dense", "csr", "gonum"} {
		t.Run(backend, func(t *testing.T) {
			out, _, err := execute(t, "assemble", "--config", "testdata/p1.yaml",
				"--format", "json", "--backend", backend, "--workers", "1")
			require.NoError(t, err)

			var r Report
			require.NoError(t, json.Unmarshal([]byte(out), &r))
			assert.Equal(t, backend, r.Backend)
			assert.InDelta(t, 1-math.Cos(1), r.Total, 1e-8)
			require.Len(t, r.Mass, 3)
			assert.InDelta(t, 1.0/3, r.Mass[1][1], 1e-12)
			assert.InDelta(t, 0.0, r.Mass[0][2], 1e-12)

			sum := 0.0
			for _, v := range r.Load {
				sum += v
			}
			assert.InDelta(t, r.Total, sum, 1e-12)
		})
	}
}

func TestAssemble_FlagsOverrideConfig(t *testing.T) {
	out, errOut, err := execute(t, "assemble", "--config", "testdata/p1.yaml",
		"--format", "json", "--elements", "5", "-v", "--no-color")
	require.NoError(t, err)

	var r Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, 5, r.Elements)
	assert.Len(t, r.Load, 6)
	assert.Contains(t, errOut, "quadsparse_elements_assembled_total")
}

func TestAssemble_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown field", []string{"assemble", "--config", "testdata/unknown.yaml"}},
		{"missing file", []string{"assemble", "--config", "testdata/missing.yaml"}},
		{"bad elements", []string{"assemble", "--elements", "0"}},
		{"bad backend", []string{"assemble", "--backend", "coo"}},
		{"bad format", []string{"assemble", "--format", "xml"}},
		{"extra args", []string{"assemble", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"elements", func(c *Config) { c.Elements = 0 }},
		{"interval", func(c *Config) { c.Interval = [2]float64{1, 1} }},
		{"gauss", func(c *Config) { c.Gauss = 0 }},
		{"workers", func(c *Config) { c.Workers = -1 }},
		{"chunk bytes", func(c *Config) { c.ChunkBytes = -1 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"backend", func(c *Config) { c.Backend = "coo" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrBadConfig)
		})
	}
}
