package cli

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdash/launchdash/server/internal/chart"
)

const fixture = "testdata/launches.csv"

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "launchdash", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "summary", "pie", "scatter", "views", "render"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "summary", "--data", fixture, "--format", "yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestGolden(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"summary", []string{"summary", "--data", fixture}},
		{"summary_json", []string{"summary", "--data", fixture, "--format", "json"}},
		{"pie_all", []string{"pie", "--data", fixture}},
		{"pie_all_json", []string{"pie", "--data", fixture, "--format", "json"}},
		{"pie_site", []string{"pie", "--data", fixture, "--site", "CCAFS LC-40"}},
		{"scatter_all", []string{"scatter", "--data", fixture}},
		{"scatter_site", []string{"scatter", "--data", fixture, "--site", "KSC LC-39A", "--low", "2000", "--high", "10000"}},
		{"views_site", []string{"views", "--data", fixture, "--site", "CCAFS LC-40", "--high", "600"}},
		{"scatter_site_json", []string{"scatter", "-d", fixture, "-s", "KSC LC-39A", "--low", "2000", "--high", "10000", "--format", "json"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, tc.args...)
			require.NoError(t, err)
			g := goldie.New(t)
			g.Assert(t, tc.name, []byte(out))
		})
	}
}

func TestScatter_InvertedRange(t *testing.T) {
	_, err := execute(t, "scatter", "--data", fixture, "--low", "5000", "--high", "100")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPie_UnknownSite(t *testing.T) {
	out, err := execute(t, "pie", "--data", fixture, "--site", "Boca Chica", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]interface{})
	assert.Empty(t, data["slices"])
}

func TestUnknownSite_WarnsOnStderr(t *testing.T) {
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"scatter", "--data", fixture, "--site", "Boca Chica"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "0 launches")
	assert.Contains(t, errOut.String(), "site not in launch table")
	assert.Contains(t, errOut.String(), "Boca Chica")
}

func TestKnownSite_NoWarning(t *testing.T) {
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"pie", "--data", fixture, "--site", "KSC LC-39A"})
	require.NoError(t, cmd.Execute())
	assert.Empty(t, errOut.String())
}

func TestLoadError_ExitsWithFailure(t *testing.T) {
	out, err := execute(t, "summary", "--data", "testdata/missing.csv", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "testdata/missing.csv")
}

func TestLoadError_BadCell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	csv := "Launch Site,Payload Mass (kg),class,Booster Version,Booster Version Category\n" +
		"CCAFS LC-40,heavy,0,F9 v1.0  B0003,v1.0\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	_, err := execute(t, "pie", "--data", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "line 2")
}

func TestRender(t *testing.T) {
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "pie.png")
	out, err := execute(t, "render", "pie", "--data", fixture, "--out", pngPath)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote pie chart to "+pngPath)

	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, chart.DefaultWidth, cfg.Width)
	assert.Equal(t, chart.DefaultHeight, cfg.Height)

	svgPath := filepath.Join(dir, "scatter.svg")
	out, err = execute(t, "render", "scatter", "--data", fixture, "--site", "KSC LC-39A", "--out", svgPath, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   RenderResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "svg", resp.Data.Format)
	assert.Equal(t, "scatter", resp.Data.Chart)

	body, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<svg")
	assert.Equal(t, len(body), resp.Data.Bytes)
}

func TestRender_BadArgs(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "render", "bar", "--data", fixture, "--out", filepath.Join(dir, "x.png"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "render", "pie", "--data", fixture, "--out", filepath.Join(dir, "x.gif"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "render", "pie", "--data", fixture)
	require.Error(t, err)
}

func TestLoadServeConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.yaml")

	cfg, watch, err := loadServeConfig(missing, false)
	require.NoError(t, err)
	assert.False(t, watch)
	assert.Equal(t, 8050, cfg.Server.HTTPPort)

	_, _, err = loadServeConfig(missing, true)
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  http_port: 9000\n"), 0o644))
	cfg, watch, err = loadServeConfig(path, true)
	require.NoError(t, err)
	assert.True(t, watch)
	assert.Equal(t, 9000, cfg.Server.HTTPPort)
}

func TestServe_LoadErrorExits(t *testing.T) {
	// No config.yaml next to the test: defaults apply, then the table fails to load.
	_, err := execute(t, "serve", "--data", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
