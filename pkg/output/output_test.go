package output

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"testing"

	"github.com/quinox/confsync/pkg/confsync"
	"github.com/quinox/confsync/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() *Report {
	return &Report{
		Command: "status",
		Files: []FileReport{
			{Source: "/src/etc/hosts", Destination: "/etc/hosts", Status: "up-to-date", SameSections: 2},
			{
				Source:       "/src/etc/app.conf",
				Destination:  "/etc/app.conf",
				Status:       "destination-has-changed",
				DiffSections: 1,
				Warning:      "history unavailable",
				Added:        1,
				Removed:      1,
				Diff:         []string{"--- fs:/etc/app.conf", "+++ repo:/src/etc/app.conf", "@@ -1 +1 @@", "-a", "+b"},
			},
		},
		Updates: []UpdateReport{
			{Destination: "/etc/app.conf", Updated: true, WrittenPath: "/etc/app.conf", BackupPath: "/tmp/conf-sync-app.conf-1"},
			{Destination: "/etc/motd", Reason: confsync.ReasonUncommittedSource},
		},
		Mappings:  []MappingReport{{Source: "etc/hosts", Destination: "/etc/hosts"}},
		Unmanaged: []MappingReport{{Source: "/src/etc/fstab", Destination: "/etc/fstab"}},
		Errors:    []string{"broken.conf: unknown option"},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatAuto},
		{"auto", FormatAuto},
		{"term", FormatTerminal},
		{"terminal", FormatTerminal},
		{"TEXT", FormatText},
		{"plain", FormatText},
		{"json", FormatJSON},
		{"yml", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat("html")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Contains(t, err.Error(), `"html"`)
	assert.Equal(t, []string{"auto", "term", "text", "json", "yaml"}, errors.GetErrorDetails(err)["accepted"])
}

func TestFormatString(t *testing.T) {
	for _, f := range []Format{FormatAuto, FormatTerminal, FormatText, FormatJSON, FormatYAML} {
		parsed, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}
	assert.Equal(t, "unknown", Format(99).String())
}

func TestDetectFormat(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, FormatText, DetectFormat(f), "regular files are not terminals")

	var buf bytes.Buffer
	assert.Equal(t, FormatText, DetectFormat(&buf))

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, FormatText, DetectFormat(os.Stdout))
}

func TestNewRenderer_AutoOnBuffer(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(FormatAuto, &buf)
	require.NoError(t, err)
	assert.IsType(t, &textRenderer{}, r)

	_, err = NewRenderer(Format(42), &buf)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(FormatText, &buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderReport(sampleReport()))

	want := "" +
		"up-to-date               /etc/hosts  (2 same, 0 different)\n" +
		"destination-has-changed  /etc/app.conf  (0 same, 1 different)\n" +
		"  warning: history unavailable\n" +
		"--- fs:/etc/app.conf\n" +
		"+++ repo:/src/etc/app.conf\n" +
		"@@ -1 +1 @@\n" +
		"-a\n" +
		"+b\n" +
		"updated   /etc/app.conf (backup: /tmp/conf-sync-app.conf-1)\n" +
		"skipped   /etc/motd: source has uncommitted changes\n" +
		"etc/hosts -> /etc/hosts\n" +
		"unmanaged /etc/fstab (source would be /src/etc/fstab)\n" +
		"Error: broken.conf: unknown option\n"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	require.NoError(t, r.RenderError(stderrors.New("boom")))
	require.NoError(t, r.RenderMessage("done"))
	assert.Equal(t, "Error: boom\ndone\n", buf.String())
}

func TestTerminalRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(FormatTerminal, &buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderReport(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "destination-has-changed")
	assert.Contains(t, out, "/etc/app.conf")
	assert.Contains(t, out, "+b")
	assert.Contains(t, out, "+1")
	assert.Contains(t, out, "-1")
	assert.Contains(t, out, "Destination")
	assert.Contains(t, out, "source would be /src/etc/fstab")
	assert.Contains(t, out, "broken.conf: unknown option")
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(FormatJSON, &buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderReport(sampleReport()))

	var back Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, *sampleReport(), back)

	buf.Reset()
	require.NoError(t, r.RenderError(stderrors.New("boom")))
	assert.JSONEq(t, `{"error":"boom"}`, buf.String())
}

func TestYAMLRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(FormatYAML, &buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderReport(sampleReport()))

	assert.Contains(t, buf.String(), "status: destination-has-changed")
	var back Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, *sampleReport(), back)
}

func TestNewFileReport(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/src/hosts", []byte("127.0.0.1 localhost\n"), 0644))

	cfg, err := confsync.New(context.Background(), "/src/hosts", "/etc/hosts", confsync.Options{Fs: fsys, DiffContext: 3})
	require.NoError(t, err)

	fr, err := NewFileReport(cfg, true)
	require.NoError(t, err)
	assert.Equal(t, "new", fr.Status)
	assert.Equal(t, "/etc/hosts", fr.Destination)
	assert.Equal(t, []string{
		"--- fs:/etc/hosts",
		"+++ repo:/src/hosts",
		"@@ -0,0 +1 @@",
		"+127.0.0.1 localhost",
	}, fr.Diff)
	assert.Equal(t, 1, fr.Added)
	assert.Equal(t, 0, fr.Removed)

	fr, err = NewFileReport(cfg, false)
	require.NoError(t, err)
	assert.Empty(t, fr.Diff)
	assert.Zero(t, fr.Added)

	result, err := cfg.Update(context.Background())
	require.NoError(t, err)
	ur := NewUpdateReport(cfg, result, nil)
	assert.True(t, ur.Updated)
	assert.Equal(t, "/etc/hosts", ur.WrittenPath)
	assert.Equal(t, "new", ur.Status)

	ur = NewUpdateReport(cfg, confsync.UpdateResult{}, stderrors.New("disk full"))
	assert.Equal(t, "disk full", ur.Error)
}
