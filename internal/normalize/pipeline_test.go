package normalize

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"iconci/internal/fault"
	"iconci/internal/license"
	"iconci/internal/observ"
)

func writeIcon(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readIcon(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

const desktopInput = `<svg xmlns="http://www.w3.org/2000/svg" id="icon" class="x" fill="#000" width="16" height="16"><path fill="red" d="M1 1h14v14H1z"/></svg>`

const desktopOutput = license.Header + `
<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16" fill="context-fill" fill-opacity="context-fill-opacity" viewBox="0 0 16 16">
    <path d="M1 1h14v14H1z" />
</svg>
`

func TestDesktopNormalize(t *testing.T) {
	path := writeIcon(t, "icon.svg", desktopInput)
	p := Desktop(false, Options{})

	changed, err := p.Normalize(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, changed)

	got := readIcon(t, path)
	assert.Equal(t, desktopOutput, got)
	for _, attr := range []string{` id=`, ` class=`, `fill="#000"`, `fill="red"`} {
		assert.NotContains(t, got, attr)
	}
	assert.Contains(t, got, `fill="context-fill"`)
	assert.Contains(t, got, `fill-opacity="context-fill-opacity"`)
}

func TestDesktopFixedPoint(t *testing.T) {
	path := writeIcon(t, "icon.svg", desktopInput)
	p := Desktop(false, Options{})

	changed, err := p.Normalize(context.Background(), path)
	require.NoError(t, err)
	require.True(t, changed)
	first := readIcon(t, path)

	changed, err = p.Normalize(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, first, readIcon(t, path))
}

func TestDesktopFormattedFileIsStable(t *testing.T) {
	path := writeIcon(t, "icon.svg", desktopOutput)

	changed, err := Desktop(false, Options{Check: true}).Normalize(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = Desktop(false, Options{}).Normalize(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, desktopOutput, readIcon(t, path))
}

func TestDesktopStrict(t *testing.T) {
	in := `<svg width="16" height="16"><path fill-rule="evenodd" clip-rule="evenodd" d="M1 1h4v4H1z"/></svg>`

	path := writeIcon(t, "icon.svg", in)
	_, err := Desktop(false, Options{}).Normalize(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, readIcon(t, path), `fill-rule="evenodd"`)

	path = writeIcon(t, "icon.svg", in)
	_, err = Desktop(true, Options{}).Normalize(context.Background(), path)
	require.NoError(t, err)
	got := readIcon(t, path)
	assert.NotContains(t, got, "fill-rule")
	assert.NotContains(t, got, "clip-rule")
}

func TestDesktopMalformedLeavesFileAlone(t *testing.T) {
	in := `<svg><path d="M0 0"/></svg>`
	path := writeIcon(t, "broken.svg", in)

	changed, err := Desktop(false, Options{}).Normalize(context.Background(), path)
	require.Error(t, err)
	assert.False(t, changed)
	assert.Equal(t, fault.MalformedDocument, fault.KindOf(err))
	assert.Contains(t, err.Error(), path)
	assert.Equal(t, in, readIcon(t, path))
}

func TestDesktopBadMarkup(t *testing.T) {
	path := writeIcon(t, "bad.svg", `<svg width="1" height="1"`)
	_, err := Desktop(false, Options{}).Normalize(context.Background(), path)
	assert.Equal(t, fault.ExternalTool, fault.KindOf(err))
}

func TestExtensionGating(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "icon.png")

	changed, err := Desktop(false, Options{}).Normalize(context.Background(), missing)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = Mobile(KindXML, Options{}).Normalize(context.Background(), filepath.Join(t.TempDir(), "a.svg"))
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = Mobile(KindSVG, Options{}).Normalize(context.Background(), filepath.Join(t.TempDir(), "a.xml"))
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestMissingFileIsIOFailure(t *testing.T) {
	_, err := Desktop(false, Options{}).Normalize(context.Background(), filepath.Join(t.TempDir(), "gone.svg"))
	require.Error(t, err)
	assert.Equal(t, fault.IO, fault.KindOf(err))
}

func TestMobileSVGFormatsOriginal(t *testing.T) {
	in := `<svg id="a" stroke="red" width="16" height="16"><path d="M0 0h16v16H0z"/></svg>`
	path := writeIcon(t, "icon.SVG", in)
	p := Mobile(KindSVG, Options{})

	changed, err := p.Normalize(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, changed)
	want := license.Header + `
<svg id="a" stroke="red" width="16" height="16">
    <path d="M0 0h16v16H0z" />
</svg>
`
	assert.Equal(t, want, readIcon(t, path))

	changed, err = p.Normalize(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestMobileSVGStillValidatesMarkup(t *testing.T) {
	path := writeIcon(t, "icon.svg", `<svg width="1"`)
	_, err := Mobile(KindSVG, Options{}).Normalize(context.Background(), path)
	assert.Equal(t, fault.ExternalTool, fault.KindOf(err))
}

func TestMobileXMLPassThrough(t *testing.T) {
	in := "<vector android:width=\"24dp\"><path/></vector>\n"
	path := writeIcon(t, "ic_add.xml", in)
	p := Mobile(KindXML, Options{})

	changed, err := p.Normalize(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, license.Header+"\n"+in, readIcon(t, path))

	changed, err = p.Normalize(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestCheckModeDoesNotWrite(t *testing.T) {
	path := writeIcon(t, "icon.svg", desktopInput)
	changed, err := Desktop(false, Options{Check: true}).Normalize(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, desktopInput, readIcon(t, path))
}

func TestCheckModeLogsLicenseState(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	opt := Options{Check: true, Logger: zap.New(core)}

	bare := writeIcon(t, "bare.xml", "<vector/>\n")
	changed, err := Mobile(KindXML, opt).Normalize(context.Background(), bare)
	require.NoError(t, err)
	assert.True(t, changed)

	licensed := writeIcon(t, "licensed.svg", license.Header+"\n"+desktopInput)
	changed, err = Desktop(false, opt).Normalize(context.Background(), licensed)
	require.NoError(t, err)
	assert.True(t, changed)

	entries := logs.FilterMessage("would change").All()
	require.Len(t, entries, 2)
	assert.Equal(t, false, entries[0].ContextMap()["licensed"])
	assert.Equal(t, true, entries[1].ContextMap()["licensed"])
}

func TestWritePreservesMode(t *testing.T) {
	path := writeIcon(t, "icon.svg", desktopInput)
	require.NoError(t, os.Chmod(path, 0o600))

	_, err := Desktop(false, Options{}).Normalize(context.Background(), path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestTimerRecordsPhases(t *testing.T) {
	path := writeIcon(t, "icon.svg", desktopInput)
	timer := observ.NewTimer()
	_, err := Desktop(false, Options{Timer: timer}).Normalize(context.Background(), path)
	require.NoError(t, err)

	var names []string
	for _, p := range timer.Report().Phases {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"read", "optimize", "format", "license", "write"}, names)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Desktop(false, Options{}).Normalize(ctx, "icon.svg")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRules(t *testing.T) {
	assert.Equal(t, []string{
		"removeAttrs", "inferDimensions", "addContextFill",
		"removeDesc", "removeStyleElement", "removeOffCanvasPaths",
		"removeNonInheritableGroupAttrs", "sortAttrs", "preset-default",
	}, Desktop(false, Options{}).Rules())
	assert.Equal(t, "removeAttrs", Mobile(KindSVG, Options{}).Rules()[0])
	assert.Empty(t, Mobile(KindXML, Options{}).Rules())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" SVG ")
	require.NoError(t, err)
	assert.Equal(t, KindSVG, k)

	k, err = ParseKind("xml")
	require.NoError(t, err)
	assert.Equal(t, KindXML, k)

	_, err = ParseKind("png")
	assert.Equal(t, fault.Configuration, fault.KindOf(err))
	assert.True(t, strings.Contains(err.Error(), "png"))
}
