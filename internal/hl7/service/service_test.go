package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdwerror "github.com/msto63/hl7view/foundation/core/error"
	"github.com/msto63/hl7view/internal/hl7/mapping"
	"github.com/msto63/hl7view/internal/hl7/resolve"
	"github.com/msto63/hl7view/pkg/core/config"
	"github.com/msto63/hl7view/pkg/core/logging"
)

const sample = "MSH|^~\\&|PHARM|GOODHEALTH|RX|DEST|20230615120000||RDE^O11|CTRL123|P|2.5\r" +
	"PID|1||DCTIPU\\F\\1872||Doe^John^Q\r" +
	"PV1|1|I|4E^401^B\r" +
	"PV1|2|O"

func newService(t *testing.T, locale string) *Service {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Locale = locale
	cfg.Logger = logging.NewNop()
	cfg.Debounce = 20 * time.Millisecond
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNew(t *testing.T) {
	s := newService(t, "")
	assert.Len(t, s.SessionID(), 36)
	assert.Equal(t, "en", s.Texts().GetCurrentLocale())

	other := newService(t, "")
	assert.NotEqual(t, s.SessionID(), other.SessionID())

	cfg := DefaultConfig()
	cfg.Locale = "xx"
	cfg.Logger = logging.NewNop()
	_, err := New(cfg)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeUnknownLocale))
}

func TestNoMessageYet(t *testing.T) {
	s := newService(t, "")

	_, err := s.Report()
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeNotFound))
	_, err = s.Get("/PID-3")
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeNotFound))
	_, err = s.Resolve("PIDPatientID", "/PID-3")
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeNotFound))
}

func TestDecode_KeepsPreviousOnFailure(t *testing.T) {
	s := newService(t, "")

	m, err := s.Decode(sample)
	require.NoError(t, err)
	assert.Len(t, m.Segments, 4)

	_, err = s.Decode("  \n ")
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeEmptyMessage))

	current, err := s.Message()
	require.NoError(t, err)
	assert.Same(t, m, current)
}

func TestReport(t *testing.T) {
	s := newService(t, "")
	_, err := s.Decode(sample)
	require.NoError(t, err)

	out, err := s.Report()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Group 'RDE'\n"))
	assert.Contains(t, out, "     MSHMessageControlID = 'CTRL123'\n")
	assert.Contains(t, out, "   Table Allergy - Repeating Allergies\n")

	values, err := s.Values()
	require.NoError(t, err)
	assert.NotEmpty(t, values)
}

func TestReport_German(t *testing.T) {
	s := newService(t, "de")
	_, err := s.Decode(sample)
	require.NoError(t, err)

	out, err := s.Report()
	require.NoError(t, err)
	assert.Contains(t, out, "   Table Notes - Wiederholte Notizen\n")
	assert.Contains(t, out, "     MSHMessageControlID = 'CTRL123'\n")
}

func TestLoadMapping(t *testing.T) {
	s := newService(t, "")
	_, err := s.Decode(sample)
	require.NoError(t, err)

	fb := s.LoadMapping("[Mapping]\nMSHMessageControlID=/PID-5-2\n")
	assert.Equal(t, 1, fb.Count)
	assert.Equal(t, uint64(1), fb.Generation)
	assert.Equal(t, "VMD loaded. Learned 1 mapping.", fb.Message)

	out, err := s.Report()
	require.NoError(t, err)
	assert.Contains(t, out, "     MSHMessageControlID = 'John'\n")

	tr, err := s.Trace("MSHMessageControlID", "/MSH-10")
	require.NoError(t, err)
	assert.Equal(t, resolve.SourceMapped, tr.Source)

	fb = s.LoadMapping("; nothing here")
	assert.Equal(t, 0, fb.Count)
	assert.Equal(t, "VMD loaded. No explicit mappings found; default paths will be used.", fb.Message)

	v, err := s.Resolve("MSHMessageControlID", "/MSH-10")
	require.NoError(t, err)
	assert.Equal(t, "CTRL123", v)
}

func TestLoadMappingFile(t *testing.T) {
	s := newService(t, "")
	file := filepath.Join(t.TempDir(), "layout.vmd")
	require.NoError(t, os.WriteFile(file, []byte("A=/PID-3\nB=/PID-5\n"), 0o644))

	fb, err := s.LoadMappingFile(file)
	require.NoError(t, err)
	assert.Equal(t, 2, fb.Count)
	assert.Equal(t, "VMD loaded. Learned 2 mappings.", fb.Message)

	fb, err = s.LoadMappingFile(filepath.Join(t.TempDir(), "missing.vmd"))
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeMappingRead))
	assert.True(t, strings.HasPrefix(fb.Message, "Failed to load VMD: "))
	assert.Equal(t, 2, s.Mapping().Len())
}

func TestGetAndResolve(t *testing.T) {
	s := newService(t, "")
	_, err := s.Decode(sample)
	require.NoError(t, err)

	res, err := s.Get("/PID-5-2")
	require.NoError(t, err)
	assert.True(t, res.Found())
	assert.Equal(t, "John", res.Value)

	res, err = s.Get("/PV1(1)-2")
	require.NoError(t, err)
	assert.Equal(t, "O", res.Value)

	v, err := s.Resolve("Unknown", "/PID-3")
	require.NoError(t, err)
	assert.Equal(t, "DCTIPU\\F\\1872", v)
}

func TestLocateAndSearch(t *testing.T) {
	s := newService(t, "")
	m, err := s.Decode(sample)
	require.NoError(t, err)

	span, err := s.Locate("pv1", 2)
	require.NoError(t, err)
	assert.Equal(t, "PV1|2|O", m.Raw[span.Offset:span.End()])

	_, err = s.Locate("PV1", 3)
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeNotFound))
	assert.Contains(t, err.Error(), "Segment PV1[3] not found.")

	keyword, span, err := s.Search("PIDPatientName = 'john'")
	require.NoError(t, err)
	assert.Equal(t, "john", keyword)
	assert.Equal(t, "John", m.Raw[span.Offset:span.End()])

	_, _, err = s.Search("value: nowhere")
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeNotFound))
}

func TestLint(t *testing.T) {
	s := newService(t, "")
	assert.Equal(t, []string{"All mappings are used by the report."}, s.LintMessages(s.Lint()))

	s.LoadMapping("[Mapping]\nPIDFamilyNme=/PID-5\nMSHMessageControlID=/MSH-\n")
	issues := s.Lint()
	require.Len(t, issues, 2)

	lines := s.LintMessages(issues)
	require.Len(t, lines, 2)
	assert.Contains(t, strings.Join(lines, "\n"), "line 2: PIDFamilyNme is not used by the report")
	assert.Contains(t, strings.Join(lines, "\n"), "did you mean PIDFamilyName?")
	assert.Contains(t, strings.Join(lines, "\n"), "line 3: MSHMessageControlID has an invalid path /MSH-")
}

func TestWatchMapping(t *testing.T) {
	s := newService(t, "")
	file := filepath.Join(t.TempDir(), "layout.vmd")
	require.NoError(t, os.WriteFile(file, []byte("A=/PID-3\n"), 0o644))

	reloaded := make(chan Feedback, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fb, err := s.WatchMapping(ctx, file, func(fb Feedback) { reloaded <- fb })
	require.NoError(t, err)
	assert.Equal(t, 1, fb.Count)

	require.NoError(t, os.WriteFile(file, []byte("A=/PID-3\nB=/PID-5\n"), 0o644))

	select {
	case fb := <-reloaded:
		assert.Contains(t, fb.Message, "Mapping reloaded (generation ")
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}
	require.Eventually(t, func() bool { return s.Mapping().Len() == 2 }, 5*time.Second, 10*time.Millisecond)

	s.Reset()
	assert.Equal(t, 0, s.Mapping().Len())
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.General.Locale = "de"
	cfg.Mapping.Section = "Layout"
	cfg.Report.Groups = []config.GroupSource{{Path: "/MSH-3"}}

	c, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "de", c.Locale)
	assert.Equal(t, "Layout", c.Loader.Section)
	assert.True(t, c.Decoder.DetectEncoding)
	assert.Equal(t, byte('|'), c.Decoder.Delimiters.Field)
	require.Len(t, c.Schema.Group, 1)
	assert.Equal(t, "/MSH-3", c.Schema.Group[0].Path)

	cfg.Parser.ComponentSeparator = "|"
	_, err = FromConfig(cfg)
	assert.Error(t, err)
}

func TestFromConfig_GroupPolicyReachesReport(t *testing.T) {
	cfg := config.Default()
	cfg.Report.Groups = []config.GroupSource{{Path: "/MSH-3"}}

	c, err := FromConfig(cfg)
	require.NoError(t, err)
	c.Logger = logging.NewNop()
	s, err := New(c)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Decode(sample)
	require.NoError(t, err)
	out, err := s.Report()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Group 'PHARM'\n"))

	assert.Equal(t, mapping.Empty().Len(), s.Mapping().Len())
}
