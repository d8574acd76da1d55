package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineReporterFormat(t *testing.T) {
	var buf bytes.Buffer
	r := NewLineReporter(&buf)
	r.Start(100, 2)
	r.Report(0, 25, 50)
	r.Report(1, 50, 50)
	r.Finish()
	require.Equal(t, "Downloaded 50.00% of part 1.\nDownloaded 100.00% of part 2.\n", buf.String())
}

func TestLineReporterConcurrentLinesStayWhole(t *testing.T) {
	var buf bytes.Buffer
	r := NewLineReporter(&buf)
	var wg sync.WaitGroup
	for chunk := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := int64(1); i <= 10; i++ {
				r.Report(chunk, i, 10)
			}
		}()
	}
	wg.Wait()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 80)
	for _, line := range lines {
		require.True(t, strings.HasPrefix(line, "Downloaded "), line)
		require.True(t, strings.HasSuffix(line, "."), line)
	}
}

func TestBarReporterTracksChunkDeltas(t *testing.T) {
	var buf bytes.Buffer
	r := NewBarReporter(&buf, 90)
	r.Start(100, 2)
	r.Report(0, 10, 50)
	r.Report(0, 50, 50)
	r.Report(1, 50, 50)
	r.Report(5, 10, 10) // unknown chunk is ignored
	require.Equal(t, []int64{50, 50}, r.last)
	require.Equal(t, int64(100), r.bar.State().CurrentNum)
	r.Finish()
}

func TestNewReporter(t *testing.T) {
	var buf bytes.Buffer
	for mode, want := range map[string]any{
		ProgressLines: &LineReporter{},
		"":            &LineReporter{},
		ProgressBar:   &BarReporter{},
		ProgressNone:  NopReporter{},
	} {
		r, err := NewReporter(mode, &buf)
		require.NoError(t, err)
		require.IsType(t, want, r, mode)
	}
	_, err := NewReporter("fancy", &buf)
	require.Error(t, err)
}

func TestPrintDigest(t *testing.T) {
	var buf bytes.Buffer
	PrintDigest(&buf, 0, "md5", "900150983cd24fb0d6963f7d28e17f72")
	require.Contains(t, buf.String(), "MD5: 900150983cd24fb0d6963f7d28e17f72")
}
