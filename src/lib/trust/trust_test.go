package trust

import (
	"bytes"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
)

func TestMaskLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WarnMask)

	l.Errorf("e %d", 1)
	l.Warnf("w")
	l.Infof("hidden")
	l.Debugf("hidden")
	l.Fatalf("f")

	assert.Equal(t, "ERROR:e 1\n WARN:w\nFATAL:f\n", buf.String())
	assert.Equal(t, "error warn", l.LevelToString())
}

func TestSetLevelEnablesLessVerbose(t *testing.T) {
	l := New(&bytes.Buffer{}, ErrorMask)
	prev := l.SetLevel(DebugMask)
	assert.Equal(t, ErrorMask, prev)
	assert.Equal(t, ErrorMask|WarnMask|InfoMask|DebugMask, l.Level())

	l.SetLevel(Nothing)
	assert.Equal(t, Nothing, l.Level())
	assert.Equal(t, "", l.LevelToString())
}

func TestStatsf(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, All)
	l.Statsf("boot", "cores=%d", 4)
	assert.Equal(t, "STATS[boot]:cores=4\n", buf.String())
}

func TestFromLogr(t *testing.T) {
	var lines []string
	sink := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})

	l := FromLogr(sink)
	l.Errorf("exception: %s", "boom")
	l.Infof("banner")
	l.Debugf("too verbose")

	assert.Len(t, lines, 2)
	assert.True(t, strings.Contains(lines[0], `"msg"="exception: boom"`), lines[0])
	assert.True(t, strings.Contains(lines[1], `"msg"="banner"`), lines[1])
}

func TestNewZapLogr(t *testing.T) {
	l, err := NewZapLogr(1, true)
	assert.NoError(t, err)
	assert.True(t, l.V(1).Enabled())
	assert.False(t, l.V(2).Enabled())
}

// byteWriter writes one byte at a time, yielding between bytes like a slow
// serial port.
type byteWriter struct{ out []byte }

func (b *byteWriter) Write(p []byte) (int, error) {
	for _, c := range p {
		b.out = append(b.out, c)
		runtime.Gosched()
	}
	return len(p), nil
}

func TestSerializeKeepsLinesWhole(t *testing.T) {
	var out byteWriter
	l := New(Serialize(&out), All)

	var wg sync.WaitGroup
	for core := 0; core < 4; core++ {
		wg.Add(1)
		go func(core int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				l.Debugf("core %d: line %d of a message long enough to be split", core, i)
			}
		}(core)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(string(out.out), "\n"), "\n")
	assert.Len(t, lines, 200)
	for _, line := range lines {
		assert.Regexp(t, `^DEBUG:core \d: line \d+ of a message long enough to be split$`, line)
	}
}
