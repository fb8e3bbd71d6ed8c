package chessgrid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullSink_NeverFails(t *testing.T) {
	var sink NullSink
	assert.NoError(t, sink.WriteScaledImage(0, "find", NewImage(8, 8)))
	assert.NoError(t, sink.WriteResponseImage(0, "find", NewImage(8, 8)))
	assert.NoError(t, sink.WritePoints(0, "find", nil))
}

func TestFileDebugSink_WritesPointsDump(t *testing.T) {
	dir := t.TempDir()
	sink := FileDebugSink{Dir: dir}

	points := []PointF{{X: 1.5, Y: 2.5}, {X: 3, Y: 4}}
	require.NoError(t, sink.WritePoints(2, "refine", points))

	data, err := os.ReadFile(filepath.Join(dir, "corners-level2-refine.gp"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "#!/usr/bin/feedgnuplot")
	assert.Contains(t, string(data), "\n1.500 2.500\n")
}

func TestFileDebugSink_WritePointsFailsOnBadDir(t *testing.T) {
	sink := FileDebugSink{Dir: "/nonexistent/definitely/not/here"}
	err := sink.WritePoints(0, "find", nil)
	assert.Error(t, err)
}

func TestNormalizeResponsePositiveForDisplay_ScalesToFullRange(t *testing.T) {
	resp := make([]int16, 4)
	resp[0] = -10
	resp[1] = 0
	resp[2] = 50
	resp[3] = 100

	out := normalizeResponsePositiveForDisplay(resp, 4, 1)
	assert.Equal(t, uint8(0), out.Pix[0])
	assert.Equal(t, uint8(0), out.Pix[1])
	assert.Equal(t, uint8(127), out.Pix[2])
	assert.Equal(t, uint8(255), out.Pix[3])
}

func TestNormalizeResponsePositiveForDisplay_AllNonPositiveStaysBlack(t *testing.T) {
	resp := []int16{0, -5, -1}
	out := normalizeResponsePositiveForDisplay(resp, 3, 1)
	for _, v := range out.Pix {
		assert.Equal(t, uint8(0), v)
	}
}

func TestNormalizeResponseRawForDisplay_SpansFullSignedRange(t *testing.T) {
	resp := []int16{-10, 0, 40, 90}
	out := normalizeResponseRawForDisplay(resp, 4, 1)
	assert.Equal(t, uint8(0), out.Pix[0], "the minimum value must map to 0")
	assert.Equal(t, uint8(255), out.Pix[3], "the maximum value must map to 255")
	assert.Greater(t, out.Pix[1], out.Pix[0])
	assert.Greater(t, out.Pix[2], out.Pix[1])
}

func TestFileDebugSink_WritesScaledImage(t *testing.T) {
	dir := t.TempDir()
	sink := FileDebugSink{Dir: dir}

	require.NoError(t, sink.WriteScaledImage(1, "find", NewImage(8, 8)))
	_, err := os.Stat(filepath.Join(dir, "scaled-level1-find.png"))
	require.NoError(t, err)
}
