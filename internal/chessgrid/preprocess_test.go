package chessgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocess_NoOptionsReturnsImageUnchanged(t *testing.T) {
	img := NewImage(32, 32)
	paintSaddle(img, 16, 16, 20, 220)

	out, err := Preprocess(img, PreprocessOptions{})
	require.NoError(t, err)
	assert.Equal(t, img.Pix, out.Pix)
}

func TestBoxBlur_RejectsNonPositiveRadius(t *testing.T) {
	img := NewImage(32, 32)
	_, err := BoxBlur(img, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
