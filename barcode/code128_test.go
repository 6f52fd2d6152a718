package barcode

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDefaultSize(t *testing.T) {
	img, err := New().Encode("123")
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, img.Bounds().Dx())
	assert.Equal(t, DefaultHeight, img.Bounds().Dy())
}

func TestEncodeDrawsBars(t *testing.T) {
	img, err := New().Encode("A-42")
	require.NoError(t, err)

	var dark, light int
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		g := color.GrayModel.Convert(img.At(x, b.Min.Y)).(color.Gray)
		if g.Y < 128 {
			dark++
		} else {
			light++
		}
	}
	assert.Positive(t, dark)
	assert.Positive(t, light)
}

func TestEncodeIsDeterministic(t *testing.T) {
	a, err := New().Encode("PN-7781")
	require.NoError(t, err)
	b, err := New().Encode("PN-7781")
	require.NoError(t, err)

	for x := 0; x < a.Bounds().Dx(); x++ {
		assert.Equal(t, a.At(x, 0), b.At(x, 0))
	}
}

func TestEncodeWidensLongPayloads(t *testing.T) {
	payload := "LONGCODE-0000000001-ABCDEFGH"
	img, err := New().Encode(payload)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, img.Bounds().Dx(), DefaultWidth)
	assert.Equal(t, DefaultHeight, img.Bounds().Dy())
}

func TestEncodeRejectsInvalidPayloads(t *testing.T) {
	for _, payload := range []string{"", "A→B"} {
		_, err := New().Encode(payload)
		require.Error(t, err, "payload %q", payload)
		var encErr *EncodeError
		require.ErrorAs(t, err, &encErr)
		assert.Equal(t, payload, encErr.Payload)
	}
	_, err := New().Encode("")
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestEncodeFallsBackToDefaults(t *testing.T) {
	img, err := Code128{}.Encode("9")
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, img.Bounds().Dx())
	assert.Equal(t, DefaultHeight, img.Bounds().Dy())
}
