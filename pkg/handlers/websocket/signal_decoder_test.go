package websocket

import (
	"testing"

	"github.com/NeuralTrust/ExamWatch/pkg/app/proctor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalDecoder_KeyDown(t *testing.T) {
	d := NewSignalDecoder()
	sig, err := d.Decode([]byte(`{"type":"keydown","id":"k1","key":{"key":"c","ctrl":true}}`))

	require.NoError(t, err)
	assert.Equal(t, proctor.SignalKeyDown, sig.Type)
	assert.Equal(t, "k1", sig.ID)
	assert.Equal(t, "c", sig.Key.Key)
	assert.True(t, sig.Key.Ctrl)
	assert.False(t, sig.Key.Alt)
}

func TestSignalDecoder_Viewport(t *testing.T) {
	d := NewSignalDecoder()
	sig, err := d.Decode([]byte(`{"type":"viewport","viewport":{"outer_width":1600,"inner_width":1200,"outer_height":900,"inner_height":880}}`))

	require.NoError(t, err)
	assert.Equal(t, 1600, sig.Viewport.OuterWidth)
	assert.Equal(t, 1200, sig.Viewport.InnerWidth)
	assert.Equal(t, 880, sig.Viewport.InnerHeight)
}

func TestSignalDecoder_Visibility(t *testing.T) {
	d := NewSignalDecoder()
	sig, err := d.Decode([]byte(`{"type":"visibility","hidden":true}`))

	require.NoError(t, err)
	assert.True(t, sig.Hidden)
}

func TestSignalDecoder_Rejects(t *testing.T) {
	d := NewSignalDecoder()

	_, err := d.Decode([]byte(`{"type":"screenshot"}`))
	assert.ErrorIs(t, err, ErrUnknownSignal)

	_, err = d.Decode([]byte(`not json`))
	assert.Error(t, err)

	_, err = d.Decode([]byte(`{"type":"keydown","key":"c"}`))
	assert.Error(t, err)
}
