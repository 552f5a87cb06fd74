package graphics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queue(codes ...uint32) func() uint32 {
	return func() uint32 {
		if len(codes) == 0 {
			return 0
		}
		c := codes[0]
		codes = codes[1:]
		return c
	}
}

func TestCollectErrors_None(t *testing.T) {
	assert.NoError(t, CollectErrors(queue()))
}

func TestCollectErrors_Distinct(t *testing.T) {
	err := CollectErrors(queue(0x0502, 0x0500, 0x0502))
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, []uint32{0x0502, 0x0500}, apiErr.Codes)
	assert.Contains(t, err.Error(), "GL_INVALID_OPERATION")
	assert.Contains(t, err.Error(), "GL_INVALID_ENUM")
}

func TestCollectErrors_Bounded(t *testing.T) {
	calls := 0
	err := CollectErrors(func() uint32 {
		calls++
		return uint32(0x0500 + calls)
	})
	require.Error(t, err)
	assert.Equal(t, MaxReportedErrors, calls)
}

func TestConstructionError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &ConstructionError{Op: "link program simple", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "link program simple: boom", err.Error())
}

func TestParseShaderKind(t *testing.T) {
	for _, k := range ShaderKinds {
		parsed, err := ParseShaderKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseShaderKind("tessellation")
	assert.Error(t, err)
}

func TestProgram_Uniform(t *testing.T) {
	p := &Program{Uniforms: map[string]int32{"mvpMatrix": 3}}
	assert.Equal(t, int32(3), p.Uniform("mvpMatrix"))
	assert.Equal(t, int32(-1), p.Uniform("missing"))
}
