package libsky_test

import (
	"compgraph/libsky"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCl(t *testing.T) {
	gen, err := libsky.NewClGenerator(libsky.DeviceTypeGPU)
	if err != nil {
		t.Skipf("no opencl device: %v", err)
	}
	defer gen.Release()

	params := fastParams()
	size := 8
	cm, err := gen.Generate(params, size)
	require.NoError(t, err)

	reference, err := libsky.NewSwGenerator().Generate(params, size)
	require.NoError(t, err)

	for f := range reference.Faces {
		for i, want := range reference.Faces[f] {
			is := cm.Faces[f][i]
			if math32.Abs(is-want) > 0.01*want+1e-4 {
				t.Errorf("face %d value %d should be %.5f but is %.5f", f, i, want, is)
			}
		}
	}
}

func TestRoundUpKernelSize(t *testing.T) {
	assert.Equal(t, 256, libsky.RoundUpKernelSize(8, 256))
	assert.Equal(t, 264, libsky.RoundUpKernelSize(8, 257))
	assert.Equal(t, 8, libsky.RoundUpKernelSize(8, 1))
}
