package hardware

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCPUNum(t *testing.T) {
	n := GetCPUNum()
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, runtime.GOMAXPROCS(0))
}
