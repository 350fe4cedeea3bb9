//go:build !statsview

package statsview

import (
	"testing"

	"github.com/retroenv/retrogolib/log"
	"github.com/stretchr/testify/assert"
)

func TestStub(t *testing.T) {
	assert.False(t, Available())
	Launch(log.NewTestLogger(t))
}
