package chip8

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_ReadWrite(t *testing.T) {
	assert := assert.New(t)

	m := &Memory{}
	assert.NoError(m.Write(0x000, 0x12))
	assert.NoError(m.Write(MemorySize-1, 0x34))

	v, err := m.Read(0x000)
	assert.NoError(err)
	assert.Equal(uint8(0x12), v)

	v, err = m.Read(MemorySize - 1)
	assert.NoError(err)
	assert.Equal(uint8(0x34), v)
}

func TestMemory_OutOfBounds(t *testing.T) {
	assert := assert.New(t)

	m := &Memory{}
	_, err := m.Read(MemorySize)
	assert.ErrorIs(err, ErrOutOfBounds)

	err = m.Write(MemorySize, 1)
	assert.ErrorIs(err, ErrOutOfBounds)

	_, err = m.Read(-1)
	assert.ErrorIs(err, ErrOutOfBounds)

	var oob *OutOfBoundsError
	require.True(t, errors.As(err, &oob))
	assert.Equal(RegionMemory, oob.Region)
	assert.Equal(-1, oob.Address)
}

func TestMemory_Slice(t *testing.T) {
	assert := assert.New(t)

	m := &Memory{}
	assert.NoError(m.Store(0xFFD, []uint8{1, 2, 3}))

	b, err := m.Slice(0xFFD, 3)
	assert.NoError(err)
	assert.Equal([]uint8{1, 2, 3}, b)

	_, err = m.Slice(0xFFD, 4)
	assert.ErrorIs(err, ErrOutOfBounds)

	err = m.Store(0xFFF, []uint8{1, 2})
	assert.ErrorIs(err, ErrOutOfBounds)
}

func TestMemory_SliceEmpty(t *testing.T) {
	assert := assert.New(t)

	m := &Memory{}
	b, err := m.Slice(MemorySize, 0)
	assert.NoError(err)
	assert.Empty(b)

	b, err = m.Slice(0x200, 0)
	assert.NoError(err)
	assert.Empty(b)

	_, err = m.Slice(MemorySize+1, 0)
	assert.ErrorIs(err, ErrOutOfBounds)
	_, err = m.Slice(MemorySize, 1)
	assert.ErrorIs(err, ErrOutOfBounds)
}

func TestStack_PushPop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.NoError(s.Push(0x202))
	assert.NoError(s.Push(0x304))
	assert.Equal(2, s.Depth())

	v, err := s.Pop()
	assert.NoError(err)
	assert.Equal(uint16(0x304), v)

	v, err = s.Pop()
	assert.NoError(err)
	assert.Equal(uint16(0x202), v)
	assert.Equal(0, s.Depth())
}

func TestStack_Bounds(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	_, err := s.Pop()
	assert.ErrorIs(err, ErrOutOfBounds)
	assert.ErrorIs(err, ErrStackUnderflow)

	var oob *OutOfBoundsError
	require.True(t, errors.As(err, &oob))
	assert.Equal(RegionStack, oob.Region)
	assert.Equal(0, oob.Address)

	for i := 0; i < StackSize; i++ {
		assert.NoError(s.Push(uint16(i * 2)))
	}
	err = s.Push(0x200)
	assert.ErrorIs(err, ErrOutOfBounds)
	assert.ErrorIs(err, ErrStackOverflow)
	assert.Equal(StackSize, s.Depth())
}
