package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("plain", From("plain"))
	assert.Equal("opcode 0x00FF at 0x200", From("opcode 0x%04X at 0x%03X", 0xff, 0x200))
}

func TestPrinter(t *testing.T) {
	tests := []struct {
		name     string
		tag      language.Tag
		expected string
	}{
		{"english", language.AmericanEnglish, "4,000 bytes at 0xFA0"},
		{"german", language.German, "4.000 bytes at 0xFA0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.tag)
			assert.Equal(t, tt.tag, p.Language())
			assert.Equal(t, tt.expected, p.Sprintf("%d bytes at 0x%X", 4000, 4000))
		})
	}
}

func TestSetDefault(t *testing.T) {
	german := New(language.German)
	prev := SetDefault(german)
	t.Cleanup(func() { SetDefault(prev) })

	assert.Same(t, german, Default())
	assert.Equal(t, "1.234", From("%d", 1234))
}
