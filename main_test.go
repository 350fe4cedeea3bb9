package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuboc/chip8vm/chip8"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options
	}{
		{
			name: "defaults",
			args: []string{"game.ch8"},
			want: options{path: "game.ch8", cycles: 10, frontend: "sdl", scale: 10},
		},
		{
			name: "emulation flags",
			args: []string{"-s", "-cycles", "20", "-seed", "42", "-skip-unknown", "game.ch8"},
			want: options{path: "game.ch8", stepMode: true, cycles: 20, seed: 42, skipUnknown: true, frontend: "sdl", scale: 10},
		},
		{
			name: "headless",
			args: []string{"-frontend", "Headless", "-frames", "60", "-wav", "out.wav", "game.ch8"},
			want: options{path: "game.ch8", cycles: 10, frontend: "headless", frames: 60, scale: 10, wav: "out.wav"},
		},
		{
			name: "trace implies debug",
			args: []string{"-trace", "game.ch8"},
			want: options{path: "game.ch8", cycles: 10, frontend: "sdl", scale: 10, trace: true, debug: true},
		},
		{
			name: "version without program",
			args: []string{"-version"},
			want: options{cycles: 10, frontend: "sdl", scale: 10, version: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFlags(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlags_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"no program", nil, "missing program file"},
		{"two programs", []string{"a.ch8", "b.ch8"}, "unexpected arguments after program file: b.ch8"},
		{"unknown flag", []string{"-nope", "a.ch8"}, "flag provided but not defined: -nope"},
		{"frontend", []string{"-frontend", "tv", "a.ch8"}, "unsupported frontend: tv"},
		{"cycles", []string{"-cycles", "0", "a.ch8"}, "cycles must be positive"},
		{"scale", []string{"-scale", "-1", "a.ch8"}, "scale must be positive"},
		{"help", []string{"-h"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args)
			require.Error(t, err)

			var usageErr *usageError
			require.ErrorAs(t, err, &usageErr)
			assert.Equal(t, tt.msg, usageErr.Error())

			var buf bytes.Buffer
			usageErr.showUsage(&buf)
			assert.Contains(t, buf.String(), "usage: chip8vm [options] <program file>")
			assert.Contains(t, buf.String(), "-frontend")
		})
	}
}

func writeProgram(t *testing.T, b ...byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.ch8")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestRun_Headless(t *testing.T) {
	path := writeProgram(t, 0x12, 0x00)
	wav := filepath.Join(t.TempDir(), "beep.wav")

	opts := options{path: path, cycles: 10, frontend: frontendHeadless, frames: 3, wav: wav}
	require.NoError(t, run(context.Background(), log.NewTestLogger(t), opts))

	st, err := os.Stat(wav)
	require.NoError(t, err)
	assert.Positive(t, st.Size())
}

func TestRun_Fault(t *testing.T) {
	path := writeProgram(t, 0x00, 0xEE)

	opts := options{path: path, cycles: 10, frontend: frontendHeadless, frames: 3}
	err := run(context.Background(), log.NewTestLogger(t), opts)
	assert.ErrorIs(t, err, chip8.ErrStackUnderflow)
}

func TestRun_MissingFile(t *testing.T) {
	opts := options{path: filepath.Join(t.TempDir(), "missing.ch8"), cycles: 10, frontend: frontendHeadless}
	err := run(context.Background(), log.NewTestLogger(t), opts)
	assert.ErrorIs(t, err, chip8.ErrLoad)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_Disasm(t *testing.T) {
	path := writeProgram(t, 0x12, 0x00)
	opts := options{path: path, disasm: true}
	require.NoError(t, run(context.Background(), log.NewTestLogger(t), opts))
}
