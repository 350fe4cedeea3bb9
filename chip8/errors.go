package chip8

import (
	"errors"
	"strconv"

	"github.com/tuboc/chip8vm/translate"
)

var f = translate.From

var (
	ErrLoad            = errors.New(f("load"))
	ErrProgramTooLarge = errors.New(f("program too large"))
	ErrOutOfBounds     = errors.New(f("out of bounds"))
	ErrStackOverflow   = errors.New(f("stack overflow"))
	ErrStackUnderflow  = errors.New(f("stack underflow"))
	ErrUnknownOpcode   = errors.New(f("unknown opcode"))
)

// Region names the address space of an OutOfBoundsError.
type Region string

const (
	RegionMemory Region = "memory"
	RegionStack  Region = "stack"
)

// LoadError is returned before execution starts when a program image can not
// be installed.
type LoadError struct {
	Path string
	Size int64
	Err  error
}

func (err *LoadError) Error() string {
	if err.Path == "" {
		return f("load %s bytes: %v", strconv.FormatInt(err.Size, 10), err.Err)
	}
	return f("load %v: %v", err.Path, err.Err)
}

func (err *LoadError) Unwrap() error {
	return err.Err
}

func (err *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// OutOfBoundsError is a fatal access outside memory or the call stack.
type OutOfBoundsError struct {
	Region  Region
	Address int
	Word    uint16
	PC      uint16
	Err     error
}

func (err *OutOfBoundsError) Error() string {
	var msg string
	if err.Region == RegionStack {
		msg = f("stack pointer %s out of bounds (instruction 0x%04X at 0x%03X)",
			strconv.Itoa(err.Address), err.Word, err.PC)
	} else {
		msg = f("%v address 0x%03X out of bounds (instruction 0x%04X at 0x%03X)",
			string(err.Region), err.Address, err.Word, err.PC)
	}
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *OutOfBoundsError) Unwrap() error {
	return err.Err
}

func (err *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

// UnknownOpcodeError reports an instruction word matching no defined pattern.
type UnknownOpcodeError struct {
	Word uint16
	PC   uint16
}

func (err *UnknownOpcodeError) Error() string {
	return f("unknown opcode 0x%04X at 0x%03X", err.Word, err.PC)
}

func (err *UnknownOpcodeError) Is(target error) bool {
	return target == ErrUnknownOpcode
}
