// Package disasm produces an assembly listing of a program image.
//
// The listing is a linear sweep over the image starting at the program load
// address. Every word is decoded by the interpreter's own decoder and cross
// checked against the retrogolib instruction tables, which also drive the
// control flow annotations: jump and call targets inside the image receive
// labels, conditional skips and memory accesses are commented. Words that do
// not decode are emitted as data bytes.
package disasm

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tuboc/chip8vm/chip8"

	cpuchip8 "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

const opcodeSize = 2

// Line is a single entry of the listing.
type Line struct {
	Address uint16
	Bytes   []byte
	Label   string
	Code    string
	Comment string
	Data    bool
}

// Listing is the disassembled program.
type Listing struct {
	Lines  []Line
	Labels map[uint16]string
}

// Disassemble builds the listing of the given program image, which is
// assumed to be loaded at the program load address.
func Disassemble(program []byte) (*Listing, error) {
	if len(program) > chip8.MaxProgramSize {
		return nil, &chip8.LoadError{Size: int64(len(program)), Err: chip8.ErrProgramTooLarge}
	}

	l := &Listing{
		Labels: map[uint16]string{},
	}
	end := chip8.ProgramOffset + len(program)

	if len(program) > 0 {
		l.Labels[chip8.ProgramOffset] = "start"
	}

	// first pass collects the labels so that backward and forward references
	// render the same way
	for offset := 0; offset+opcodeSize <= len(program); offset += opcodeSize {
		word := uint16(program[offset])<<8 | uint16(program[offset+1])
		in := chip8.Decode(word)
		target := int(in.NNN)
		if target < chip8.ProgramOffset || target >= end {
			continue
		}

		switch classify(in) {
		case flowJump:
			l.addLabel(in.NNN, fmt.Sprintf("L%03X", in.NNN))
		case flowCall:
			l.addLabel(in.NNN, fmt.Sprintf("sub_%03X", in.NNN))
		case flowData:
			l.addLabel(in.NNN, fmt.Sprintf("data_%03X", in.NNN))
		}
	}

	for offset := 0; offset < len(program); offset += opcodeSize {
		address := uint16(chip8.ProgramOffset + offset)
		if offset+opcodeSize > len(program) {
			l.Lines = append(l.Lines, dataLine(address, program[offset:]))
			break
		}

		b := program[offset : offset+opcodeSize]
		word := uint16(b[0])<<8 | uint16(b[1])
		in := chip8.Decode(word)
		if in.Op == chip8.OpInvalid {
			line := dataLine(address, b)
			line.Label = l.Labels[address]
			l.Lines = append(l.Lines, line)
			continue
		}

		l.Lines = append(l.Lines, Line{
			Address: address,
			Bytes:   b,
			Label:   l.Labels[address],
			Code:    l.code(in),
			Comment: comment(in),
		})
	}

	return l, nil
}

func (l *Listing) addLabel(address uint16, name string) {
	if _, ok := l.Labels[address]; !ok {
		l.Labels[address] = name
	}
}

// code renders the instruction, replacing a target address by its label.
func (l *Listing) code(in chip8.Instruction) string {
	s := in.String()
	switch in.Op {
	case chip8.OpJp, chip8.OpCall, chip8.OpLdI:
		if label, ok := l.Labels[in.NNN]; ok {
			s = strings.Replace(s, fmt.Sprintf("#%03X", in.NNN), label, 1)
		}
	}
	return s
}

func dataLine(address uint16, b []byte) Line {
	values := make([]string, len(b))
	for i, v := range b {
		values[i] = fmt.Sprintf("#%02X", v)
	}
	return Line{
		Address: address,
		Bytes:   b,
		Code:    fmt.Sprintf("%-4s %s", "DB", strings.Join(values, ",")),
		Data:    true,
	}
}

type flow int

const (
	flowNext flow = iota
	flowJump
	flowCall
	flowReturn
	flowSkip
	flowData
)

// reference returns the matching entry of the retrogolib opcode table.
func reference(word uint16) *cpuchip8.Instruction {
	for _, op := range cpuchip8.Opcodes[int(word>>12)] {
		if op.Info.Mask&word == op.Info.Value {
			return op.Instruction
		}
	}
	return nil
}

func classify(in chip8.Instruction) flow {
	ins := reference(in.Word)
	switch {
	case in.Op == chip8.OpLdI:
		return flowData
	case ins == nil:
		return flowNext
	case ins == cpuchip8.JpInst && in.Op == chip8.OpJp:
		return flowJump
	case ins == cpuchip8.CallInst:
		return flowCall
	case ins == cpuchip8.RetInst:
		return flowReturn
	case cpuchip8.SkipInstructions.Contains(ins.Name):
		return flowSkip
	}
	return flowNext
}

func comment(in chip8.Instruction) string {
	var notes []string

	ins := reference(in.Word)
	if ins != nil && !strings.EqualFold(ins.Name, in.Op.Name()) {
		notes = append(notes, "also "+strings.ToUpper(ins.Name))
	}

	switch classify(in) {
	case flowSkip:
		notes = append(notes, "skips next")
	case flowReturn:
		notes = append(notes, "return")
	}
	if in.Op == chip8.OpJpV0 {
		notes = append(notes, "computed jump")
	}

	if ins != nil {
		switch {
		case cpuchip8.MemoryWriteInstructions.Contains(ins.Name) && writesMemory(in.Op):
			notes = append(notes, "writes [I]")
		case cpuchip8.MemoryReadInstructions.Contains(ins.Name) && readsMemory(in.Op):
			notes = append(notes, "reads [I]")
		}
	}

	return strings.Join(notes, ", ")
}

func writesMemory(op chip8.Op) bool {
	return op == chip8.OpLdB || op == chip8.OpLdMemVx
}

func readsMemory(op chip8.Op) bool {
	return op == chip8.OpDrw || op == chip8.OpLdVxMem
}

// WriteTo writes the listing as text.
func (l *Listing) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64

	for _, line := range l.Lines {
		if line.Label != "" {
			n, _ := fmt.Fprintf(bw, "%s:\n", line.Label)
			written += int64(n)
		}

		text := fmt.Sprintf("%03X  %-4X  %s", line.Address, line.Bytes, line.Code)
		if line.Comment != "" {
			text = fmt.Sprintf("%-32s; %s", text, line.Comment)
		}
		n, _ := fmt.Fprintln(bw, text)
		written += int64(n)
	}

	return written, bw.Flush()
}

// Targets returns the labelled addresses in ascending order.
func (l *Listing) Targets() []uint16 {
	addresses := make([]uint16, 0, len(l.Labels))
	for address := range l.Labels {
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool { return addresses[i] < addresses[j] })
	return addresses
}
