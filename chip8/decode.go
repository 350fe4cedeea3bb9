package chip8

import "fmt"

// Op identifies one instruction pattern of the instruction set.
type Op uint8

const (
	OpInvalid Op = iota
	OpSys        // 0NNN
	OpCls        // 00E0
	OpRet        // 00EE
	OpJp         // 1NNN
	OpCall       // 2NNN
	OpSeImm      // 3XNN
	OpSneImm     // 4XNN
	OpSeReg      // 5XY0
	OpLdImm      // 6XNN
	OpAddImm     // 7XNN
	OpLdReg      // 8XY0
	OpOr         // 8XY1
	OpAnd        // 8XY2
	OpXor        // 8XY3
	OpAddReg     // 8XY4
	OpSub        // 8XY5
	OpShr        // 8XY6
	OpSubn       // 8XY7
	OpShl        // 8XYE
	OpSneReg     // 9XY0
	OpLdI        // ANNN
	OpJpV0       // BNNN
	OpRnd        // CXNN
	OpDrw        // DXYN
	OpSkp        // EX9E
	OpSknp       // EXA1
	OpLdVxDT     // FX07
	OpLdVxK      // FX0A
	OpLdDTVx     // FX15
	OpLdSTVx     // FX18
	OpAddI       // FX1E
	OpLdF        // FX29
	OpLdB        // FX33
	OpLdMemVx    // FX55
	OpLdVxMem    // FX65
)

var opNames = [...]string{
	OpInvalid: "???",
	OpSys:     "SYS",
	OpCls:     "CLS",
	OpRet:     "RET",
	OpJp:      "JP",
	OpCall:    "CALL",
	OpSeImm:   "SE",
	OpSneImm:  "SNE",
	OpSeReg:   "SE",
	OpLdImm:   "LD",
	OpAddImm:  "ADD",
	OpLdReg:   "LD",
	OpOr:      "OR",
	OpAnd:     "AND",
	OpXor:     "XOR",
	OpAddReg:  "ADD",
	OpSub:     "SUB",
	OpShr:     "SHR",
	OpSubn:    "SUBN",
	OpShl:     "SHL",
	OpSneReg:  "SNE",
	OpLdI:     "LD",
	OpJpV0:    "JP",
	OpRnd:     "RND",
	OpDrw:     "DRW",
	OpSkp:     "SKP",
	OpSknp:    "SKNP",
	OpLdVxDT:  "LD",
	OpLdVxK:   "LD",
	OpLdDTVx:  "LD",
	OpLdSTVx:  "LD",
	OpAddI:    "ADD",
	OpLdF:     "LD",
	OpLdB:     "LD",
	OpLdMemVx: "LD",
	OpLdVxMem: "LD",
}

// Name is the assembler mnemonic of the operation.
func (op Op) Name() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return opNames[OpInvalid]
}

// Instruction is a decoded instruction word with its operand fields.
type Instruction struct {
	Op   Op
	Word uint16
	X    uint8
	Y    uint8
	N    uint8
	NN   uint8
	NNN  uint16
}

// Decode projects the fields of an instruction word and selects its
// operation. Words matching no pattern decode as OpInvalid.
func Decode(word uint16) Instruction {
	in := Instruction{
		Word: word,
		X:    uint8(word>>8) & 0x0f,
		Y:    uint8(word>>4) & 0x0f,
		N:    uint8(word) & 0x0f,
		NN:   uint8(word),
		NNN:  word & 0x0fff,
	}
	in.Op = decodeOp(in)
	return in
}

func decodeOp(in Instruction) Op {
	switch in.Word >> 12 {
	case 0x0:
		switch in.Word {
		case 0x00E0:
			return OpCls
		case 0x00EE:
			return OpRet
		}
		return OpSys
	case 0x1:
		return OpJp
	case 0x2:
		return OpCall
	case 0x3:
		return OpSeImm
	case 0x4:
		return OpSneImm
	case 0x5:
		if in.N == 0 {
			return OpSeReg
		}
	case 0x6:
		return OpLdImm
	case 0x7:
		return OpAddImm
	case 0x8:
		switch in.N {
		case 0x0:
			return OpLdReg
		case 0x1:
			return OpOr
		case 0x2:
			return OpAnd
		case 0x3:
			return OpXor
		case 0x4:
			return OpAddReg
		case 0x5:
			return OpSub
		case 0x6:
			return OpShr
		case 0x7:
			return OpSubn
		case 0xE:
			return OpShl
		}
	case 0x9:
		if in.N == 0 {
			return OpSneReg
		}
	case 0xA:
		return OpLdI
	case 0xB:
		return OpJpV0
	case 0xC:
		return OpRnd
	case 0xD:
		return OpDrw
	case 0xE:
		switch in.NN {
		case 0x9E:
			return OpSkp
		case 0xA1:
			return OpSknp
		}
	case 0xF:
		switch in.NN {
		case 0x07:
			return OpLdVxDT
		case 0x0A:
			return OpLdVxK
		case 0x15:
			return OpLdDTVx
		case 0x18:
			return OpLdSTVx
		case 0x1E:
			return OpAddI
		case 0x29:
			return OpLdF
		case 0x33:
			return OpLdB
		case 0x55:
			return OpLdMemVx
		case 0x65:
			return OpLdVxMem
		}
	}
	return OpInvalid
}

// String returns the instruction in assembler syntax.
func (in Instruction) String() string {
	name := in.Op.Name()
	switch in.Op {
	case OpCls, OpRet:
		return name
	case OpSys, OpJp, OpCall:
		return fmt.Sprintf("%-4s #%03X", name, in.NNN)
	case OpSeImm, OpSneImm, OpLdImm, OpAddImm:
		return fmt.Sprintf("%-4s V%X,#%02X", name, in.X, in.NN)
	case OpSeReg, OpSneReg, OpLdReg, OpOr, OpAnd, OpXor, OpAddReg, OpSub, OpSubn:
		return fmt.Sprintf("%-4s V%X,V%X", name, in.X, in.Y)
	case OpShr, OpShl:
		return fmt.Sprintf("%-4s V%X", name, in.X)
	case OpLdI:
		return fmt.Sprintf("%-4s I,#%03X", name, in.NNN)
	case OpJpV0:
		return fmt.Sprintf("%-4s V0,#%03X", name, in.NNN)
	case OpRnd:
		return fmt.Sprintf("%-4s V%X,#%02X", name, in.X, in.NN)
	case OpDrw:
		return fmt.Sprintf("%-4s V%X,V%X,%d", name, in.X, in.Y, in.N)
	case OpSkp, OpSknp:
		return fmt.Sprintf("%-4s V%X", name, in.X)
	case OpLdVxDT:
		return fmt.Sprintf("%-4s V%X,DT", name, in.X)
	case OpLdVxK:
		return fmt.Sprintf("%-4s V%X,K", name, in.X)
	case OpLdDTVx:
		return fmt.Sprintf("%-4s DT,V%X", name, in.X)
	case OpLdSTVx:
		return fmt.Sprintf("%-4s ST,V%X", name, in.X)
	case OpAddI:
		return fmt.Sprintf("%-4s I,V%X", name, in.X)
	case OpLdF:
		return fmt.Sprintf("%-4s F,V%X", name, in.X)
	case OpLdB:
		return fmt.Sprintf("%-4s B,V%X", name, in.X)
	case OpLdMemVx:
		return fmt.Sprintf("%-4s [I],V%X", name, in.X)
	case OpLdVxMem:
		return fmt.Sprintf("%-4s V%X,[I]", name, in.X)
	}
	return fmt.Sprintf("DW   #%04X", in.Word)
}
