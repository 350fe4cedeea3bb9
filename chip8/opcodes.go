package chip8

import (
	"github.com/retroenv/retrogolib/log"
)

// execOpcode applies one decoded instruction. The program counter already
// points at the following instruction.
func (c *Chip8) execOpcode(in Instruction) error {
	x, y := in.X, in.Y

	switch in.Op {
	case OpCls: // 00E0 clear display
		c.disp.Clear()

	case OpRet: // 00EE return from subroutine
		r, err := c.stack.Pop()
		if err != nil {
			return err
		}
		c.pc = r

	case OpJp: // 1NNN goto NNN
		c.pc = in.NNN

	case OpCall: // 2NNN call NNN
		if err := c.stack.Push(c.pc); err != nil {
			return err
		}
		c.pc = in.NNN

	case OpSeImm: // 3XNN if(Vx==NN)
		c.skipIf(c.v[x] == in.NN)

	case OpSneImm: // 4XNN if(Vx!=NN)
		c.skipIf(c.v[x] != in.NN)

	case OpSeReg: // 5XY0 if(Vx==Vy)
		c.skipIf(c.v[x] == c.v[y])

	case OpLdImm: // 6XNN Vx = NN
		c.v[x] = in.NN

	case OpAddImm: // 7XNN Vx += NN (carry flag is not changed)
		c.v[x] += in.NN

	case OpLdReg: // 8XY0 Vx=Vy
		c.v[x] = c.v[y]

	case OpOr: // 8XY1 Vx=Vx|Vy
		c.v[x] |= c.v[y]

	case OpAnd: // 8XY2 Vx=Vx&Vy
		c.v[x] &= c.v[y]

	case OpXor: // 8XY3 Vx=Vx^Vy
		c.v[x] ^= c.v[y]

	case OpAddReg: // 8XY4 Vx += Vy
		carried := uint16(c.v[x])+uint16(c.v[y]) > 0xff
		c.v[x] += c.v[y]
		c.updateCarryFlag(carried)

	case OpSub: // 8XY5 Vx -= Vy
		notBorrowed := c.v[x] >= c.v[y]
		c.v[x] -= c.v[y]
		c.updateCarryFlag(notBorrowed)

	case OpShr: // 8XY6 Vx>>=1
		lsb := c.v[x]&0x01 == 1
		c.v[x] >>= 1
		c.updateCarryFlag(lsb)

	case OpSubn: // 8XY7 Vx=Vy-Vx
		notBorrowed := c.v[y] >= c.v[x]
		c.v[x] = c.v[y] - c.v[x]
		c.updateCarryFlag(notBorrowed)

	case OpShl: // 8XYE Vx<<=1
		msb := (c.v[x]>>7)&0x01 == 1
		c.v[x] <<= 1
		c.updateCarryFlag(msb)

	case OpSneReg: // 9XY0 if(Vx!=Vy)
		c.skipIf(c.v[x] != c.v[y])

	case OpLdI: // ANNN I = NNN
		c.i = in.NNN

	case OpJpV0: // BNNN PC=V0+NNN
		c.pc = in.NNN + uint16(c.v[0])

	case OpRnd: // CXNN Vx=rand()&NN
		c.v[x] = uint8(c.rng.Uint32()) & in.NN

	case OpDrw: // DXYN draw(Vx,Vy,N)
		rows, err := c.mem.Slice(int(c.i), int(in.N))
		if err != nil {
			return err
		}
		erased := c.disp.Draw(int(c.v[x]), int(c.v[y]), rows)
		c.updateCarryFlag(erased)

	case OpSkp: // EX9E if(key()==Vx)
		c.skipIf(c.keys.Held(c.v[x]))

	case OpSknp: // EXA1 if(key()!=Vx)
		c.skipIf(!c.keys.Held(c.v[x]))

	case OpLdVxDT: // FX07 Vx = get_delay()
		c.v[x] = c.dt

	case OpLdVxK: // FX0A Vx = get_key()
		if k, ok := c.keys.First(); ok {
			c.v[x] = k
		} else {
			// stay on this instruction until a key is held
			c.waitingKey = true
			c.waitReg = x
			c.pc -= 2
		}

	case OpLdDTVx: // FX15 delay_timer(Vx)
		c.dt = c.v[x]

	case OpLdSTVx: // FX18 sound_timer(Vx)
		c.st = c.v[x]

	case OpAddI: // FX1E I +=Vx
		c.i += uint16(c.v[x])

	case OpLdF: // FX29 I=sprite_addr[Vx]
		c.i = SpriteAddress(c.v[x])

	case OpLdB: // FX33 set_BCD(Vx)
		bcd := []uint8{c.v[x] / 100, (c.v[x] % 100) / 10, c.v[x] % 10}
		if err := c.mem.Store(int(c.i), bcd); err != nil {
			return err
		}

	case OpLdMemVx: // FX55 reg_dump(Vx,&I)
		if err := c.mem.Store(int(c.i), c.v[:x+1]); err != nil {
			return err
		}

	case OpLdVxMem: // FX65 reg_load(Vx,&I)
		b, err := c.mem.Slice(int(c.i), int(x)+1)
		if err != nil {
			return err
		}
		copy(c.v[:x+1], b)

	default: // 0NNN and undefined words
		return c.unknownOpcode(in)
	}

	return nil
}

func (c *Chip8) skipIf(b bool) {
	if b {
		c.pc += 2
	}
}

func (c *Chip8) updateCarryFlag(b bool) {
	if b {
		c.v[0xf] = 1
	} else {
		c.v[0xf] = 0
	}
}

func (c *Chip8) unknownOpcode(in Instruction) error {
	if c.options.UnknownOpcode == Skip {
		c.logger.Warn("Skipping unknown opcode",
			log.Hex("opcode", in.Word),
			log.Hex("pc", c.wordPC))
		return nil
	}
	return &UnknownOpcodeError{Word: in.Word, PC: c.wordPC}
}
