package chip8

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
)

const (
	MemorySize           = 4096
	ProgramOffset        = 0x200
	MaxProgramSize       = MemorySize - ProgramOffset
	FontOffset           = 0x050
	FontSpriteBytes      = 5
	StackSize            = 16
	KeyCount             = 16
	TickFrequency        = 60
	DefaultCyclesPerTick = 10
	HistoryLength        = 16
)

// OpcodePolicy selects what happens when an instruction word matches no
// defined pattern.
type OpcodePolicy int

const (
	// Halt stops execution with an UnknownOpcodeError.
	Halt OpcodePolicy = iota
	// Skip logs the word and continues with the next instruction.
	Skip
)

type Options struct {
	// CyclesPerTick is the number of instructions run by Tick.
	CyclesPerTick int

	// Seed for the random number instruction. Zero picks a time based seed.
	Seed uint64

	UnknownOpcode OpcodePolicy

	// Trace logs every executed instruction at debug level.
	Trace  bool
	Logger *log.Logger
}

// Registers is a copy of the register file.
type Registers struct {
	V          [16]uint8
	I          uint16
	PC         uint16
	SP         uint8
	DT         uint8
	ST         uint8
	Stack      [StackSize]uint16
	WaitingKey bool
}

type historyEntry struct {
	pc uint16
	in Instruction
}

// Chip8 owns the complete machine state. It is not safe for concurrent use.
type Chip8 struct {
	mem   Memory
	stack Stack
	v     [16]uint8 // registers
	i     uint16    // index register
	pc    uint16    // program counter
	dt    uint8     // delay timer
	st    uint8     // sound timer
	keys  Keys
	disp  Display

	// pending FX0A
	waitingKey bool
	waitReg    uint8

	// instruction being executed, for error context
	word   uint16
	wordPC uint16

	program []byte
	options Options
	seed    uint64
	rng     *rand.Rand
	logger  *log.Logger

	history      [HistoryLength]historyEntry
	historyIndex int
	historyCount int
}

// New returns a machine with the font loaded, an empty program area and the
// program counter at ProgramOffset.
func New(opts Options) *Chip8 {
	if opts.CyclesPerTick <= 0 {
		opts.CyclesPerTick = DefaultCyclesPerTick
	}
	c := &Chip8{
		options: opts,
		logger:  opts.Logger,
		seed:    opts.Seed,
	}
	if c.logger == nil {
		c.logger = log.NewWithConfig(log.DefaultConfig())
	}
	if c.seed == 0 {
		c.seed = uint64(time.Now().UnixNano())
	}
	c.Reset()
	return c
}

// Reset returns the machine to its power on state and reinstalls the last
// loaded program.
func (c *Chip8) Reset() {
	c.mem.clear()
	c.stack = Stack{}
	c.v = [16]uint8{}
	c.i = 0
	c.pc = ProgramOffset
	c.dt = 0
	c.st = 0
	c.disp.Clear()
	c.waitingKey = false
	c.waitReg = 0
	c.word = 0
	c.wordPC = 0
	c.history = [HistoryLength]historyEntry{}
	c.historyIndex = 0
	c.historyCount = 0
	c.rng = rand.New(rand.NewPCG(c.seed, c.seed^0x9e3779b97f4a7c15))

	copy(c.mem.data[FontOffset:], characterSprites[:])
	copy(c.mem.data[ProgramOffset:], c.program)
}

// Load installs a program image at ProgramOffset and resets the machine.
// Images larger than MaxProgramSize are rejected.
func (c *Chip8) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return &LoadError{Size: int64(len(program)), Err: ErrProgramTooLarge}
	}
	c.program = append([]byte(nil), program...)
	c.Reset()
	return nil
}

// LoadFile reads a program image from disk and installs it.
func (c *Chip8) LoadFile(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	if st.IsDir() {
		return &LoadError{Path: path, Err: fmt.Errorf("%s is a directory", path)}
	}
	if st.Size() > MaxProgramSize {
		return &LoadError{Path: path, Size: st.Size(), Err: ErrProgramTooLarge}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	if err := c.Load(b); err != nil {
		return &LoadError{Path: path, Size: int64(len(b)), Err: ErrProgramTooLarge}
	}

	c.logger.Debug("Program loaded", log.String("path", path), log.Int("size", len(b)))
	return nil
}

// Tick runs one outer tick: the input snapshot is installed, up to
// CyclesPerTick instructions execute, then the timers count down. A pending
// key wait ends the batch early.
func (c *Chip8) Tick(keys Keys) error {
	c.SetKeys(keys)
	for n := 0; n < c.options.CyclesPerTick; n++ {
		if err := c.Step(); err != nil {
			return err
		}
		if c.waitingKey {
			break
		}
	}
	c.DecrementTimers()
	return nil
}

// Step executes a single instruction. While a key wait is pending it only
// re-checks the input snapshot.
func (c *Chip8) Step() error {
	if c.waitingKey {
		c.pollKey()
		return nil
	}

	word, err := c.fetchOpcode()
	if err != nil {
		return err
	}
	in := Decode(word)
	if c.options.Trace {
		c.logger.Debug("Exec",
			log.Hex("pc", c.wordPC),
			log.Hex("opcode", word),
			log.String("instr", in.String()))
	}

	c.recordHistory(c.wordPC, in)
	if err := c.execOpcode(in); err != nil {
		return c.annotate(err)
	}
	return nil
}

func (c *Chip8) fetchOpcode() (uint16, error) {
	pc := c.pc
	if pc&1 != 0 || pc < ProgramOffset || int(pc) > MemorySize-2 {
		return 0, &OutOfBoundsError{Region: RegionMemory, Address: int(pc), PC: pc}
	}
	op := uint16(c.mem.data[pc])<<8 | uint16(c.mem.data[pc+1])
	c.word = op
	c.wordPC = pc
	c.pc += 2
	return op, nil
}

func (c *Chip8) pollKey() {
	k, ok := c.keys.First()
	if !ok {
		return
	}
	c.v[c.waitReg] = k
	c.waitingKey = false
	c.pc += 2
}

// annotate adds the current instruction to memory and stack errors.
func (c *Chip8) annotate(err error) error {
	if oob, ok := err.(*OutOfBoundsError); ok {
		oob.Word = c.word
		oob.PC = c.wordPC
	}
	return err
}

func (c *Chip8) DecrementTimers() {
	if c.dt > 0 {
		c.dt--
	}
	if c.st > 0 {
		c.st--
	}
}

// SoundActive reports whether the sound timer is running.
func (c *Chip8) SoundActive() bool {
	return c.st > 0
}

// SetKeys installs the input snapshot used by the following instructions.
func (c *Chip8) SetKeys(keys Keys) {
	c.keys = keys
}

// WaitingKey reports whether execution is stalled on FX0A.
func (c *Chip8) WaitingKey() bool {
	return c.waitingKey
}

// Display returns the framebuffer. Callers must not modify it.
func (c *Chip8) Display() *Display {
	return &c.disp
}

// Memory returns the address space. Callers must not modify it.
func (c *Chip8) Memory() *Memory {
	return &c.mem
}

func (c *Chip8) Registers() Registers {
	return Registers{
		V:          c.v,
		I:          c.i,
		PC:         c.pc,
		SP:         c.stack.sp,
		DT:         c.dt,
		ST:         c.st,
		Stack:      c.stack.slots,
		WaitingKey: c.waitingKey,
	}
}

func (c *Chip8) recordHistory(pc uint16, in Instruction) {
	c.history[c.historyIndex] = historyEntry{pc: pc, in: in}
	c.historyIndex = (c.historyIndex + 1) % HistoryLength
	if c.historyCount < HistoryLength {
		c.historyCount++
	}
}

// History returns the most recently executed instructions, oldest first.
func (c *Chip8) History() []string {
	h := make([]string, 0, c.historyCount)
	start := c.historyIndex - c.historyCount
	if start < 0 {
		start += HistoryLength
	}
	for n := 0; n < c.historyCount; n++ {
		e := c.history[(start+n)%HistoryLength]
		h = append(h, fmt.Sprintf("%03X-%04X %s", e.pc, e.in.Word, e.in))
	}
	return h
}
