package chip8

// Memory is the flat 4KB address space of the machine.
type Memory struct {
	data [MemorySize]uint8
}

func outOfMemory(addr int) error {
	return &OutOfBoundsError{Region: RegionMemory, Address: addr}
}

func (m *Memory) Read(addr int) (uint8, error) {
	if addr < 0 || addr >= MemorySize {
		return 0, outOfMemory(addr)
	}
	return m.data[addr], nil
}

func (m *Memory) Write(addr int, v uint8) error {
	if addr < 0 || addr >= MemorySize {
		return outOfMemory(addr)
	}
	m.data[addr] = v
	return nil
}

// Slice returns n bytes starting at addr. The slice aliases memory. An
// empty range may start at MemorySize.
func (m *Memory) Slice(addr, n int) ([]uint8, error) {
	if n == 0 && addr == MemorySize {
		return nil, nil
	}
	if addr < 0 || addr >= MemorySize {
		return nil, outOfMemory(addr)
	}
	if n < 0 || addr+n > MemorySize {
		return nil, outOfMemory(addr + n - 1)
	}
	return m.data[addr : addr+n], nil
}

// Store copies b into memory at addr.
func (m *Memory) Store(addr int, b []uint8) error {
	dst, err := m.Slice(addr, len(b))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

func (m *Memory) clear() {
	m.data = [MemorySize]uint8{}
}

// Stack is the bounded subroutine call stack. sp indexes the next free slot
// and is reported as the address of stack faults.
type Stack struct {
	slots [StackSize]uint16
	sp    uint8
}

func (s *Stack) Push(addr uint16) error {
	if int(s.sp) >= StackSize {
		return &OutOfBoundsError{Region: RegionStack, Address: int(s.sp), Err: ErrStackOverflow}
	}
	s.slots[s.sp] = addr
	s.sp++
	return nil
}

func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, &OutOfBoundsError{Region: RegionStack, Address: int(s.sp), Err: ErrStackUnderflow}
	}
	s.sp--
	return s.slots[s.sp], nil
}

// Depth is the number of return addresses currently held.
func (s *Stack) Depth() int {
	return int(s.sp)
}
