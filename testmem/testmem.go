// Package testmem provides a flat 64KiB memory and a trivial port space
// implementing z80.Bus, for use by the machine package's tests and by the
// cmd/z80run demo CLI. It is deliberately not a ZX Spectrum/SMS memory
// map — no banking, no contention — grounded on the shape of the
// teacher's emu/mem.go and emu/io.go, simplified down to what a test
// double needs.
package testmem

// Memory is a flat 64KiB address space with an optional per-address
// read-only mask, useful for modeling ROM.
type Memory struct {
	RAM      [65536]uint8
	readOnly [65536]bool
}

// New returns a zeroed 64KiB memory.
func New() *Memory {
	return &Memory{}
}

// LoadAt copies data into memory starting at addr, wrapping at 0xFFFF.
func (m *Memory) LoadAt(addr uint16, data []byte) {
	for _, b := range data {
		m.RAM[addr] = b
		addr++
	}
}

// ProtectRange marks [start, start+length) read-only, modeling ROM.
func (m *Memory) ProtectRange(start uint16, length int) {
	for i := 0; i < length; i++ {
		m.readOnly[uint16(int(start)+i)] = true
	}
}

func (m *Memory) ReadOpcode(addr uint16) uint8 { return m.RAM[addr] }
func (m *Memory) ReadMem(addr uint16) uint8    { return m.RAM[addr] }

func (m *Memory) WriteMem(addr uint16, value uint8) {
	if m.readOnly[addr] {
		return
	}
	m.RAM[addr] = value
}

// Ports is a 256-entry port space (the low byte of the port address is
// what most real peripherals decode on); reads default to 0xFF (an
// unconnected bus floats high on most Z80 hosts).
type Ports struct {
	in  [256]uint8
	out [256]uint8
	hit [256]int
}

func NewPorts() *Ports {
	p := &Ports{}
	for i := range p.in {
		p.in[i] = 0xFF
	}
	return p
}

func (p *Ports) SetInput(port uint8, value uint8) { p.in[port] = value }
func (p *Ports) LastOutput(port uint8) uint8       { return p.out[port] }
func (p *Ports) WriteCount(port uint8) int         { return p.hit[port] }

func (p *Ports) ReadPort(port uint16) uint8 { return p.in[uint8(port)] }

func (p *Ports) WritePort(port uint16, value uint8) {
	low := uint8(port)
	p.out[low] = value
	p.hit[low]++
}

// Bus bundles Memory and Ports behind the z80.Bus interface; it satisfies
// that interface structurally, so this package does not import z80.
type Bus struct {
	*Memory
	*Ports
}

func NewBus() *Bus {
	return &Bus{Memory: New(), Ports: NewPorts()}
}
