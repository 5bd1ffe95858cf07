/*
   At24Drive - AT24C256 EEPROM settings bridge
   Copyright (c) 2026, Kalvin Chiang

   This file is part of At24Drive.

   At24Drive is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   At24Drive is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with At24Drive. If not, see <http://www.gnu.org/licenses/>.
*/

package bus

// AT24C256 geometry, as modeled by the simulator
const (
	simCapacity = 32768
	simPageSize = 64
)

/*
	Simulator is an in-memory model of an AT24C256 on the bus, standing in
	for a real adapter during tests and hardware-free runs. It reproduces
	the device behaviors the driver has to cope with:

	  - 16-bit big-endian address latch set by the leading two payload bytes
	  - writes wrap around inside the current 64-byte page
	  - sequential reads cross page boundaries transparently
	  - after a data write, the device NACKs for a configurable number of
	    transactions (the internal write cycle)

	Not safe for concurrent use, like the bus it stands in for.
*/
type Simulator struct {
	//
	mem   [simCapacity]byte
	latch uint16
	addr  byte
	// remaining transactions to refuse; refilled to busyWindow on each
	// data write
	busy       int
	busyWindow int
	//
	writes int
	reads  int
}

// NewSimulator creates a simulator for a device at the given address.
// busyWindow is the number of transactions NACKed after each data write;
// 0 models a device that is always immediately ready.
func NewSimulator(addr byte, busyWindow int) *Simulator {
	return &Simulator{addr: addr, busyWindow: busyWindow}
}

//
func (s *Simulator) String() string {
	return "simulated AT24C256"
}

//
func (s *Simulator) Write(addr byte, data []byte, hold bool) error {

	if addr != s.addr {
		return &Error{Op: "write", Addr: addr, NACK: true}
	}

	if s.busy > 0 {
		s.busy--
		return &Error{Op: "write", Addr: addr, NACK: true}
	}

	if len(data) < 2 {
		// incomplete address, nothing latched or committed; this is what
		// the driver's ready probe sends
		return nil
	}

	s.latch = uint16(data[0])<<8 | uint16(data[1])

	if len(data) == 2 {
		return nil // pure address set, i.e. the dummy write before a read
	}

	a := s.latch
	page := a - a%simPageSize
	for _, d := range data[2:] {
		s.mem[a%simCapacity] = d
		a = page + (a+1)%simPageSize // the device wraps inside the page
	}

	s.writes++
	s.busy = s.busyWindow
	return nil
}

//
func (s *Simulator) Read(addr byte, length int, hold bool) ([]byte, error) {

	if addr != s.addr {
		return nil, &Error{Op: "read", Addr: addr, NACK: true}
	}

	if s.busy > 0 {
		s.busy--
		return nil, &Error{Op: "read", Addr: addr, NACK: true}
	}

	data := make([]byte, length)
	for ix := range data {
		data[ix] = s.mem[s.latch]
		s.latch = (s.latch + 1) % simCapacity
	}

	s.reads++
	return data, nil
}

// Peek returns the memory cell at offset, bypassing the bus.
func (s *Simulator) Peek(offset uint16) byte {
	return s.mem[offset%simCapacity]
}

// Poke sets the memory cell at offset, bypassing the bus.
func (s *Simulator) Poke(offset uint16, value byte) {
	s.mem[offset%simCapacity] = value
}

// DataWrites returns the number of committed data write transactions.
func (s *Simulator) DataWrites() int {
	return s.writes
}
