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

package eeprom

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/kalvinchiang/at24drive/pkg/bus"
)

//
type transaction struct {
	op   string
	addr byte
	data []byte
	hold bool
}

// recorder wraps a transport and keeps a trace of every transaction
type recorder struct {
	inner        bus.Transport
	transactions []transaction
}

func (r *recorder) Write(addr byte, data []byte, hold bool) error {
	d := make([]byte, len(data))
	copy(d, data)
	r.transactions = append(r.transactions,
		transaction{op: "write", addr: addr, data: d, hold: hold})
	return r.inner.Write(addr, data, hold)
}

func (r *recorder) Read(addr byte, length int, hold bool) ([]byte, error) {
	r.transactions = append(r.transactions,
		transaction{op: "read", addr: addr, hold: hold})
	return r.inner.Read(addr, length, hold)
}

// dataWrites filters the trace down to write transactions that carry data
// beyond the two address bytes, i.e. actual page writes.
func (r *recorder) dataWrites() []transaction {
	var ret []transaction
	for _, t := range r.transactions {
		if t.op == "write" && len(t.data) > 2 {
			ret = append(ret, t)
		}
	}
	return ret
}

//
func newRecorded() (*recorder, *Device) {
	rec := &recorder{inner: bus.NewSimulator(DefaultAddr, 0)}
	return rec, New(rec)
}

//
func TestWriteSplitsAtPageBoundary(t *testing.T) {

	tests := []struct {
		name   string
		offset uint16
		data   []byte
		chunks [][]byte // expected frames including address bytes
	}{
		{
			name:   "within one page",
			offset: 10,
			data:   []byte{9, 8, 7},
			chunks: [][]byte{{0x00, 0x0A, 9, 8, 7}},
		},
		{
			name:   "documented scenario at offset 60",
			offset: 60,
			data:   []byte{1, 2, 3, 4, 5, 6},
			chunks: [][]byte{
				{0x00, 0x3C, 1, 2, 3, 4},
				{0x00, 0x40, 5, 6},
			},
		},
		{
			name:   "two bytes before page end",
			offset: PageSize - 2,
			data:   []byte{1, 2, 3, 4, 5},
			chunks: [][]byte{
				{0x00, 0x3E, 1, 2},
				{0x00, 0x40, 3, 4, 5},
			},
		},
		{
			name:   "full page aligned",
			offset: 128,
			data:   bytes.Repeat([]byte{0xAA}, PageSize),
			chunks: [][]byte{
				append([]byte{0x00, 0x80}, bytes.Repeat([]byte{0xAA}, PageSize)...),
			},
		},
		{
			name:   "high offset address encoding",
			offset: 0x1234,
			data:   []byte{0x55},
			chunks: [][]byte{{0x12, 0x34, 0x55}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			rec, dev := newRecorded()

			if err := dev.Write(tt.offset, tt.data); err != nil {
				t.Fatalf("write failed: %v", err)
			}

			writes := rec.dataWrites()
			if len(writes) != len(tt.chunks) {
				t.Fatalf("got %d page writes, want %d",
					len(writes), len(tt.chunks))
			}

			for ix, want := range tt.chunks {
				if !bytes.Equal(writes[ix].data, want) {
					t.Errorf("page write %d: got % X, want % X",
						ix, writes[ix].data, want)
				}
				if writes[ix].hold {
					t.Errorf("page write %d held the bus", ix)
				}
			}
		})
	}
}

//
func TestReadUsesAddressLatchWithHeldBus(t *testing.T) {

	rec, dev := newRecorded()
	sim := rec.inner.(*bus.Simulator)
	sim.Poke(0x1234, 0xDE)
	sim.Poke(0x1235, 0xAD)

	data, err := dev.Read(0x1234, 2)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !bytes.Equal(data, []byte{0xDE, 0xAD}) {
		t.Fatalf("got % X, want DE AD", data)
	}

	if len(rec.transactions) != 2 {
		t.Fatalf("got %d transactions, want 2", len(rec.transactions))
	}

	dummy := rec.transactions[0]
	if dummy.op != "write" || !dummy.hold {
		t.Errorf("first transaction is not a held dummy write: %+v", dummy)
	}
	if !bytes.Equal(dummy.data, []byte{0x12, 0x34}) {
		t.Errorf("dummy write address: got % X, want 12 34", dummy.data)
	}

	read := rec.transactions[1]
	if read.op != "read" || read.hold {
		t.Errorf("second transaction is not a plain read: %+v", read)
	}
}

//
func TestRangeViolationsTouchNothing(t *testing.T) {

	tests := []struct {
		name   string
		read   bool
		offset uint16
		length int
	}{
		{"read beyond end", true, Capacity - 8, 16},
		{"read at capacity", true, Capacity - 1, 2},
		{"write beyond end", false, Capacity - 2, 4},
		{"write from last byte", false, Capacity - 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			rec, dev := newRecorded()

			var err error
			if tt.read {
				_, err = dev.Read(tt.offset, tt.length)
			} else {
				err = dev.Write(tt.offset, make([]byte, tt.length))
			}

			var re *RangeError
			if !errors.As(err, &re) {
				t.Fatalf("got %v, want RangeError", err)
			}
			if len(rec.transactions) != 0 {
				t.Errorf("bus was touched: %d transactions",
					len(rec.transactions))
			}
		})
	}
}

//
func TestRangeEndIsValid(t *testing.T) {

	_, dev := newRecorded()

	if err := dev.Write(Capacity-4, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("write up to capacity failed: %v", err)
	}
	if _, err := dev.Read(Capacity-4, 4); err != nil {
		t.Fatalf("read up to capacity failed: %v", err)
	}
}

// busyBus NACKs a fixed number of ready probes after each data write
type busyBus struct {
	sim    *bus.Simulator
	probes int // remaining NACKs
	nacks  int // total NACKs issued
	window int
}

func (b *busyBus) Write(addr byte, data []byte, hold bool) error {
	if len(data) < 2 && b.probes > 0 {
		b.probes--
		b.nacks++
		return &bus.Error{Op: "write", Addr: addr, NACK: true}
	}
	err := b.sim.Write(addr, data, hold)
	if err == nil && len(data) > 2 {
		b.probes = b.window
	}
	return err
}

func (b *busyBus) Read(addr byte, length int, hold bool) ([]byte, error) {
	return b.sim.Read(addr, length, hold)
}

//
func TestWaitReadyPollsUntilAck(t *testing.T) {

	bb := &busyBus{sim: bus.NewSimulator(DefaultAddr, 0), window: 3}
	dev := New(bb, WithPollInterval(time.Microsecond))

	if err := dev.Write(0, []byte{0x42}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if bb.nacks != 3 {
		t.Errorf("got %d NACKed probes, want 3", bb.nacks)
	}
}

// deadBus accepts the data write, then never acknowledges again
type deadBus struct {
	sim   *bus.Simulator
	wrote bool
}

func (b *deadBus) Write(addr byte, data []byte, hold bool) error {
	if b.wrote {
		return &bus.Error{Op: "write", Addr: addr, NACK: true}
	}
	if len(data) > 2 {
		b.wrote = true
	}
	return b.sim.Write(addr, data, hold)
}

func (b *deadBus) Read(addr byte, length int, hold bool) ([]byte, error) {
	return b.sim.Read(addr, length, hold)
}

//
func TestWriteTimesOutOnUnresponsiveDevice(t *testing.T) {

	dev := New(&deadBus{sim: bus.NewSimulator(DefaultAddr, 0)},
		WithWriteTimeout(2*time.Millisecond),
		WithPollInterval(100*time.Microsecond))

	err := dev.Write(0, []byte{0x42})

	var nre *NotReadyError
	if !errors.As(err, &nre) {
		t.Fatalf("got %v, want NotReadyError", err)
	}
}

//
func TestRoundTrip(t *testing.T) {

	dev := New(bus.NewSimulator(DefaultAddr, 2), WithPollInterval(time.Microsecond))

	data := make([]byte, 300) // spans five pages
	for ix := range data {
		data[ix] = byte(ix * 7)
	}

	if err := dev.Write(100, data); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := dev.Read(100, len(data))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if !bytes.Equal(got, data) {
		t.Fatal("read back data differs from what was written")
	}
}
