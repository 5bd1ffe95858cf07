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
	"testing"

	"github.com/kalvinchiang/at24drive/pkg/bus"
)

//
func newTestStore() (*bus.Simulator, *Store) {
	sim := bus.NewSimulator(DefaultAddr, 0)
	return sim, NewStore(New(sim))
}

//
func TestByteRoundTrip(t *testing.T) {

	_, store := newTestStore()

	if err := store.WriteByte(0x0100, 0xAB); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	value, err := store.ReadByte(0x0100)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if value != 0xAB {
		t.Errorf("got 0x%02X, want 0xAB", value)
	}
}

//
func TestUpdateByteSkipsUnchangedValue(t *testing.T) {

	sim, store := newTestStore()
	sim.Poke(0x0200, 0x55)

	written, err := store.UpdateByte(0x0200, 0x55)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if written {
		t.Error("update reported a write for an unchanged value")
	}
	if sim.DataWrites() != 0 {
		t.Errorf("got %d write transactions, want 0", sim.DataWrites())
	}
}

//
func TestUpdateByteWritesChangedValue(t *testing.T) {

	sim, store := newTestStore()
	sim.Poke(0x0200, 0x55)

	written, err := store.UpdateByte(0x0200, 0x56)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !written {
		t.Error("update did not report a write for a changed value")
	}
	if sim.DataWrites() != 1 {
		t.Errorf("got %d write transactions, want 1", sim.DataWrites())
	}
	if sim.Peek(0x0200) != 0x56 {
		t.Errorf("cell holds 0x%02X, want 0x56", sim.Peek(0x0200))
	}
}

//
func TestBufferPassThrough(t *testing.T) {

	_, store := newTestStore()
	data := []byte{1, 2, 3, 4, 5}

	if err := store.WriteBuffer(0x0300, data); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := store.ReadBuffer(0x0300, len(data))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	for ix := range data {
		if got[ix] != data[ix] {
			t.Fatalf("byte %d: got 0x%02X, want 0x%02X",
				ix, got[ix], data[ix])
		}
	}
}
