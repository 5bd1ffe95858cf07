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

package daemon

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

//
func newTestDaemon(t *testing.T) *Daemon {
	d := NewDaemon(DeviceSim)
	if err := d.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	t.Cleanup(func() { d.Stop() })
	return d
}

//
func TestStartFormatsBlankDevice(t *testing.T) {

	d := newTestDaemon(t)

	rec, repaired, err := d.Settings()
	if err != nil {
		t.Fatalf("settings failed: %v", err)
	}
	if repaired {
		t.Error("settings still invalid after start")
	}
	if rec.SSID == "" {
		t.Error("no settings loaded")
	}
}

//
func TestOperationsRequireStart(t *testing.T) {

	d := NewDaemon(DeviceSim)

	if _, err := d.ReadRange(0, 1); err == nil {
		t.Error("read on stopped daemon succeeded")
	}
	if err := d.WriteRange(0, []byte{1}); err == nil {
		t.Error("write on stopped daemon succeeded")
	}
	if _, _, err := d.Settings(); err == nil {
		t.Error("settings on stopped daemon succeeded")
	}
}

//
func TestRangeRoundTrip(t *testing.T) {

	d := newTestDaemon(t)
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	if err := d.WriteRange(0x2000, data); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := d.ReadRange(0x2000, len(data))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("got % X, want % X", got, data)
	}
}

//
func TestUpdateByte(t *testing.T) {

	d := newTestDaemon(t)

	written, err := d.UpdateByte(0x3000, 0x77)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !written {
		t.Error("first update did not write")
	}

	written, err = d.UpdateByte(0x3000, 0x77)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if written {
		t.Error("second update wrote the same value again")
	}
}

//
func TestDump(t *testing.T) {

	d := newTestDaemon(t)

	var b strings.Builder
	if err := d.Dump(0, 32, &b); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	if b.Len() == 0 {
		t.Error("empty dump")
	}
}

// operations arriving from concurrent API requests serialize on the
// daemon's mutex; this mostly exists to let the race detector chew on it
func TestConcurrentAccess(t *testing.T) {

	d := newTestDaemon(t)

	var wg sync.WaitGroup
	for ix := 0; ix < 8; ix++ {
		wg.Add(1)
		go func(n byte) {
			defer wg.Done()
			offset := uint16(0x1000) + uint16(n)*64
			if err := d.WriteRange(offset, []byte{n, n, n}); err != nil {
				t.Errorf("write failed: %v", err)
			}
			if _, err := d.ReadRange(offset, 3); err != nil {
				t.Errorf("read failed: %v", err)
			}
		}(byte(ix))
	}
	wg.Wait()
}
