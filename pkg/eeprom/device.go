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
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kalvinchiang/at24drive/pkg/bus"
)

// AT24C256 geometry: 512 pages of 64 bytes
const (
	Capacity = 32768
	PageSize = 64
)

// DefaultAddr is the device address with A2..A0 strapped to ground.
const DefaultAddr = 0x50

/*
	Device gives byte-accurate access to the EEPROM's linear address space.
	It splits writes at page boundaries, prefixes every transaction with the
	16-bit big-endian memory address, and waits out the device's internal
	write cycle after each page write.

	Device is purely synchronous and must not be used from more than one
	goroutine without external locking; the bus underneath is a single
	exclusively-owned resource.
*/
type Device struct {
	bus  bus.Transport
	conf config
}

//
func New(b bus.Transport, opts ...Option) *Device {

	conf := defaultConfig()
	for _, opt := range opts {
		opt(&conf)
	}

	return &Device{bus: b, conf: conf}
}

/*
	Read returns length bytes starting at offset. The memory address is set
	with a dummy write that holds the bus, then a single read transaction
	fetches all bytes; sequential reads cross page boundaries transparently,
	so no splitting is needed here.
*/
func (d *Device) Read(offset uint16, length int) ([]byte, error) {

	if err := checkRange(offset, length); err != nil {
		return nil, err
	}

	if length == 0 {
		return []byte{}, nil
	}

	if err := d.bus.Write(
		d.conf.addr, []byte{byte(offset >> 8), byte(offset)}, true); err != nil {
		return nil, err
	}

	return d.bus.Read(d.conf.addr, length, false)
}

/*
	Write stores data starting at offset. The device only buffers one page
	per transaction and wraps within the page otherwise, so the write is cut
	into chunks that never cross a page boundary. Each chunk is followed by
	a wait for the device's internal write cycle to finish. The requested
	range is validated in full before the first transaction; a range
	violation never results in a partial write.
*/
func (d *Device) Write(offset uint16, data []byte) error {

	if err := checkRange(offset, len(data)); err != nil {
		return err
	}

	for len(data) > 0 {

		space := PageSize - int(offset)%PageSize
		chunk := len(data)
		if chunk > space {
			chunk = space
		}

		frame := make([]byte, 0, chunk+2)
		frame = append(frame, byte(offset>>8), byte(offset))
		frame = append(frame, data[:chunk]...)

		if err := d.bus.Write(d.conf.addr, frame, false); err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"offset": offset,
			"bytes":  chunk,
		}).Trace("page write")

		if err := d.waitReady(); err != nil {
			return err
		}

		offset += uint16(chunk)
		data = data[chunk:]
	}

	return nil
}

/*
	waitReady polls the device until it acknowledges its address again. The
	EEPROM refuses to acknowledge while it commits a write internally, for
	up to 5ms on this part. The probe is a minimal one-byte addressed write
	that latches nothing. Polling is bounded by the configured write
	timeout; on expiry a NotReadyError is returned rather than hanging the
	caller on a dead device.
*/
func (d *Device) waitReady() error {

	deadline := time.Now().Add(d.conf.writeTimeout)

	for {
		err := d.bus.Write(d.conf.addr, []byte{0}, false)
		if err == nil {
			return nil
		}
		if !bus.IsNACK(err) {
			return err // a real transport failure, not a busy device
		}
		if !time.Now().Before(deadline) {
			return &NotReadyError{Timeout: d.conf.writeTimeout}
		}
		time.Sleep(d.conf.pollInterval)
	}
}

//
func checkRange(offset uint16, length int) error {
	if length < 0 || int(offset)+length > Capacity {
		return &RangeError{Offset: offset, Length: length}
	}
	return nil
}
