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

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jacobsa/go-serial/serial"
	log "github.com/sirupsen/logrus"
)

//
const commandLength = 4

const (
	opWrite = 'W'
	opRead  = 'R'
)

// bit 7 of the address byte asks the adapter for a repeated start
const flagHold = 0x80

const (
	statusOK   = 0x00
	statusNACK = 0x01
	statusFail = 0x02
)

// how many stray bytes we scan through when looking for the adapter hello
const helloScanLimit = 256

//
var helloBridge = []byte("hlob")
var helloDaemon = []byte("hlod")

/*
	Bridge is a Transport backed by a serial I2C bridge adapter, typically a
	microcontroller that forwards framed commands from USB serial onto its
	I2C pins. Each transaction is one command frame:

		[op, addr|hold, count lo, count hi] + payload

	answered with a single status byte, followed by count data bytes for
	reads. The 16-bit count lets a single read cover the whole device; the
	adapter streams the bytes as it clocks them in. Bridge is not safe for
	concurrent use; callers serialize access.
*/
type Bridge struct {
	device string
	port   io.ReadWriteCloser
}

// OpenBridge opens the serial port and syncs with the adapter.
func OpenBridge(device string) (*Bridge, error) {

	port, err := serial.Open(serial.OpenOptions{
		PortName:        device,
		BaudRate:        1000000,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening port %s: %v", device, err)
	}

	b := &Bridge{device: device, port: port}

	if err := b.syncOnHello(); err != nil {
		b.Close()
		return nil, err
	}

	return b, nil
}

//
func (b *Bridge) Close() error {
	return b.port.Close()
}

//
func (b *Bridge) String() string {
	return b.device
}

/*
	syncOnHello drops whatever the adapter sent before we attached, then
	exchanges hellos. The adapter keeps repeating its hello until it sees
	ours, so scanning the incoming bytes with a shift register is enough.
*/
func (b *Bridge) syncOnHello() error {

	log.Info("syncing with bridge adapter")

	if _, err := b.port.Write(helloDaemon); err != nil {
		return fmt.Errorf("error sending daemon hello: %v", err)
	}

	hello := make([]byte, commandLength)

	for scanned := 0; ; scanned++ {
		if bytes.Equal(hello, helloBridge) {
			break
		}
		if scanned > helloScanLimit {
			return fmt.Errorf("no hello from bridge adapter on %s", b.device)
		}
		shiftLeft(hello)
		if _, err := io.ReadFull(b.port, hello[len(hello)-1:]); err != nil {
			return err
		}
	}

	log.Infof("synced with bridge adapter on %s", b.device)
	return nil
}

//
func (b *Bridge) Write(addr byte, data []byte, hold bool) error {

	if len(data) > 0xffff {
		return &Error{Op: "write", Addr: addr,
			Cause: fmt.Errorf("payload too long: %d bytes", len(data))}
	}

	frame := make([]byte, 0, commandLength+len(data))
	frame = append(frame, opWrite, encodeAddr(addr, hold),
		byte(len(data)), byte(len(data)>>8))
	frame = append(frame, data...)

	if _, err := b.port.Write(frame); err != nil {
		return &Error{Op: "write", Addr: addr, Cause: err}
	}

	return b.readStatus("write", addr)
}

//
func (b *Bridge) Read(addr byte, length int, hold bool) ([]byte, error) {

	if length < 0 || length > 0xffff {
		return nil, &Error{Op: "read", Addr: addr,
			Cause: fmt.Errorf("invalid read length: %d", length)}
	}

	frame := []byte{opRead, encodeAddr(addr, hold),
		byte(length), byte(length >> 8)}
	if _, err := b.port.Write(frame); err != nil {
		return nil, &Error{Op: "read", Addr: addr, Cause: err}
	}

	if err := b.readStatus("read", addr); err != nil {
		return nil, err
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(b.port, data); err != nil {
		return nil, &Error{Op: "read", Addr: addr, Cause: err}
	}

	return data, nil
}

//
func (b *Bridge) readStatus(op string, addr byte) error {

	status := make([]byte, 1)
	if _, err := io.ReadFull(b.port, status); err != nil {
		return &Error{Op: op, Addr: addr, Cause: err}
	}

	switch status[0] {

	case statusOK:
		return nil

	case statusNACK:
		return &Error{Op: op, Addr: addr, NACK: true}

	default:
		return &Error{Op: op, Addr: addr,
			Cause: fmt.Errorf("adapter reported failure 0x%02X", status[0])}
	}
}

//
func encodeAddr(addr byte, hold bool) byte {
	a := addr & 0x7f
	if hold {
		a |= flagHold
	}
	return a
}

//
func shiftLeft(data []byte) {
	for ix := 0; ix < len(data)-1; ix++ {
		data[ix] = data[ix+1]
	}
}
