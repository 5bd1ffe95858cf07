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
	"errors"
	"fmt"
)

/*
	Transport moves raw bytes to & from a device on the I2C bus. Electrical
	concerns, bus timing, and GPIO setup all live behind this interface, in
	the bridge adapter firmware. The transport assumes a single master with
	exclusive access to the bus.

	When hold is true, the transaction ends with a repeated start instead of
	a stop condition, so the bus stays owned across the next transaction.
	This is what makes the EEPROM's dummy-write-then-read addressing pattern
	possible.
*/
type Transport interface {
	// Write sends data to the device at the given 7-bit address.
	Write(addr byte, data []byte, hold bool) error
	// Read receives length bytes from the device at the given 7-bit address.
	Read(addr byte, length int, hold bool) ([]byte, error)
}

//
type Error struct {
	//
	Op   string
	Addr byte
	// NACK is set when the device did not acknowledge its address. A busy
	// EEPROM in its internal write cycle answers this way.
	NACK bool
	//
	Cause error
}

//
func (e *Error) Error() string {
	if e.NACK {
		return fmt.Sprintf(
			"bus %s at address 0x%02X: no acknowledgment", e.Op, e.Addr)
	}
	return fmt.Sprintf("bus %s at address 0x%02X: %v", e.Op, e.Addr, e.Cause)
}

//
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsNACK tells whether err is a transport error caused by a device not
// acknowledging its address.
func IsNACK(err error) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.NACK
	}
	return false
}
