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
	"fmt"
	"time"
)

// RangeError indicates a request beyond the device's address space. It is
// raised before any bus transaction.
type RangeError struct {
	Offset uint16
	Length int
}

//
func (e *RangeError) Error() string {
	return fmt.Sprintf(
		"range 0x%04X+%d exceeds device capacity of %d bytes",
		e.Offset, e.Length, Capacity)
}

// NotReadyError indicates that the device kept refusing to acknowledge its
// address after a write, past the configured timeout.
type NotReadyError struct {
	Timeout time.Duration
}

//
func (e *NotReadyError) Error() string {
	return fmt.Sprintf(
		"device not ready within %v after write", e.Timeout)
}
