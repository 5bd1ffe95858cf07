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

/*
	Store is the convenience layer over Device: single-byte access and
	whole-buffer pass-through. It adds no failure modes of its own, and it
	knows nothing about pages or addressing.
*/
type Store struct {
	dev *Device
}

//
func NewStore(dev *Device) *Store {
	return &Store{dev: dev}
}

//
func (s *Store) ReadByte(offset uint16) (byte, error) {
	data, err := s.dev.Read(offset, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

//
func (s *Store) WriteByte(offset uint16, value byte) error {
	return s.dev.Write(offset, []byte{value})
}

/*
	UpdateByte writes value at offset only when it differs from what is
	stored. Every physical write burns one of the device's finite write
	cycles, so anything updating cells periodically should come through
	here instead of writing blindly. Returns whether a write happened.
*/
func (s *Store) UpdateByte(offset uint16, value byte) (bool, error) {

	current, err := s.ReadByte(offset)
	if err != nil {
		return false, err
	}

	if current == value {
		return false, nil
	}

	return true, s.WriteByte(offset, value)
}

//
func (s *Store) ReadBuffer(offset uint16, length int) ([]byte, error) {
	return s.dev.Read(offset, length)
}

//
func (s *Store) WriteBuffer(offset uint16, data []byte) error {
	return s.dev.Write(offset, data)
}
