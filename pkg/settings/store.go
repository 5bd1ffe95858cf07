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

package settings

import (
	log "github.com/sirupsen/logrus"

	"github.com/kalvinchiang/at24drive/pkg/eeprom"
)

// Address is the fixed offset of the settings record on the device. The
// byte right after the record is free for scratch use and not part of the
// committed layout.
const Address = 0x0000

/*
	Store persists one Record at the fixed settings address. Corrupt or
	blank memory never surfaces as an error: Load repairs it in place by
	formatting the device with defaults. This keeps the system self-healing
	after power loss mid-write; the repair is reported so callers can log
	or alert, but never fails the load.
*/
type Store struct {
	bytes *eeprom.Store
}

//
func New(bytes *eeprom.Store) *Store {
	return &Store{bytes: bytes}
}

/*
	Load reads the settings record from the device. When the stored data
	misses the magic marker or fails its checksum, the default record is
	written back and returned instead; repaired reports that this happened.
	Only transport and range failures propagate as errors.
*/
func (s *Store) Load() (*Record, bool, error) {

	data, err := s.bytes.ReadBuffer(Address, RecordSize)
	if err != nil {
		return nil, false, err
	}

	r := &Record{}
	if err := r.UnmarshalBinary(data); err != nil {
		return nil, false, err
	}

	if r.Valid() {
		return r, false, nil
	}

	log.WithFields(log.Fields{
		"magic":    r.Magic,
		"checksum": r.Checksum,
		"want":     r.Sum(),
	}).Warn("settings blank or corrupted, formatting with defaults")

	r = Default()
	if err := s.Save(r); err != nil {
		return nil, false, err
	}

	return r, true, nil
}

// Save stamps the magic marker, recomputes the checksum, and writes the
// full record to the device. A record that went through Save always loads
// back as valid.
func (s *Store) Save(r *Record) error {

	r.Magic = Magic
	r.Checksum = r.Sum()

	data, err := r.MarshalBinary()
	if err != nil {
		return err
	}

	return s.bytes.WriteBuffer(Address, data)
}
