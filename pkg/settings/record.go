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
	"encoding/binary"
	"fmt"
)

const (
	// Magic marks a formatted record; anything else means blank or
	// corrupted memory.
	Magic = 0xA55A

	// RecordSize is the serialized size of a Record on the device.
	RecordSize = 40

	ssidSize = 32

	maxVolume = 100
)

const (
	DefaultSSID   = "MyWifi"
	DefaultVolume = 50
)

// serialized field offsets; the layout is the memory image of the firmware
// struct this record originated as, hence little-endian integer fields
const (
	offMotor    = 0
	offMagic    = 4
	offSSID     = 6
	offVolume   = 38
	offChecksum = 39
)

/*
	Record is the system settings persisted on the EEPROM. The serialized
	form is exactly RecordSize bytes with a fixed field order, so the
	checksum over it is deterministic.
*/
type Record struct {
	// motor position calibration
	MotorOffset int32 `json:"motorOffset" yaml:"motorOffset"`
	//
	Magic uint16 `json:"magic" yaml:"magic"`
	// network identifier; at most 32 bytes, truncated on marshaling
	SSID string `json:"ssid" yaml:"ssid"`
	// 0-100
	Volume uint8 `json:"volume" yaml:"volume"`
	//
	Checksum uint8 `json:"checksum" yaml:"checksum"`
}

// Default returns the record written when the device holds no valid data.
func Default() *Record {
	return &Record{
		Magic:  Magic,
		SSID:   DefaultSSID,
		Volume: DefaultVolume,
	}
}

//
func (r *Record) MarshalBinary() ([]byte, error) {

	data := make([]byte, RecordSize)

	binary.LittleEndian.PutUint32(data[offMotor:], uint32(r.MotorOffset))
	binary.LittleEndian.PutUint16(data[offMagic:], r.Magic)

	ssid := []byte(r.SSID)
	if len(ssid) > ssidSize {
		ssid = ssid[:ssidSize]
	}
	copy(data[offSSID:offSSID+ssidSize], ssid)

	data[offVolume] = r.Volume
	data[offChecksum] = r.Checksum

	return data, nil
}

//
func (r *Record) UnmarshalBinary(data []byte) error {

	if len(data) != RecordSize {
		return fmt.Errorf(
			"invalid record size: want %d bytes, got %d", RecordSize, len(data))
	}

	r.MotorOffset = int32(binary.LittleEndian.Uint32(data[offMotor:]))
	r.Magic = binary.LittleEndian.Uint16(data[offMagic:])

	ssid := data[offSSID : offSSID+ssidSize]
	end := 0
	for ; end < len(ssid); end++ {
		if ssid[end] == 0 {
			break
		}
	}
	r.SSID = string(ssid[:end])

	r.Volume = data[offVolume]
	r.Checksum = data[offChecksum]

	return nil
}

// Sum computes the record's checksum: the truncated 8-bit sum over all
// serialized bytes except the checksum byte itself.
func (r *Record) Sum() byte {
	data, _ := r.MarshalBinary()
	var sum byte
	for _, b := range data[:offChecksum] {
		sum += b
	}
	return sum
}

// Valid tells whether the record carries the magic marker and a checksum
// matching its contents.
func (r *Record) Valid() bool {
	return r.Magic == Magic && r.Checksum == r.Sum()
}

// Validate checks field constraints before a record is accepted from an
// external surface like the API.
func (r *Record) Validate() error {
	if r.Volume > maxVolume {
		return fmt.Errorf("volume out of range: %d, max is %d",
			r.Volume, maxVolume)
	}
	if len(r.SSID) > ssidSize {
		return fmt.Errorf("SSID too long: %d bytes, max is %d",
			len(r.SSID), ssidSize)
	}
	return nil
}

//
func (r *Record) String() string {
	return fmt.Sprintf(
		"magic: 0x%04X\nmotor offset: %d\nSSID: %s\nvolume: %d\nchecksum: %d",
		r.Magic, r.MotorOffset, r.SSID, r.Volume, r.Checksum)
}
