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

package control

import (
	"github.com/kalvinchiang/at24drive/pkg/settings"
)

// Range is a stretch of device memory, with data hex encoded.
type Range struct {
	Offset uint16 `json:"offset"`
	Length int    `json:"length"`
	Data   string `json:"data"`
}

//
type Settings struct {
	*settings.Record `yaml:",inline"`
	// Repaired is set when the load found blank or corrupted storage and
	// wrote the defaults back.
	Repaired bool `json:"repaired,omitempty" yaml:"repaired,omitempty"`
}
