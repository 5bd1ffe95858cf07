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

import "fmt"

//
type Status struct {
	Device   string `json:"device"`
	Capacity int    `json:"capacity"`
	PageSize int    `json:"pageSize"`
	Up       bool   `json:"up"`
	Uptime   string `json:"uptime,omitempty"`
	// Repaired is set when any settings load so far found blank or
	// corrupted storage and formatted it with defaults.
	Repaired bool `json:"settingsRepaired"`
}

//
func (s *Status) String() string {

	state := "down"
	if s.Up {
		state = fmt.Sprintf("up %s", s.Uptime)
	}

	ret := fmt.Sprintf("device: %s (%s)\ncapacity: %d bytes, %d byte pages",
		s.Device, state, s.Capacity, s.PageSize)
	if s.Repaired {
		ret += "\nsettings were repaired"
	}
	return ret
}
