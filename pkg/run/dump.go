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

package run

import (
	"fmt"
	"io"
	"os"
)

//
func NewDump() *Dump {

	d := &Dump{}
	d.Runner = *NewRunner(
		"dump [-o|--offset {offset}] [-l|--length {length}]",
		"hex dump of EEPROM contents",
		`
Use the dump command to output a canonical hex dump of a range of the
EEPROM. Without flags, the whole device is dumped.`, d.Run)

	d.AddBaseSettings()
	d.AddSetting(&d.Offset, "offset", "o", "", "0",
		"start offset, decimal or 0x-prefixed hex", false)
	d.AddSetting(&d.Length, "length", "l", "", 0,
		"number of bytes to dump; 0 for everything", false)

	return d
}

//
type Dump struct {
	//
	Runner
	//
	Offset string
	Length int
}

//
func (d *Dump) Run() error {

	d.ParseSettings()

	offset, err := parseOffset(d.Offset)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/dump?offset=%d", offset)
	if d.Length > 0 {
		path = fmt.Sprintf("%s&length=%d", path, d.Length)
	}

	resp, err := d.apiCall("GET", path, false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	if _, err := io.Copy(os.Stdout, resp); err != nil {
		return err
	}

	return nil
}
