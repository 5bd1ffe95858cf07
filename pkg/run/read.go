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
	"encoding/hex"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"
)

//
func NewRead() *Read {

	r := &Read{}
	r.Runner = *NewRunner(
		"read [-o|--offset {offset}] [-l|--length {length}] [-f|--file {file}]",
		"read bytes from the EEPROM",
		`
Use the read command to read a range of bytes from the EEPROM via a running
daemon. Output is hex on stdout, or raw bytes when written to a file.`, r.Run)

	r.AddBaseSettings()
	r.AddSetting(&r.Offset, "offset", "o", "", "0",
		"start offset, decimal or 0x-prefixed hex", false)
	r.AddSetting(&r.Length, "length", "l", "", 1,
		"number of bytes to read", false)
	r.AddSetting(&r.File, "file", "f", "", nil,
		"write raw bytes to this file instead of hex to stdout", false)

	return r
}

//
type Read struct {
	//
	Runner
	//
	Offset string
	Length int
	File   string
}

//
func (r *Read) Run() error {

	r.ParseSettings()

	offset, err := parseOffset(r.Offset)
	if err != nil {
		return err
	}

	resp, err := r.apiCall("GET",
		fmt.Sprintf("/read?offset=%d&length=%d", offset, r.Length), false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	if r.File == "" {
		_, err = io.Copy(os.Stdout, resp)
		return err
	}

	body, err := ioutil.ReadAll(resp)
	if err != nil {
		return err
	}

	data, err := hex.DecodeString(strings.TrimSpace(string(body)))
	if err != nil {
		return err
	}

	return ioutil.WriteFile(r.File, data, 0644)
}
