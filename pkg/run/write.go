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
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
)

//
func NewWrite() *Write {

	w := &Write{}
	w.Runner = *NewRunner(
		"write [-o|--offset {offset}] [-x|--hex {bytes}] [-f|--file {file}]",
		"write bytes to the EEPROM",
		`
Use the write command to write bytes at an offset via a running daemon. The
data comes either from the --hex flag as hex digits, or raw from a file.`,
		w.Run)

	w.AddBaseSettings()
	w.AddSetting(&w.Offset, "offset", "o", "", "0",
		"start offset, decimal or 0x-prefixed hex", false)
	w.AddSetting(&w.Hex, "hex", "x", "", nil,
		"data to write, as hex digits", false)
	w.AddSetting(&w.File, "file", "f", "", nil,
		"read data from this file", false)

	return w
}

//
type Write struct {
	//
	Runner
	//
	Offset string
	Hex    string
	File   string
}

//
func (w *Write) Run() error {

	w.ParseSettings()

	offset, err := parseOffset(w.Offset)
	if err != nil {
		return err
	}

	switch {

	case w.Hex != "" && w.File != "":
		return fmt.Errorf("--hex and --file are mutually exclusive")

	case w.Hex != "":
		return w.send(offset, bytes.NewBufferString(w.Hex), false)

	case w.File != "":
		data, err := ioutil.ReadFile(w.File)
		if err != nil {
			return err
		}
		return w.send(offset, bytes.NewBuffer(data), true)

	default:
		return fmt.Errorf("specify the data with --hex or --file")
	}
}

//
func (w *Write) send(offset uint16, body io.Reader, raw bool) error {

	resp, err := w.apiUpload(
		fmt.Sprintf("/write?offset=%d", offset), raw, body)
	if err != nil {
		return err
	}
	defer resp.Close()

	_, err = io.Copy(os.Stdout, resp)
	return err
}
