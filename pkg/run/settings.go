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
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"

	"gopkg.in/yaml.v3"

	"github.com/kalvinchiang/at24drive/pkg/control"
	"github.com/kalvinchiang/at24drive/pkg/settings"
)

//
func NewSettings() *Settings {

	s := &Settings{}
	s.Runner = *NewRunner(
		`settings [--reset] [--apply {file}] [-O|--output {text|json|yaml}]`,
		"show, apply, or reset the persisted settings",
		`
Use the settings command to work with the settings record stored on the
EEPROM. Without flags, the current record is shown. With --apply, a record
read from a YAML file replaces the stored one. With --reset, the defaults
are written back.`, s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Reset, "reset", "", "", nil,
		"format the settings area with defaults", false)
	s.AddSetting(&s.Apply, "apply", "", "", nil,
		"YAML file with the record to store", false)
	s.AddSetting(&s.Output, "output", "O", "", "text",
		"output format: text, json, or yaml", false)

	return s
}

//
type Settings struct {
	//
	Runner
	//
	Reset  bool
	Apply  string
	Output string
}

//
func (s *Settings) Run() error {

	s.ParseSettings()

	if s.Reset && s.Apply != "" {
		return fmt.Errorf("--reset and --apply are mutually exclusive")
	}

	switch {

	case s.Reset:
		return s.emit(s.apiCall("PUT", "/settings/reset", true, nil))

	case s.Apply != "":
		data, err := ioutil.ReadFile(s.Apply)
		if err != nil {
			return err
		}
		rec := &settings.Record{}
		if err := yaml.Unmarshal(data, rec); err != nil {
			return fmt.Errorf("error parsing %s: %v", s.Apply, err)
		}
		body, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return s.emit(
			s.apiCall("PUT", "/settings", true, bytes.NewBuffer(body)))

	default:
		return s.emit(s.apiCall("GET", "/settings", true, nil))
	}
}

//
func (s *Settings) emit(resp io.ReadCloser, err error) error {

	if err != nil {
		return err
	}
	defer resp.Close()

	reply := &control.Settings{}
	if err := json.NewDecoder(resp).Decode(reply); err != nil {
		return err
	}

	switch s.Output {

	case "text":
		fmt.Println(reply.Record.String())
		if reply.Repaired {
			fmt.Println("(storage was blank or corrupted, defaults written)")
		}

	case "json":
		out, err := json.MarshalIndent(reply, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

	case "yaml":
		out, err := yaml.Marshal(reply)
		if err != nil {
			return err
		}
		fmt.Print(string(out))

	default:
		return fmt.Errorf("unknown output format: %s", s.Output)
	}

	return nil
}
