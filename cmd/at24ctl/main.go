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

package main

import (
	"fmt"
	"os"

	"github.com/kalvinchiang/at24drive/pkg/run"
)

//
var At24DriveVersion string

//
func synopsis() {
	fmt.Print(`
synopsis: at24ctl {serve|read|write|dump|settings|version} ...

run 'at24ctl {action} -h|--help' to see detailed info

`)
}

//
func version() {
	fmt.Printf("\nAt24Drive %s\n\n", At24DriveVersion)
}

//
func main() {

	var action string
	var args []string

	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	if len(os.Args) > 2 {
		args = os.Args[2:]
	}

	switch action {

	case "serve":
		version()
		run.DieOnError(run.NewServe().Execute(args))

	case "read":
		run.DieOnError(run.NewRead().Execute(args))

	case "write":
		run.DieOnError(run.NewWrite().Execute(args))

	case "dump":
		run.DieOnError(run.NewDump().Execute(args))

	case "settings":
		run.DieOnError(run.NewSettings().Execute(args))

	case "version":
		version()

	case "":
		fallthrough
	case "-h":
		fallthrough
	case "--help":
		synopsis()

	default:
		run.Die("unknown action: %s\n", action)
	}
}
