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
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kalvinchiang/at24drive/pkg/control"
	"github.com/kalvinchiang/at24drive/pkg/daemon"
	"github.com/kalvinchiang/at24drive/pkg/eeprom"
)

//
func NewServe() *Serve {

	s := &Serve{}
	s.Runner = *NewRunner(
		`serve -d|--device {device} [-a|--address {address}]
      [-t|--timeout {write timeout, ms}]`,
		"daemon & API server command",
		`
Use the serve command to run the daemon owning the EEPROM bridge, along with
its API server. The device is either the serial port of the bridge adapter,
or 'sim' for an in-memory simulated device.`, s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Device, "device", "d", "AT24DRIVE_DEVICE", nil,
		"serial port of bridge adapter, or 'sim'", true)
	s.AddSetting(&s.Address, "address", "a", "AT24DRIVE_ADDRESS", nil,
		"listen address for API server", false)
	s.AddSetting(&s.Timeout, "timeout", "t", "", 0,
		"write cycle timeout in milliseconds", false)

	return s
}

//
type Serve struct {
	//
	Runner
	//
	Device  string
	Address string
	Timeout int
}

//
func (s *Serve) Run() error {

	s.ParseSettings()

	var opts []eeprom.Option
	if s.Timeout > 0 {
		opts = append(opts,
			eeprom.WithWriteTimeout(time.Duration(s.Timeout)*time.Millisecond))
	}

	d := daemon.NewDaemon(s.Device, opts...)
	if err := d.Start(); err != nil {
		return err
	}

	api := control.NewAPIServer(s.Address, d)
	done := make(chan error)

	go func() {
		if err := api.Serve(); err != nil {
			log.Errorf("API server closed with error: %v", err)
			done <- err
		} else {
			log.Info("API server stopped")
			done <- nil
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {

	case sig := <-sigs:
		log.WithField("signal", sig).Info("signal received, shutting down")
		api.Stop()
		<-done

	case err := <-done:
		d.Stop()
		return err
	}

	if err := d.Stop(); err != nil {
		log.Errorf("error stopping daemon: %v", err)
	}

	log.Info("At24Drive stopped")
	return nil
}
