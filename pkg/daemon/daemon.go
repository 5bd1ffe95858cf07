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

import (
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kalvinchiang/at24drive/pkg/bus"
	"github.com/kalvinchiang/at24drive/pkg/eeprom"
	"github.com/kalvinchiang/at24drive/pkg/settings"
)

// DeviceSim selects the in-memory device model instead of a serial bridge.
const DeviceSim = "sim"

/*
	Daemon owns the bus for the lifetime of the process and serializes all
	device access behind its mutex. The driver stack underneath is strictly
	single-master and synchronous, so this is the one place concurrency is
	allowed to arrive, e.g. from parallel API requests.
*/
type Daemon struct {
	//
	mu sync.Mutex
	//
	device    string
	transport bus.Transport
	bytes     *eeprom.Store
	settings  *settings.Store
	//
	started  time.Time
	repaired bool
	opts     []eeprom.Option
}

//
func NewDaemon(device string, opts ...eeprom.Option) *Daemon {
	return &Daemon{device: device, opts: opts}
}

/*
	Start opens the transport, builds the driver stack, and loads the
	settings record once, formatting the device when it holds no valid
	data. This mirrors what the original firmware did at boot.
*/
func (d *Daemon) Start() error {

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.transport != nil {
		return fmt.Errorf("daemon already started")
	}

	var tr bus.Transport
	var err error

	if d.device == DeviceSim {
		log.Warn("using simulated device, no hardware access")
		tr = bus.NewSimulator(eeprom.DefaultAddr, 0)
	} else {
		if tr, err = bus.OpenBridge(d.device); err != nil {
			return err
		}
	}

	d.transport = tr
	d.bytes = eeprom.NewStore(eeprom.New(tr, d.opts...))
	d.settings = settings.New(d.bytes)
	d.started = time.Now()

	rec, repaired, err := d.settings.Load()
	if err != nil {
		d.closeTransport()
		return fmt.Errorf("error loading settings: %v", err)
	}

	if repaired {
		d.repaired = true
		log.Info("settings were blank or corrupted, defaults written")
	}
	log.WithFields(log.Fields{
		"ssid":   rec.SSID,
		"volume": rec.Volume,
	}).Info("settings loaded")

	return nil
}

//
func (d *Daemon) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeTransport()
}

//
func (d *Daemon) closeTransport() error {

	if d.transport == nil {
		return nil
	}

	var err error
	if closer, ok := d.transport.(io.Closer); ok {
		log.Infof("closing %v", d.transport)
		err = closer.Close()
	}

	d.transport = nil
	return err
}

//
func (d *Daemon) Status() *Status {

	d.mu.Lock()
	defer d.mu.Unlock()

	s := &Status{
		Device:   d.device,
		Capacity: eeprom.Capacity,
		PageSize: eeprom.PageSize,
		Up:       d.transport != nil,
		Repaired: d.repaired,
	}
	if s.Up {
		s.Uptime = time.Since(d.started).Round(time.Second).String()
	}
	return s
}

//
func (d *Daemon) ReadRange(offset uint16, length int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ensureUp(); err != nil {
		return nil, err
	}
	return d.bytes.ReadBuffer(offset, length)
}

//
func (d *Daemon) WriteRange(offset uint16, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ensureUp(); err != nil {
		return err
	}
	return d.bytes.WriteBuffer(offset, data)
}

// UpdateByte writes a single byte only if it changes, reporting whether a
// write happened.
func (d *Daemon) UpdateByte(offset uint16, value byte) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ensureUp(); err != nil {
		return false, err
	}
	return d.bytes.UpdateByte(offset, value)
}

// Dump writes a canonical hex dump of the requested range to w.
func (d *Daemon) Dump(offset uint16, length int, w io.Writer) error {

	data, err := d.ReadRange(offset, length)
	if err != nil {
		return err
	}

	dumper := hex.Dumper(w)
	defer dumper.Close()
	_, err = dumper.Write(data)
	return err
}

// Settings loads the settings record, repairing blank or corrupted storage.
func (d *Daemon) Settings() (*settings.Record, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ensureUp(); err != nil {
		return nil, false, err
	}
	rec, repaired, err := d.settings.Load()
	if repaired {
		d.repaired = true
	}
	return rec, repaired, err
}

//
func (d *Daemon) SaveSettings(r *settings.Record) error {

	if err := r.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ensureUp(); err != nil {
		return err
	}

	return d.settings.Save(r)
}

// ResetSettings formats the settings area with the default record.
func (d *Daemon) ResetSettings() (*settings.Record, error) {

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ensureUp(); err != nil {
		return nil, err
	}

	r := settings.Default()
	if err := d.settings.Save(r); err != nil {
		return nil, err
	}
	return r, nil
}

//
func (d *Daemon) ensureUp() error {
	if d.transport == nil {
		return fmt.Errorf("daemon not started")
	}
	return nil
}
