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

package eeprom

import "time"

//
type config struct {
	addr         byte
	writeTimeout time.Duration
	pollInterval time.Duration
}

// The write cycle of the AT24C256 takes at most 5ms; the default timeout
// leaves room for a sluggish bridge on top of that.
func defaultConfig() config {
	return config{
		addr:         DefaultAddr,
		writeTimeout: 10 * time.Millisecond,
		pollInterval: 100 * time.Microsecond,
	}
}

//
type Option func(*config)

// WithAddr sets the device address, for parts with A2..A0 not grounded.
func WithAddr(addr byte) Option {
	return func(c *config) {
		c.addr = addr & 0x7f
	}
}

// WithWriteTimeout bounds the wait for the device's internal write cycle.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *config) {
		if timeout > 0 {
			c.writeTimeout = timeout
		}
	}
}

// WithPollInterval sets the backoff between ready probes after a write.
func WithPollInterval(interval time.Duration) Option {
	return func(c *config) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}
