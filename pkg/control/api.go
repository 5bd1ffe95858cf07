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
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/kalvinchiang/at24drive/pkg/daemon"
	"github.com/kalvinchiang/at24drive/pkg/eeprom"
	"github.com/kalvinchiang/at24drive/pkg/settings"
)

//
type APIServer interface {
	Serve() error
	Stop() error
}

//
func NewAPIServer(addr string, d *daemon.Daemon) APIServer {
	return &api{address: addr, daemon: d}
}

//
type api struct {
	address string
	daemon  *daemon.Daemon
	server  *http.Server
}

//
func (a *api) Serve() error {

	router := mux.NewRouter().StrictSlash(true)

	addRoute(router, "status", "GET", "/status", a.status)
	addRoute(router, "read", "GET", "/read", a.read)
	addRoute(router, "write", "PUT", "/write", a.write)
	addRoute(router, "dump", "GET", "/dump", a.dump)
	addRoute(router, "settings", "GET", "/settings", a.getSettings)
	addRoute(router, "settings", "PUT", "/settings", a.putSettings)
	addRoute(router, "reset", "PUT", "/settings/reset", a.resetSettings)

	addr := a.address
	if len(strings.Split(addr, ":")) < 2 {
		addr = fmt.Sprintf("%s:8888", a.address)
	}

	log.Infof("At24Drive API starts listening on %s", addr)
	a.server = &http.Server{Addr: addr, Handler: router}

	err := a.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

//
func (a *api) Stop() error {
	if a.server != nil {
		log.Info("API server stopping...")
		err := a.server.Shutdown(context.Background())
		a.server = nil
		return err
	}
	return nil
}

//
func addRoute(r *mux.Router, name, method, pattern string,
	handler http.HandlerFunc) {
	r.Methods(method).
		Path(pattern).
		Name(name).
		Handler(requestLogger(handler, name))
}

//
func requestLogger(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		log.WithFields(log.Fields{
			"remote": r.RemoteAddr,
			"method": r.Method,
			"path":   r.RequestURI,
		}).Debugf("API BEGIN | %s", name)

		start := time.Now()
		inner.ServeHTTP(w, r)

		log.WithFields(log.Fields{
			"remote":   r.RemoteAddr,
			"method":   r.Method,
			"path":     r.RequestURI,
			"duration": time.Since(start),
		}).Debugf("API END   | %s", name)
	})
}

//
func (a *api) status(w http.ResponseWriter, req *http.Request) {

	stat := a.daemon.Status()

	if wantsJSON(req) {
		sendJSONReply(stat, http.StatusOK, w)
	} else {
		sendReply([]byte(stat.String()), http.StatusOK, w)
	}
}

//
func (a *api) read(w http.ResponseWriter, req *http.Request) {

	offset, length, err := rangeFromQuery(req)
	if handleError(err, http.StatusBadRequest, w) {
		return
	}

	data, err := a.daemon.ReadRange(offset, length)
	if handleError(err, errorStatus(err), w) {
		return
	}

	if wantsJSON(req) {
		sendJSONReply(&Range{
			Offset: offset, Length: len(data),
			Data: hex.EncodeToString(data)}, http.StatusOK, w)
	} else {
		sendReply([]byte(hex.EncodeToString(data)), http.StatusOK, w)
	}
}

//
func (a *api) write(w http.ResponseWriter, req *http.Request) {

	offset, err := offsetFromQuery(req)
	if handleError(err, http.StatusBadRequest, w) {
		return
	}

	defer req.Body.Close()
	body, err := ioutil.ReadAll(req.Body)
	if handleError(err, http.StatusBadRequest, w) {
		return
	}

	data := body
	if !isOctetStream(req) {
		// text bodies carry hex digits
		data, err = hex.DecodeString(strings.TrimSpace(string(body)))
		if handleError(err, http.StatusBadRequest, w) {
			return
		}
	}

	err = a.daemon.WriteRange(offset, data)
	if handleError(err, errorStatus(err), w) {
		return
	}

	sendReply([]byte(fmt.Sprintf("wrote %d bytes at 0x%04X", len(data),
		offset)), http.StatusOK, w)
}

//
func (a *api) dump(w http.ResponseWriter, req *http.Request) {

	offset, length, err := rangeFromQuery(req)
	if handleError(err, http.StatusBadRequest, w) {
		return
	}

	var b strings.Builder
	if err := a.daemon.Dump(offset, length, &b); handleError(
		err, errorStatus(err), w) {
		return
	}

	sendStreamReply(strings.NewReader(b.String()), http.StatusOK, w)
}

//
func (a *api) getSettings(w http.ResponseWriter, req *http.Request) {

	rec, repaired, err := a.daemon.Settings()
	if handleError(err, errorStatus(err), w) {
		return
	}

	if wantsJSON(req) {
		sendJSONReply(&Settings{Record: rec, Repaired: repaired},
			http.StatusOK, w)
	} else {
		sendReply([]byte(rec.String()), http.StatusOK, w)
	}
}

//
func (a *api) putSettings(w http.ResponseWriter, req *http.Request) {

	defer req.Body.Close()

	rec := &settings.Record{}
	if handleError(json.NewDecoder(req.Body).Decode(rec),
		http.StatusBadRequest, w) {
		return
	}

	if handleError(rec.Validate(), http.StatusBadRequest, w) {
		return
	}

	if err := a.daemon.SaveSettings(rec); handleError(
		err, errorStatus(err), w) {
		return
	}

	sendJSONReply(&Settings{Record: rec}, http.StatusOK, w)
}

//
func (a *api) resetSettings(w http.ResponseWriter, req *http.Request) {

	rec, err := a.daemon.ResetSettings()
	if handleError(err, errorStatus(err), w) {
		return
	}

	sendJSONReply(&Settings{Record: rec}, http.StatusOK, w)
}

//
func offsetFromQuery(req *http.Request) (uint16, error) {

	arg := req.URL.Query().Get("offset")
	if arg == "" {
		arg = "0"
	}

	offset, err := strconv.ParseUint(arg, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid offset: %s", arg)
	}
	return uint16(offset), nil
}

//
func rangeFromQuery(req *http.Request) (uint16, int, error) {

	offset, err := offsetFromQuery(req)
	if err != nil {
		return 0, 0, err
	}

	arg := req.URL.Query().Get("length")
	if arg == "" {
		return offset, eeprom.Capacity - int(offset), nil
	}

	length, err := strconv.ParseUint(arg, 0, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid length: %s", arg)
	}

	return offset, int(length), nil
}

// range violations are the client's fault, everything else is on our side
func errorStatus(e error) int {
	var re *eeprom.RangeError
	if errors.As(e, &re) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

//
func handleError(e error, statusCode int, w http.ResponseWriter) bool {

	if e == nil {
		return false
	}

	log.Errorf("%v", e)

	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(fmt.Sprintf("%v\n", e))); err != nil {
		log.Errorf("problem writing error: %v", err)
	}

	return true
}

//
func setHeaders(h http.Header, json bool) {
	if json {
		h.Set("Content-Type", "application/json; charset=UTF-8")
	} else {
		h.Set("Content-Type", "text/plain; charset=UTF-8")
	}
}

//
func sendReply(body []byte, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := fmt.Fprintf(w, "%s\n", body); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

//
func sendStreamReply(r io.Reader, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := io.Copy(w, r); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

//
func sendJSONReply(obj interface{}, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), true)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		log.Errorf("problem writing error: %v", err)
	}
}

// FIXME: make more tolerant
func wantsJSON(req *http.Request) bool {
	return req.Header.Get("Content-Type") == "application/json"
}

//
func isOctetStream(req *http.Request) bool {
	return req.Header.Get("Content-Type") == "application/octet-stream"
}
