/*
   CasPack - MSX cassette image packager
   Copyright (c) 2022, Alexander Vollschwitz

   This file is part of CasPack.

   CasPack is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   CasPack is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with CasPack. If not, see <http://www.gnu.org/licenses/>.
*/

package control

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/caspack/pkg/repo"
)

// NewAPIServer creates the HTTP API server. Tape references given in requests
// are resolved relative to the repository directory. index may be nil, in
// which case searching is not available.
func NewAPIServer(address, repository string, index *repo.Index) *APIServer {
	return &APIServer{
		address: address,
		api:     &api{repository: repository, index: index},
	}
}

//
type APIServer struct {
	address string
	api     *api
	server  *http.Server
}

// Handler returns the router serving all API routes.
func (a *APIServer) Handler() http.Handler {

	router := mux.NewRouter().StrictSlash(true)

	router.HandleFunc("/version", a.api.version).Methods("GET")
	router.HandleFunc("/search", a.api.search).Methods("GET")
	router.HandleFunc("/tape/ls", a.api.tapeList).Methods("GET", "POST")
	router.HandleFunc("/tape/wav", a.api.tapeWave).Methods("GET", "POST")

	return router
}

// Serve listens for API requests until Stop is called.
func (a *APIServer) Serve() error {

	addr := a.address
	if len(strings.Split(addr, ":")) < 2 {
		addr = fmt.Sprintf("%s:8888", addr)
	}

	log.WithField("address", addr).Info("API server starting")

	a.server = &http.Server{
		Handler:      a.Handler(),
		Addr:         addr,
		WriteTimeout: 60 * time.Second,
		ReadTimeout:  30 * time.Second,
	}

	if err := a.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	log.Info("API server stopped")
	return nil
}

//
func (a *APIServer) Stop() error {
	if a.server == nil {
		return nil
	}
	log.Info("API server stopping...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}

//
type api struct {
	repository string
	index      *repo.Index
}

//
func getArg(req *http.Request, arg string) string {
	if v := mux.Vars(req)[arg]; v != "" {
		return v
	}
	return req.URL.Query().Get(arg)
}

//
func getIntArg(req *http.Request, arg string, def int) (int, error) {
	v := getArg(req, arg)
	if v == "" {
		return def, nil
	}
	ret, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid value for '%s': %v", arg, err)
	}
	return ret, nil
}

//
func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json")
}

//
func sendReply(body []byte, statusCode int, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

//
func sendJSONReply(obj interface{}, statusCode int, w http.ResponseWriter) {
	body, err := json.Marshal(obj)
	if handleError(err, http.StatusInternalServerError, w) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		log.Errorf("problem sending JSON reply: %v", err)
	}
}

//
func sendStreamReply(r io.Reader, statusCode int, w http.ResponseWriter) {
	w.WriteHeader(statusCode)
	if _, err := io.Copy(w, r); err != nil {
		log.Errorf("problem sending stream reply: %v", err)
	}
}

//
func handleError(e error, statusCode int, w http.ResponseWriter) bool {
	if e == nil {
		return false
	}
	log.WithField("status", statusCode).Errorf("%v", e)
	sendReply([]byte(e.Error()), statusCode, w)
	return true
}
