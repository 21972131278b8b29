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

package run

import (
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/caspack/pkg/control"
	"github.com/xelalexv/caspack/pkg/repo"
)

//
func NewServe() *Serve {

	s := &Serve{}
	s.Runner = *NewRunner(
		"serve [-a|--address {address}] [-r|--repo {dir}] [-x|--index {dir}]",
		"serve the HTTP API",
		`
Use the serve command to start the HTTP API. Tapes can be posted for listing
and WAVE export, or referenced within the repository directory. If an index
directory is given as well, the repository can be searched. The index is kept
up to date while serving.`,
		"", runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Address, "address", "a", "", ":8888",
		"listen address of the API server", false)
	s.AddSetting(&s.Repo, "repo", "r", "", nil, "tape repository directory", false)
	s.AddSetting(&s.Index, "index", "x", "", nil, "search index directory", false)

	return s
}

//
type Serve struct {
	Runner
	//
	Address string
	Repo    string
	Index   string
}

//
func (s *Serve) Run() error {

	if err := s.ParseSettings(); err != nil {
		return err
	}

	var index *repo.Index

	if s.Repo != "" && s.Index != "" {
		var err error
		if index, err = repo.NewIndex(s.Index, s.Repo); err != nil {
			return err
		}
		defer index.Stop()

		if err := index.Start(); err != nil {
			return err
		}
	} else if s.Index != "" {
		log.Warn("no repository set, search disabled")
	}

	server := control.NewAPIServer(s.Address, s.Repo, index)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.WithField("signal", sig).Info("shutting down")
		if err := server.Stop(); err != nil {
			log.Errorf("error stopping API server: %v", err)
		}
	}()

	return server.Serve()
}
