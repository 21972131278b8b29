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

	"github.com/xelalexv/caspack/pkg/control"
	"github.com/xelalexv/caspack/pkg/repo"
)

//
func NewSearch() *Search {

	s := &Search{}
	s.Runner = *NewRunner(
		"search -r|--repo {dir} -x|--index {dir} -t|--term {search term} [-n|--items {max results}]",
		"search for tapes in a repository",
		`
Use the search command to find tapes in a repository directory. Tapes are found
by their path and by the names of the files they contain. The search index is
kept in the index directory, and updated before searching.`,
		"", runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Repo, "repo", "r", "", nil, "tape repository directory", true)
	s.AddSetting(&s.Index, "index", "x", "", nil, "search index directory", true)
	s.AddSetting(&s.Term, "term", "t", "", nil,
		"search term; used to search through tape paths and file names", true)
	s.AddSetting(&s.Items, "items", "n", "", 100,
		"max number of search results to return", false)

	return s
}

//
type Search struct {
	Runner
	//
	Repo  string
	Index string
	Term  string
	Items int
}

//
func (s *Search) Run() error {

	if err := s.ParseSettings(); err != nil {
		return err
	}

	index, err := repo.NewIndex(s.Index, s.Repo)
	if err != nil {
		return err
	}
	defer index.Stop()

	if err := index.Refresh(); err != nil {
		return err
	}

	res, err := index.Search(s.Term, s.Items)
	if err != nil {
		return err
	}

	control.WriteSearchResult(os.Stdout, res)
	return nil
}
