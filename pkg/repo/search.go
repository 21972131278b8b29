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


package repo

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	log "github.com/sirupsen/logrus"
)

// Hit is a tape found by a search, together with the names and types of the
// files it holds.
type Hit struct {
	Tape  string   `json:"tape"`
	Files []string `json:"files,omitempty"`
	Types []string `json:"types,omitempty"`
}

//
type SearchResult struct {
	Hits     []*Hit `json:"hits"`
	Total    uint64 `json:"total"`
	Complete bool   `json:"complete"`
}

// Search looks for tapes whose path or contained file names match term, and
// returns at most max hits. Tape paths are relative to the repository.
func (i *Index) Search(term string, max int) (*SearchResult, error) {

	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("no search term")
	}
	if max < 1 {
		return nil, fmt.Errorf("invalid number of search results: %d", max)
	}

	logger := log.WithFields(log.Fields{"term": term, "max": max})
	logger.Debug("searching tapes")

	search := bleve.NewSearchRequestOptions(
		bleve.NewQueryStringQuery(term), max+1, 0, false)
	search.Fields = []string{"Files", "Types"}

	res, err := i.index.Search(search)
	if err != nil {
		return nil, err
	}

	ret := &SearchResult{Hits: []*Hit{}, Total: res.Total, Complete: true}

	for _, h := range res.Hits {
		if len(ret.Hits) == max {
			ret.Complete = false
			break
		}
		ret.Hits = append(ret.Hits, &Hit{
			Tape:  h.ID,
			Files: storedList(h.Fields, "Files", fileSeparator),
			Types: storedList(h.Fields, "Types", typeSeparator),
		})
	}

	logger.WithField("hits", len(ret.Hits)).Debug("search done")
	return ret, nil
}

// storedList splits the stored field name of a hit into its items.
func storedList(fields map[string]interface{}, name, sep string) []string {
	s, ok := fields[name].(string)
	if s = strings.TrimSpace(s); !ok || s == "" {
		return nil
	}
	return strings.Split(s, sep)
}
