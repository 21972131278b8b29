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
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xelalexv/caspack/pkg/repo"
)

// search finds tapes in the repository by path or by names of contained
// files. Arguments are the search term, and the max number of items.
func (a *api) search(w http.ResponseWriter, req *http.Request) {

	if a.index == nil {
		handleError(fmt.Errorf("search index not available"),
			http.StatusServiceUnavailable, w)
		return
	}

	items, err := getIntArg(req, "items", 100)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	res, err := a.index.Search(getArg(req, "term"), items)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	if wantsJSON(req) {
		sendJSONReply(res, http.StatusOK, w)
		return
	}

	var sb strings.Builder
	WriteSearchResult(&sb, res)
	sendReply([]byte(sb.String()), http.StatusOK, w)
}

// WriteSearchResult writes a human readable list of search hits to w, one tape
// per line followed by the files it holds.
func WriteSearchResult(w io.Writer, res *repo.SearchResult) {

	fmt.Fprintln(w)

	for _, h := range res.Hits {
		fmt.Fprintf(w, "%s\n", h.Tape)
		if len(h.Files) > 0 {
			fmt.Fprintf(w, "    files: %s\n", strings.Join(h.Files, ", "))
		}
		if len(h.Types) > 0 {
			fmt.Fprintf(w, "    types: %s\n", strings.Join(h.Types, " "))
		}
	}

	if res.Complete {
		fmt.Fprintf(w, "\ntotal hits: %d\n\n", res.Total)
	} else {
		fmt.Fprintf(w, "\nshowing %d of %d hits\n\n", len(res.Hits), res.Total)
	}
}
