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
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// MaxDownload limits the size of tapes fetched via HTTP.
const MaxDownload = 16 * 1024 * 1024

// Resolve opens the tape referenced by ref. HTTP(S) URLs are downloaded, any
// other reference is a path within the repository directory repo.
func Resolve(ref, repo string) (io.ReadCloser, error) {

	log.WithField("ref", ref).Debug("resolving tape reference")

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return NewHTTPSource(ref)
	}

	if repo == "" {
		return nil, fmt.Errorf("no repository configured for reference %s", ref)
	}

	return NewFileSource(ref, repo)
}
