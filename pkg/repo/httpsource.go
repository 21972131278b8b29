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
	"net/http"
	"time"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// NewHTTPSource fetches a tape from url. At most MaxDownload bytes are read.
func NewHTTPSource(url string) (*HTTPSource, error) {

	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: %s", url, resp.Status)
	}

	return &HTTPSource{
		url:      url,
		response: resp,
		reader:   io.LimitReader(resp.Body, MaxDownload)}, nil
}

//
type HTTPSource struct {
	url      string
	response *http.Response
	reader   io.Reader
}

//
func (hs *HTTPSource) Read(p []byte) (n int, err error) {
	return hs.reader.Read(p)
}

//
func (hs *HTTPSource) Close() error {
	return hs.response.Body.Close()
}
