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
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/caspack/pkg/cas"
	"github.com/xelalexv/caspack/pkg/format"
	"github.com/xelalexv/caspack/pkg/repo"
	"github.com/xelalexv/caspack/pkg/wave"
)

// FileInfo describes a file on a tape.
type FileInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int    `json:"size"`
}

// Listing describes the contents of a tape.
type Listing struct {
	Name   string     `json:"name"`
	Blocks int        `json:"blocks"`
	Length int        `json:"length"`
	Files  []FileInfo `json:"files"`
}

// NewListing lists the files on tape t.
func NewListing(name string, t *cas.Tape) (*Listing, error) {

	files, err := t.ReadFiles()
	if err != nil {
		return nil, err
	}

	ret := &Listing{
		Name:   name,
		Blocks: len(t.Blocks()),
		Length: t.Len(),
		Files:  make([]FileInfo, len(files)),
	}

	for ix, f := range files {
		ret.Files[ix] = FileInfo{
			Name: cas.FileName(f),
			Type: f.Type().String(),
			Size: f.Size(),
		}
	}

	return ret, nil
}

//
func (a *api) tapeList(w http.ResponseWriter, req *http.Request) {

	tape, name, err := a.getTape(w, req)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	ls, err := NewListing(name, tape)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	if wantsJSON(req) {
		sendJSONReply(ls, http.StatusOK, w)
		return
	}

	read, write := io.Pipe()
	go func() {
		WriteFileList(write, ls)
		write.Close()
	}()
	sendStreamReply(read, http.StatusOK, w)
}

//
func (a *api) tapeWave(w http.ResponseWriter, req *http.Request) {

	tape, name, err := a.getTape(w, req)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	var buf bytes.Buffer
	if handleError(wave.Export(&buf, tape.Blocks()),
		http.StatusInternalServerError, w) {
		return
	}

	log.WithFields(log.Fields{
		"tape": name, "size": buf.Len()}).Info("sending WAVE")

	w.Header().Set("Content-Type", "audio/wav")
	sendStreamReply(&buf, http.StatusOK, w)
}

// getTape reads the tape referenced by the request's ref argument, or if there
// is none, from the request body. For the body, the compressor can be given
// with the compressor argument.
func (a *api) getTape(w http.ResponseWriter, req *http.Request) (
	*cas.Tape, string, error) {

	var in io.ReadCloser
	name := ""

	if ref := getArg(req, "ref"); ref != "" {
		var err error
		if in, err = repo.Resolve(ref, a.repository); err != nil {
			return nil, "", err
		}
		name = path.Base(ref)

	} else {
		in = http.MaxBytesReader(w, req.Body, format.MaxTapeSize)
		if comp := getArg(req, "compressor"); comp != "" {
			name = fmt.Sprintf("upload.cas.%s", comp)
		}
	}
	defer in.Close()

	tape, err := format.ReadTape(in, name)
	if err != nil {
		return nil, "", fmt.Errorf("cannot read tape: %w", err)
	}

	return tape, name, nil
}

// WriteFileList writes a human readable listing to w.
func WriteFileList(w io.Writer, ls *Listing) {

	if ls.Name != "" {
		fmt.Fprintf(w, "\n%s\n", ls.Name)
	}
	fmt.Fprintln(w)

	for _, f := range ls.Files {
		name := f.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%-8s%-8s%8d\n", name, f.Type, f.Size)
	}

	fmt.Fprintf(w, "\n%d files, %d blocks, %d bytes\n\n",
		len(ls.Files), ls.Blocks, ls.Length)
}
