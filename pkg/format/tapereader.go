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

package format

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/caspack/pkg/cas"
)

// MaxTapeSize limits the amount of data read for a single tape.
const MaxTapeSize = 16 * 1024 * 1024

// NewTapeReader wraps r into a reader that yields the uncompressed tape data.
// Supported compressors are gzip, zip, and 7z; an empty compressor reads r as
// is. For archives, the first entry is used.
func NewTapeReader(r io.ReadCloser, compressor string) (*TapeReader, error) {

	log.WithField("compressor", compressor).Debug("tape reader requested")

	var ret *TapeReader
	var err error

	switch compressor {

	case "gzip":
		fallthrough
	case "gz":
		ret, err = getGZipReader(r)

	case "zip":
		ret, err = getZipReader(r, false)

	case "7z":
		ret, err = getZipReader(r, true)

	case "":
		ret = &TapeReader{readCloser: r}
	}

	if ret == nil && err == nil {
		err = fmt.Errorf("unsupported compressor: %s", compressor)
	}

	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"compressor": ret.compressor,
		"name":       ret.name,
		"type":       ret.typ}).Debug("tape reader created")

	return ret, nil
}

//
type TapeReader struct {
	readCloser io.ReadCloser
	//
	name       string
	typ        string
	compressor string
}

//
func (r *TapeReader) Read(p []byte) (n int, err error) {
	return r.readCloser.Read(p)
}

//
func (r *TapeReader) Close() error {
	return r.readCloser.Close()
}

// Name returns the name of the tape as found inside an archive, if any.
func (r *TapeReader) Name() string {
	return r.name
}

// Type returns the file type as found inside an archive, if any.
func (r *TapeReader) Type() string {
	return r.typ
}

//
func (r *TapeReader) Compressor() string {
	return r.compressor
}

// Tape reads and decodes the complete tape.
func (r *TapeReader) Tape() (*cas.Tape, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxTapeSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxTapeSize {
		return nil, fmt.Errorf("tape exceeds %d bytes", MaxTapeSize)
	}
	return cas.Decode(data)
}

//
func getGZipReader(r io.ReadCloser) (*TapeReader, error) {

	gzr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}

	ret := &TapeReader{readCloser: gzr}
	ret.name, ret.typ, _ = SplitNameTypeCompressor(gzr.Name)
	ret.compressor = "gzip"

	return ret, nil
}

//
func getZipReader(r io.ReadCloser, zip7 bool) (*TapeReader, error) {

	var sponge bytes.Buffer
	size, err := io.Copy(&sponge, io.LimitReader(r, 4*MaxTapeSize))
	if err != nil {
		return nil, err
	}
	r.Close()

	ret := &TapeReader{}

	if zip7 {
		zr, err := sevenzip.NewReader(bytes.NewReader(sponge.Bytes()), size)
		if err != nil {
			return nil, err
		}
		if len(zr.File) == 0 {
			return nil, fmt.Errorf("empty 7-zip archive")
		}
		if len(zr.File) > 1 {
			log.Warn("7-zip archive has more than one entry, using first")
		}

		ret.name, ret.typ, _ = SplitNameTypeCompressor(zr.File[0].Name)
		ret.compressor = "7z"
		if ret.readCloser, err = zr.File[0].Open(); err != nil {
			return nil, err
		}

	} else {
		zr, err := zip.NewReader(bytes.NewReader(sponge.Bytes()), size)
		if err != nil {
			return nil, err
		}
		if len(zr.File) == 0 {
			return nil, fmt.Errorf("empty zip archive")
		}
		if len(zr.File) > 1 {
			log.Warn("zip archive has more than one entry, using first")
		}

		ret.name, ret.typ, _ = SplitNameTypeCompressor(zr.File[0].Name)
		ret.compressor = "zip"
		if ret.readCloser, err = zr.File[0].Open(); err != nil {
			return nil, err
		}
	}

	return ret, nil
}

// SplitNameTypeCompressor splits a file name into its base name, the file type
// extension, and the compressor extension, e.g. `game.cas.zip` yields `game`,
// `cas`, and `zip`. Unknown extensions are dropped.
func SplitNameTypeCompressor(file string) (name, typ, compressor string) {

	_, n := filepath.Split(file)

	for {
		ext := filepath.Ext(n)
		if ext == "" || ext == n {
			name = n
			break
		}

		n = strings.TrimSuffix(n, ext)
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))

		switch ext {

		case "cas":
			fallthrough
		case "wav":
			fallthrough
		case "bin":
			fallthrough
		case "bas":
			fallthrough
		case "asc":
			if typ == "" {
				typ = ext
			}

		case "gz":
			fallthrough
		case "gzip":
			fallthrough
		case "zip":
			fallthrough
		case "7z":
			if compressor == "" {
				compressor = ext
			}
		}
	}

	return name, typ, compressor
}

// Classify determines the tape file type for a file to be added to a tape,
// based on its extension: `.bin`, `.bas`, and `.asc` denote binary, BASIC, and
// ASCII files, everything else is custom data.
func Classify(file string) cas.FileType {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".bin":
		return cas.TypeBin
	case ".bas":
		return cas.TypeBasic
	case ".asc":
		return cas.TypeASCII
	}
	return cas.TypeCustom
}
