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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/caspack/pkg/cas"
	"github.com/xelalexv/caspack/pkg/format"
	"github.com/xelalexv/caspack/pkg/util"
)

//
const replaceChars = "`~!@#$%^&*_-+=()[]{}|;:',.<>?"

const (
	fileSeparator = "; "
	typeSeparator = " "
)

var nameCleaner *strings.Replacer

//
func init() {
	rep := make([]string, 2*len(replaceChars))
	for ix, c := range replaceChars {
		rep[ix*2] = string(c)
		rep[ix*2+1] = " "
	}
	nameCleaner = strings.NewReplacer(rep...)
}

// IsTape returns whether path looks like a tape file, possibly compressed.
func IsTape(path string) bool {
	_, typ, _ := format.SplitNameTypeCompressor(path)
	return typ == "cas"
}

// NewIndex opens the search index stored at base, or creates it if it does not
// exist yet. The index covers all tapes in the repository directory repo.
func NewIndex(base, repo string) (*Index, error) {

	var err error
	i := &Index{}

	if i.base, err = filepath.Abs(base); err != nil {
		return nil, err
	}
	if i.repo, err = filepath.Abs(repo); err != nil {
		return nil, err
	}

	logger := log.WithFields(log.Fields{"base": i.base, "repo": i.repo})

	if _, err := os.Stat(i.base); err != nil {
		if os.IsNotExist(err) {
			logger.Info("creating new index")
			i.index, err = bleve.New(i.base, bleve.NewIndexMapping())
		}

		if err != nil {
			logger.Errorf("cannot create index: %v", err)
			return nil, err
		}

		logger.Info("new index created")
		i.empty = true

	} else {
		logger.Info("opening index")
		if i.index, err = bleve.Open(i.base); err != nil {
			logger.Errorf("cannot open index: %v", err)
			return nil, err
		}
		logger.Info("index opened")
	}

	i.batch = i.index.NewBatch()
	return i, nil
}

// Entry is the indexed document for a tape. Files holds the names of all named
// files on the tape, Types the types of all files. Both are stored, and
// returned with search hits.
type Entry struct {
	Name  string
	Files string
	Types string
}

//
type Index struct {
	base    string
	repo    string
	stopped bool
	//
	index   bleve.Index
	empty   bool
	watcher *util.DirWatcher
	//
	batch      *bleve.Batch
	batchCount int
}

// Repo returns the absolute path of the repository directory.
func (i *Index) Repo() string {
	return i.repo
}

// Start brings the index up to date with the repository, and then keeps it
// current by watching the repository for changes.
func (i *Index) Start() error {

	if err := i.Refresh(); err != nil {
		return err
	}

	if err := i.startWatching(); err != nil {
		return fmt.Errorf("error starting repo watcher: %v", err)
	}

	log.Info("index ready")
	return nil
}

// Refresh removes entries for tapes that no longer exist, and adds entries for
// tapes that were changed since the last index update.
func (i *Index) Refresh() error {

	start := time.Now()
	log.Info("pruning index")
	if err := i.prune(); err != nil {
		return fmt.Errorf("error pruning index: %v", err)
	}
	log.WithField(
		"duration", time.Since(start)).Info("index pruning finished")

	start = time.Now()
	log.Info("updating index")
	if err := i.update(); err != nil {
		return fmt.Errorf("error updating index: %v", err)
	}
	log.WithField(
		"duration", time.Since(start)).Info("index update finished")

	return i.batched(true)
}

//
func (i *Index) Stop() {

	i.stopped = true

	if i.watcher != nil {
		i.watcher.Stop()
	}

	if i.index != nil {
		if err := i.batched(true); err != nil {
			log.Errorf("error flushing index on stop: %v", err)
		}
		i.index.Close()
	}
}

// Count returns the number of tapes in the index.
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}

//
func (i *Index) prune() error {

	if i.empty {
		return nil
	}

	ix, err := i.index.Advanced()
	if err != nil {
		return err
	}

	rd, err := ix.Reader()
	if err != nil {
		return err
	}
	defer rd.Close()

	docs, err := rd.DocIDReaderAll()
	if err != nil {
		return err
	}
	defer docs.Close()

	for {
		d, err := docs.Next()
		if err != nil {
			return err
		}
		if d == nil {
			return nil
		}
		id, err := rd.ExternalID(d)
		if err != nil {
			return err
		}
		if _, err := os.Stat(filepath.Join(i.repo, id)); os.IsNotExist(err) {
			i.removeEntry(id)
		}
	}
}

//
func (i *Index) update() error {

	var lastMod time.Time
	if !i.empty {
		if store, err := os.Stat(filepath.Join(i.base, "store")); err == nil {
			lastMod = store.ModTime()
			log.Debugf("last index mod time: %v", lastMod)
		}
	}

	i.empty = false

	return filepath.Walk(i.repo,

		func(path string, info os.FileInfo, err error) error {

			if err != nil {
				return err
			}

			if i.stopped {
				return fmt.Errorf("forced exit")
			}

			if !info.IsDir() && IsTape(path) && info.ModTime().After(lastMod) {
				i.addEntry(i.makeRelative(path))
			}

			return nil
		})
}

//
func (i *Index) startWatching() error {
	log.Info("starting index repo watcher")
	var err error
	if i.watcher, err = util.NewDirWatcher(i.repo, IsTape); err != nil {
		return err
	}
	return i.watcher.Start(5*time.Second, i.watchEvent, i.flushEvent)
}

//
func (i *Index) watchEvent(evt fsnotify.Event) error {

	rel := i.makeRelative(evt.Name)
	log.WithFields(log.Fields{"path": rel, "op": evt.Op}).Debug("index update")

	switch {

	case evt.Op&(fsnotify.Create|fsnotify.Write) != 0:
		if info, err := os.Stat(evt.Name); err != nil {
			log.Errorf("cannot add new entry: %v", err)
		} else if !info.IsDir() {
			return i.addEntry(rel)
		}

	case evt.Op&(fsnotify.Rename|fsnotify.Remove) != 0:
		return i.removeEntry(rel)

	default:
		log.Debug("no index update required")
	}

	return nil
}

//
func (i *Index) flushEvent() error {
	return i.batched(true)
}

// addEntry indexes the tape at path, relative to the repository. Tapes that
// cannot be decoded are indexed by name only.
func (i *Index) addEntry(path string) error {

	logger := log.WithField("file", path)
	logger.Debug("adding entry to index")

	entry := Entry{Name: nameCleaner.Replace(path)}

	if tape, err := format.LoadTape(filepath.Join(i.repo, path)); err != nil {
		logger.Warnf("cannot read tape, indexing name only: %v", err)
	} else {
		entry.Files, entry.Types = describe(tape)
	}

	if err := i.batch.Index(path, entry); err != nil {
		logger.Errorf("failed to batch entry add: %v", err)
		return err
	}

	return i.batched(false)
}

//
func (i *Index) removeEntry(path string) error {
	log.WithField("file", path).Debug("removing deleted entry from index")
	i.batch.Delete(path)
	return i.batched(false)
}

// This is not thread safe. However, after setting up an index instance, add and
// remove are only ever called from the dir watcher, no concurrency.
func (i *Index) batched(flush bool) error {

	if i.batchCount++; flush || i.batchCount > 100 {
		log.Debug("flushing pending index actions")
		if err := i.index.Batch(i.batch); err != nil {
			log.Errorf("failed to execute index batch: %v", err)
			return err
		}
		i.batch = i.index.NewBatch()
		i.batchCount = 0
	}

	return nil
}

//
func (i *Index) makeRelative(path string) string {
	if len(path) > len(i.repo) && strings.HasPrefix(path, i.repo) {
		return path[len(i.repo)+1:]
	}
	return path
}

// describe lists the names and types of all files on a tape. Names are cleaned,
// so the file separator cannot occur within a name.
func describe(tape *cas.Tape) (files, types string) {

	var names []string
	var typs []string

	rd := tape.Files()
	for rd.Next() {
		f := rd.File()
		if n := cas.FileName(f); n != "" {
			names = append(names, nameCleaner.Replace(n))
		}
		typs = append(typs, f.Type().String())
	}

	return strings.Join(names, fileSeparator), strings.Join(typs, typeSeparator)
}
