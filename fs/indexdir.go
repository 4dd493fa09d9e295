// Package fs manages the on-disk layout of a search index and loads word lists.
package fs

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/fwojciec/sitesearch"
)

// IndexFile is the database file name inside an index directory.
const IndexFile = "index.db"

// IndexDir is a handle on an index directory.
//
// A directory returned by CreateIndex is built in a sibling temporary
// directory and swapped into place on Commit, so an existing index stays
// searchable until the rebuild finishes. Only directories that hold nothing
// but index files are ever removed.
type IndexDir struct {
	dir      string
	building bool
}

// CreateIndex prepares a new index at dir. It returns ECONFLICT if an index
// already exists there, unless force is set, in which case the existing
// index is replaced on Commit. A directory holding anything other than an
// index is never used, with or without force.
func CreateIndex(dir string, force bool) (*IndexDir, error) {
	ix := &IndexDir{dir: filepath.Clean(dir), building: true}

	exists, err := indexOnly(ix.dir)
	if err != nil {
		return nil, err
	}
	if exists && !force {
		return nil, sitesearch.Errorf(sitesearch.ECONFLICT, "index already exists at %s: use --force to rebuild it", ix.dir)
	}

	// Leftovers of an interrupted build are discarded.
	if err := removeIndexDir(ix.tempDir()); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(ix.tempDir(), 0755); err != nil {
		return nil, err
	}
	return ix, nil
}

// OpenIndex returns a handle on an existing index at dir.
// Returns ENOTFOUND if no index has been built there.
func OpenIndex(dir string) (*IndexDir, error) {
	ix := &IndexDir{dir: filepath.Clean(dir)}

	exists, err := fileExists(ix.Path())
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, sitesearch.Errorf(sitesearch.ENOTFOUND, "no index at %s: build the index first", ix.dir)
	}
	return ix, nil
}

// Dir returns the final index directory.
func (ix *IndexDir) Dir() string {
	return ix.dir
}

// Path returns the database file to open. While building, that is the file
// in the temporary directory.
func (ix *IndexDir) Path() string {
	if ix.building {
		return filepath.Join(ix.tempDir(), IndexFile)
	}
	return filepath.Join(ix.dir, IndexFile)
}

// Commit swaps a newly built index into place. A previous index is moved
// aside first and removed once the new one is in place. The database must be
// closed first.
func (ix *IndexDir) Commit() error {
	if !ix.building {
		return nil
	}
	existing, err := indexOnly(ix.dir)
	if err != nil {
		return err
	}
	if existing {
		if err := removeIndexDir(ix.oldDir()); err != nil {
			return err
		}
		if err := os.Rename(ix.dir, ix.oldDir()); err != nil {
			return err
		}
	} else if err := removeIndexDir(ix.dir); err != nil {
		// An empty directory, or stray journals, left at the target.
		return err
	}
	if err := os.Rename(ix.tempDir(), ix.dir); err != nil {
		if existing {
			_ = os.Rename(ix.oldDir(), ix.dir)
		}
		return err
	}
	ix.building = false

	if existing {
		return removeIndexDir(ix.oldDir())
	}
	return nil
}

// Abort discards a newly built index. The existing index is left untouched.
func (ix *IndexDir) Abort() error {
	if !ix.building {
		return nil
	}
	ix.building = false
	return removeIndexDir(ix.tempDir())
}

func (ix *IndexDir) tempDir() string {
	return ix.dir + ".tmp"
}

func (ix *IndexDir) oldDir() string {
	return ix.dir + ".old"
}

// indexOnly reports whether dir holds an index. It returns ECONFLICT if dir
// holds anything besides the database and its journal files. A missing or
// empty directory holds no index.
func indexOnly(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, sitesearch.Errorf(sitesearch.ECONFLICT, "%s is not usable as an index directory: %v", dir, err)
	}

	found := false
	for _, e := range entries {
		switch {
		case e.Name() == IndexFile && e.Type().IsRegular():
			found = true
		case isJournal(e.Name()):
		default:
			return false, sitesearch.Errorf(sitesearch.ECONFLICT, "%s holds files that are not part of an index (%s): choose another directory", dir, e.Name())
		}
	}
	return found, nil
}

// isJournal reports whether name is one of the files SQLite keeps next to the
// database.
func isJournal(name string) bool {
	for _, suffix := range []string{"-wal", "-shm", "-journal"} {
		if name == IndexFile+suffix {
			return true
		}
	}
	return false
}

// removeIndexDir removes dir if it holds nothing but index files.
func removeIndexDir(dir string) error {
	if _, err := indexOnly(dir); err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
