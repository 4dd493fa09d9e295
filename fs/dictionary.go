package fs

import (
	"errors"
	"os"

	"github.com/fwojciec/sitesearch"
)

// LoadDictionary reads a newline-delimited word list from path.
// Returns ENOTFOUND if the file does not exist.
func LoadDictionary(path string) (*sitesearch.Dictionary, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, sitesearch.Errorf(sitesearch.ENOTFOUND, "dictionary not found at %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return sitesearch.ParseDictionary(f)
}
