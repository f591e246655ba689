//go:build !unix

package nd

import (
	"errors"
	"os"
)

var errNoMmap = errors.New("memory mapping is not supported on this platform")

func mmapFile(_ *os.File, _ int64, _ bool) ([]byte, error) {
	return nil, errNoMmap
}

func munmapFile(_ []byte) error {
	return errNoMmap
}
