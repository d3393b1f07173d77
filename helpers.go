package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// writeFile replaces path with body. The file is closed on every path and a
// close error is returned like any other.
func writeFile(path string, body []byte) error {
	return writeFileFunc(path, func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(body))
		return err
	})
}

func writeFileFunc(path string, write func(io.Writer) error) (err error) {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "create dir for %s", path)
	}

	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	return write(out)
}
