/*
Copyright © 2024 the om3utils authors.
This file is part of om3utils.

om3utils is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

om3utils is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with om3utils.  If not, see <http://www.gnu.org/licenses/>.
*/

package gridutil

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/COSIMA/om3utils"
)

// stagedWriter writes outputs to temporary files next to their
// destinations. The destinations are only replaced by commit.
type stagedWriter struct {
	w om3utils.DatasetWriter

	// staged holds pairs of temporary and destination paths.
	staged [][2]string
}

func (s *stagedWriter) WriteGrid(path string, g *om3utils.CICEGrid, p *om3utils.Provenance) error {
	tmp, err := s.stage(path)
	if err != nil {
		return err
	}
	return s.w.WriteGrid(tmp, g, p)
}

func (s *stagedWriter) WriteKMT(path string, m *om3utils.Mask, p *om3utils.Provenance) error {
	tmp, err := s.stage(path)
	if err != nil {
		return err
	}
	return s.w.WriteKMT(tmp, m, p)
}

func (s *stagedWriter) stage(path string) (string, error) {
	f, err := ioutil.TempFile(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("cicegrid: creating temporary output file: %v", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	s.staged = append(s.staged, [2]string{name, path})
	return name, nil
}

// rename is replaced in tests.
var rename = os.Rename

// replaced records a destination that commit has overwritten. backup
// holds the previous contents, or is empty if there were none.
type replaced struct {
	dst, backup string
}

// commit moves every staged file to its destination. If any move fails,
// destinations already replaced are restored so that either every
// output changes or none does.
func (s *stagedWriter) commit() error {
	defer s.abort()
	var done []replaced
	undo := func() {
		for i := len(done) - 1; i >= 0; i-- {
			r := done[i]
			if r.backup == "" {
				os.Remove(r.dst)
			} else {
				rename(r.backup, r.dst)
			}
		}
	}
	for _, f := range s.staged {
		tmp, dst := f[0], f[1]
		if err := os.Chmod(tmp, 0644); err != nil {
			undo()
			return fmt.Errorf("cicegrid: committing %s: %v", dst, err)
		}
		r := replaced{dst: dst}
		if _, err := os.Stat(dst); err == nil {
			if r.backup, err = backup(dst); err != nil {
				undo()
				return fmt.Errorf("cicegrid: committing %s: %v", dst, err)
			}
		}
		if err := rename(tmp, dst); err != nil {
			if r.backup != "" {
				rename(r.backup, dst)
			}
			undo()
			return fmt.Errorf("cicegrid: committing %s: %v", dst, err)
		}
		done = append(done, r)
	}
	for _, r := range done {
		if r.backup != "" {
			os.Remove(r.backup)
		}
	}
	return nil
}

// backup moves dst to a new file in the same directory and returns its
// name.
func backup(dst string) (string, error) {
	f, err := ioutil.TempFile(filepath.Dir(dst), "."+filepath.Base(dst)+".bak.*")
	if err != nil {
		return "", err
	}
	name := f.Name()
	f.Close()
	if err := rename(dst, name); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

// abort removes every staged file.
func (s *stagedWriter) abort() {
	for _, f := range s.staged {
		os.Remove(f[0])
	}
	s.staged = nil
}
