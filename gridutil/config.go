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
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/COSIMA/om3utils/cloud"
	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// dump formats values for debug logs.
var dump = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(key, f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("cicegrid: you need to specify the %s configuration variable "+
			"(for example: %s=\"out.nc\")", key, key)
	}
	f = os.ExpandEnv(f)
	if cloud.IsBlobURL(f) {
		if _, _, err := cloud.SplitURL(f); err != nil {
			return f, fmt.Errorf("cicegrid: checking %s location: %v", key, err)
		}
		return f, nil
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("cicegrid: the %s directory doesn't exist: %v", key, err)
	}
	return f, nil
}

// checkTolerance converts a configured tolerance to a number.
func checkTolerance(v interface{}) (float64, error) {
	rtol, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("cicegrid: rtol must be a number: %v", err)
	}
	if rtol < 0 {
		return 0, fmt.Errorf("cicegrid: rtol must not be negative but is %g", rtol)
	}
	return rtol, nil
}

// newLogger returns a logger writing to w at the named level.
func newLogger(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("cicegrid: invalid log_level: %v", err)
	}
	log := logrus.New()
	log.Out = w
	log.Level = lvl
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
	}
	return log, nil
}
