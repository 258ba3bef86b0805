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

// Command cicegrid creates the grid and land mask files of the CICE sea
// ice model from the super-grid and ocean mask of the MOM ocean model.
package main

import (
	"os"
	"time"

	"github.com/COSIMA/om3utils/gridutil"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
	})
	cfg := gridutil.InitializeConfig()
	if err := cfg.Root.Execute(); err != nil {
		logrus.WithError(err).Error("cicegrid failed")
		os.Exit(1)
	}
}
