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
	"context"

	"github.com/COSIMA/om3utils"
	"github.com/COSIMA/om3utils/cice"
	"github.com/COSIMA/om3utils/internal/hash"
	"github.com/COSIMA/om3utils/mom"
	"github.com/sirupsen/logrus"
)

// Options specifies one run of the tool.
type Options struct {
	// HGrid and Mask are the MOM super-grid and ocean mask locations,
	// as given by the user.
	HGrid, Mask string

	// GridFile and MaskFile are the CICE output locations.
	GridFile, MaskFile string

	// CRS is recorded in both outputs.
	CRS cice.CRS

	// History is the command line recorded in both outputs.
	History string
}

// request fetches the inputs of o and returns the conversion request
// reading them.
func (o *Options) request(ctx context.Context, d *downloader) (*om3utils.ConvertRequest, error) {
	hgrid, err := d.maybeDownload(ctx, o.HGrid)
	if err != nil {
		return nil, err
	}
	mask, err := d.maybeDownload(ctx, o.Mask)
	if err != nil {
		return nil, err
	}
	return &om3utils.ConvertRequest{
		HGrid:    om3utils.Input{Name: o.HGrid, Path: hgrid},
		Mask:     om3utils.Input{Name: o.Mask, Path: mask},
		GridFile: o.GridFile,
		KMTFile:  o.MaskFile,
		History:  o.History,
	}, nil
}

// Run creates the CICE grid file and mask file specified by o. Either
// both outputs are created or neither is changed.
func Run(ctx context.Context, log logrus.FieldLogger, o *Options) error {
	var d downloader
	defer d.cleanup()
	req, err := o.request(ctx, &d)
	if err != nil {
		return err
	}

	var u uploader
	defer u.cleanup()
	req.GridFile = u.maybeUpload(o.GridFile)
	req.KMTFile = u.maybeUpload(o.MaskFile)
	if u.err != nil {
		return u.err
	}

	log.Debugf("options:\n%s", dump.Sdump(o))
	log.WithFields(logrus.Fields{
		"hgrid": o.HGrid,
		"mask":  o.Mask,
	}).Info("converting MOM grid")

	w := &stagedWriter{w: cice.Writer{CRS: o.CRS}}
	r, err := om3utils.Convert(mom.Reader{}, w, req)
	if err != nil {
		w.abort()
		return err
	}
	if err := w.commit(); err != nil {
		return err
	}
	fp, err := hash.Fingerprint(r.Grid)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"ny":          r.Grid.Ny,
		"nx":          r.Grid.Nx,
		"ocean_cells": oceanCells(r.Mask),
		"fingerprint": fp,
		"hgrid_md5":   r.GridProvenance.InputFileMD5,
		"mask_md5":    r.MaskProvenance.InputFileMD5,
	}).Info("derived CICE grid")

	if err := u.uploadOutput(ctx); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"grid_file": o.GridFile,
		"mask_file": o.MaskFile,
	}).Info("wrote CICE grid")
	return nil
}

func oceanCells(m *om3utils.Mask) int {
	var n int
	for _, ocean := range m.Ocean {
		if ocean {
			n++
		}
	}
	return n
}
