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
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/COSIMA/om3utils/cloud"
)

// downloader fetches remote inputs into temporary directories.
type downloader struct {
	dirs []string
}

// maybeDownload checks if the input is an existing file locally.
// If not, it checks if the file is a URL or a blob storage location.
// If it is, it downloads the file and returns the path to the downloaded
// file. Otherwise the path is returned unchanged, so that reading it
// reports the missing file.
func (d *downloader) maybeDownload(ctx context.Context, path string) (string, error) {
	// Check if local file exists. If it does, return the given path.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return path, nil
	}

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return d.downloadHTTP(ctx, path)
	}

	if cloud.IsBlobURL(path) {
		return d.downloadBlob(ctx, path)
	}

	return path, nil
}

// tempFile creates a file named after loc in a new temporary directory.
func (d *downloader) tempFile(loc string) (*os.File, error) {
	dir, err := ioutil.TempDir("", "cicegrid")
	if err != nil {
		return nil, fmt.Errorf("cicegrid: failed creating temporary download directory: %v", err)
	}
	d.dirs = append(d.dirs, dir)
	name := filepath.Base(loc)
	if name == "." || name == "/" {
		name = "download.nc"
	}
	w, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("cicegrid: failed creating file for download: %v", err)
	}
	return w, nil
}

// downloadHTTP downloads a file from the specified URL and returns
// the path to the downloaded file.
func (d *downloader) downloadHTTP(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("cicegrid: downloading %s: %v", url, err)
	}
	resp, err := http.DefaultClient.Do(req.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("cicegrid: downloading %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cicegrid: downloading %s: %s", url, resp.Status)
	}
	w, err := d.tempFile(path.Base(req.URL.Path))
	if err != nil {
		return "", err
	}
	return copyTo(w, resp.Body, url)
}

// downloadBlob downloads the specified file from blob storage.
func (d *downloader) downloadBlob(ctx context.Context, loc string) (string, error) {
	bucketURL, key, err := cloud.SplitURL(loc)
	if err != nil {
		return "", err
	}
	bucket, err := cloud.OpenBucket(ctx, bucketURL)
	if err != nil {
		return "", fmt.Errorf("cicegrid: opening bucket to download %s: %v", loc, err)
	}
	defer bucket.Close()
	r, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		return "", fmt.Errorf("cicegrid: downloading %s: %v", loc, err)
	}
	defer r.Close()
	w, err := d.tempFile(key)
	if err != nil {
		return "", err
	}
	return copyTo(w, r, loc)
}

func copyTo(w *os.File, r io.Reader, loc string) (string, error) {
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("cicegrid: downloading %s: %v", loc, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("cicegrid: downloading %s: %v", loc, err)
	}
	return w.Name(), nil
}

// cleanup removes all downloaded files.
func (d *downloader) cleanup() {
	for _, dir := range d.dirs {
		os.RemoveAll(dir)
	}
	d.dirs = nil
}
