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

// Package hash computes the checksums recorded in output file metadata
// and printed in logs.
package hash

import (
	"crypto/md5"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"io"
	"os"
)

// MD5 returns the hexadecimal MD5 digest of everything read from r.
func MD5(r io.Reader) (string, error) {
	h := md5.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MD5File returns the hexadecimal MD5 digest of the contents of the named
// file. The result is the same as the output of the md5sum utility.
func MD5File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	sum, err := MD5(f)
	if err != nil {
		return "", fmt.Errorf("hashing %s: %v", path, err)
	}
	return sum, nil
}

// Fingerprint returns a short key identifying the contents of object.
// Identical values always produce identical keys, so two runs can be
// compared from their logs. object must be gob encodable.
func Fingerprint(object interface{}) (string, error) {
	h := fnv.New128a()
	if err := gob.NewEncoder(h).Encode(object); err != nil {
		return "", fmt.Errorf("fingerprinting %T: %v", object, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
