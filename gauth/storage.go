/*
DESCRIPTION
  storage.go reads and writes client secrets and tokens held either in local
  files or in google storage bucket objects.

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean)

  This file is part of ytup. ytup is free software: you can
  redistribute it and/or modify it under the terms of the GNU
  General Public License as published by the Free Software
  Foundation, either version 3 of the License, or (at your option)
  any later version.

  ytup is distributed in the hope that it will be useful,
  but WITHOUT ANY WARRANTY; without even the implied warranty of
  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
  GNU General Public License for more details.

  You should have received a copy of the GNU General Public License
  in gpl.txt. If not, see <http://www.gnu.org/licenses/>.
*/

package gauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
)

// The URL scheme that represents a Google Storage Bucket.
const gsbScheme = "gs://"

// ErrNotExist is returned when a secrets or token location holds nothing.
var ErrNotExist = errors.New("location does not exist")

// IsBucket reports whether loc names a google storage bucket object rather
// than a file.
func IsBucket(loc string) bool {
	return strings.HasPrefix(loc, gsbScheme)
}

// Read returns the contents of loc, a file path or gs://<bucket>/<object>.
// A missing file or object gives an error wrapping ErrNotExist.
func Read(ctx context.Context, loc string) ([]byte, error) {
	if IsBucket(loc) {
		return objBytes(ctx, loc)
	}
	b, err := os.ReadFile(loc)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, loc)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read file %s: %w", loc, err)
	}
	return b, nil
}

// loadToken reads an oauth2 token from loc.
func loadToken(ctx context.Context, loc string) (*oauth2.Token, error) {
	b, err := Read(ctx, loc)
	if err != nil {
		return nil, err
	}
	tok := &oauth2.Token{}
	err = json.Unmarshal(b, tok)
	if err != nil {
		return nil, fmt.Errorf("could not decode token from %s: %w", loc, err)
	}
	return tok, nil
}

// saveToken writes tok to loc, replacing anything already there.
func saveToken(ctx context.Context, tok *oauth2.Token, loc string) error {
	if IsBucket(loc) {
		return saveTokObj(ctx, tok, loc)
	}
	return saveTokFile(tok, loc)
}

// getObject retrieves a google storage bucket object with the provided url.
// If the object does not exist, the object value is still returned along with
// the error, allowing creation of this object by writing to it.
func getObject(ctx context.Context, uri string) (*storage.ObjectHandle, error) {
	bktName, objName, err := googleStorageAddr(uri)
	if err != nil {
		return nil, fmt.Errorf("could not parse uri: %w", err)
	}

	c, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not create storage client: %w", err)
	}

	obj := c.Bucket(bktName).Object(objName)
	_, err = obj.Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return obj, fmt.Errorf("%w: %s: %w", ErrNotExist, uri, err)
	}
	if err != nil {
		return obj, fmt.Errorf("error getting object named: %s: %w", objName, err)
	}
	return obj, nil
}

// saveTokObj saves the passed oauth2 token to the bucket object at url.
func saveTokObj(ctx context.Context, tok *oauth2.Token, url string) error {
	obj, err := getObject(ctx, url)

	// Writing will overwrite previous data in the object if it exists.
	if err != nil && !errors.Is(err, ErrNotExist) {
		return err
	}

	w := obj.NewWriter(ctx)
	err = json.NewEncoder(w).Encode(tok)
	if err != nil {
		w.Close()
		return fmt.Errorf("could not encode token to object: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("could not close written object: %w", err)
	}
	return nil
}

// objBytes returns the bytes contained in the object at the given URL.
func objBytes(ctx context.Context, url string) ([]byte, error) {
	obj, err := getObject(ctx, url)
	if err != nil {
		return nil, err
	}
	r, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not create reader for %s: %w", url, err)
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read bucket object: %w", err)
	}
	return b, nil
}

// saveTokFile saves tok to the file name, creating its directory if needed.
// The file is only readable by its owner.
func saveTokFile(tok *oauth2.Token, name string) error {
	err := os.MkdirAll(filepath.Dir(name), 0o700)
	if err != nil {
		return fmt.Errorf("could not create token directory: %w", err)
	}

	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("could not open token file: %w", err)
	}

	err = json.NewEncoder(f).Encode(tok)
	if err != nil {
		f.Close()
		return fmt.Errorf("could not encode token to file: %w", err)
	}
	return f.Close()
}

func googleStorageAddr(addr string) (bucket, object string, err error) {
	u, err := url.Parse(addr)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "gs" {
		return "", "", fmt.Errorf("url does not have gs scheme: %s", u)
	}
	object = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || object == "" {
		return "", "", fmt.Errorf("url does not name a bucket object: %s", u)
	}
	return u.Host, object, nil
}
