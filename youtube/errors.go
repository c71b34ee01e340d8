/*
DESCRIPTION
  errors.go defines the errors returned by the YouTube client.

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

package youtube

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// Exported errors.
var (
	// ErrEmptyResult is returned when a search response has no items field at
	// all. An items field holding zero entries is not an error.
	ErrEmptyResult = errors.New("search response has no items")

	// ErrNotFound is returned when no video is returned for an id.
	ErrNotFound = errors.New("video not found")

	// ErrMissingID is returned when an upload is accepted but the response
	// carries no video id.
	ErrMissingID = errors.New("upload response has no video id")
)

// RemoteError is a failed call to the YouTube API.
type RemoteError struct {
	Op  string // The API operation, e.g. "search".
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("youtube %s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status code of the failed call, or 0 if the
// call did not get a response.
func (e *RemoteError) StatusCode() int {
	return statusCode(e.Err)
}

// IncompleteMetadataError is returned when a fetched video lacks a required
// field.
type IncompleteMetadataError struct {
	ID    string
	Field string
}

func (e *IncompleteMetadataError) Error() string {
	return fmt.Sprintf("video %s has no %s", e.ID, e.Field)
}

// UploadError is a failed video insert.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("could not upload video: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// ThumbnailError is a failed thumbnail set for an uploaded video.
type ThumbnailError struct {
	VideoID string
	Err     error
}

func (e *ThumbnailError) Error() string {
	return fmt.Sprintf("could not set thumbnail for video %s: %v", e.VideoID, e.Err)
}

func (e *ThumbnailError) Unwrap() error { return e.Err }

func statusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}
