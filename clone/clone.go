/*
DESCRIPTION
  clone.go sequences the steps of republishing a video under metadata cloned
  from an earlier upload.

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

// Package clone uploads a video with metadata copied from one of the user's
// recent videos and edited by the user. Steps run one after the other and
// the first failure ends the run; nothing is retried or undone.
package clone

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/ytup/editor"
	"github.com/ausocean/ytup/schedule"
	"github.com/ausocean/ytup/youtube"
)

// DefaultLimit is the number of recent videos offered when Cloner.Limit is 0.
const DefaultLimit = 10

// Progress lines written to Cloner.Out.
const (
	msgUploading      = "Uploading video..."
	msgUploaded       = "Video uploaded"
	msgAddingThumb    = "Adding thumbnail..."
	msgThumbnailAdded = "Thumbnail added"
)

// ErrNoVideos is returned when the user has no videos to clone from.
var ErrNoVideos = errors.New("no videos found")

// PartialError is returned when the video was uploaded but its thumbnail
// could not be set. The uploaded video is left in place.
type PartialError struct {
	VideoID string
	Err     error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("video %s uploaded, but thumbnail failed: %v", e.VideoID, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// Platform is the video platform the Cloner reads from and uploads to.
type Platform interface {
	Search(ctx context.Context, limit int) ([]youtube.VideoSummary, error)
	FetchMetadata(ctx context.Context, id string) (*youtube.VideoMetadata, error)
	Upload(ctx context.Context, req youtube.UploadRequest, media io.Reader) (*youtube.UploadResult, error)
	AttachThumbnail(ctx context.Context, videoID string, media io.Reader) error
}

// Selector picks the video to clone from. A nil video with a nil error means
// the user chose to start from the Cloner's defaults instead.
type Selector interface {
	Select(videos []youtube.VideoSummary) (*youtube.VideoSummary, error)
}

// Editor lets the user edit a document and returns the result.
type Editor interface {
	Edit(ctx context.Context, doc []byte) ([]byte, error)
}

// Cloner runs the clone pipeline.
type Cloner struct {
	Platform Platform
	Selector Selector
	Editor   Editor
	Log      logging.Logger

	// Out receives one progress line per upload stage.
	Out io.Writer

	// Now and Location determine the default publish time. Nil values mean
	// time.Now and time.Local.
	Now      func() time.Time
	Location *time.Location

	// PublishOffset is added to the default publish time of midnight.
	PublishOffset time.Duration

	// Limit is the number of recent videos offered for selection.
	Limit int

	// Defaults seeds the document when no video is chosen. Its publish time
	// is replaced by the default publish time.
	Defaults youtube.UploadRequest
}

// Result describes what a run created. Source is the zero value when the run
// started from the defaults.
type Result struct {
	Source    youtube.VideoSummary
	Request   youtube.UploadRequest
	VideoID   string
	Thumbnail bool
}

// Run picks a source video, lets the user edit its metadata and uploads the
// video at videoPath under that metadata. If the user picks no video, the
// metadata starts from c.Defaults. If thumbnailPath is not empty, the
// image there is set as the new video's thumbnail.
//
// If the thumbnail cannot be set, the returned Result still holds the new
// video's ID and the error is a *PartialError.
func (c *Cloner) Run(ctx context.Context, videoPath, thumbnailPath string) (*Result, error) {
	limit := c.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	videos, err := c.Platform.Search(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("could not list recent videos: %w", err)
	}
	if len(videos) == 0 {
		return nil, ErrNoVideos
	}
	c.Log.Debug("listed recent videos", "count", len(videos))

	src, err := c.Selector.Select(videos)
	if err != nil {
		return nil, fmt.Errorf("could not select video: %w", err)
	}

	var seed youtube.UploadRequest
	if src == nil {
		c.Log.Info("starting from defaults")
		seed = c.Defaults
		seed.Tags = append([]string{}, c.Defaults.Tags...)
		if seed.PrivacyStatus == "" {
			seed.PrivacyStatus = youtube.DefaultPrivacy
		}
		src = &youtube.VideoSummary{}
	} else {
		c.Log.Info("selected source video", "id", src.ID, "title", src.Title)
		md, err := c.Platform.FetchMetadata(ctx, src.ID)
		if err != nil {
			return nil, fmt.Errorf("could not get details of video %s: %w", src.ID, err)
		}
		seed = editor.NewRequest(md, "")
	}

	req, err := c.edit(ctx, seed)
	if err != nil {
		return nil, err
	}
	res := &Result{Source: *src, Request: req}

	video, err := os.Open(videoPath)
	if err != nil {
		return nil, fmt.Errorf("could not open video: %w", err)
	}
	defer video.Close()

	// The thumbnail is opened up front so a bad path fails before anything is
	// uploaded.
	var thumb *os.File
	if thumbnailPath != "" {
		thumb, err = os.Open(thumbnailPath)
		if err != nil {
			return nil, fmt.Errorf("could not open thumbnail: %w", err)
		}
		defer thumb.Close()
	}

	fmt.Fprintln(c.Out, msgUploading)
	up, err := c.Platform.Upload(ctx, req, video)
	if err != nil {
		return nil, fmt.Errorf("could not upload %s: %w", videoPath, err)
	}
	res.VideoID = up.VideoID
	fmt.Fprintf(c.Out, "%s: %s\n", msgUploaded, up.VideoID)
	c.Log.Info("uploaded video", "id", up.VideoID, "title", req.Title, "category", req.Category, "publishAt", req.PublishAt)

	if thumb == nil {
		return res, nil
	}

	fmt.Fprintln(c.Out, msgAddingThumb)
	err = c.Platform.AttachThumbnail(ctx, up.VideoID, thumb)
	if err != nil {
		c.Log.Error("could not set thumbnail", "id", up.VideoID, "error", err)
		return res, &PartialError{VideoID: up.VideoID, Err: err}
	}
	res.Thumbnail = true
	fmt.Fprintln(c.Out, msgThumbnailAdded)
	return res, nil
}

// edit sets the default publish time on seed and has the user edit it.
func (c *Cloner) edit(ctx context.Context, seed youtube.UploadRequest) (youtube.UploadRequest, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	seed.PublishAt = schedule.DefaultPublishAt(now(), loc, c.PublishOffset)

	doc, err := editor.Marshal(seed)
	if err != nil {
		return youtube.UploadRequest{}, fmt.Errorf("could not build document: %w", err)
	}
	edited, err := c.Editor.Edit(ctx, doc)
	if err != nil {
		return youtube.UploadRequest{}, fmt.Errorf("could not edit video details: %w", err)
	}
	req, err := editor.Parse(edited)
	if err != nil {
		return youtube.UploadRequest{}, fmt.Errorf("could not read edited video details: %w", err)
	}

	if youtube.SanitiseCategory(req.Category) == "" {
		c.Log.Warning("unknown category, leaving it to YouTube to accept", "category", req.Category)
	}
	return req, nil
}
