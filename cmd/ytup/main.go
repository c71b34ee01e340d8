/*
DESCRIPTION
  ytup uploads a video to YouTube with details copied from one of the user's
  recent uploads. The copied details are edited in the user's text editor
  before uploading.

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

// Ytup uploads a video as a private video scheduled for the next midnight,
// with details cloned from a chosen recent upload.
//
// Usage:
//
//	ytup [flags] /path/to/video [/path/to/thumbnail]
//
// Client secrets and the token cache may be files or gs://<bucket>/<object>
// locations, set by flag, by the YTUP_SECRETS and YTUP_TOKEN_CACHE
// environment variables, or by a .env file in ~/.config/ytup.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/google/uuid"
	"google.golang.org/api/option"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/ytup/choose"
	"github.com/ausocean/ytup/clone"
	"github.com/ausocean/ytup/config"
	"github.com/ausocean/ytup/editor"
	"github.com/ausocean/ytup/gauth"
	"github.com/ausocean/ytup/youtube"
)

// Logging related constants.
const (
	logMaxSize   = 10 // MB
	logMaxBackup = 3
	logMaxAge    = 28 // days
	logSuppress  = false
)

var logLevels = map[string]int8{
	"debug":   logging.Debug,
	"info":    logging.Info,
	"warning": logging.Warning,
	"error":   logging.Error,
}

// options holds the parsed command line.
type options struct {
	secrets   string
	token     string
	limit     int
	logPath   string
	verbose   bool
	logLevel  string
	video     string
	thumbnail string
}

func main() {
	err := run(os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "ytup:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	paths, err := config.DefaultPaths()
	if err != nil {
		return err
	}
	err = paths.LoadEnv()
	if err != nil {
		return err
	}
	defaults, err := config.LoadDefaults(paths.Defaults())
	if err != nil {
		return err
	}

	opts, err := parseArgs(args, paths, defaults, os.Stderr)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(opts)
	if err != nil {
		return err
	}
	defer closeLog()
	log.Info("starting", "run", uuid.NewString(), "video", opts.video, "thumbnail", opts.thumbnail)

	offset, err := defaults.PublishOffset()
	if err != nil {
		log.Warning("ignoring publish_time in defaults", "error", err)
		offset = 0
	}

	// The run is not cancellable once started.
	ctx := context.Background()

	auth := &gauth.Authoriser{
		Secrets: opts.secrets,
		Token:   opts.token,
		Scopes:  []string{youtube.Scope},
		Log:     log,
	}
	hc, err := auth.Client(ctx)
	if err != nil {
		log.Error("could not authorise", "error", err)
		return err
	}

	yt, err := youtube.New(ctx, log, option.WithHTTPClient(hc))
	if err != nil {
		log.Error("could not create youtube client", "error", err)
		return err
	}

	c := &clone.Cloner{
		Platform: yt,
		Selector: &choose.List{},
		Editor: &editor.Editor{
			Command: defaults.Editor,
			Log:     log,
			Stdin:   os.Stdin,
			Stdout:  os.Stdout,
			Stderr:  os.Stderr,
		},
		Log:           log,
		Out:           os.Stdout,
		Now:           time.Now,
		Location:      time.Local,
		PublishOffset: offset,
		Limit:         opts.limit,
		Defaults:      defaults.Request(),
	}

	res, err := c.Run(ctx, opts.video, opts.thumbnail)
	var perr *clone.PartialError
	switch {
	case errors.Is(err, clone.ErrNoVideos):
		fmt.Fprintln(os.Stdout, "no videos found")
		log.Info("no videos to clone from")
		return nil
	case errors.Is(err, choose.ErrNoSelection):
		log.Info("no video selected")
		return err
	case errors.As(err, &perr):
		fmt.Fprintf(os.Stdout, "Video %s was uploaded without its thumbnail\n", perr.VideoID)
		log.Error("run partially failed", "id", perr.VideoID, "error", err)
		return err
	case err != nil:
		log.Error("run failed", "error", err)
		return err
	}
	log.Info("done", "id", res.VideoID, "source", res.Source.ID, "thumbnail", res.Thumbnail)
	return nil
}

// parseArgs parses the command line. Defaults come from paths and the user's
// defaults file. Usage is written to out on a usage error.
func parseArgs(args []string, paths config.Paths, defaults config.Defaults, out io.Writer) (*options, error) {
	fs := flag.NewFlagSet("ytup", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintln(out, "Usage: ytup [flags] /path/to/video [/path/to/thumbnail]")
		fs.PrintDefaults()
	}

	limit := defaults.SearchLimit
	if limit == 0 {
		limit = clone.DefaultLimit
	}

	var o options
	fs.StringVar(&o.secrets, "secrets", paths.Secrets(), "Client secrets file or gs:// location.")
	fs.StringVar(&o.token, "token", paths.Token(), "Token cache file or gs:// location.")
	fs.IntVar(&o.limit, "n", limit, "Number of recent videos to choose from.")
	fs.StringVar(&o.logPath, "log", paths.Log(), "Log file path.")
	fs.BoolVar(&o.verbose, "v", false, "Also log to stderr.")
	fs.StringVar(&o.logLevel, "loglevel", "info", "Log level: debug, info, warning or error.")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}

	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return nil, errors.New("want a video path and an optional thumbnail path")
	}
	if o.limit < 1 || o.limit > youtube.MaxSearchResults {
		return nil, fmt.Errorf("invalid -n %d: must be 1 to %d", o.limit, youtube.MaxSearchResults)
	}
	if _, ok := logLevels[strings.ToLower(o.logLevel)]; !ok {
		return nil, fmt.Errorf("invalid -loglevel %q", o.logLevel)
	}

	o.video = fs.Arg(0)
	err = checkIsFile(o.video)
	if err != nil {
		return nil, err
	}
	if fs.NArg() == 2 {
		o.thumbnail = fs.Arg(1)
		err = checkIsFile(o.thumbnail)
		if err != nil {
			return nil, err
		}
	}
	return &o, nil
}

// checkIsFile returns an error if path is not an existing regular file.
func checkIsFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("could not use %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// newLogger returns a logger writing to a rotated log file, and to stderr if
// verbose is set, along with a function that closes the log file.
func newLogger(o *options) (logging.Logger, func(), error) {
	err := os.MkdirAll(filepath.Dir(o.logPath), 0o755)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create log directory: %w", err)
	}

	// Create lumberjack logger to handle logging to file.
	fileLog := &lumberjack.Logger{
		Filename:   o.logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}

	var w io.Writer = fileLog
	if o.verbose {
		w = io.MultiWriter(fileLog, os.Stderr)
	}
	log := logging.New(logLevels[strings.ToLower(o.logLevel)], w, logSuppress)
	return log, func() { fileLog.Close() }, nil
}
