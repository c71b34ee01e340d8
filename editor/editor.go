/*
DESCRIPTION
  editor.go runs the user's text editor on a document.

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

package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/ausocean/utils/logging"
)

// DefaultCommand is used when neither Editor.Command nor $EDITOR is set.
const DefaultCommand = "vim"

// Editor edits documents with an external program.
type Editor struct {
	// Command is the editor to run, with any arguments. The path of the
	// document is appended as the last argument. If empty, $EDITOR is used,
	// then DefaultCommand.
	Command string

	// Dir is where the temporary document is written. If empty, the default
	// directory for temporary files is used.
	Dir string

	Log logging.Logger

	// The editor's standard streams. Nil streams are connected to the null
	// device.
	Stdin          io.Reader
	Stdout, Stderr io.Writer
}

// command returns the editor program and its leading arguments.
func (e *Editor) command() (string, []string) {
	cmd := e.Command
	if cmd == "" {
		cmd = os.Getenv("EDITOR")
	}
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return DefaultCommand, nil
	}
	return fields[0], fields[1:]
}

// Edit writes doc to a temporary file, runs the editor on it and waits for it
// to exit, then returns the contents of the file. The file is read back even
// if the editor exits with a failure status; whatever is on disk is taken as
// the edited document.
func (e *Editor) Edit(ctx context.Context, doc []byte) ([]byte, error) {
	f, err := os.CreateTemp(e.Dir, "ytup-*.yaml")
	if err != nil {
		return nil, fmt.Errorf("could not create document file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	_, err = f.Write(doc)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("could not write document file: %w", err)
	}

	name, args := e.command()
	cmd := exec.CommandContext(ctx, name, append(args, path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	e.Log.Debug("running editor", "editor", name, "file", path)
	err = cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		e.Log.Warning("editor exited with failure, using document as saved", "editor", name, "code", exitErr.ExitCode())
	case err != nil:
		return nil, fmt.Errorf("could not run editor %s: %w", name, err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read edited document: %w", err)
	}
	return edited, nil
}
