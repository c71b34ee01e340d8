/*
DESCRIPTION
  choose.go provides a terminal list for picking a video.

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

// Package choose asks the user to pick one item from a list.
package choose

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ausocean/ytup/youtube"
)

// ErrNoSelection is returned when the user quits without picking an item.
var ErrNoSelection = errors.New("no video selected")

// shortcuts are assigned to the first videos in order.
const shortcuts = "1234567890"

// noneShortcut picks the None item.
const noneShortcut = 'n'

const listTitle = "Pick the video to copy details from"

// List shows the videos as a full screen list, followed by a None item for
// starting from the configured defaults.
type List struct {
	// Screen is drawn on. If nil, the terminal is used.
	Screen tcell.Screen
}

// Select asks the user to pick one of videos. Picking None returns a nil
// video and a nil error. Escape, Ctrl-C or an empty list return
// ErrNoSelection.
func (l *List) Select(videos []youtube.VideoSummary) (*youtube.VideoSummary, error) {
	if len(videos) == 0 {
		return nil, ErrNoSelection
	}

	app := tview.NewApplication()
	if l.Screen != nil {
		app.SetScreen(l.Screen)
	}

	var (
		picked *youtube.VideoSummary
		done   bool
	)
	list := newList(videos,
		func(v *youtube.VideoSummary) {
			picked, done = v, true
			app.Stop()
		},
		app.Stop,
	)

	if err := app.SetRoot(list, true).EnableMouse(true).Run(); err != nil {
		return nil, fmt.Errorf("could not show video list: %w", err)
	}
	if !done {
		return nil, ErrNoSelection
	}
	return picked, nil
}

// newList returns a list of videos and a None item. onSelect receives the
// chosen video, or nil for None. onDone is called when the user leaves the
// list with Escape.
func newList(videos []youtube.VideoSummary, onSelect func(*youtube.VideoSummary), onDone func()) *tview.List {
	list := tview.NewList().ShowSecondaryText(false)
	for i := range videos {
		v := &videos[i]
		var r rune
		if i < len(shortcuts) {
			r = rune(shortcuts[i])
		}
		list.AddItem(v.String(), "", r, func() { onSelect(v) })
	}
	list.AddItem("None", "", noneShortcut, func() { onSelect(nil) })
	list.SetDoneFunc(onDone)
	list.SetBorder(true).SetTitle(listTitle).SetTitleAlign(tview.AlignLeft)
	return list
}
