// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gogpuview

import "github.com/gogpu/gpucontext"

// Action is what a key press asks the viewer to do.
type Action uint8

// Actions.
const (
	ActionNone Action = iota
	ActionQuit
	ActionNextPage
	ActionPreviousPage
	ActionFirstPage
	ActionLastPage
	ActionZoomIn
	ActionZoomOut
)

// ZoomStep is the scale factor applied per zoom key press.
const ZoomStep = 1.25

var actionNames = [...]string{
	ActionNone:         "none",
	ActionQuit:         "quit",
	ActionNextPage:     "next-page",
	ActionPreviousPage: "previous-page",
	ActionFirstPage:    "first-page",
	ActionLastPage:     "last-page",
	ActionZoomIn:       "zoom-in",
	ActionZoomOut:      "zoom-out",
}

// String returns the action name.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// ActionForKey maps a key to its action. Unbound keys map to ActionNone.
func ActionForKey(key gpucontext.Key) Action {
	switch key {
	case gpucontext.KeyEscape:
		return ActionQuit
	case gpucontext.KeyDown, gpucontext.KeyPageDown:
		return ActionNextPage
	case gpucontext.KeyUp, gpucontext.KeyPageUp:
		return ActionPreviousPage
	case gpucontext.KeyHome:
		return ActionFirstPage
	case gpucontext.KeyEnd:
		return ActionLastPage
	case gpucontext.KeyEqual, gpucontext.KeyNumpadAdd:
		return ActionZoomIn
	case gpucontext.KeyMinus, gpucontext.KeyNumpadSubtract:
		return ActionZoomOut
	default:
		return ActionNone
	}
}
