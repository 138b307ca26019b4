// Package ui renders the output of one-shot sunrise commands (on, start,
// stop, set-alarm, ...) as lipgloss result boxes.
//
// Boxes are only used when stdout is a terminal; otherwise commands print
// Result.Plain() so the output stays greppable.
//
//	res := ui.NewSuccessResult("Ramp started").
//	    AddDetail("Duration", "45 min")
//	fmt.Println(res.Render())
package ui
