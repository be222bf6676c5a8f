// Package renderer draws the explorer screen onto a backend.
//
// A Scene describes one frame: the two value panes, the optional frame tree
// pane, the query bar and an optional flash box. Draw clears the backend,
// paints the scene and shows it. Panes are bordered boxes; the top border
// carries the frame title and the bottom border the jq path of the cursor.
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	r := renderer.New(backend.NewBufferedBackend(term), renderer.DefaultStyles())
//	r.Draw(&renderer.Scene{Layout: layout.Compute(r.Screen(), false)})
package renderer
