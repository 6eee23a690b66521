package render

import "github.com/gogpu/drawstream"

// globalLayer tags log entries that are not owned by any one layer, such
// as LayerBlend, so they survive a ClearLayer prune.
const globalLayer = int64(-1)

type logEntry struct {
	inst  drawstream.Instruction
	layer int64
}

// replayLog is the instruction history since the last canvas clear. It is
// what a resize replays, so the bookkeeping here works to keep it from
// growing without bound: restores rewind it to the matching store, cleared
// layers drop their drawing, and a freed store buffer drops the store.
type replayLog struct {
	entries []logEntry
}

// seed starts the log with a ClearCanvas, the state a blank canvas is in.
func (l *replayLog) seed() {
	l.entries = append(l.entries[:0], logEntry{inst: drawstream.ClearCanvas{}, layer: globalLayer})
}

// record appends one live instruction, applying the pruning rules.
func (l *replayLog) record(inst drawstream.Instruction, layerID uint32) {
	tag := int64(layerID)
	switch inst.(type) {
	case drawstream.ClearCanvas:
		l.seed()
		return

	case drawstream.Restore:
		// Keep the restore in case it can't be rewound away.
		l.entries = append(l.entries, logEntry{inst: inst, layer: tag})
		l.rewindToLastStore()
		return

	case drawstream.FreeStoredBuffer:
		// A store that was never restored and is now freed has no replay
		// effect; drop the pair when they sit next to each other.
		if n := len(l.entries); n > 0 {
			if _, isStore := l.entries[n-1].inst.(drawstream.Store); isStore {
				l.entries = l.entries[:n-1]
				return
			}
		}

	case drawstream.ClearLayer:
		// The prune drops the layer's drawing; the clear itself stays so
		// replay also resets the layer's blend mode, which an earlier
		// surviving LayerBlend entry would otherwise re-apply.
		l.pruneLayer(tag)

	case drawstream.LayerBlend:
		tag = globalLayer

	case drawstream.Layer:
		// Selections stay global: later entries for other layers depend
		// on them.
		tag = globalLayer
	}
	l.entries = append(l.entries, logEntry{inst: inst, layer: tag})
}

// rewindToLastStore truncates the log back to before the most recent
// store, removing the drawing the restore just undid. Clip and state-stack
// changes in between mean the restore may not undo cleanly, so they stop
// the search.
func (l *replayLog) rewindToLastStore() {
	for i := len(l.entries) - 1; i >= 0; i-- {
		switch l.entries[i].inst.(type) {
		case drawstream.Clip, drawstream.Unclip, drawstream.PushState, drawstream.PopState:
			return
		case drawstream.Store:
			l.entries = l.entries[:i]
			return
		}
	}
}

// pruneLayer removes the drawing entries owned by one layer. State and
// style entries are shared across layers and stay.
func (l *replayLog) pruneLayer(tag int64) {
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.layer == tag && isDrawingEntry(e.inst) {
			continue
		}
		kept = append(kept, e)
	}
	l.entries = kept
}

// isDrawingEntry reports whether an instruction only contributes pixels to
// the layer it was drawn on.
func isDrawingEntry(inst drawstream.Instruction) bool {
	switch inst.(type) {
	case drawstream.NewPath, drawstream.Move, drawstream.Line,
		drawstream.BezierCurve, drawstream.ClosePath,
		drawstream.Fill, drawstream.Stroke, drawstream.DrawSprite:
		return true
	}
	return false
}

// Log returns a copy of the replay log: the instructions that reproduce
// the current canvas contents when applied to a blank canvas.
func (c *Canvas) Log() []drawstream.Instruction {
	out := make([]drawstream.Instruction, len(c.log.entries))
	for i, e := range c.log.entries {
		out[i] = e.inst
	}
	return out
}

// Resize changes the canvas dimensions and replays the log so the drawing
// is re-rendered at the new size. The canvas transform is resolution
// independent, so the content scales rather than crops.
func (c *Canvas) Resize(width, height int) {
	if width == c.width && height == c.height {
		return
	}
	c.width, c.height = width, height
	entries := c.log.entries
	c.reset()
	for _, e := range entries {
		c.render(e.inst)
	}
	drawstream.Logger().Debug("canvas resized",
		"width", width, "height", height,
		"replayed", len(entries), "layers", len(c.layers))
}
