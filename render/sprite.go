package render

import "github.com/gogpu/drawstream"

// sprite is a recorded set of instructions that can be replayed onto the
// canvas through the sprite transform. Sprites survive canvas clears and
// resizes; they only cross the wire once.
type sprite struct {
	instrs []drawstream.Instruction
}

// maxSpriteDepth bounds sprite-in-sprite rendering so a sprite that draws
// itself cannot recurse forever.
const maxSpriteDepth = 32

func (c *Canvas) spriteFor(id drawstream.SpriteID) *sprite {
	sp := c.sprites[id]
	if sp == nil {
		sp = &sprite{}
		c.sprites[id] = sp
	}
	return sp
}

// SpriteIDs returns the ids of all defined sprites, in no particular
// order.
func (c *Canvas) SpriteIDs() []drawstream.SpriteID {
	ids := make([]drawstream.SpriteID, 0, len(c.sprites))
	for id := range c.sprites {
		ids = append(ids, id)
	}
	return ids
}

// drawSprite replays a sprite's recorded instructions with the sprite
// transform composed onto the canvas transform. The drawing state is
// restored afterwards, so a sprite cannot leak style or path changes into
// the surrounding drawing.
func (c *Canvas) drawSprite(id drawstream.SpriteID) {
	sp := c.sprites[id]
	if sp == nil {
		drawstream.Logger().Warn("draw of an undefined sprite", "sprite", uint64(id))
		return
	}
	if c.spriteDepth >= maxSpriteDepth {
		drawstream.Logger().Warn("sprite recursion limit reached", "sprite", uint64(id))
		return
	}

	saved := c.state
	savedPath := c.path
	savedStored := c.stored
	savedStackLen := len(c.stack)

	c.state.setTransform(c.state.transform.Multiply(c.state.spriteTransform))
	c.path = nil
	c.spriteDepth++
	for _, inst := range sp.instrs {
		c.render(inst)
	}
	c.spriteDepth--

	c.state = saved
	c.path = savedPath
	c.stored = savedStored
	if len(c.stack) > savedStackLen {
		c.stack = c.stack[:savedStackLen]
	}
}
