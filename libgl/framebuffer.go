package libgl

import (
	"fmt"

	"github.com/go-gl/gl/v4.5-core/gl"
)

const MaxColorAttachments = 8

type framebuffer struct {
	glId  uint32
	color [MaxColorAttachments]UnboundTexture
}

type UnboundFramebuffer interface {
	LabeledGlObject
	Id() uint32
	// target must be GL_DRAW_FRAMEBUFFER, GL_READ_FRAMEBUFFER or GL_FRAMEBUFFER
	Bind(target uint32) BoundFramebuffer
	Check(target uint32) error
	AttachTexture(index int, texture UnboundTexture)
	AttachTextureLevel(index int, texture UnboundTexture, level int)
	BindTargets(attachments ...int)
	// Copies color attachment 0 into the default framebuffer, scaling with linear filtering
	BlitToScreen(width, height int)
	Delete()
}

type BoundFramebuffer interface {
	UnboundFramebuffer
}

func NewFramebuffer() UnboundFramebuffer {
	var id uint32
	gl.CreateFramebuffers(1, &id)
	return &framebuffer{
		glId: id,
	}
}

func (fb *framebuffer) Id() uint32 {
	return fb.glId
}

func (fb *framebuffer) SetDebugLabel(label string) {
	setObjectLabel(gl.FRAMEBUFFER, fb.glId, label)
}

func (fb *framebuffer) BindTargets(indices ...int) {
	attachments := make([]uint32, len(indices))
	for i, v := range indices {
		attachments[i] = uint32(gl.COLOR_ATTACHMENT0 + v)
	}
	gl.NamedFramebufferDrawBuffers(fb.glId, int32(len(attachments)), &attachments[0])
}

var framebufferStatusErrors = map[uint32]string{
	gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:         "an attachment is framebuffer incomplete (GL_FRAMEBUFFER_INCOMPLETE_ATTACHMENT)",
	gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT: "the framebuffer has no attachments (GL_FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT)",
	gl.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER:        "the object type of a draw attachment is none (GL_FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER)",
	gl.FRAMEBUFFER_INCOMPLETE_READ_BUFFER:        "the object type of the read attachment is none (GL_FRAMEBUFFER_INCOMPLETE_READ_BUFFER)",
	gl.FRAMEBUFFER_UNSUPPORTED:                   "the combination of internal formats of the attachments is not supported (GL_FRAMEBUFFER_UNSUPPORTED)",
	gl.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE:        "the attachments have different sampling (GL_FRAMEBUFFER_INCOMPLETE_MULTISAMPLE)",
	gl.FRAMEBUFFER_INCOMPLETE_LAYER_TARGETS:      "layered and non layered attachments are mixed (GL_FRAMEBUFFER_INCOMPLETE_LAYER_TARGETS)",
}

func (fb *framebuffer) Check(target uint32) error {
	status := gl.CheckNamedFramebufferStatus(fb.glId, target)
	if status == gl.FRAMEBUFFER_COMPLETE {
		return nil
	}
	if msg, ok := framebufferStatusErrors[status]; ok {
		return fmt.Errorf("framebuffer %d: %s", fb.glId, msg)
	}
	return fmt.Errorf("framebuffer %d: unknown status: %X", fb.glId, status)
}

func (fb *framebuffer) Bind(target uint32) BoundFramebuffer {
	State.BindFramebuffer(target, fb.glId)
	return fb
}

func (fb *framebuffer) AttachTexture(index int, texture UnboundTexture) {
	fb.AttachTextureLevel(index, texture, 0)
}

func (fb *framebuffer) AttachTextureLevel(index int, texture UnboundTexture, level int) {
	fb.color[index] = texture
	gl.NamedFramebufferTexture(fb.glId, uint32(gl.COLOR_ATTACHMENT0+index), texture.Id(), int32(level))
}

func (fb *framebuffer) BlitToScreen(width, height int) {
	src := fb.color[0]
	if src == nil {
		return
	}
	gl.NamedFramebufferReadBuffer(fb.glId, gl.COLOR_ATTACHMENT0)
	gl.BlitNamedFramebuffer(fb.glId, 0,
		0, 0, int32(src.Width()), int32(src.Height()),
		0, 0, int32(width), int32(height),
		gl.COLOR_BUFFER_BIT, gl.LINEAR)
}

func (fb *framebuffer) Delete() {
	if State.DrawFramebuffer == fb.glId {
		State.DrawFramebuffer = 0
	}
	if State.ReadFramebuffer == fb.glId {
		State.ReadFramebuffer = 0
	}
	gl.DeleteFramebuffers(1, &fb.glId)
	fb.glId = 0
}
