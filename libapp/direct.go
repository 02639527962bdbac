package libapp

import (
	"compgraph/assets"
	"compgraph/libgl"
	"compgraph/libutil"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// position, color and normal
const directVertexFloats = 3 + 3 + 3

// Immediate mode triangles for gizmos, collected per frame and drawn at once
type DirectBuffer struct {
	vao       libgl.UnboundVertexArray
	vbo       libgl.UnboundBuffer
	shader    libgl.UnboundShaderPipeline
	data      []float32
	color     mgl32.Vec3
	stroke    float32
	shaded    bool
	autoShade bool
	normal    mgl32.Vec3
}

func NewDirectBuffer() (*DirectBuffer, error) {
	vs, err := assets.Shader("direct.vert")
	if err != nil {
		return nil, err
	}
	fs, err := assets.Shader("direct.frag")
	if err != nil {
		return nil, err
	}
	shader, err := libgl.NewRenderPipeline(vs, fs, nil)
	if err != nil {
		return nil, err
	}

	vao := libgl.NewVertexArray()
	vao.Layout(0, 0, 3, gl.FLOAT, false, 0)
	vao.Layout(0, 1, 3, gl.FLOAT, false, 3*4)
	vao.Layout(0, 2, 3, gl.FLOAT, false, 6*4)
	vbo := libgl.NewBuffer()
	vbo.SetDebugLabel("direct draw")
	vbo.AllocateEmpty(1<<16, gl.DYNAMIC_STORAGE_BIT)
	vao.BindBuffer(0, vbo, 0, directVertexFloats*4)

	return &DirectBuffer{
		vao:    vao,
		vbo:    vbo,
		shader: shader,
		color:  mgl32.Vec3{1, 1, 1},
		stroke: 0.05,
	}, nil
}

func (db *DirectBuffer) Stroke(width float32) {
	db.stroke = width
}

func (db *DirectBuffer) Shaded() {
	db.shaded = true
}

func (db *DirectBuffer) Unshaded() {
	db.shaded = false
}

func (db *DirectBuffer) Color(c mgl32.Vec3) {
	db.color = c
}

// Scales a light color so its brightest channel is one
func (db *DirectBuffer) Light(c mgl32.Vec3) {
	max := math32.Max(math32.Max(c[0], c[1]), c[2])
	if max <= 0 {
		db.color = mgl32.Vec3{}
		return
	}
	db.color = c.Mul(1 / max)
}

func (db *DirectBuffer) Vert(pos mgl32.Vec3) {
	var normal mgl32.Vec3
	if db.shaded {
		normal = db.normal
	}
	db.data = append(db.data, pos[0], pos[1], pos[2], db.color[0], db.color[1], db.color[2], normal[0], normal[1], normal[2])
}

// Number of buffered vertices
func (db *DirectBuffer) Len() int {
	return len(db.data) / directVertexFloats
}

// A--B
// | /
// C
func (db *DirectBuffer) Tri(a, b, c mgl32.Vec3) {
	if db.shaded && db.autoShade {
		db.normal = b.Sub(a).Cross(c.Sub(a)).Normalize()
	}
	db.Vert(a)
	db.Vert(c)
	db.Vert(b)
}

// A--B
// |  |
// C--D
func (db *DirectBuffer) Quad(a, b, c, d mgl32.Vec3) {
	db.Tri(a, b, c)
	db.Tri(d, c, b)
}

// Two crossed quads of the stroke width
func (db *DirectBuffer) Line(a, b mgl32.Vec3) {
	v := b.Sub(a)
	normal := libutil.Perpendicular(v).Normalize().Mul(db.stroke / 2)
	bitangent := normal.Cross(v).Normalize().Mul(db.stroke / 2)
	for _, offset := range []mgl32.Vec3{normal, bitangent} {
		db.Quad(a.Add(offset), b.Add(offset), a.Sub(offset), b.Sub(offset))
	}
}

// Red x, green y and blue z
func (db *DirectBuffer) Axes(origin mgl32.Vec3, length float32) {
	color := db.color
	for i, axis := range []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		var c mgl32.Vec3
		c[i] = 1
		db.Color(c)
		db.Line(origin, origin.Add(axis.Mul(length)))
	}
	db.color = color
}

func (db *DirectBuffer) circleSides(r float32) int {
	return 24 + int(0.6*r)
}

// center, normal, radius
func (db *DirectBuffer) CircleLine(c, n mgl32.Vec3, r float32) {
	s := db.circleSides(r)
	db.normal = n.Normalize()
	r0, r1 := r-db.stroke/2, r+db.stroke/2
	rot := mgl32.HomogRotate3D(2*math32.Pi/float32(s), db.normal).Mat3()
	v0 := libutil.Perpendicular(n).Normalize()
	for i := 0; i < s; i++ {
		v1 := rot.Mul3x1(v0)
		db.Quad(c.Add(v0.Mul(r0)), c.Add(v0.Mul(r1)), c.Add(v1.Mul(r0)), c.Add(v1.Mul(r1)))
		v0 = v1
	}
}

// center, radius
func (db *DirectBuffer) UvSphere(c mgl32.Vec3, r float32) {
	db.autoShade = true
	defer func() { db.autoShade = false }()

	segments := db.circleSides(r)
	rings := segments / 2
	point := func(ring, segment int) mgl32.Vec3 {
		sinTheta, cosTheta := math32.Sincos(math32.Pi * float32(ring) / float32(rings))
		sinPhi, cosPhi := math32.Sincos(-2 * math32.Pi * float32(segment) / float32(segments))
		return c.Add(mgl32.Vec3{r * sinTheta * cosPhi, r * cosTheta, r * sinTheta * sinPhi})
	}
	for ring := 1; ring <= rings; ring++ {
		for segment := 0; segment < segments; segment++ {
			next := (segment + 1) % segments
			db.Quad(point(ring, segment), point(ring, next), point(ring-1, segment), point(ring-1, next))
		}
	}
}

func (db *DirectBuffer) Draw(viewProj mgl32.Mat4) {
	if len(db.data) == 0 {
		return
	}

	if db.vbo.Grow(len(db.data) * 4) {
		db.vao.ReBindBuffer(0, db.vbo)
	}
	db.vbo.Write(0, db.data)

	db.vao.Bind()
	db.shader.Bind()
	db.shader.VertexStage().SetUniform("u_view_projection_mat", viewProj)
	libgl.State.SetEnabled(libgl.DepthTest, libgl.PolygonOffsetFill)
	libgl.State.DepthFunc(libgl.DepthFuncLess)
	libgl.State.DepthMask(true)
	libgl.State.PolygonOffset(-1, -1)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(db.Len()))

	db.Clear()
}

func (db *DirectBuffer) Clear() {
	db.data = db.data[:0]
}

func (db *DirectBuffer) Release() {
	db.shader.Delete()
	db.vao.Delete()
	db.vbo.Delete()
}
