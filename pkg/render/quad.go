package render

import "github.com/go-gl/mathgl/mgl32"

// QuadVertexCount is the number of vertices drawn per pass
const QuadVertexCount = 6

// QuadVertices returns two counter-clockwise triangles covering clip space
func QuadVertices() []mgl32.Vec3 {
	return []mgl32.Vec3{
		{-1, -1, 0},
		{1, -1, 0},
		{1, 1, 0},

		{1, 1, 0},
		{-1, 1, 0},
		{-1, -1, 0},
	}
}

// FullscreenQuad is the shared geometry every pass draws
type FullscreenQuad struct {
	vao VertexArray
}

// NewFullscreenQuad uploads the quad once
func NewFullscreenQuad(device Device) *FullscreenQuad {
	return &FullscreenQuad{vao: device.CreateVertexArray(QuadVertices())}
}

// VertexArray returns the quad's vertex array handle
func (q *FullscreenQuad) VertexArray() VertexArray {
	return q.vao
}
