// Package glview draws a host mesh with OpenGL 4.1, re-uploading its vertex
// buffer whenever the mesh changes.
package glview

import (
	"fmt"
	"image/color"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshburst/internal/host"
	"github.com/Faultbox/meshburst/internal/logger"
	"github.com/Faultbox/meshburst/internal/orbit"
	"github.com/Faultbox/meshburst/pkg/math"
)

const vertexSize = int(unsafe.Sizeof(host.Vertex{}))

// Renderer owns the shader program and the GPU mirror of one host mesh.
type Renderer struct {
	program       uint32
	locMVP        int32
	locColor      int32
	locLightDir   int32
	vao, vbo, ebo uint32

	version  uint64
	layout   uint64
	capacity int // vertices allocated in vbo
	indices  int // indices allocated in ebo

	Palette []color.NRGBA
	log     *zap.Logger
}

// NewRenderer compiles the shaders and creates the buffers. It needs a
// current GL context.
func NewRenderer(palette []color.NRGBA) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}

	program, err := compileProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("compiling mesh shader: %w", err)
	}

	r := &Renderer{
		program:     program,
		locMVP:      uniform(program, "uMVP"),
		locColor:    uniform(program, "uColor"),
		locLightDir: uniform(program, "uLightDir"),
		Palette:     palette,
		log:         logger.Named("glview"),
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)

	gl.BindVertexArray(0)

	r.log.Info("renderer ready", zap.String("gl_version", gl.GoStr(gl.GetString(gl.VERSION))))
	return r, nil
}

// sync uploads m when it changed since the last draw. A layout change
// reallocates the buffers; otherwise the data is rewritten in place.
func (r *Renderer) sync(m *host.Mesh) {
	if m.Version == r.version && m.Layout == r.layout {
		return
	}

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)

	if m.Layout != r.layout || len(m.Vertices) > r.capacity || len(m.Indices) > r.indices {
		gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*vertexSize, pointer(m.Vertices), gl.DYNAMIC_DRAW)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, pointer(m.Indices), gl.DYNAMIC_DRAW)
		r.capacity, r.indices = len(m.Vertices), len(m.Indices)
		r.log.Debug("buffers reallocated", zap.Int("vertices", r.capacity), zap.Int("indices", r.indices))
	} else if len(m.Vertices) > 0 {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(m.Vertices)*vertexSize, unsafe.Pointer(&m.Vertices[0]))
	}

	gl.BindVertexArray(0)
	r.version, r.layout = m.Version, m.Layout
}

// Draw renders every submesh of m with its palette color.
func (r *Renderer) Draw(m *host.Mesh, cam *orbit.Camera, width, height int) {
	r.sync(m)

	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.ClearColor(0.12, 0.12, 0.14, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if len(m.Indices) == 0 || height == 0 {
		return
	}

	mvp := cam.ViewProjection(float32(width) / float32(height))
	light := math.Vec3{X: 0.4, Y: 0.7, Z: 0.6}.Normalize()

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locMVP, 1, false, mvp.Ptr())
	gl.Uniform3f(r.locLightDir, light.X, light.Y, light.Z)

	gl.BindVertexArray(r.vao)
	for i, sm := range m.SubMeshes {
		if sm.IndexCount == 0 {
			continue
		}
		c := r.color(i)
		gl.Uniform4f(r.locColor, float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255)
		gl.DrawElementsWithOffset(gl.TRIANGLES, sm.IndexCount, gl.UNSIGNED_INT, uintptr(sm.StartIndex*4))
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) color(sub int) color.NRGBA {
	if len(r.Palette) == 0 {
		return color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	}
	return r.Palette[sub%len(r.Palette)]
}

// Delete frees the GPU objects.
func (r *Renderer) Delete() {
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteBuffers(1, &r.ebo)
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteProgram(r.program)
}

func pointer[T any](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}
