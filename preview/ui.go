//go:build !tinygo && cgo

package preview

import (
	"image/color"
	"log"
	"math"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/geometry/md3"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/v4.6-core/glgl"

	"github.com/soypat/flowchamber/tess"
)

const vertexSource = `#version 460
in vec3 aPos;
in vec3 aNormal;

uniform vec2 uResolution;
uniform float uYaw;
uniform float uPitch;
uniform float uCamDist;
uniform vec3 uCenter;
uniform float uRadius;

out vec3 vNormal;

void main() {
    vec3 p = aPos - uCenter;
    float cy = cos(uYaw);
    float sy = sin(uYaw);
    float cp = cos(uPitch);
    float sp = sin(uPitch);
    // Yaw spins about world z, pitch tilts about the view x axis. World z
    // stays up on screen.
    mat3 yaw = mat3(cy, sy, 0.0,  -sy, cy, 0.0,  0.0, 0.0, 1.0);
    mat3 pitch = mat3(1.0, 0.0, 0.0,  0.0, cp, sp,  0.0, -sp, cp);
    mat3 rot = pitch * yaw;
    vec3 q = rot * p;
    vNormal = rot * aNormal;

    // Camera at +z looking at the scene center, focal length 1.5.
    float zcam = uCamDist - q.z;
    vec2 ndc = 1.5 * q.xy / zcam;
    ndc.x *= uResolution.y / uResolution.x;
    float depth = -q.z / (uCamDist + uRadius);
    gl_Position = vec4(ndc, depth, 1.0);
}
` + "\x00"

const fragmentSource = `#version 460
in vec3 vNormal;
out vec4 fragColor;

uniform vec4 uColor;
uniform int uFlat;

void main() {
    if (uFlat == 1) {
        fragColor = uColor;
        return;
    }
    vec3 nor = normalize(vNormal);
    float dif = clamp(abs(dot(nor, vec3(0.57703))), 0.0, 1.0);
    float amb = 0.5 + 0.5 * abs(nor.z);
    vec3 col = uColor.rgb * (0.45 * amb + 0.55 * dif);
    fragColor = vec4(sqrt(col), uColor.a);
}
` + "\x00"

// drawBatch is one vertex array with a uniform color.
type drawBatch struct {
	vao   uint32
	count int32
	color [4]float32
	mode  uint32
	flat  int32
}

func ui(s *Scene, cfg UIConfig) error {
	bb := s.Bounds()
	diag := md3.Norm(md3.Sub(bb.Max, bb.Min))
	center := md3.Scale(0.5, md3.Add(bb.Min, bb.Max))
	window, term, err := startGLFW(cfg.Width, cfg.Height, cfg.Title)
	if err != nil {
		log.Fatal(err)
	}
	defer term()

	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vertexSource,
		Fragment: fragmentSource,
	})
	if err != nil {
		return err
	}
	prog.Bind()

	resUniform, err := prog.UniformLocation("uResolution\x00")
	if err != nil {
		return err
	}
	yawUniform, err := prog.UniformLocation("uYaw\x00")
	if err != nil {
		return err
	}
	pitchUniform, err := prog.UniformLocation("uPitch\x00")
	if err != nil {
		return err
	}
	camDistUniform, err := prog.UniformLocation("uCamDist\x00")
	if err != nil {
		return err
	}
	centerUniform, err := prog.UniformLocation("uCenter\x00")
	if err != nil {
		return err
	}
	radiusUniform, err := prog.UniformLocation("uRadius\x00")
	if err != nil {
		return err
	}
	colorUniform, err := prog.UniformLocation("uColor\x00")
	if err != nil {
		return err
	}
	flatUniform, err := prog.UniformLocation("uFlat\x00")
	if err != nil {
		return err
	}
	posAttrib, err := prog.AttribLocation("aPos\x00")
	if err != nil {
		return err
	}
	normAttrib, err := prog.AttribLocation("aNormal\x00")
	if err != nil {
		return err
	}

	// Wireframe first so translucent faces blend over it.
	batches := []drawBatch{{
		vao:   uploadBatch(wireVertices(s.Wire), posAttrib, normAttrib),
		count: int32(2 * len(s.Wire)),
		color: colorVec(colorWire),
		mode:  gl.LINES,
		flat:  1,
	}}
	for _, g := range s.Groups {
		verts := groupVertices(g.Faces)
		batches = append(batches, drawBatch{
			vao:   uploadBatch(verts, posAttrib, normAttrib),
			count: int32(len(verts) / 6),
			color: colorVec(g.Color),
			mode:  gl.TRIANGLES,
		})
	}

	gl.Uniform3f(centerUniform, float32(center.X), float32(center.Y), float32(center.Z))
	gl.Uniform1f(radiusUniform, float32(diag/2))
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	// Mouse orbit state. Camera must stay outside the scene so the
	// minimum dolly distance is the bounding radius.
	minZoom := diag * 0.8
	maxZoom := diag * 10
	var (
		yaw              = 0.6
		pitch            = -0.5
		lastMouseX       float64
		lastMouseY       float64
		camDist          = 2 * diag
		firstMouseMove   = true
		isMousePressed   = false
		yawSensitivity   = 0.005
		pitchSensitivity = 0.005
	)
	window.SetCursorPosCallback(func(w *glfw.Window, xpos float64, ypos float64) {
		if !isMousePressed {
			return
		}
		if firstMouseMove {
			lastMouseX = xpos
			lastMouseY = ypos
			firstMouseMove = false
		}
		deltaX := xpos - lastMouseX
		deltaY := ypos - lastMouseY
		yaw += deltaX * yawSensitivity
		pitch -= deltaY * pitchSensitivity // Invert y-axis

		maxPitch := math.Pi/2 - 0.01
		if pitch > maxPitch {
			pitch = maxPitch
		}
		if pitch < -maxPitch {
			pitch = -maxPitch
		}
		lastMouseX = xpos
		lastMouseY = ypos
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		camDist -= yoff * (camDist*.1 + .01)
		if camDist < minZoom {
			camDist = minZoom
		}
		if camDist > maxZoom {
			camDist = maxZoom
		}
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		switch button {
		case glfw.MouseButtonLeft:
			if action == glfw.Press {
				isMousePressed = true
				firstMouseMove = true
				window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			} else if action == glfw.Release {
				isMousePressed = false
				window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
			}
		}
	})

	ctx := cfg.Context
	for !window.ShouldClose() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		width, height := window.GetSize()
		gl.DepthMask(true)
		gl.ClearColor(1.0, 1.0, 1.0, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		prog.Bind()
		gl.Uniform2f(resUniform, float32(width), float32(height))
		gl.Uniform1f(yawUniform, float32(yaw))
		gl.Uniform1f(pitchUniform, float32(pitch))
		gl.Uniform1f(camDistUniform, float32(camDist))
		for _, b := range batches {
			if b.mode == gl.TRIANGLES {
				// Translucent faces keep depth reads but not writes.
				gl.DepthMask(false)
			}
			gl.Uniform4f(colorUniform, b.color[0], b.color[1], b.color[2], b.color[3])
			gl.Uniform1i(flatUniform, b.flat)
			gl.BindVertexArray(b.vao)
			gl.DrawArrays(b.mode, 0, b.count)
		}
		window.SwapBuffers()

		// Limit frame rate
		time.Sleep(time.Second / 60)
		glfw.PollEvents()
	}
	return nil
}

// uploadBatch uploads interleaved position+normal vertex data and wires
// the attribute layout.
func uploadBatch(verts []float32, posAttrib, normAttrib uint32) (vao uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(verts), gl.Ptr(verts), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(posAttrib)
	gl.VertexAttribPointer(posAttrib, 3, gl.FLOAT, false, 6*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(normAttrib)
	gl.VertexAttribPointer(normAttrib, 3, gl.FLOAT, false, 6*4, gl.PtrOffset(3*4))
	return vao
}

func groupVertices(faces []tess.Face) []float32 {
	tris := Triangulate(faces)
	data := make([]float32, 0, 18*len(tris))
	for _, t := range tris {
		n := ms3.Cross(ms3.Sub(t[1], t[0]), ms3.Sub(t[2], t[0]))
		if ms3.Norm(n) > 0 {
			n = ms3.Unit(n)
		}
		for _, v := range t {
			data = append(data, v.X, v.Y, v.Z, n.X, n.Y, n.Z)
		}
	}
	return data
}

func wireVertices(wire [][2]md3.Vec) []float32 {
	data := make([]float32, 0, 12*len(wire))
	for _, e := range wire {
		for _, v := range e {
			data = append(data, float32(v.X), float32(v.Y), float32(v.Z), 0, 0, 0)
		}
	}
	return data
}

func colorVec(c color.NRGBA) [4]float32 {
	return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

func startGLFW(width, height int, title string) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		log.Fatalln("Failed to initialize GLFW:", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err = glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		log.Fatalln("Failed to create GLFW window:", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		log.Fatalln("Failed to initialize OpenGL:", err)
	}
	return window, glfw.Terminate, err
}
