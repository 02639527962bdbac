package libgl

import (
	"crypto/md5"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

var shaderMetaPattern = regexp.MustCompile(`(?m)^\/\/meta:(\w+)(.+)$`)
var shaderDefinePattern = regexp.MustCompile(`(?m)^\s*(\/\/)?\s*#define ([\w\d]+) ?(.*)$`)
var shaderVersionPattern = regexp.MustCompile(`(?m)^\s*#version.+$`)

type shaderPipeline struct {
	glId      uint32
	vertStage ShaderProgram
	fragStage ShaderProgram
	compStage ShaderProgram
}

type UnboundShaderPipeline interface {
	Id() uint32
	Bind() BoundShaderPipeline
	Attach(program ShaderProgram, stages int)
	VertexStage() ShaderProgram
	FragmentStage() ShaderProgram
	ComputeStage() ShaderProgram
	// Deletes the pipeline and all attached programs
	Delete()
}

type BoundShaderPipeline interface {
	UnboundShaderPipeline
}

func NewPipeline() UnboundShaderPipeline {
	var id uint32
	gl.CreateProgramPipelines(1, &id)
	return &shaderPipeline{
		glId: id,
	}
}

func (pipeline *shaderPipeline) Id() uint32 {
	return pipeline.glId
}

func (pipeline *shaderPipeline) Attach(program ShaderProgram, stages int) {
	gl.UseProgramStages(pipeline.glId, uint32(stages), program.Id())
	if stages&gl.VERTEX_SHADER_BIT != 0 {
		pipeline.vertStage = program
	}
	if stages&gl.FRAGMENT_SHADER_BIT != 0 {
		pipeline.fragStage = program
	}
	if stages&gl.COMPUTE_SHADER_BIT != 0 {
		pipeline.compStage = program
	}
}

func (pipeline *shaderPipeline) VertexStage() ShaderProgram {
	return pipeline.vertStage
}

func (pipeline *shaderPipeline) FragmentStage() ShaderProgram {
	return pipeline.fragStage
}

func (pipeline *shaderPipeline) ComputeStage() ShaderProgram {
	return pipeline.compStage
}

func (pipeline *shaderPipeline) Bind() BoundShaderPipeline {
	State.BindProgramPipeline(pipeline.glId)
	return pipeline
}

func (pipeline *shaderPipeline) Delete() {
	for _, stage := range []ShaderProgram{pipeline.vertStage, pipeline.fragStage, pipeline.compStage} {
		if stage != nil {
			stage.Delete()
		}
	}
	if State.ProgramPipeline == pipeline.glId {
		State.ProgramPipeline = 0
	}
	gl.DeleteProgramPipelines(1, &pipeline.glId)
	pipeline.glId = 0
}

// Compiles a vertex and fragment program pair into a pipeline
func NewRenderPipeline(vertexSource, fragmentSource string, defs map[string]string) (UnboundShaderPipeline, error) {
	vsh := NewShader(vertexSource, gl.VERTEX_SHADER)
	if err := vsh.CompileWith(defs); err != nil {
		return nil, fmt.Errorf("could not compile vertex shader %q: %w", vsh.Name(), err)
	}
	fsh := NewShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err := fsh.CompileWith(defs); err != nil {
		vsh.Delete()
		return nil, fmt.Errorf("could not compile fragment shader %q: %w", fsh.Name(), err)
	}
	pipeline := NewPipeline()
	pipeline.Attach(vsh, gl.VERTEX_SHADER_BIT)
	pipeline.Attach(fsh, gl.FRAGMENT_SHADER_BIT)
	return pipeline, nil
}

func NewComputePipeline(source string, defs map[string]string) (UnboundShaderPipeline, error) {
	csh := NewShader(source, gl.COMPUTE_SHADER)
	if err := csh.CompileWith(defs); err != nil {
		return nil, fmt.Errorf("could not compile compute shader %q: %w", csh.Name(), err)
	}
	pipeline := NewPipeline()
	pipeline.Attach(csh, gl.COMPUTE_SHADER_BIT)
	return pipeline, nil
}

// Stores linked program binaries keyed by source and driver.
// Entries expire after MaxAge since a driver update may produce different code.
type ShaderCacheManager struct {
	Disabled bool
	Dir      string
	MaxAge   time.Duration
}

var ShaderCache = &ShaderCacheManager{
	Dir:    ".shadercache",
	MaxAge: 30 * 24 * time.Hour,
}

func (cache *ShaderCacheManager) key(source string) string {
	hasher := md5.New()
	hasher.Write([]byte(source))
	hasher.Write([]byte(gl.GoStr(gl.GetString(gl.VENDOR))))
	hasher.Write([]byte(gl.GoStr(gl.GetString(gl.RENDERER))))
	hasher.Write([]byte(gl.GoStr(gl.GetString(gl.VERSION))))
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

func (cache *ShaderCacheManager) Put(source string, program uint32) {
	if cache.Disabled {
		return
	}
	if err := os.MkdirAll(cache.Dir, 0755); err != nil {
		log.Printf("Could not create shader cache directory: %v\n", err)
		return
	}
	var length int32
	gl.GetProgramiv(program, gl.PROGRAM_BINARY_LENGTH, &length)
	if length == 0 {
		return
	}
	buf := make([]byte, length)
	var format uint32
	gl.GetProgramBinary(program, length, &length, &format, Pointer(buf))

	file, err := os.Create(filepath.Join(cache.Dir, cache.key(source)+".bin"))
	if err != nil {
		log.Printf("Could not write shader cache: %v\n", err)
		return
	}
	defer file.Close()
	binary.Write(file, binary.LittleEndian, format)
	file.Write(buf[:length])
}

func (cache *ShaderCacheManager) Get(source string) (ok bool, buf []byte, format uint32) {
	if cache.Disabled {
		return
	}
	var err error
	defer func() {
		if err != nil {
			log.Printf("Could not read shader cache: %v\n", err)
		}
	}()

	filename := filepath.Join(cache.Dir, cache.key(source)+".bin")
	info, err := os.Stat(filename)
	if errors.Is(err, os.ErrNotExist) {
		err = nil
		return
	} else if err != nil {
		return
	}
	if time.Since(info.ModTime()) > cache.MaxAge {
		os.Remove(filename)
		return
	}

	file, err := os.Open(filename)
	if err != nil {
		return
	}
	defer file.Close()
	if err = binary.Read(file, binary.LittleEndian, &format); err != nil {
		return
	}
	buf, err = io.ReadAll(file)
	if err != nil {
		return
	}
	return true, buf, format
}

type glslDef struct {
	marker  string
	name    string
	value   string
	boolean bool
}

type program struct {
	uniformLocations map[string]int32
	definitions      map[string]glslDef
	versionEnd       int
	glId             uint32
	name             string
	sourceTemplate   string
	stage            int
}

type ShaderProgram interface {
	Id() uint32
	Name() string
	// Overrides #define values, unknown names are inserted after #version
	CompileWith(defs map[string]string) error
	GetUniformLocation(name string) int32
	SetUniform(name string, value any)
	Delete()
}

// Parses //meta:name and #define markers, compilation is deferred
func NewShader(source string, stage int) ShaderProgram {
	name := "untitled"
	for _, match := range shaderMetaPattern.FindAllStringSubmatch(source, -1) {
		if strings.EqualFold(match[1], "name") {
			name = strings.TrimSpace(match[2])
		}
	}

	defineMatches := shaderDefinePattern.FindAllStringSubmatch(source, -1)
	definitions := make(map[string]glslDef, len(defineMatches))
	markers := make(map[string]string, len(defineMatches))
	for i, match := range defineMatches {
		value := strings.TrimSpace(match[3])
		boolean := value == ""
		if boolean && match[1] == "//" {
			value = "false"
		}
		marker := fmt.Sprintf("$def_%v$", i)
		definitions[strings.ToLower(match[2])] = glslDef{
			marker:  marker,
			name:    match[2],
			value:   value,
			boolean: boolean,
		}
		markers[match[0]] = marker
	}
	source = shaderDefinePattern.ReplaceAllStringFunc(source, func(s string) string {
		return markers[s]
	})

	versionEnd := 0
	if loc := shaderVersionPattern.FindStringIndex(source); loc != nil {
		versionEnd = loc[1]
	}

	return &program{
		definitions:    definitions,
		name:           name,
		stage:          stage,
		sourceTemplate: source,
		versionEnd:     versionEnd,
	}
}

func (prog *program) Name() string {
	return prog.name
}

func (def glslDef) line(value string) string {
	if !def.boolean {
		return fmt.Sprintf("#define %v %v", def.name, value)
	}
	if value == "false" {
		return fmt.Sprintf("// #define %v", def.name)
	}
	return fmt.Sprintf("#define %v", def.name)
}

func (prog *program) expand(defs map[string]string) string {
	source := prog.sourceTemplate
	var extra strings.Builder
	for n, v := range defs {
		if def, ok := prog.definitions[strings.ToLower(n)]; ok {
			source = strings.Replace(source, def.marker, def.line(v), 1)
		} else {
			fmt.Fprintf(&extra, "\n#define %v %v", n, v)
		}
	}
	for _, def := range prog.definitions {
		source = strings.Replace(source, def.marker, def.line(def.value), 1)
	}
	return source[:prog.versionEnd] + extra.String() + source[prog.versionEnd:]
}

func (prog *program) CompileWith(defs map[string]string) error {
	source := prog.expand(defs)

	cached := false
	var id uint32
	if ok, buf, format := ShaderCache.Get(source); ok {
		id = gl.CreateProgram()
		gl.ProgramParameteri(id, gl.PROGRAM_SEPARABLE, gl.TRUE)
		gl.ProgramBinary(id, format, Pointer(buf), int32(len(buf)))
		cached = true
	} else {
		cStrs, free := gl.Strs(source + "\x00")
		id = gl.CreateShaderProgramv(uint32(prog.stage), 1, cStrs)
		free()
	}

	var ok int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE && cached {
		// stale binary, the driver rejected it
		gl.DeleteProgram(id)
		ShaderCache.Disabled = true
		err := prog.CompileWith(defs)
		ShaderCache.Disabled = false
		return err
	}
	if ok == gl.FALSE {
		infoLog := readProgramInfoLog(id)
		gl.DeleteProgram(id)
		return fmt.Errorf("failed to link %v shader, log: %v", prog.name, infoLog)
	}

	if prog.glId != 0 {
		gl.DeleteProgram(prog.glId)
	}
	prog.glId = id
	prog.uniformLocations = map[string]int32{}

	if !cached {
		ShaderCache.Put(source, id)
	}

	return nil
}

func (prog *program) Id() uint32 {
	return prog.glId
}

func (prog *program) Delete() {
	gl.DeleteProgram(prog.glId)
	prog.glId = 0
}

func readProgramInfoLog(id uint32) string {
	var logLength int32
	gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)
	infoLog := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(id, logLength, nil, gl.Str(infoLog))
	return strings.TrimRight(infoLog, "\x00")
}

func (prog *program) GetUniformLocation(name string) int32 {
	if location, ok := prog.uniformLocations[name]; ok {
		return location
	}

	location := gl.GetUniformLocation(prog.glId, gl.Str(name+"\x00"))
	prog.uniformLocations[name] = location

	if location == -1 {
		log.Printf("%v shader: could not get location of %q\n", prog.name, name)
	}

	return location
}

func (prog *program) SetUniform(name string, value any) {
	location := prog.GetUniformLocation(name)
	if location == -1 {
		return
	}
	setProgramUniformAny(prog.glId, location, value)
}

func setProgramUniformAny(prog uint32, location int32, value any) {
	for ref := reflect.ValueOf(value); ref.Kind() == reflect.Ptr; ref = reflect.ValueOf(value) {
		value = ref.Elem().Interface()
	}

	switch v := value.(type) {
	case bool:
		if v {
			gl.ProgramUniform1i(prog, location, 1)
		} else {
			gl.ProgramUniform1i(prog, location, 0)
		}
	case float64:
		gl.ProgramUniform1d(prog, location, v)
	case float32:
		gl.ProgramUniform1f(prog, location, v)
	case int:
		gl.ProgramUniform1i(prog, location, int32(v))
	case int32:
		gl.ProgramUniform1i(prog, location, v)
	case uint:
		gl.ProgramUniform1ui(prog, location, uint32(v))
	case uint32:
		gl.ProgramUniform1ui(prog, location, v)
	case mgl32.Vec2:
		gl.ProgramUniform2f(prog, location, v.X(), v.Y())
	case mgl64.Vec2:
		gl.ProgramUniform2d(prog, location, v.X(), v.Y())
	case mgl32.Vec3:
		gl.ProgramUniform3f(prog, location, v.X(), v.Y(), v.Z())
	case mgl64.Vec3:
		gl.ProgramUniform3d(prog, location, v.X(), v.Y(), v.Z())
	case mgl32.Vec4:
		gl.ProgramUniform4f(prog, location, v.X(), v.Y(), v.Z(), v.W())
	case mgl32.Mat3:
		gl.ProgramUniformMatrix3fv(prog, location, 1, false, &v[0])
	case mgl32.Mat4:
		gl.ProgramUniformMatrix4fv(prog, location, 1, false, &v[0])
	case mgl64.Mat4:
		gl.ProgramUniformMatrix4dv(prog, location, 1, false, &v[0])
	default:
		log.Panicf("Unsupported uniform type %T", value)
	}
}
