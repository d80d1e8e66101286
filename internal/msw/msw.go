package msw

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// Magic identifies an MSW file.
var Magic = [4]byte{'M', 'S', 'W', 0}

// FormatVersion is the version written by this package.
const FormatVersion uint16 = 1

// Extension is the file extension of MSW artifacts.
const Extension = ".msw"

const (
	preambleSize     = 8
	shaderSetHdrSize = 24
	checksumSize     = 32
	maxShaders       = 255
)

// ErrChecksum is returned when a file's trailing checksum does not match.
var ErrChecksum = errors.New("msw: checksum mismatch")

// FileType says what the header record describes.
type FileType uint8

const (
	FileTypeShader    FileType = 0
	FileTypeShaderSet FileType = 1
)

func (t FileType) String() string {
	switch t {
	case FileTypeShader:
		return "shader"
	case FileTypeShaderSet:
		return "shaderset"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// ShaderSetHeader is the fixed header record of a shaderset artifact.
type ShaderSetHeader struct {
	PixelShader             uint64
	VertexShader            uint64
	NumPixelShaderTextures  uint16
	NumVertexShaderTextures uint16
	NumSamplers             uint16
	FirstResourceBindPoint  uint8
	NumResources            uint8
}

// Shader is one inlined shader payload.
type Shader struct {
	GUID uint64
	Data []byte
}

// File is a decoded MSW file.
type File struct {
	Version   uint16
	Type      FileType
	ShaderSet *ShaderSetHeader
	Shaders   []Shader
	Checksum  [32]byte
}

// Writer assembles one MSW file.
type Writer struct {
	fileType  FileType
	shaderSet *ShaderSetHeader
	shaders   []Shader
}

// NewWriter creates a writer for the given file type.
func NewWriter(fileType FileType) *Writer {
	return &Writer{fileType: fileType}
}

// AddShader appends a shader payload. Payloads are written in call order.
func (w *Writer) AddShader(s Shader) {
	w.shaders = append(w.shaders, s)
}

// SetShaderSetHeader sets the header record of a shaderset file.
func (w *Writer) SetShaderSetHeader(h ShaderSetHeader) {
	w.shaderSet = &h
}

// Encode serializes the file.
func (w *Writer) Encode() ([]byte, error) {
	if w.fileType == FileTypeShaderSet && w.shaderSet == nil {
		return nil, fmt.Errorf("msw: shaderset file without shaderset header")
	}
	if w.fileType != FileTypeShaderSet && w.shaderSet != nil {
		return nil, fmt.Errorf("msw: shaderset header on %s file", w.fileType)
	}
	if len(w.shaders) > maxShaders {
		return nil, fmt.Errorf("msw: %d shaders exceeds limit of %d", len(w.shaders), maxShaders)
	}

	size := preambleSize + checksumSize
	if w.shaderSet != nil {
		size += shaderSetHdrSize
	}
	for _, s := range w.shaders {
		size += 12 + len(s.Data)
	}

	buf := make([]byte, 0, size)
	buf = append(buf, Magic[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, FormatVersion)
	buf = append(buf, uint8(w.fileType), uint8(len(w.shaders)))

	if h := w.shaderSet; h != nil {
		buf = binary.LittleEndian.AppendUint64(buf, h.PixelShader)
		buf = binary.LittleEndian.AppendUint64(buf, h.VertexShader)
		buf = binary.LittleEndian.AppendUint16(buf, h.NumPixelShaderTextures)
		buf = binary.LittleEndian.AppendUint16(buf, h.NumVertexShaderTextures)
		buf = binary.LittleEndian.AppendUint16(buf, h.NumSamplers)
		buf = append(buf, h.FirstResourceBindPoint, h.NumResources)
	}

	for _, s := range w.shaders {
		buf = binary.LittleEndian.AppendUint64(buf, s.GUID)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.Data)))
		buf = append(buf, s.Data...)
	}

	sum := blake3.Sum256(buf)
	buf = append(buf, sum[:]...)
	return buf, nil
}

// WriteFile encodes the file and writes it to path atomically. The parent
// directory must already exist. On failure nothing is left at path.
func (w *Writer) WriteFile(path string) error {
	data, err := w.Encode()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".msw-*")
	if err != nil {
		return fmt.Errorf("msw: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("msw: write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("msw: sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("msw: close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("msw: rename to %s: %w", path, err)
	}
	return nil
}

// ReadFile reads and decodes an MSW file.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("msw: %w", err)
	}
	return Decode(data)
}

// Decode parses an MSW file and verifies its checksum.
func Decode(data []byte) (*File, error) {
	if len(data) < preambleSize+checksumSize {
		return nil, fmt.Errorf("msw: file too short (%d bytes)", len(data))
	}
	if !bytes.Equal(data[:4], Magic[:]) {
		return nil, fmt.Errorf("msw: bad magic %q", data[:4])
	}

	body := data[:len(data)-checksumSize]
	var f File
	copy(f.Checksum[:], data[len(body):])
	if blake3.Sum256(body) != f.Checksum {
		return nil, ErrChecksum
	}

	f.Version = binary.LittleEndian.Uint16(body[4:6])
	if f.Version != FormatVersion {
		return nil, fmt.Errorf("msw: unsupported version %d", f.Version)
	}
	f.Type = FileType(body[6])
	count := int(body[7])
	rest := body[preambleSize:]

	if f.Type == FileTypeShaderSet {
		if len(rest) < shaderSetHdrSize {
			return nil, fmt.Errorf("msw: truncated shaderset header")
		}
		f.ShaderSet = &ShaderSetHeader{
			PixelShader:             binary.LittleEndian.Uint64(rest[0:8]),
			VertexShader:            binary.LittleEndian.Uint64(rest[8:16]),
			NumPixelShaderTextures:  binary.LittleEndian.Uint16(rest[16:18]),
			NumVertexShaderTextures: binary.LittleEndian.Uint16(rest[18:20]),
			NumSamplers:             binary.LittleEndian.Uint16(rest[20:22]),
			FirstResourceBindPoint:  rest[22],
			NumResources:            rest[23],
		}
		rest = rest[shaderSetHdrSize:]
	}

	for i := 0; i < count; i++ {
		if len(rest) < 12 {
			return nil, fmt.Errorf("msw: truncated shader %d header", i)
		}
		guid := binary.LittleEndian.Uint64(rest[0:8])
		n := int(binary.LittleEndian.Uint32(rest[8:12]))
		rest = rest[12:]
		if len(rest) < n {
			return nil, fmt.Errorf("msw: truncated shader %d payload", i)
		}
		f.Shaders = append(f.Shaders, Shader{GUID: guid, Data: bytes.Clone(rest[:n])})
		rest = rest[n:]
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("msw: %d trailing bytes", len(rest))
	}
	return &f, nil
}
