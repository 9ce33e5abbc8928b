package assets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/kdframe/internal/engine/model"
)

// ErrUnknownFormat is returned for a file extension with no decoder.
var ErrUnknownFormat = errors.New("assets: unknown scene format")

// Format is a scene file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatMsgpack
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// IsSceneFile reports whether path has a known scene extension.
func IsSceneFile(path string) bool {
	_, err := FormatOf(path)
	return err == nil
}

// DecodeScene reads a scene in the given format.
func DecodeScene(r io.Reader, f Format) (*model.Scene, error) {
	var scene model.Scene
	switch f {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&scene); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&scene); err != nil {
			return nil, fmt.Errorf("decoding msgpack: %w", err)
		}
	default:
		return nil, ErrUnknownFormat
	}
	return &scene, nil
}

// LoadScene reads and decodes a scene file.
func LoadScene(path string) (*model.Scene, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return DecodeScene(file, f)
}

// LoadData reads a scene file and builds the model.
func LoadData(path string) (*model.Data, error) {
	scene, err := LoadScene(path)
	if err != nil {
		return nil, err
	}
	data, err := model.NewData(scene)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", path, err)
	}
	return data, nil
}

// EncodeMsgpack writes scene in the compact binary format.
func EncodeMsgpack(w io.Writer, scene *model.Scene) error {
	return msgpack.NewEncoder(w).Encode(scene)
}

// EncodeYAML writes scene as YAML.
func EncodeYAML(w io.Writer, scene *model.Scene) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(scene); err != nil {
		return err
	}
	return enc.Close()
}
