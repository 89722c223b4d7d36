// Package source decodes the values the command line tool dumps: data
// files in a handful of formats and the result rows of SQL queries.
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format is a data file encoding.
type Format string

const (
	JSON    Format = "json"
	YAML    Format = "yaml"
	TOML    Format = "toml"
	MsgPack Format = "msgpack"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, YAML, TOML, MsgPack}

var (
	// ErrUnknownFormat is returned when no decoder exists for a format.
	ErrUnknownFormat = errors.New("source: unknown format")
	// ErrDecode is returned when the input is not valid in its format.
	ErrDecode = errors.New("source: decode failed")
)

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case JSON, YAML, TOML, MsgPack:
		return f, nil
	case "yml":
		return YAML, nil
	case "mp", "mpk":
		return MsgPack, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, s)
}

// FormatOf guesses the format of path from its extension.
func FormatOf(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Load reads and decodes the file at path. An empty format is guessed
// from the extension.
func Load(path string, format Format) (any, error) {
	if format == "" {
		var err error
		if format, err = FormatOf(path); err != nil {
			return nil, err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	v, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Decode reads one value from r. Integers decode as int64 and other
// numbers as float64 whatever the format; maps have string keys where the
// format allows nothing else.
func Decode(r io.Reader, format Format) (any, error) {
	var (
		v   any
		err error
	)
	switch format {
	case JSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		err = dec.Decode(&v)
	case YAML:
		err = yaml.NewDecoder(r).Decode(&v)
		if errors.Is(err, io.EOF) {
			v, err = nil, nil
		}
	case TOML:
		var m map[string]any
		_, err = toml.NewDecoder(r).Decode(&m)
		v = m
	case MsgPack:
		dec := msgpack.NewDecoder(r)
		dec.UseLooseInterfaceDecoding(true)
		v, err = dec.DecodeInterface()
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, format, err)
	}
	return normalize(v), nil
}

// normalize converts the numeric types the decoders produce to int64 and
// float64, and maps with only string keys to map[string]any.
func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case float32:
		return float64(x)
	case []any:
		for i := range x {
			x[i] = normalize(x[i])
		}
		return x
	case []map[string]any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = normalize(x[i])
		}
		return out
	case map[string]any:
		for k := range x {
			x[k] = normalize(x[k])
		}
		return x
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			x[k] = normalize(e)
			if s, ok := k.(string); ok {
				out[s] = x[k]
			}
		}
		if len(out) == len(x) {
			return out
		}
		return x
	}
	return v
}
