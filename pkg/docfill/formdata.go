package docfill

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FormData maps form field keys to scalar values (string, number, bool or
// nil). Keys come from an upstream form system and do not have to match the
// placeholder names of a template verbatim; see Resolve.
type FormData map[string]any

// LoadFormData reads form data from a .json, .yaml or .yml file.
func LoadFormData(path string) (FormData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open form data: %w", err)
	}
	defer f.Close()

	data, err := ParseFormData(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse form data %s: %w", path, err)
	}
	return data, nil
}

// ParseFormData decodes form data; format is a file extension such as
// ".json" or "yaml".
func ParseFormData(r io.Reader, format string) (FormData, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data := FormData{}
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "json", "":
		dec := json.NewDecoder(bytes.NewReader(content))
		dec.UseNumber()
		if err := dec.Decode(&data); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(content, &data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported form data format %q", format)
	}
	if data == nil {
		data = FormData{}
	}
	return data, nil
}

// Clone returns a shallow copy of d.
func (d FormData) Clone() FormData {
	out := make(FormData, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if f, err := val.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			if item != nil {
				parts[i] = stringify(item)
			}
		}
		return strings.Join(parts, ",")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
