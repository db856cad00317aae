package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/maxwihlborg/fq/internal/value"
)

// InputFormat names a document encoding the CLI can read.
type InputFormat string

const (
	InputJSON InputFormat = "json"
	InputYAML InputFormat = "yaml"
	InputCUE  InputFormat = "cue"
)

// ValidInputFormats lists the accepted --input-format values.
var ValidInputFormats = []string{string(InputJSON), string(InputYAML), string(InputCUE)}

// Error codes for input loading.
const (
	ErrCodeNotFound     = "INPUT_NOT_FOUND"
	ErrCodeReadFailed   = "INPUT_READ_ERROR"
	ErrCodeDecodeFailed = "INPUT_DECODE_ERROR"
	ErrCodeBuildFailed  = "CUE_BUILD_ERROR"
	ErrCodeNotConcrete  = "CUE_NOT_CONCRETE"
	ErrCodeWriteFailed  = "OUTPUT_WRITE_ERROR"
)

// LoadError represents an error that occurred while reading the input
// document.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// DetectFormat infers the input format from a file extension, defaulting to
// JSON.
func DetectFormat(path string) InputFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return InputYAML
	case ".cue":
		return InputCUE
	default:
		return InputJSON
	}
}

// ParseInputFormat validates a --input-format value. Empty means "infer".
func ParseInputFormat(s string) (InputFormat, error) {
	if s == "" || slices.Contains(ValidInputFormats, s) {
		return InputFormat(s), nil
	}
	return "", fmt.Errorf("invalid input format %q: must be one of %v", s, ValidInputFormats)
}

// ReadInput reads the document at path, or r when path is empty. name is used
// in error positions.
func ReadInput(path string, r io.Reader) (data []byte, name string, err error) {
	if path == "" {
		data, err = io.ReadAll(r)
		if err != nil {
			return nil, "", &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading stdin: %v", err)}
		}
		return data, "<stdin>", nil
	}

	data, err = os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, "", &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("input file not found: %s", path)}
	}
	if err != nil {
		return nil, "", &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}
	return data, path, nil
}

// DecodeInput decodes data in the given format into the value model.
func DecodeInput(data []byte, name string, format InputFormat) (any, error) {
	switch format {
	case InputYAML:
		return decodeYAML(data)
	case InputCUE:
		return decodeCUE(data, name)
	default:
		v, err := value.Decode(data)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: err.Error()}
		}
		return v, nil
	}
}

func decodeYAML(data []byte) (any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("decoding YAML: %v", err)}
	}
	v, err := value.Normalize(raw)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("decoding YAML: %v", err)}
	}
	return v, nil
}

// decodeCUE evaluates a CUE document. The result must be concrete; it is
// exported as JSON and decoded like any JSON input.
func decodeCUE(data []byte, name string) (any, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeNotConcrete, err)
	}

	b, err := v.MarshalJSON()
	if err != nil {
		return nil, cueLoadError(ErrCodeDecodeFailed, err)
	}
	out, err := value.Decode(b)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: err.Error()}
	}
	return out, nil
}

func cueLoadError(code string, err error) *LoadError {
	le := &LoadError{Code: code, Message: err.Error()}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		le.Message = errs[0].Error()
		le.Pos = errs[0].Position()
	}
	return le
}
