package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/diwire/internal/ir"
)

// Load error codes (E001-E009)
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No container files found
	ErrCodeLoadFailed  = "E004" // CUE or YAML load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
)

// LoadError represents an error that occurred while loading a spec
// directory.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadResult is a spec directory merged into one container spec.
type LoadResult struct {
	Spec      *ir.ContainerSpec
	CUEFiles  []string
	YAMLFiles []string
}

// FileCount returns the number of container files that were loaded.
func (r *LoadResult) FileCount() int {
	return len(r.CUEFiles) + len(r.YAMLFiles)
}

// LoadDir loads every container file in dir. The *.cue files form one CUE
// instance and load first; *.yaml and *.yml files follow in name order.
// Services, wiring and moves are concatenated in that order, so a service
// declared twice shows up as a duplicate in Validate.
func LoadDir(dir string) (*LoadResult, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir), Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err), Err: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, yamlFiles, err := FindSpecFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err), Err: err}
	}
	if len(cueFiles) == 0 && len(yamlFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE or YAML files found in %s", dir)}
	}

	result := &LoadResult{
		Spec:      &ir.ContainerSpec{},
		CUEFiles:  cueFiles,
		YAMLFiles: yamlFiles,
	}

	if len(cueFiles) > 0 {
		spec, err := loadCUEDir(dir)
		if err != nil {
			return nil, err
		}
		merge(result.Spec, spec)
	}

	for _, path := range yamlFiles {
		spec, err := LoadYAMLFile(path)
		if err != nil {
			return nil, convertCompileError(err, path)
		}
		merge(result.Spec, spec)
	}

	return result, nil
}

func loadCUEDir(dir string) (*ir.ContainerSpec, error) {
	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err), Err: inst.Err}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err), Err: err}
	}

	spec, err := CompileContainer(value)
	if err != nil {
		return nil, convertCompileError(err, dir)
	}
	return spec, nil
}

func merge(dst, src *ir.ContainerSpec) {
	dst.Services = append(dst.Services, src.Services...)
	dst.Wiring = append(dst.Wiring, src.Wiring...)
	dst.Moves = append(dst.Moves, src.Moves...)
}

// FindSpecFiles returns the CUE and YAML files directly inside dir, sorted
// by name. Subdirectories are not searched, matching what a CUE instance
// load of "." sees.
func FindSpecFiles(dir string) (cueFiles, yamlFiles []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		switch filepath.Ext(entry.Name()) {
		case ".cue":
			cueFiles = append(cueFiles, path)
		case ".yaml", ".yml":
			yamlFiles = append(yamlFiles, path)
		}
	}
	sort.Strings(cueFiles)
	sort.Strings(yamlFiles)
	return cueFiles, yamlFiles, nil
}

// convertCompileError converts a compiler error to a LoadError with
// position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    compileErrorCode(compileErr),
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
			Err:     err,
		}
	}
	return &LoadError{
		Code:    ErrCodeLoadFailed,
		Message: fmt.Sprintf("%s: %v", context, err),
		Err:     err,
	}
}

func compileErrorCode(err *CompileError) string {
	switch {
	case strings.Contains(err.Message, "float"):
		return ErrFloatForbidden
	case strings.Contains(err.Message, "empty service reference"):
		return ErrEmptyReference
	default:
		return ErrCodeGeneric
	}
}
