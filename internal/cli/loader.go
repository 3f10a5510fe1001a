package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/compiler"
	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// LoadMode controls how errors are handled during trigger loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the triggers loaded from a directory.
type LoadResult struct {
	Profiles  []model.Profile // declaration order
	CUEValue  cue.Value       // The raw CUE value for additional processing
	FileCount int             // Number of CUE files found
}

// LoadError represents an error that occurred during trigger loading.
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

// LoadTriggers loads and compiles CUE trigger definitions from a directory.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadTriggers(dir string, mode LoadMode) (*LoadResult, []error) {
	var errs []error

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("triggers directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing triggers directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		Profiles:  []model.Profile{},
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	profiles, compileErrs := compiler.CompileTriggers(value, mode == LoadModeCollectAll)
	result.Profiles = append(result.Profiles, profiles...)
	for _, compileErr := range compileErrs {
		var te *compiler.TriggerError
		if errors.As(compileErr, &te) {
			errs = append(errs, convertCompileError(te.Err, "trigger."+te.Label))
			continue
		}
		errs = append(errs, convertCompileError(compileErr, "triggers"))
	}

	if len(result.Profiles) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no triggers found"})
	}

	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: fmt.Sprintf("%s: %s", context, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeStore       = "E008" // Database open/read/write failed
	ErrCodePass        = "E009" // Engine pass failed
	ErrCodeBadArgument = "E010" // Invalid command argument

	// Trigger compile errors
	ErrCodeTriggerID       = "E110" // id is not a profile id
	ErrCodeTriggerPriority = "E111" // priority is not an integer
	ErrCodeTriggerZones    = "E112" // zones is not a string list
	ErrCodeTriggerVolumes  = "E113" // volumes has a non-number value
	ErrCodeTriggerIgnore   = "E114" // ignore is not a string list
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "id":
		return ErrCodeTriggerID
	case field == "priority":
		return ErrCodeTriggerPriority
	case field == "zones":
		return ErrCodeTriggerZones
	case field == "volumes", strings.HasPrefix(field, "volumes."):
		return ErrCodeTriggerVolumes
	case field == "ignore":
		return ErrCodeTriggerIgnore
	default:
		return ErrCodeGeneric
	}
}
