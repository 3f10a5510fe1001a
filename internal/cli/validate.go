package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Triggers int                        `json:"triggers"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <triggers-dir>",
		Short: "Validate CUE trigger definitions without storing them",
		Long: `Compile and check CUE trigger definitions.

Reports every compile error and validation finding. Warnings (duplicate
zone labels, channels both set and ignored, blank zones) do not fail
validation. Channels are checked against the configured channel names.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := opts.settings()
	if err != nil {
		return err
	}

	loadResult, loadErrors := LoadTriggers(dir, LoadModeCollectAll)

	// Directory not found, no files, CUE build failure
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputValidateError(formatter, ErrCodeGeneric, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	var findings []compiler.ValidationError
	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			findings = append(findings, compiler.ValidationError{
				Field:   "load",
				Message: loadErr.Error(),
				Code:    loadErr.Code,
			})
		}
	}

	for _, p := range loadResult.Profiles {
		formatter.VerboseLog("Validating trigger: %s", p.Name)
		findings = append(findings, compiler.Validate(p, cfg.Channels.Names)...)
	}

	result := ValidationResult{
		Valid:    !compiler.HasErrors(findings),
		Triggers: len(loadResult.Profiles),
		Errors:   findings,
	}
	return outputValidation(formatter, result)
}

// outputValidateError outputs a single command-level error (exit code 2).
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	return formatter.Fail(ExitCommandError, code, message, nil)
}

// outputValidation outputs findings. Errors exit with code 1; warnings alone
// do not fail.
func outputValidation(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		response := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			first := result.Errors[firstError(result.Errors)]
			response.Status = "error"
			response.Error = &CLIError{Code: first.Code, Message: first.Message}
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		if result.Valid {
			fmt.Fprintf(w, "✓ %d trigger(s) valid\n", result.Triggers)
		} else {
			fmt.Fprintln(w, "✗ Validation failed")
		}
		for _, v := range result.Errors {
			fmt.Fprintf(w, "  %s\n", v.Error())
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d finding(s)", len(result.Errors)))
	}
	return nil
}
