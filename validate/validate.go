// Command validate checks the message packs in the ../configs directory
// (or the directory given as the first argument). It checks:
//   - YAML structure, rejecting unknown keys
//   - The pack rules enforced at load time (labels, required messages, formats)
//   - That no two entities share a label
//   - That the pack name matches the file name
//
// Optional messages and emoji that are missing are reported as warnings.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/river-crossing-game/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validatePack loads and validates a single pack file
func validatePack(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var pack engine.GamePack
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pack); err != nil && !errors.Is(err, io.EOF) {
		result.fail("Invalid YAML: %v", err)
		return result
	}

	if err := engine.ValidateGamePack(&pack); err != nil {
		result.fail("%v", err)
	}

	// Labels must tell the entities apart
	seen := make(map[string]engine.Entity)
	for _, e := range engine.AllEntities() {
		label := strings.ToLower(strings.TrimSpace(pack.Labels[e]))
		if label == "" {
			continue
		}
		if other, dup := seen[label]; dup {
			result.fail("Duplicate label %q for %s and %s", pack.Labels[e], other, e)
			continue
		}
		seen[label] = e
	}

	stem := strings.TrimSuffix(result.File, filepath.Ext(result.File))
	if pack.Name != "" && !strings.EqualFold(pack.Name, stem) {
		result.fail("Pack name %q does not match file name %q", pack.Name, stem)
	}

	for _, e := range engine.AllEntities() {
		if pack.Emoji[e] == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("emoji.%s not set", e))
		}
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", pack.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Language: %s", pack.Language))
		labels := make([]string, 0, len(engine.AllEntities()))
		for _, e := range engine.AllEntities() {
			labels = append(labels, pack.Label(e))
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Labels: %s", strings.Join(labels, ", ")))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Rules: %d", len(pack.Rules)))
	}

	return result
}

// validateDir validates every *.yaml file in dir and writes a report to w.
// It returns false if any pack is invalid or none was found.
func validateDir(dir string, w io.Writer) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return false, fmt.Errorf("error finding pack files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no packs found in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validatePack(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(w, "  ⚠️  "+warning)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All packs are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some packs have errors")
	}
	return allValid, nil
}

func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	ok, err := validateDir(configDir, os.Stdout)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}
