package scope

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/scope.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// Issue is a single failed presence or type check.
type Issue struct {
	Path    string // e.g. "/appName", "/packageJson/dependencies/lodash"
	Message string
}

// ValidationError lists every issue found in a scope document.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		if is.Path == "" {
			parts[i] = is.Message
			continue
		}
		parts[i] = is.Path + ": " + is.Message
	}
	return "invalid scope: " + strings.Join(parts, "; ")
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal scope schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("scope.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("add scope schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("scope.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compile scope schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks a decoded scope document. It returns a *ValidationError
// when the document fails the schema and a plain error when the schema
// itself cannot be loaded.
func Validate(doc any) error {
	schema, err := getSchema()
	if err != nil {
		return err
	}

	// The validator wants its own number representation.
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode scope: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode scope: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate scope: %w", err)
	}

	var issues []Issue
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		issues = []Issue{{Message: ve.Error()}}
	}
	return &ValidationError{Issues: issues}
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]Issue) {
	if len(ve.Causes) > 0 {
		for _, c := range ve.Causes {
			collectIssues(c, issues)
		}
		return
	}
	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	msg := ve.Error()
	if ve.ErrorKind != nil {
		msg = ve.ErrorKind.LocalizedString(printer)
	}
	*issues = append(*issues, Issue{Path: path, Message: msg})
}
