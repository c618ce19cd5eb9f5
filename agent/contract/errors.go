package contract

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateTool           = errors.New("tool already registered")
	ErrUnknownTool             = errors.New("unknown tool")
	ErrInvalidArguments        = errors.New("invalid tool arguments")
	ErrToolExecution           = errors.New("tool execution failed")
	ErrOrderIDConflict         = errors.New("order id conflict")
	ErrOrderCommit             = errors.New("order commit failed")
	ErrClassificationAmbiguous = errors.New("classification ambiguous")
	ErrProductNotFound         = errors.New("product not found")
	ErrValidation              = errors.New("validation failed")
)

// ArgumentError names the offending fields of a rejected tool call so the
// orchestrator can phrase a clarifying question instead of failing the turn.
type ArgumentError struct {
	Tool   string
	Fields []string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid tool arguments: tool=%s fields=%s", e.Tool, strings.Join(e.Fields, ","))
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArguments
}
