package aztools

import (
	"fmt"
)

type ErrorType string

const (
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
	ErrorTypePolicyDenied    ErrorType = "policy_denied"
	ErrorTypeNotConfigured   ErrorType = "not_configured"
	ErrorTypeSizeLimit       ErrorType = "size_limit"
	ErrorTypeAuth            ErrorType = "auth_failed"
)

// ToolError is raised locally, before or instead of a call to Azure.
// Errors returned by the Azure SDK are never wrapped in a ToolError.
type ToolError struct {
	Type     ErrorType
	Message  string
	Argument string
	Context  map[string]any
}

func (e *ToolError) Error() string {
	if e.Argument != "" {
		return fmt.Sprintf("[%s] %s (argument: %s)", e.Type, e.Message, e.Argument)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func NewToolError(errType ErrorType, message string, argument string) *ToolError {
	return &ToolError{
		Type:     errType,
		Message:  message,
		Argument: argument,
		Context:  make(map[string]any),
	}
}

func (e *ToolError) WithContext(key string, value any) *ToolError {
	e.Context[key] = value
	return e
}
