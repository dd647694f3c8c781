package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInvalidDateFormat   = NewDomainError("INVALID_DATE_FORMAT", "Date does not match any accepted format")
	ErrIndexOutOfRange     = NewDomainError("INDEX_OUT_OF_RANGE", "Position is outside the item list")
	ErrUnknownAction       = NewDomainError("UNKNOWN_ACTION", "Action not recognized for the current step")
	ErrResolverUnavailable = NewDomainError("RESOLVER_UNAVAILABLE", "Reference data backend is unavailable")
	ErrNoStagedItem        = NewDomainError("NO_STAGED_ITEM", "No item staged for quantity entry")
)
