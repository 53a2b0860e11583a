package models

// AppError доменная ошибка с машинно-читаемым кодом
type AppError struct {
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrNotFound          = &AppError{Code: "NOT_FOUND", Message: "record not found"}
	ErrApproverRequired  = &AppError{Code: "APPROVER_REQUIRED", Message: "approver name is required"}
	ErrInvalidStatus     = &AppError{Code: "INVALID_STATUS", Message: "invalid status"}
	ErrInvalidTransition = &AppError{Code: "INVALID_TRANSITION", Message: "status transition not allowed"}
	ErrVendorNotAssigned = &AppError{Code: "VENDOR_NOT_ASSIGNED", Message: "vendor has no approved match for this requisition"}
	ErrNegativeAmount    = &AppError{Code: "NEGATIVE_AMOUNT", Message: "amount must not be negative"}
	ErrInvalidBid        = &AppError{Code: "INVALID_BID", Message: "invalid bid"}
	ErrMalformedDraft    = &AppError{Code: "MALFORMED_DRAFT", Message: "malformed requisition draft"}
	ErrLLMUnavailable    = &AppError{Code: "LLM_UNAVAILABLE", Message: "text generation service failed"}
	ErrLLMDisabled       = &AppError{Code: "LLM_DISABLED", Message: "text generation is disabled"}
	ErrConflict          = &AppError{Code: "CONFLICT", Message: "conflicting write"}
	ErrInvalidInput      = &AppError{Code: "INVALID_INPUT", Message: "invalid input"}
)
