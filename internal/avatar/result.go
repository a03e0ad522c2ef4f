package avatar

import "aivenger/internal/domain"

// ErrorCode classifies a failed generation attempt for machine consumption.
type ErrorCode string

const (
	CodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	CodeInsufficientCredits ErrorCode = "INSUFFICIENT_CREDITS"
	CodeUploadFailed        ErrorCode = "UPLOAD_FAILED"
	CodeAIGenerationFailed  ErrorCode = "AI_GENERATION_FAILED"
	CodeDatabaseError       ErrorCode = "DATABASE_ERROR"
)

// Result is the discriminated outcome of one generation attempt. Exactly one
// branch is populated: Generation and RemainingCredits on success, Code and
// Message otherwise. Callers are expected to branch on Success.
type Result struct {
	Success          bool
	Generation       *domain.Generation
	RemainingCredits int
	Code             ErrorCode
	Message          string
}

func succeed(gen *domain.Generation, remaining int) Result {
	return Result{Success: true, Generation: gen, RemainingCredits: remaining}
}

func fail(code ErrorCode, message string) Result {
	return Result{Success: false, Code: code, Message: message}
}
