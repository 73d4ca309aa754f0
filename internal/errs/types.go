package errs

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

// NotFoundError covers both genuinely absent entities and entities the
// caller is not allowed to know exist.
type NotFoundError struct {
	ErrorMessage
}

// UnauthorizedError is raised when the caller can see that an entity exists
// but does not own it. Only the category path distinguishes this from
// NotFoundError on purpose.
type UnauthorizedError struct {
	ErrorMessage
}

type AlreadyExistsError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

// InsufficientFundsError is a normal business outcome of a wallet debit,
// not an unexpected failure.
type InsufficientFundsError struct {
	ErrorMessage
}

// ExternalServiceError wraps failures of the exchange-rate API or the
// payment gateway. Transient failures map to 503, the rest to 502.
type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
}

type DatabaseError struct {
	ErrorMessage
	Operation string
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewAlreadyExistsError(message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewInsufficientFundsError(message string) *InsufficientFundsError {
	return &InsufficientFundsError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewExternalServiceError(service, message string, transient bool) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Transient:    transient,
	}
}

func NewDatabaseError(operation, message string, cause error) *DatabaseError {
	if cause != nil {
		message = message + ": " + cause.Error()
	}
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
	}
}
