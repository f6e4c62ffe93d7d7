package models

import "errors"

// Model validation and operation errors
var (
	// General errors
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")

	// User errors
	ErrUserNotFound        = errors.New("user not found")
	ErrUserDeleted         = errors.New("user has been deleted")
	ErrUserInactive        = errors.New("user is inactive")
	ErrEmployeeIDExists    = errors.New("employee ID already exists")
	ErrInvalidUserRole     = errors.New("invalid user role")
	ErrInvalidCredentials  = errors.New("invalid employee ID or password")
	ErrRoleNotManageable   = errors.New("role cannot be managed by the requesting user")
	ErrLastAdmin           = errors.New("cannot demote or delete the last admin")
	ErrSelfDelete          = errors.New("users cannot delete their own account")
	ErrProtectedAccount    = errors.New("account is protected and cannot be modified")
	ErrInvalidOrgUnit      = errors.New("org unit does not match any known hierarchy chain")
	ErrOrgUnitOutsideScope = errors.New("org unit lies outside the requesting user's scope")
	ErrIncompleteOrgUnit   = errors.New("org unit is incomplete for the requested role")

	// Survey errors
	ErrSurveyNotFound    = errors.New("survey not found")
	ErrInvalidPeriod     = errors.New("period must be in YYYY-MM format")
	ErrInvalidLevel      = errors.New("level must be one of zone, region, city, branch")
	ErrLevelMismatch     = errors.New("users may only submit surveys for their own level")
	ErrAdminCannotSubmit = errors.New("admin accounts review surveys but do not submit them")
	ErrUnknownQuestion   = errors.New("question ID is not part of the framework for this level")
	ErrResponseNotFound  = errors.New("response not found")

	// Task errors
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// Comment errors
	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyComment    = errors.New("comment text cannot be empty")

	// Feedback errors
	ErrFeedbackNotFound = errors.New("feedback not found")

	// Audit log errors
	ErrAuditLogNotFound = errors.New("audit log not found")
)

// IsNotFoundError returns true if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrSurveyNotFound) ||
		errors.Is(err, ErrResponseNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrFeedbackNotFound) ||
		errors.Is(err, ErrAuditLogNotFound)
}

// IsValidationError returns true if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidUserRole) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidLevel) ||
		errors.Is(err, ErrUnknownQuestion) ||
		errors.Is(err, ErrInvalidTaskStatus) ||
		errors.Is(err, ErrEmptyComment) ||
		errors.Is(err, ErrIncompleteOrgUnit) ||
		errors.Is(err, ErrInvalidOrgUnit)
}

// IsAuthError returns true if the error is an authentication/authorization error
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrUserInactive) ||
		errors.Is(err, ErrUserDeleted) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrRoleNotManageable) ||
		errors.Is(err, ErrLevelMismatch) ||
		errors.Is(err, ErrAdminCannotSubmit) ||
		errors.Is(err, ErrOrgUnitOutsideScope) ||
		errors.Is(err, ErrProtectedAccount) ||
		errors.Is(err, ErrSelfDelete) ||
		errors.Is(err, ErrLastAdmin)
}

// IsConflictError returns true if the error is a conflict/duplicate error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrEmployeeIDExists)
}
