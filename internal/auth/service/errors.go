package service

import (
	dErrors "intake/pkg/domain-errors"
)

// classifyAuthError folds arbitrary transport and backend failures into the
// four categories the UI layer messages on. Rejections of any 4xx flavor read
// as bad credentials; anything unclassifiable reads as a server-side problem
// rather than blaming the user.
func classifyAuthError(err error) error {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeNetworkUnreachable:
		return dErrors.Wrap(err, dErrors.CodeNetworkUnreachable,
			"unable to connect to server, check your internet connection")
	case dErrors.CodeRateLimited:
		return dErrors.Wrap(err, dErrors.CodeRateLimited,
			"too many login attempts, try again later")
	case dErrors.CodeServerError:
		return dErrors.Wrap(err, dErrors.CodeServerError,
			"server error, try again later")
	case dErrors.CodeUnauthorized, dErrors.CodeForbidden, dErrors.CodeBadRequest,
		dErrors.CodeInvalidCredentials, dErrors.CodeValidation, dErrors.CodeNotFound:
		return &dErrors.Error{
			Code:    dErrors.CodeInvalidCredentials,
			Message: "invalid email or password",
			Err:     err,
		}
	default:
		return dErrors.Wrap(err, dErrors.CodeServerError, "authentication failed")
	}
}
