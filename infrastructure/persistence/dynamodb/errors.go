package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/smithy-go"
	pkgerrors "github.com/gabeliss/tickX/pkg/errors"
)

const codeConditionalCheckFailed = "ConditionalCheckFailedException"

var throttlingCodes = map[string]bool{
	"ProvisionedThroughputExceededException": true,
	"ThrottlingException":                    true,
	"RequestLimitExceeded":                   true,
}

func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

func isConditionalCheckFailed(err error) bool {
	return apiErrorCode(err) == codeConditionalCheckFailed
}

// wrapError converts a DynamoDB failure into an application error.
func wrapError(op, table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.NewTimeoutError(op).WithCause(err).WithDetail("table", table)
	}

	code := apiErrorCode(err)
	if throttlingCodes[code] {
		return pkgerrors.NewUnavailableError("dynamodb").
			WithCause(err).
			WithCode(code).
			WithDetail("table", table)
	}

	appErr := pkgerrors.NewDatabaseError(op, table, err)
	if code != "" {
		appErr.WithCode(code)
	}
	return appErr
}
