// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cassandra

import (
	"context"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	"go.uber.org/yarpc/yarpcerrors"
)

// getGocqlErrorTag gets a error tag for metrics based on gocql error
// We cannot just use err.Error() as a tag because it contains invalid
// characters like = : etc. which will be rejected by M3
func getGocqlErrorTag(err error) string {
	if yarpcerrors.IsAlreadyExists(err) {
		return "already_exists"
	}
	if yarpcerrors.IsNotFound(err) {
		return "not_found"
	}
	switch errors.Cause(err).(type) {
	case *gocql.RequestErrReadFailure:
		return "read_failure"
	case *gocql.RequestErrWriteFailure:
		return "write_failure"
	case *gocql.RequestErrAlreadyExists:
		return "already_exists"
	case *gocql.RequestErrReadTimeout:
		return "read_timeout"
	case *gocql.RequestErrWriteTimeout:
		return "write_timeout"
	case *gocql.RequestErrUnavailable:
		return "unavailable"
	case *gocql.RequestErrFunctionFailure:
		return "function_failure"
	case *gocql.RequestErrUnprepared:
		return "unprepared"
	default:
		return "unknown"
	}
}

// errorCode classifies a driver error into a yarpc status code.
func errorCode(err error) yarpcerrors.Code {
	cause := errors.Cause(err)
	if yarpcerrors.IsStatus(cause) {
		return yarpcerrors.FromError(cause).Code()
	}

	switch cause {
	case context.DeadlineExceeded, gocql.ErrTimeoutNoResponse:
		return yarpcerrors.CodeDeadlineExceeded
	case context.Canceled:
		return yarpcerrors.CodeCancelled
	case gocql.ErrNoConnections, gocql.ErrUnavailable, gocql.ErrSessionClosed:
		return yarpcerrors.CodeUnavailable
	case gocql.ErrNotFound:
		return yarpcerrors.CodeNotFound
	}

	switch cause.(type) {
	case *gocql.RequestErrReadTimeout, *gocql.RequestErrWriteTimeout:
		return yarpcerrors.CodeDeadlineExceeded
	case *gocql.RequestErrUnavailable:
		return yarpcerrors.CodeUnavailable
	case *gocql.RequestErrAlreadyExists:
		return yarpcerrors.CodeAlreadyExists
	}

	if reqErr, ok := cause.(gocql.RequestError); ok {
		switch reqErr.Code() {
		case gocql.ErrCodeOverloaded, gocql.ErrCodeBootstrapping,
			gocql.ErrCodeUnavailable:
			return yarpcerrors.CodeUnavailable
		case gocql.ErrCodeReadTimeout, gocql.ErrCodeWriteTimeout:
			return yarpcerrors.CodeDeadlineExceeded
		case gocql.ErrCodeAlreadyExists:
			return yarpcerrors.CodeAlreadyExists
		case gocql.ErrCodeSyntax, gocql.ErrCodeInvalid, gocql.ErrCodeConfig:
			return yarpcerrors.CodeInvalidArgument
		case gocql.ErrCodeUnauthorized, gocql.ErrCodeCredentials:
			return yarpcerrors.CodePermissionDenied
		}
	}
	return yarpcerrors.CodeInternal
}

// translateError converts a driver error into a yarpc status error
// carrying the original message. Status errors pass through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if yarpcerrors.IsStatus(err) {
		return err
	}
	return yarpcerrors.Newf(errorCode(err), "%v", err)
}
