package batch

import "fmt"

// Key classifies a protocol violation found in a batch body.
type Key string

const (
	InvalidContentType             Key = "INVALID_CONTENT_TYPE"
	InvalidBoundary                Key = "INVALID_BOUNDARY"
	MissingBoundaryDelimiter       Key = "MISSING_BOUNDARY_DELIMITER"
	MissingContentType             Key = "MISSING_CONTENT_TYPE"
	InvalidContentTransferEncoding Key = "INVALID_CONTENT_TRANSFER_ENCODING"
	MissingContentTransferEncoding Key = "MISSING_CONTENT_TRANSFER_ENCODING"
	InvalidStatusLine              Key = "INVALID_STATUS_LINE"
	InvalidHTTPVersion             Key = "INVALID_HTTP_VERSION"
	InvalidContent                 Key = "INVALID_CONTENT"
	MissingBlankLine               Key = "MISSING_BLANK_LINE"
	InvalidHeader                  Key = "INVALID_HEADER"
	MissingCloseDelimiter          Key = "MISSING_CLOSE_DELIMITER"
	InvalidURI                     Key = "INVALID_URI"
	MissingMandatoryHeader         Key = "MISSING_MANDATORY_HEADER"
	ForbiddenHeader                Key = "FORBIDDEN_HEADER"
	InvalidQueryOperationMethod    Key = "INVALID_QUERY_OPERATION_METHOD"
	InvalidChangesetMethod         Key = "INVALID_CHANGESET_METHOD"
)

// Error is the only kind of error the parser reports for a malformed batch. Two errors
// are considered equal by errors.Is when their keys match, so the sentinels below can be
// used for classification regardless of the message.
type Error struct {
	Key     Key
	Message string
}

func newError(key Key, format string, args ...any) error {
	return &Error{
		Key:     key,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *Error) Error() string {
	return "batch: " + string(e.Key) + ": " + e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Key == e.Key
}

var (
	ErrInvalidContentType             = &Error{InvalidContentType, "invalid content type"}
	ErrInvalidBoundary                = &Error{InvalidBoundary, "invalid boundary"}
	ErrMissingBoundaryDelimiter       = &Error{MissingBoundaryDelimiter, "missing boundary delimiter"}
	ErrMissingContentType             = &Error{MissingContentType, "missing content type"}
	ErrInvalidContentTransferEncoding = &Error{InvalidContentTransferEncoding, "invalid content transfer encoding"}
	ErrMissingContentTransferEncoding = &Error{MissingContentTransferEncoding, "missing content transfer encoding"}
	ErrInvalidStatusLine              = &Error{InvalidStatusLine, "invalid status line"}
	ErrInvalidHTTPVersion             = &Error{InvalidHTTPVersion, "invalid http version"}
	ErrInvalidContent                 = &Error{InvalidContent, "invalid content"}
	ErrMissingBlankLine               = &Error{MissingBlankLine, "missing blank line"}
	ErrInvalidHeader                  = &Error{InvalidHeader, "invalid header"}
	ErrMissingCloseDelimiter          = &Error{MissingCloseDelimiter, "missing close delimiter"}
	ErrInvalidURI                     = &Error{InvalidURI, "invalid uri"}
	ErrMissingMandatoryHeader         = &Error{MissingMandatoryHeader, "missing mandatory header"}
	ErrForbiddenHeader                = &Error{ForbiddenHeader, "forbidden header"}
	ErrInvalidQueryOperationMethod    = &Error{InvalidQueryOperationMethod, "invalid query operation method"}
	ErrInvalidChangesetMethod         = &Error{InvalidChangesetMethod, "invalid changeset method"}
)
