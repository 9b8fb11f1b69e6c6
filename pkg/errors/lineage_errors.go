package errors

import (
	"fmt"
	"net/http"
)

// Lineage integrity errors. Both indicate a corrupt write path upstream and are
// surfaced to the caller rather than retried.

// NewDanglingParentError reports an append that references a parent revision
// that does not exist under the subject.
func NewDanglingParentError(subjectID, parentID string) *AppError {
	return &AppError{
		Type:       ErrorTypeDanglingParent,
		Message:    fmt.Sprintf("parent revision %s does not exist in subject %s", parentID, subjectID),
		HTTPStatus: http.StatusUnprocessableEntity,
		StackTrace: captureStackTrace(),
		Details: map[string]interface{}{
			"subject_id": subjectID,
			"parent_id":  parentID,
		},
	}
}

// NewCycleError reports an append whose parent chain loops back onto the new
// revision. Structurally impossible for append-only writes, but checked before
// accepting externally supplied parent links (bulk imports).
func NewCycleError(subjectID, revisionID string) *AppError {
	return &AppError{
		Type:       ErrorTypeCycle,
		Message:    fmt.Sprintf("revision %s would become its own ancestor in subject %s", revisionID, subjectID),
		HTTPStatus: http.StatusUnprocessableEntity,
		StackTrace: captureStackTrace(),
		Details: map[string]interface{}{
			"subject_id":  subjectID,
			"revision_id": revisionID,
		},
	}
}

// IsDanglingParent reports whether err is a dangling-parent integrity error
func IsDanglingParent(err error) bool {
	return IsType(err, ErrorTypeDanglingParent)
}

// IsCycle reports whether err is a cycle integrity error
func IsCycle(err error) bool {
	return IsType(err, ErrorTypeCycle)
}
