package vault

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/benpeter/obsidian-mcp-server-sub001/pkg/obsidian"
)

func TestClassify_TaggedNotFound(t *testing.T) {
	err := Classify("stat a.md", &obsidian.ErrorResponse{
		StatusCode: http.StatusNotFound,
		Message:    "File does not exist",
	})
	assert.Equal(t, KindNotFound, err.Kind)
	assert.True(t, IsNotFound(err))
}

func TestClassify_TaggedServerError(t *testing.T) {
	err := Classify("search", &obsidian.ErrorResponse{
		StatusCode: http.StatusInternalServerError,
		Message:    "internal error",
	})
	assert.Equal(t, KindUnavailable, err.Kind)
}

func TestClassify_OpaqueNotFoundByMessage(t *testing.T) {
	assert.True(t, IsNotFound(Classify("stat", errors.New("file not found"))))
	assert.True(t, IsNotFound(Classify("stat", errors.New("Note Does Not Exist"))))
}

func TestClassify_OpaqueCommunicationFault(t *testing.T) {
	err := Classify("search", errors.New("connection refused"))
	assert.Equal(t, KindUnavailable, err.Kind)
	assert.True(t, IsUnavailable(err))
}

func TestClassify_AlreadyClassifiedPassesThrough(t *testing.T) {
	orig := &Error{Kind: KindConflict, Op: "resolve", Matches: []string{"A.md", "a.md"}}
	got := Classify("other op", fmt.Errorf("wrapped: %w", orig))
	assert.Same(t, orig, got)
}

func TestError_MessageIncludesOp(t *testing.T) {
	err := &Error{Kind: KindNotFound, Op: "resolve", Message: "gone"}
	assert.Equal(t, "resolve: gone", err.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := Classify("search", cause)
	assert.ErrorIs(t, err, cause)
}
