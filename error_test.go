package sitesearch_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/sitesearch"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := sitesearch.Errorf(sitesearch.ENOTFOUND, "no index at %q", "/tmp/idx")

	assert.Equal(t, sitesearch.ENOTFOUND, sitesearch.ErrorCode(err))
	assert.Equal(t, "no index at \"/tmp/idx\"", sitesearch.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitesearch.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitesearch.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("extract: %w", sitesearch.ErrNoTitle)

	assert.Equal(t, sitesearch.EINVALID, sitesearch.ErrorCode(err))
	assert.ErrorIs(t, err, sitesearch.ErrNoTitle)
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, sitesearch.EINTERNAL, sitesearch.ErrorCode(err))
	assert.Equal(t, "Internal error.", sitesearch.ErrorMessage(err))
}
