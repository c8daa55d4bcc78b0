package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinels_MatchThroughWrapping(t *testing.T) {
	cause := errors.New("exit status 1")
	err := fmt.Errorf("%w: %w", ErrTranscodeFailed, cause)

	assert.ErrorIs(t, err, ErrTranscodeFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrPersistFailed)
}

func TestSentinels_AreDistinct(t *testing.T) {
	all := []error{ErrorNotFound, ErrDuplicateID, ErrInvalidInput, ErrStagingFailed, ErrTranscodeFailed, ErrPersistFailed}
	for i := range all {
		for j := range all {
			if i != j && errors.Is(all[i], all[j]) {
				t.Fatalf("%v must not match %v", all[i], all[j])
			}
		}
	}
}
