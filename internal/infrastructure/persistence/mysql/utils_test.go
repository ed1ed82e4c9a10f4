package mysql

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateError(t *testing.T) {
	assert.False(t, isDuplicateError(nil))
	assert.True(t, isDuplicateError(gorm.ErrDuplicatedKey))

	err := errors.New("Error 1062 (23000): Duplicate entry 'alice' for key 'users.idx_users_username'")
	assert.True(t, isDuplicateError(err))
	assert.True(t, duplicateKeyIs(err, "username"))
	assert.False(t, duplicateKeyIs(err, "email"))
	assert.False(t, isDuplicateError(errors.New("connection refused")))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%clean code%", likePattern("  Clean Code "))
	assert.Equal(t, `%50\% off\_%`, likePattern("50% off_"))
}

func TestPaginate(t *testing.T) {
	limit, offset := paginate(3, 12)
	assert.Equal(t, 12, limit)
	assert.Equal(t, 24, offset)

	limit, offset = paginate(0, 0)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 0, offset)

	limit, _ = paginate(1, 1000)
	assert.Equal(t, 100, limit)
}
