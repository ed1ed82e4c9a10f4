package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReview(t *testing.T) {
	r, err := NewReview(1, 2, "Alice", 5, "  very good  ")
	require.NoError(t, err)
	assert.Equal(t, "very good", r.Comment)
	assert.Equal(t, 5, r.Rating)

	_, err = NewReview(1, 2, "Alice", 0, "bad")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = NewReview(1, 2, "Alice", 6, "bad")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = NewReview(1, 2, "Alice", 3, " ")
	assert.ErrorIs(t, err, ErrEmptyComment)
}

func TestAggregate(t *testing.T) {
	assert.Equal(t, Stats{}, Aggregate(nil))

	s := Aggregate([]int{5, 4, 3})
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 4.0, s.Average, 1e-9)

	s = Aggregate([]int{5, 4})
	assert.InDelta(t, 4.5, s.Average, 1e-9)
}
