package stocklog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeductLog(t *testing.T) {
	l := NewDeductLog(1, 3, 5, 9)
	assert.Equal(t, ChangeTypeDeduct, l.ChangeType)
	assert.Equal(t, -3, l.Quantity)
	assert.Equal(t, 2, l.AfterStock)
	assert.Equal(t, uint(9), l.OrderID)
}

func TestNewReleaseLog(t *testing.T) {
	l := NewReleaseLog(1, 3, 2, 9, "用户取消")
	assert.Equal(t, ChangeTypeRelease, l.ChangeType)
	assert.Equal(t, 3, l.Quantity)
	assert.Equal(t, 5, l.AfterStock)
	assert.Equal(t, "用户取消", l.Remark)
}

func TestNewAdminLog(t *testing.T) {
	assert.Nil(t, NewAdminLog(1, 5, 5, 1))

	up := NewAdminLog(1, 5, 8, 1)
	require.NotNil(t, up)
	assert.Equal(t, ChangeTypeRestock, up.ChangeType)
	assert.Equal(t, 3, up.Quantity)

	down := NewAdminLog(1, 5, 2, 1)
	require.NotNil(t, down)
	assert.Equal(t, ChangeTypeAdjust, down.ChangeType)
	assert.Equal(t, -3, down.Quantity)
}
