package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToastExpiry(t *testing.T) {
	tst := newToast("saved", toastSuccess)
	now := time.Now()
	assert.True(t, tst.active(now))
	assert.False(t, tst.active(now.Add(toastDuration+time.Second)))
}

func TestEmptyToastInactive(t *testing.T) {
	var tst toast
	assert.False(t, tst.active(time.Now()))
}
