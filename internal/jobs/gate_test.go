// SPDX-License-Identifier: MIT
package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateIsPerRoot(t *testing.T) {
	g := newGate()

	assert.True(t, g.acquire("/media"))
	assert.False(t, g.acquire("/media"), "same root must be refused")
	assert.True(t, g.acquire("/other"), "distinct roots are independent")

	g.release("/media")
	assert.True(t, g.acquire("/media"), "released root is available again")
}
