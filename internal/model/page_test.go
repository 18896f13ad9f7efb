package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalRecord_HasTech(t *testing.T) {
	t.Parallel()

	rec := SignalRecord{TechKeywords: []string{"react", "graphql"}}

	assert.True(t, rec.HasTech("react"))
	assert.True(t, rec.HasTech("graphql"))
	assert.False(t, rec.HasTech("stripe"))
	assert.False(t, SignalRecord{}.HasTech("react"))
}
