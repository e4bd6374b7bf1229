package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialize_RequiresURL(t *testing.T) {
	err := Initialize(Config{})
	assert.Error(t, err)
	assert.Nil(t, Client())
	assert.Error(t, HealthCheck(context.Background()))
	assert.NoError(t, Close())
}
