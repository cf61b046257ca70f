package kafka

import (
	"context"
	"testing"

	"github.com/ds124wfegd/avatar-fix/config"
	"github.com/stretchr/testify/assert"
)

func TestNewProducerDisabled(t *testing.T) {
	p := NewProducer(config.KafkaConfig{Enabled: false, Brokers: "localhost:1", Topic: "t"})

	_, ok := p.(*mockProducer)
	assert.True(t, ok)
	assert.NoError(t, p.SendMessage(context.Background(), "k", map[string]int{"a": 1}))
	assert.NoError(t, p.Close())
}
