package kafka

import (
	"errors"
	"fmt"
)

var (
	ErrProducerClosed = errors.New("kafka producer is closed")
	ErrEmptyKey       = errors.New("message key cannot be empty")
	ErrEmptyValue     = errors.New("message value cannot be empty")
	ErrEncodeValue    = errors.New("message value could not be encoded")
)

// PublishError carries the topic and event that failed to leave the process.
type PublishError struct {
	Topic     string
	EventType string
	Err       error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s to %s: %v", e.EventType, e.Topic, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
