package outbox

import (
	"encoding/json"
	"reflect"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"

	"github.com/ThreeDotsLabs/eventful/domain"
)

// Marshaler serializes events into outbox entry payloads.
type Marshaler interface {
	Marshal(event interface{}) ([]byte, error)
	Name(event interface{}) string
}

// JSONMarshaler is the default Marshaler, serializing events to JSON.
type JSONMarshaler struct{}

func (JSONMarshaler) Marshal(event interface{}) ([]byte, error) {
	return json.Marshal(event)
}

func (JSONMarshaler) Name(event interface{}) string {
	return domain.EventName(event)
}

// ProtoMarshaler serializes events implementing proto.Message
// with Protocol Buffers.
type ProtoMarshaler struct{}

// NoProtoMessageError is returned when the given event does not implement proto.Message.
type NoProtoMessageError struct {
	v interface{}
}

func (e NoProtoMessageError) Error() string {
	rv := reflect.ValueOf(e.v)
	if rv.Kind() != reflect.Ptr {
		return "v is not proto.Message, you must pass pointer value to implement proto.Message"
	}

	return "v is not proto.Message"
}

func (ProtoMarshaler) Marshal(event interface{}) ([]byte, error) {
	protoMsg, ok := event.(proto.Message)
	if !ok {
		return nil, errors.WithStack(NoProtoMessageError{event})
	}

	return proto.Marshal(protoMsg)
}

func (ProtoMarshaler) Name(event interface{}) string {
	return domain.EventName(event)
}
