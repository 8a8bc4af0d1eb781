package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/makethechange/internal/shared/domain/events"
)

var PostPatched = sharedEvents.PatchedEventType(PostAggregate)

const PostTopic = "blog"

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	return map[string]sharedEvents.EventMetadata{
		PostPatched: {
			Type:  reflect.TypeOf(sharedEvents.ItemPatched{}),
			Topic: PostTopic,
		},
	}
}
