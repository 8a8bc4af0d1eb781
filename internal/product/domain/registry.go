package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/makethechange/internal/shared/domain/events"
)

var ProductPatched = sharedEvents.PatchedEventType(ProductAggregate)

const ProductTopic = "product"

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	return map[string]sharedEvents.EventMetadata{
		ProductPatched: {
			Type:  reflect.TypeOf(sharedEvents.ItemPatched{}),
			Topic: ProductTopic,
		},
	}
}
