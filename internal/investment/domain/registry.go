package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/makethechange/internal/shared/domain/events"
)

var InvestmentPatched = sharedEvents.PatchedEventType(InvestmentAggregate)

const InvestmentTopic = "investment"

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	return map[string]sharedEvents.EventMetadata{
		InvestmentPatched: {
			Type:  reflect.TypeOf(sharedEvents.ItemPatched{}),
			Topic: InvestmentTopic,
		},
	}
}
