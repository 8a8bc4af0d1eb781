package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/makethechange/internal/shared/domain/events"
)

var ProjectPatched = sharedEvents.PatchedEventType(ProjectAggregate)

const ProjectTopic = "project"

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	return map[string]sharedEvents.EventMetadata{
		ProjectPatched: {
			Type:  reflect.TypeOf(sharedEvents.ItemPatched{}),
			Topic: ProjectTopic,
		},
	}
}
