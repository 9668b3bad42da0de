package shared

// Task types
const (
	TypeBackfillThoughtTags = "thought:backfill_tags"
)

// Queue names
const (
	QueueDefault = "default"
	QueueThought = "thought"
)

// Queues maps queue names to asynq priorities
var Queues = map[string]int{
	QueueThought: 6,
	QueueDefault: 3,
}
