package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// StateEntriesColumns holds the columns for the "user_state_entries" table.
	StateEntriesColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString, Unique: true},
		{Name: "value", Type: field.TypeString, Size: 2147483647},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// StateEntriesTable holds one serialized blob per key.
	StateEntriesTable = &schema.Table{
		Name:       "user_state_entries",
		Columns:    StateEntriesColumns,
		PrimaryKey: []*schema.Column{StateEntriesColumns[0]},
	}
	// LearningEventsColumns holds the columns for the "learning_events" table.
	LearningEventsColumns = []*schema.Column{
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "action", Type: field.TypeString},
		{Name: "course_key", Type: field.TypeString},
		{Name: "lesson_id", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	// LearningEventsTable is the append-only activity journal.
	LearningEventsTable = &schema.Table{
		Name:       "learning_events",
		Columns:    LearningEventsColumns,
		PrimaryKey: []*schema.Column{LearningEventsColumns[0]},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		StateEntriesTable,
		LearningEventsTable,
	}
)

const (
	columnKey       = "key"
	columnValue     = "value"
	columnUpdatedAt = "updated_at"

	columnSequence  = "sequence"
	columnAction    = "action"
	columnCourseKey = "course_key"
	columnLessonID  = "lesson_id"
	columnCreatedAt = "created_at"
)
