// Package progress derives completion figures and resume points from the
// catalog and a learner's recorded progress. Everything here is pure.
package progress

import (
	"math"

	"github.com/deepsea/deepsea/internal/catalog"
	"github.com/deepsea/deepsea/internal/userstate"
)

// CourseProgress returns the fraction of the course's lessons that are
// completed, in [0, 1]. A course without a record has made no progress.
// Completed ids that are not lessons of the course are ignored.
func CourseProgress(course catalog.Course, progress userstate.UserProgress) float64 {
	rec, ok := progress[course.Key]
	if !ok || len(course.Lessons) == 0 {
		return 0
	}
	done := 0
	for _, l := range course.Lessons {
		if rec.Has(l.ID) {
			done++
		}
	}
	return float64(done) / float64(len(course.Lessons))
}

// Percent converts a ratio to the nearest whole percentage in [0, 100].
func Percent(ratio float64) int {
	if math.IsNaN(ratio) {
		return 0
	}
	p := int(math.Round(ratio * 100))
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// NextLesson returns the lesson to resume from: the first lesson without a
// record, otherwise the first lesson in catalog order that is not completed.
// When every lesson is completed the last lesson is returned again.
// ok is false only for a course with no lessons.
func NextLesson(course catalog.Course, progress userstate.UserProgress) (catalog.Lesson, bool) {
	if len(course.Lessons) == 0 {
		return catalog.Lesson{}, false
	}
	rec, ok := progress[course.Key]
	if !ok {
		return course.Lessons[0], true
	}
	for _, l := range course.Lessons {
		if !rec.Has(l.ID) {
			return l, true
		}
	}
	return course.Lessons[len(course.Lessons)-1], true
}

// IsCompleted reports whether lessonID is completed in the course's record.
func IsCompleted(course catalog.Course, progress userstate.UserProgress, lessonID string) bool {
	return progress[course.Key].Has(lessonID)
}

// Resume is an entry of the recently-studied list.
type Resume struct {
	Course catalog.Course
	Lesson catalog.Lesson
	Ratio  float64
}

// Recent lists the courses whose last-visited lesson resolves to one of
// their own lessons, in the order given.
func Recent(courses []catalog.Course, progress userstate.UserProgress) []Resume {
	var out []Resume
	for _, c := range courses {
		rec, ok := progress[c.Key]
		if !ok || rec.Last == "" {
			continue
		}
		l, found := c.Lesson(rec.Last)
		if !found {
			continue
		}
		out = append(out, Resume{Course: c, Lesson: l, Ratio: CourseProgress(c, progress)})
	}
	return out
}
