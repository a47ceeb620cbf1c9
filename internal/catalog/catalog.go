// Package catalog holds the static course catalog and page content.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Lesson is a single lesson within a course.
type Lesson struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Duration string `yaml:"duration"` // display only
}

// Course is a purchasable course with an ordered lesson list.
type Course struct {
	Key     string   `yaml:"key"`
	Title   string   `yaml:"title"`
	Track   string   `yaml:"track"`
	Tagline string   `yaml:"tagline"`
	Lessons []Lesson `yaml:"lessons"`
}

// Lesson returns the lesson with the given id.
func (c Course) Lesson(id string) (Lesson, bool) {
	for _, l := range c.Lessons {
		if l.ID == id {
			return l, true
		}
	}
	return Lesson{}, false
}

// HasLesson reports whether id belongs to this course.
func (c Course) HasLesson(id string) bool {
	_, ok := c.Lesson(id)
	return ok
}

// LessonIDs returns the lesson ids in catalog order.
func (c Course) LessonIDs() []string {
	ids := make([]string, len(c.Lessons))
	for i, l := range c.Lessons {
		ids[i] = l.ID
	}
	return ids
}

// Hero is the top-of-page copy.
type Hero struct {
	Title string   `yaml:"title"`
	Lead  string   `yaml:"lead"`
	Pills []string `yaml:"pills"`
}

// Point is a titled paragraph.
type Point struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Why is the "how we work" section.
type Why struct {
	Title    string  `yaml:"title"`
	Subtitle string  `yaml:"subtitle"`
	Points   []Point `yaml:"points"`
}

// TrackDetail is the anchor section a track card links to.
type TrackDetail struct {
	Title      string   `yaml:"title"`
	Subtitle   string   `yaml:"subtitle"`
	LearnTitle string   `yaml:"learn_title"`
	Learn      []string `yaml:"learn"`
	FitTitle   string   `yaml:"fit_title"`
	Fit        []string `yaml:"fit"`
}

// Track is a marketing direction card.
type Track struct {
	Key     string      `yaml:"key"`
	Title   string      `yaml:"title"`
	Tag     string      `yaml:"tag"`
	Line    string      `yaml:"line"`
	Bullets []string    `yaml:"bullets"`
	Detail  TrackDetail `yaml:"detail"`
}

// Case is a learner success story.
type Case struct {
	Who  string `yaml:"who"`
	What string `yaml:"what"`
}

// FAQ is a question with its answer.
type FAQ struct {
	Q string `yaml:"q"`
	A string `yaml:"a"`
}

// Updates is the "latest progress" section.
type Updates struct {
	Lead  string   `yaml:"lead"`
	Items []string `yaml:"items"`
}

// Catalog is the immutable content the page renders.
type Catalog struct {
	Brand     string   `yaml:"brand"`
	Hero      Hero     `yaml:"hero"`
	Why       Why      `yaml:"why"`
	Courses   []Course `yaml:"courses"`
	Tracks    []Track  `yaml:"tracks"`
	Cases     []Case   `yaml:"cases"`
	CasesNote string   `yaml:"cases_note"`
	FAQ       []FAQ    `yaml:"faq"`
	Updates   Updates  `yaml:"updates"`
	Footer    []string `yaml:"footer"`
}

// ValidationError describes a catalog that violates its structural rules.
type ValidationError struct {
	Course string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Course == "" {
		return fmt.Sprintf("invalid catalog: %s", e.Reason)
	}
	return fmt.Sprintf("invalid catalog: course %q: %s", e.Course, e.Reason)
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads and validates a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates a YAML catalog document.
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that course keys are unique, every course has at least
// one lesson and lesson ids are unique within their course.
func (c *Catalog) Validate() error {
	if len(c.Courses) == 0 {
		return &ValidationError{Reason: "no courses"}
	}
	keys := make(map[string]bool, len(c.Courses))
	for _, course := range c.Courses {
		if course.Key == "" {
			return &ValidationError{Reason: "course with empty key"}
		}
		if keys[course.Key] {
			return &ValidationError{Course: course.Key, Reason: "duplicate key"}
		}
		keys[course.Key] = true

		if len(course.Lessons) == 0 {
			return &ValidationError{Course: course.Key, Reason: "no lessons"}
		}
		ids := make(map[string]bool, len(course.Lessons))
		for _, l := range course.Lessons {
			if l.ID == "" {
				return &ValidationError{Course: course.Key, Reason: "lesson with empty id"}
			}
			if ids[l.ID] {
				return &ValidationError{Course: course.Key, Reason: fmt.Sprintf("duplicate lesson id %q", l.ID)}
			}
			ids[l.ID] = true
		}
	}
	return nil
}

// Course returns the course with the given key.
func (c *Catalog) Course(key string) (Course, bool) {
	for _, course := range c.Courses {
		if course.Key == key {
			return course, true
		}
	}
	return Course{}, false
}

// Purchased returns the courses whose keys appear in keys, in catalog
// order. Unknown keys never match.
func (c *Catalog) Purchased(keys []string) []Course {
	owned := make(map[string]bool, len(keys))
	for _, k := range keys {
		owned[k] = true
	}
	var out []Course
	for _, course := range c.Courses {
		if owned[course.Key] {
			out = append(out, course)
		}
	}
	return out
}

// TrackKeys returns the keys of all track cards.
func (c *Catalog) TrackKeys() []string {
	keys := make([]string, len(c.Tracks))
	for i, t := range c.Tracks {
		keys[i] = t.Key
	}
	return keys
}
