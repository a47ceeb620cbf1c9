// Package userstate owns the learner's persisted state: profile, purchases,
// per-course progress and the demo login flag.
package userstate

// StorageKey is the fixed key the state blob is persisted under.
const StorageKey = "dsq-user"

// DefaultName is the fixed demo profile name.
const DefaultName = "Demo 用户"

// DemoPurchased lists the course keys the demo profile owns.
var DemoPurchased = []string{"ai-overseas", "bilibili-goods"}

// ProgressRecord is the completion state of one course.
type ProgressRecord struct {
	Completed []string `json:"completed"`
	Last      string   `json:"last,omitempty"`
}

// Has reports whether lessonID is in the completed set.
func (r ProgressRecord) Has(lessonID string) bool {
	for _, id := range r.Completed {
		if id == lessonID {
			return true
		}
	}
	return false
}

// WithCompleted returns a copy of r with lessonID added to the completed set
// and recorded as the last lesson. Adding an id twice is a no-op.
func (r ProgressRecord) WithCompleted(lessonID string) ProgressRecord {
	out := r.clone()
	if !out.Has(lessonID) {
		out.Completed = append(out.Completed, lessonID)
	}
	out.Last = lessonID
	return out
}

// WithLast returns a copy of r whose last lesson is lessonID.
func (r ProgressRecord) WithLast(lessonID string) ProgressRecord {
	out := r.clone()
	out.Last = lessonID
	return out
}

func (r ProgressRecord) clone() ProgressRecord {
	completed := make([]string, len(r.Completed))
	copy(completed, r.Completed)
	return ProgressRecord{Completed: completed, Last: r.Last}
}

// UserProgress maps a course key to its record. A missing key means no
// progress yet.
type UserProgress map[string]ProgressRecord

// Clone returns a deep copy of p.
func (p UserProgress) Clone() UserProgress {
	out := make(UserProgress, len(p))
	for k, r := range p {
		out[k] = r.clone()
	}
	return out
}

// With returns a copy of p with key's record replaced.
func (p UserProgress) With(key string, r ProgressRecord) UserProgress {
	out := p.Clone()
	out[key] = r
	return out
}

// UserState is the sole unit of persistence and mutation.
type UserState struct {
	Name      string       `json:"name"`
	Purchased []string     `json:"purchased"`
	Progress  UserProgress `json:"progress"`
	LoggedIn  bool         `json:"loggedIn"`
}

// Default returns the state synthesized when nothing usable is persisted.
func Default() UserState {
	purchased := make([]string, len(DemoPurchased))
	copy(purchased, DemoPurchased)
	return UserState{
		Name:      DefaultName,
		Purchased: purchased,
		Progress:  UserProgress{},
		LoggedIn:  true,
	}
}

// Clone returns a deep copy of s.
func (s UserState) Clone() UserState {
	purchased := make([]string, len(s.Purchased))
	copy(purchased, s.Purchased)
	return UserState{
		Name:      s.Name,
		Purchased: purchased,
		Progress:  s.Progress.Clone(),
		LoggedIn:  s.LoggedIn,
	}
}

// Owns reports whether courseKey is among the purchased courses.
func (s UserState) Owns(courseKey string) bool {
	for _, k := range s.Purchased {
		if k == courseKey {
			return true
		}
	}
	return false
}

// Patch is a partial UserState. Nil fields are left untouched by a merge;
// non-nil fields replace the current value whole.
type Patch struct {
	Name      *string
	Purchased *[]string
	Progress  *UserProgress
	LoggedIn  *bool
}

// Apply merges the patch's present top-level fields over s. The result
// shares no memory with s or the patch.
func (p Patch) Apply(s UserState) UserState {
	next := s.Clone()
	if p.Name != nil {
		next.Name = *p.Name
	}
	if p.Purchased != nil {
		next.Purchased = append([]string{}, (*p.Purchased)...)
	}
	if p.Progress != nil {
		next.Progress = p.Progress.Clone()
	}
	if p.LoggedIn != nil {
		next.LoggedIn = *p.LoggedIn
	}
	return next
}
