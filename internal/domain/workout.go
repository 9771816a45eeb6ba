package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutStatus is the lifecycle state of a workout.
type WorkoutStatus string

const (
	StatusInProgress WorkoutStatus = "in_progress"
	StatusCompleted  WorkoutStatus = "completed"
)

// WeightUnit for a set's weight field.
type WeightUnit string

const (
	WeightUnitKilograms WeightUnit = "kg"
	WeightUnitPounds    WeightUnit = "lb"
)

// DistanceUnit for a set's distance field.
type DistanceUnit string

const (
	DistanceUnitKilometers DistanceUnit = "km"
	DistanceUnitMiles      DistanceUnit = "mi"
)

// MaxNotesLength bounds the free-text notes on a workout.
const MaxNotesLength = 2000

const (
	MinRating = 1
	MaxRating = 5
)

// WorkoutSet is one measured effort within a WorkoutExercise. All measurement
// fields are optional, but at least one must be present (see Validate).
type WorkoutSet struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Position     int                `bson:"position" json:"position"` // 1-based, dense within the exercise
	Weight       *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	Reps         *int               `bson:"reps,omitempty" json:"reps,omitempty"`
	Duration     *int               `bson:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`
	Distance     *float64           `bson:"distance,omitempty" json:"distance,omitempty"`
	Bodyweight   *float64           `bson:"bodyweight,omitempty" json:"bodyweight,omitempty"` // bodyweight at the time of the set
	BandColor    *string            `bson:"bandColor,omitempty" json:"bandColor,omitempty"`
	WeightUnit   *WeightUnit        `bson:"weightUnit,omitempty" json:"weightUnit,omitempty"`
	DistanceUnit *DistanceUnit      `bson:"distanceUnit,omitempty" json:"distanceUnit,omitempty"`
}

// Validate checks the measurement rules: at least one measurement field must be
// set, and numeric fields must not be negative.
func (s *WorkoutSet) Validate() error {
	empty := s.Weight == nil && s.Reps == nil && s.Duration == nil &&
		s.Distance == nil && s.Bodyweight == nil &&
		(s.BandColor == nil || *s.BandColor == "")
	if empty {
		return NewValidation("set", "at least one measurement field is required")
	}
	var verr *ValidationError
	add := func(field, msg string) {
		if verr == nil {
			verr = NewValidation(field, msg)
		} else {
			verr.Add(field, msg)
		}
	}
	if s.Weight != nil && *s.Weight < 0 {
		add("weight", "must not be negative")
	}
	if s.Reps != nil && *s.Reps < 0 {
		add("reps", "must not be negative")
	}
	if s.Duration != nil && *s.Duration < 0 {
		add("durationSeconds", "must not be negative")
	}
	if s.Distance != nil && *s.Distance < 0 {
		add("distance", "must not be negative")
	}
	if s.Bodyweight != nil && *s.Bodyweight < 0 {
		add("bodyweight", "must not be negative")
	}
	if verr != nil {
		return verr
	}
	return nil
}

// WorkoutExercise is one exercise's occurrence within a workout. Name,
// implement and exercise type are snapshots taken when the exercise was
// attached; later template edits never change them.
type WorkoutExercise struct {
	ID                 primitive.ObjectID  `bson:"_id" json:"id"`
	ExerciseTemplateID *primitive.ObjectID `bson:"exerciseTemplateId,omitempty" json:"exerciseTemplateId,omitempty"`
	Name               string              `bson:"name" json:"name"`
	ImplementType      string              `bson:"implementType,omitempty" json:"implementType,omitempty"`
	ExerciseType       string              `bson:"exerciseType,omitempty" json:"exerciseType,omitempty"`
	Position           int                 `bson:"position" json:"position"` // 1-based, dense within the workout
	Sets               []WorkoutSet        `bson:"sets" json:"sets"`
}

// SetByID finds a set within this exercise.
func (e *WorkoutExercise) SetByID(id primitive.ObjectID) (*WorkoutSet, error) {
	for i := range e.Sets {
		if e.Sets[i].ID == id {
			return &e.Sets[i], nil
		}
	}
	return nil, NewNotFound("workout set", id.Hex())
}

// NextSetPosition returns the position a newly appended set should take.
func (e *WorkoutExercise) NextSetPosition() int {
	max := 0
	for i := range e.Sets {
		if e.Sets[i].Position > max {
			max = e.Sets[i].Position
		}
	}
	return max + 1
}

// RemoveSet deletes the set and closes the position gap: every sibling with a
// greater position is decremented by one. Earlier sets keep their positions.
func (e *WorkoutExercise) RemoveSet(id primitive.ObjectID) error {
	idx := -1
	for i := range e.Sets {
		if e.Sets[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return NewNotFound("workout set", id.Hex())
	}
	removed := e.Sets[idx].Position
	e.Sets = append(e.Sets[:idx], e.Sets[idx+1:]...)
	for i := range e.Sets {
		if e.Sets[i].Position > removed {
			e.Sets[i].Position--
		}
	}
	return nil
}

// Workout is one logged training session together with its ordered exercises
// and their ordered sets. It is stored and mutated as a single aggregate.
type Workout struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OwnerID      primitive.ObjectID  `bson:"ownerId" json:"ownerId"`
	TemplateID   *primitive.ObjectID `bson:"templateId,omitempty" json:"templateId,omitempty"`
	Name         string              `bson:"name" json:"name"` // snapshot of the template name at start
	Status       WorkoutStatus       `bson:"status" json:"status"`
	StartedAt    time.Time           `bson:"startedAt" json:"startedAt"`
	EndedAt      *time.Time          `bson:"endedAt,omitempty" json:"endedAt,omitempty"`
	Notes        *string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Rating       *int                `bson:"rating,omitempty" json:"rating,omitempty"`
	LocationID   *primitive.ObjectID `bson:"locationId,omitempty" json:"locationId,omitempty"`
	LocationName *string             `bson:"locationName,omitempty" json:"locationName,omitempty"` // snapshot, not a live join
	Exercises    []WorkoutExercise   `bson:"exercises" json:"exercises"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseByID finds an exercise within this workout.
func (w *Workout) ExerciseByID(id primitive.ObjectID) (*WorkoutExercise, error) {
	for i := range w.Exercises {
		if w.Exercises[i].ID == id {
			return &w.Exercises[i], nil
		}
	}
	return nil, NewNotFound("workout exercise", id.Hex())
}

// Complete transitions the workout to Completed. Only an in-progress workout
// can be completed.
func (w *Workout) Complete(endedAt time.Time) error {
	if w.Status != StatusInProgress {
		return NewValidation("status", "Workout is not in progress")
	}
	w.Status = StatusCompleted
	w.EndedAt = &endedAt
	return nil
}

// ValidateRating checks the 1–5 rating bound.
func ValidateRating(r int) error {
	if r < MinRating || r > MaxRating {
		return NewValidation("rating", "must be between 1 and 5")
	}
	return nil
}

// ValidateNotes checks the notes length bound.
func ValidateNotes(notes string) error {
	if len(notes) > MaxNotesLength {
		return NewValidation("notes", "must be at most 2000 characters")
	}
	return nil
}

// ValidateTimeOrder rejects an end time that is not strictly after the start.
func ValidateTimeOrder(startedAt time.Time, endedAt time.Time) error {
	if !endedAt.After(startedAt) {
		return NewValidation("endedAt", "must be after startedAt")
	}
	return nil
}
