package observations

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/fieldscope/fieldscope/pkg/query"
	"github.com/fieldscope/fieldscope/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "observations", "o").
	Project("id", "ID").
	Project("latitude", "Latitude").
	Project("longitude", "Longitude").
	Project("category", "Category").
	Project("image_url", "ImageURL").
	Project("audio_url", "AudioURL").
	Project("ai_label", "AILabel").
	Project("ai_confidence", "AIConfidence").
	Project("submitter_name", "SubmitterName").
	Project("submitter_id", "SubmitterID").
	Project("mission_id", "MissionID").
	Project("notes", "Notes").
	Project("validation_status", "ValidationStatus").
	Project("validation_score", "ValidationScore").
	Project("validation_notes", "ValidationNotes").
	Project("verified", "Verified").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for observation queries.
// Nil fields are ignored. The Min/Max coordinate pairs form a bounding
// box for map viewport queries.
type Filters struct {
	Category      *string    `json:"category,omitempty"`
	SubmitterName *string    `json:"submitter_name,omitempty"`
	MissionID     *uuid.UUID `json:"mission_id,omitempty"`
	Status        *Status    `json:"status,omitempty"`
	Verified      *bool      `json:"verified,omitempty"`
	MinLat        *float64   `json:"min_lat,omitempty"`
	MaxLat        *float64   `json:"max_lat,omitempty"`
	MinLng        *float64   `json:"min_lng,omitempty"`
	MaxLng        *float64   `json:"max_lng,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Category", f.Category).
		WhereEquals("SubmitterName", f.SubmitterName).
		WhereEquals("MissionID", f.MissionID).
		WhereEquals("ValidationStatus", f.Status).
		WhereEquals("Verified", f.Verified).
		WhereGte("Latitude", f.MinLat).
		WhereLte("Latitude", f.MaxLat).
		WhereGte("Longitude", f.MinLng).
		WhereLte("Longitude", f.MaxLng)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("category"); c != "" {
		f.Category = &c
	}

	if s := values.Get("submitter_name"); s != "" {
		f.SubmitterName = &s
	}

	if m := values.Get("mission_id"); m != "" {
		if id, err := uuid.Parse(m); err == nil {
			f.MissionID = &id
		}
	}

	if s := values.Get("status"); s != "" {
		status := Status(s)
		f.Status = &status
	}

	if v := values.Get("verified"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Verified = &b
		}
	}

	f.MinLat = floatParam(values, "min_lat")
	f.MaxLat = floatParam(values, "max_lat")
	f.MinLng = floatParam(values, "min_lng")
	f.MaxLng = floatParam(values, "max_lng")

	return f
}

func floatParam(values url.Values, key string) *float64 {
	s := values.Get(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func scanObservation(s repository.Scanner) (Observation, error) {
	var o Observation
	err := s.Scan(
		&o.ID,
		&o.Latitude,
		&o.Longitude,
		&o.Category,
		&o.ImageURL,
		&o.AudioURL,
		&o.AILabel,
		&o.AIConfidence,
		&o.SubmitterName,
		&o.SubmitterID,
		&o.MissionID,
		&o.Notes,
		&o.ValidationStatus,
		&o.ValidationScore,
		&o.ValidationNotes,
		&o.Verified,
		&o.CreatedAt,
	)
	return o, err
}
