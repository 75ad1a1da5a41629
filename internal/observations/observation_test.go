package observations_test

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"

	"github.com/fieldscope/fieldscope/internal/observations"
)

func ptr[T any](v T) *T { return &v }

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from observations.Status
		to   observations.Status
		want bool
	}{
		{"pending to auto_approved", observations.StatusPending, observations.StatusAutoApproved, true},
		{"pending to needs_review", observations.StatusPending, observations.StatusNeedsReview, true},
		{"pending to rejected", observations.StatusPending, observations.StatusRejected, false},
		{"needs_review to auto_approved", observations.StatusNeedsReview, observations.StatusAutoApproved, true},
		{"needs_review to rejected", observations.StatusNeedsReview, observations.StatusRejected, true},
		{"needs_review to pending", observations.StatusNeedsReview, observations.StatusPending, false},
		{"auto_approved is terminal", observations.StatusAutoApproved, observations.StatusRejected, false},
		{"rejected is terminal", observations.StatusRejected, observations.StatusAutoApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := observations.CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCreateCommandValidate(t *testing.T) {
	valid := func() observations.CreateCommand {
		return observations.CreateCommand{
			Latitude:  ptr(25.62),
			Longitude: ptr(85.17),
			Category:  "Bird",
		}
	}

	t.Run("valid command passes", func(t *testing.T) {
		cmd := valid()
		if err := cmd.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
	})

	t.Run("defaults submitter to Anonymous", func(t *testing.T) {
		cmd := valid()
		if err := cmd.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if cmd.SubmitterName != "Anonymous" {
			t.Errorf("SubmitterName = %q, want Anonymous", cmd.SubmitterName)
		}
	})

	t.Run("keeps explicit submitter", func(t *testing.T) {
		cmd := valid()
		cmd.SubmitterName = "Priya Kumar"
		if err := cmd.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if cmd.SubmitterName != "Priya Kumar" {
			t.Errorf("SubmitterName = %q, want Priya Kumar", cmd.SubmitterName)
		}
	})

	t.Run("missing latitude fails", func(t *testing.T) {
		cmd := valid()
		cmd.Latitude = nil
		if err := cmd.Validate(); !errors.Is(err, observations.ErrInvalidInput) {
			t.Errorf("Validate() error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("missing longitude fails", func(t *testing.T) {
		cmd := valid()
		cmd.Longitude = nil
		if err := cmd.Validate(); !errors.Is(err, observations.ErrInvalidInput) {
			t.Errorf("Validate() error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("missing category fails", func(t *testing.T) {
		cmd := valid()
		cmd.Category = ""
		if err := cmd.Validate(); !errors.Is(err, observations.ErrInvalidInput) {
			t.Errorf("Validate() error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("zero coordinates are valid", func(t *testing.T) {
		cmd := valid()
		cmd.Latitude = ptr(0.0)
		cmd.Longitude = ptr(0.0)
		if err := cmd.Validate(); err != nil {
			t.Errorf("Validate() error = %v, zero coordinates should pass", err)
		}
	})
}

func TestReviewCommandValidate(t *testing.T) {
	tests := []struct {
		action string
		wantOK bool
	}{
		{"approve", true},
		{"reject", true},
		{"", false},
		{"escalate", false},
	}

	for _, tt := range tests {
		cmd := observations.ReviewCommand{Action: tt.action}
		err := cmd.Validate()
		if tt.wantOK && err != nil {
			t.Errorf("Validate(%q) error = %v, want nil", tt.action, err)
		}
		if !tt.wantOK && !errors.Is(err, observations.ErrInvalidAction) {
			t.Errorf("Validate(%q) error = %v, want ErrInvalidAction", tt.action, err)
		}
	}
}

func TestReviewCommandResolve(t *testing.T) {
	t.Run("approve", func(t *testing.T) {
		cmd := observations.ReviewCommand{Action: observations.ActionApprove}
		status, verified, notes := cmd.Resolve()

		if status != observations.StatusAutoApproved {
			t.Errorf("status = %q, want auto_approved", status)
		}
		if !verified {
			t.Error("verified = false, want true")
		}
		if notes != "Manually approved by moderator" {
			t.Errorf("notes = %q", notes)
		}
	})

	t.Run("reject", func(t *testing.T) {
		cmd := observations.ReviewCommand{Action: observations.ActionReject}
		status, verified, notes := cmd.Resolve()

		if status != observations.StatusRejected {
			t.Errorf("status = %q, want rejected", status)
		}
		if verified {
			t.Error("verified = true, want false")
		}
		if notes != "Manually rejectd by moderator" {
			t.Errorf("notes = %q", notes)
		}
	})

	t.Run("reviewer notes replace automated notes", func(t *testing.T) {
		cmd := observations.ReviewCommand{
			Action:        observations.ActionApprove,
			ReviewerNotes: ptr("confirmed against regional field guide"),
		}
		_, _, notes := cmd.Resolve()

		if notes != "Manual review: confirmed against regional field guide" {
			t.Errorf("notes = %q", notes)
		}
	})
}

func TestVerifyCommandValue(t *testing.T) {
	if got := (observations.VerifyCommand{}).Value(); !got {
		t.Error("missing verified should default to true")
	}
	if got := (observations.VerifyCommand{Verified: ptr(false)}).Value(); got {
		t.Error("explicit false should stay false")
	}
	if got := (observations.VerifyCommand{Verified: ptr(true)}).Value(); !got {
		t.Error("explicit true should stay true")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", observations.ErrInvalidInput, http.StatusBadRequest},
		{"invalid action", observations.ErrInvalidAction, http.StatusBadRequest},
		{"not found", observations.ErrNotFound, http.StatusNotFound},
		{"invalid status", observations.ErrInvalidStatus, http.StatusConflict},
		{"duplicate", observations.ErrDuplicate, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := observations.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	missionID := uuid.New()
	values := url.Values{}
	values.Set("category", "Bird")
	values.Set("status", "needs_review")
	values.Set("verified", "true")
	values.Set("mission_id", missionID.String())
	values.Set("min_lat", "25.55")
	values.Set("max_lat", "25.70")
	values.Set("min_lng", "85.05")
	values.Set("max_lng", "85.25")

	f := observations.FiltersFromQuery(values)

	if f.Category == nil || *f.Category != "Bird" {
		t.Errorf("Category = %v, want Bird", f.Category)
	}
	if f.Status == nil || *f.Status != observations.StatusNeedsReview {
		t.Errorf("Status = %v, want needs_review", f.Status)
	}
	if f.Verified == nil || !*f.Verified {
		t.Errorf("Verified = %v, want true", f.Verified)
	}
	if f.MissionID == nil || *f.MissionID != missionID {
		t.Errorf("MissionID = %v, want %v", f.MissionID, missionID)
	}
	if f.MinLat == nil || *f.MinLat != 25.55 {
		t.Errorf("MinLat = %v, want 25.55", f.MinLat)
	}
	if f.MaxLng == nil || *f.MaxLng != 85.25 {
		t.Errorf("MaxLng = %v, want 85.25", f.MaxLng)
	}
}

func TestFiltersFromQueryIgnoresMalformed(t *testing.T) {
	values := url.Values{}
	values.Set("mission_id", "not-a-uuid")
	values.Set("verified", "maybe")
	values.Set("min_lat", "north")

	f := observations.FiltersFromQuery(values)

	if f.MissionID != nil {
		t.Errorf("MissionID = %v, want nil for malformed uuid", f.MissionID)
	}
	if f.Verified != nil {
		t.Errorf("Verified = %v, want nil for malformed bool", f.Verified)
	}
	if f.MinLat != nil {
		t.Errorf("MinLat = %v, want nil for malformed float", f.MinLat)
	}
}
