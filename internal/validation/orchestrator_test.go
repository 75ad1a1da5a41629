package validation_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/fieldscope/fieldscope/internal/validation"
)

type fakeOracle struct {
	text     *validation.Assessment
	textErr  error
	image    *validation.ImageAssessment
	imageErr error

	imageCalls int
}

func (f *fakeOracle) ScoreText(
	ctx context.Context,
	subject validation.Subject,
	mission *validation.MissionContext,
) (*validation.Assessment, error) {
	return f.text, f.textErr
}

func (f *fakeOracle) ScoreImage(
	ctx context.Context,
	imageURL string,
	mission *validation.MissionContext,
) (*validation.ImageAssessment, error) {
	f.imageCalls++
	return f.image, f.imageErr
}

func ptr[T any](v T) *T { return &v }

func testSubject() validation.Subject {
	return validation.Subject{
		Category:      "Bird",
		AILabel:       ptr("Kingfisher"),
		AIConfidence:  ptr(0.92),
		Latitude:      25.62,
		Longitude:     85.17,
		SubmitterName: "Priya Kumar",
	}
}

func testMission() *validation.MissionContext {
	return &validation.MissionContext{
		Title:       "River Health Check",
		MissionType: "Water",
	}
}

func newOrchestrator(oracle validation.Oracle) *validation.Orchestrator {
	return validation.NewOrchestrator(oracle, slog.Default())
}

func TestValidateHighScoreAutoApproves(t *testing.T) {
	o := newOrchestrator(&fakeOracle{
		text: &validation.Assessment{Score: 0.95, Rationale: "clear sighting"},
	})

	result := o.Validate(context.Background(), testSubject(), nil)

	if result.Outcome != validation.OutcomeAutoApproved {
		t.Errorf("outcome = %q, want auto_approved", result.Outcome)
	}
	if result.Score != 0.95 {
		t.Errorf("score = %v, want 0.95", result.Score)
	}
	if result.Notes != "clear sighting" {
		t.Errorf("notes = %q, want rationale", result.Notes)
	}
}

func TestValidateThresholdBoundary(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  validation.Outcome
	}{
		{"exactly at threshold", 0.80, validation.OutcomeAutoApproved},
		{"just below threshold", 0.79, validation.OutcomeNeedsReview},
		{"zero", 0.0, validation.OutcomeNeedsReview},
		{"perfect", 1.0, validation.OutcomeAutoApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newOrchestrator(&fakeOracle{
				text: &validation.Assessment{Score: tt.score},
			})

			result := o.Validate(context.Background(), testSubject(), nil)
			if result.Outcome != tt.want {
				t.Errorf("outcome for %v = %q, want %q", tt.score, result.Outcome, tt.want)
			}
		})
	}
}

func TestValidateUnavailableOracle(t *testing.T) {
	o := newOrchestrator(&fakeOracle{textErr: validation.ErrUnavailable})

	result := o.Validate(context.Background(), testSubject(), testMission())

	if result.Outcome != validation.OutcomeNeedsReview {
		t.Errorf("outcome = %q, want needs_review", result.Outcome)
	}
	if result.Score != 0.5 {
		t.Errorf("score = %v, want midpoint 0.5", result.Score)
	}
	if result.Notes != "assessment unavailable, sent for manual review" {
		t.Errorf("notes = %q, want unavailable notes", result.Notes)
	}
}

func TestValidateCombinesImageScore(t *testing.T) {
	oracle := &fakeOracle{
		text:  &validation.Assessment{Score: 0.9, Rationale: "plausible"},
		image: &validation.ImageAssessment{Score: 0.7, Description: "bird visible on branch"},
	}
	o := newOrchestrator(oracle)

	subject := testSubject()
	subject.ImageURL = ptr("https://example.com/bird.jpg")

	result := o.Validate(context.Background(), subject, testMission())

	want := (0.9 + 0.7) / 2
	if result.Score != want {
		t.Errorf("score = %v, want mean %v", result.Score, want)
	}
	if result.Outcome != validation.OutcomeAutoApproved {
		t.Errorf("outcome = %q, want auto_approved", result.Outcome)
	}
	if !strings.Contains(result.Notes, "Image Analysis: bird visible on branch") {
		t.Errorf("notes missing image analysis: %q", result.Notes)
	}
}

func TestValidateCombinedScoreCanDemote(t *testing.T) {
	// Text alone clears the threshold; the image drags the mean below it.
	oracle := &fakeOracle{
		text:  &validation.Assessment{Score: 0.85},
		image: &validation.ImageAssessment{Score: 0.3, Description: "blurry"},
	}
	o := newOrchestrator(oracle)

	subject := testSubject()
	subject.ImageURL = ptr("https://example.com/blurry.jpg")

	result := o.Validate(context.Background(), subject, testMission())

	if result.Outcome != validation.OutcomeNeedsReview {
		t.Errorf("outcome = %q, want needs_review after image demotion", result.Outcome)
	}
}

func TestValidateSkipsImageWithoutMission(t *testing.T) {
	oracle := &fakeOracle{
		text:  &validation.Assessment{Score: 0.9},
		image: &validation.ImageAssessment{Score: 0.1},
	}
	o := newOrchestrator(oracle)

	subject := testSubject()
	subject.ImageURL = ptr("https://example.com/bird.jpg")

	result := o.Validate(context.Background(), subject, nil)

	if oracle.imageCalls != 0 {
		t.Errorf("image oracle called %d times, want 0 without mission", oracle.imageCalls)
	}
	if result.Score != 0.9 {
		t.Errorf("score = %v, want text-only 0.9", result.Score)
	}
}

func TestValidateSkipsImageWithoutImageURL(t *testing.T) {
	oracle := &fakeOracle{
		text:  &validation.Assessment{Score: 0.9},
		image: &validation.ImageAssessment{Score: 0.1},
	}
	o := newOrchestrator(oracle)

	o.Validate(context.Background(), testSubject(), testMission())

	if oracle.imageCalls != 0 {
		t.Errorf("image oracle called %d times, want 0 without image", oracle.imageCalls)
	}
}

func TestValidateImageFailureFallsBackToText(t *testing.T) {
	oracle := &fakeOracle{
		text:     &validation.Assessment{Score: 0.85, Rationale: "good"},
		imageErr: validation.ErrUnavailable,
	}
	o := newOrchestrator(oracle)

	subject := testSubject()
	subject.ImageURL = ptr("https://example.com/bird.jpg")

	result := o.Validate(context.Background(), subject, testMission())

	if result.Score != 0.85 {
		t.Errorf("score = %v, want text-only 0.85", result.Score)
	}
	if result.Outcome != validation.OutcomeAutoApproved {
		t.Errorf("outcome = %q, want auto_approved", result.Outcome)
	}
	if result.Notes != "good" {
		t.Errorf("notes = %q, want text rationale only", result.Notes)
	}
}

func TestValidateClampsOutOfRangeScores(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  float64
	}{
		{"above one", 1.7, 1.0},
		{"negative", -0.3, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newOrchestrator(&fakeOracle{
				text: &validation.Assessment{Score: tt.score},
			})

			result := o.Validate(context.Background(), testSubject(), nil)
			if result.Score != tt.want {
				t.Errorf("score = %v, want clamped %v", result.Score, tt.want)
			}
		})
	}
}
