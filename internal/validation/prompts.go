package validation

import (
	"fmt"
	"strings"
)

const textSystemPrompt = `You are a scientific data quality validator for a citizen science platform.
Your job is to assess whether submitted observation data is scientifically relevant and accurate for the given mission.

You must respond in EXACTLY this JSON format:
{
  "score": <number 0-1>,
  "reasoning": "<brief explanation>",
  "issues": ["<issue1>", "<issue2>"],
  "recommendation": "approve" | "review" | "reject"
}

Scoring guidelines:
- 0.90-1.00: Excellent - data is highly relevant, coordinates match, category is correct
- 0.80-0.89: Good - data is relevant with minor concerns
- 0.60-0.79: Uncertain - some data may be relevant but needs human review
- 0.40-0.59: Poor - significant concerns about data quality or relevance
- 0.00-0.39: Bad - data appears irrelevant, spam, or fraudulent

Consider these factors:
1. Does the observation category match the mission type?
2. Are the coordinates within a reasonable area for the mission?
3. Does the AI label (if any) match what the mission is looking for?
4. Are the notes/descriptions scientifically meaningful?
5. Does the confidence score suggest reliable AI classification?`

// buildTextPrompt renders the observation and mission context as the user
// message for a text scoring request.
func buildTextPrompt(subject Subject, mission *MissionContext) string {
	var sb strings.Builder

	sb.WriteString("## Observation Submission\n")
	fmt.Fprintf(&sb, "- **Category:** %s\n", subject.Category)
	fmt.Fprintf(&sb, "- **AI Label:** %s\n", stringOr(subject.AILabel, "None"))
	sb.WriteString("- **Confidence Score:** ")
	if subject.AIConfidence != nil {
		fmt.Fprintf(&sb, "%.1f%%\n", *subject.AIConfidence*100)
	} else {
		sb.WriteString("N/A\n")
	}
	fmt.Fprintf(&sb, "- **Location:** %.4f, %.4f\n", subject.Latitude, subject.Longitude)
	fmt.Fprintf(&sb, "- **Notes:** %s\n", stringOr(subject.Notes, "None provided"))
	fmt.Fprintf(&sb, "- **Has Image:** %s\n", yesNo(subject.ImageURL != nil))
	fmt.Fprintf(&sb, "- **Submitted by:** %s\n\n", subject.SubmitterName)

	if mission != nil {
		sb.WriteString("## Mission Context\n")
		fmt.Fprintf(&sb, "- **Mission:** %s\n", mission.Title)
		fmt.Fprintf(&sb, "- **Type:** %s\n", mission.MissionType)
		fmt.Fprintf(&sb, "- **Description:** %s\n", stringOr(mission.Description, "None"))
		fmt.Fprintf(&sb, "- **Scientific Goal:** %s\n", stringOr(mission.ScientificGoal, "None"))
		fmt.Fprintf(&sb, "- **Data Protocol:** %s\n", stringOr(mission.DataProtocol, "None"))
	} else {
		sb.WriteString("## Mission Context\nNo specific mission associated. This is a general observation.\n")
	}

	sb.WriteString("\nPlease validate this observation data and provide your assessment.")
	return sb.String()
}

// buildImagePrompt renders the instruction text that accompanies a
// submitted image in a vision scoring request.
func buildImagePrompt(mission *MissionContext) string {
	title := "General observation"
	missionType := "Unknown"
	description := "No description"

	if mission != nil {
		title = mission.Title
		missionType = mission.MissionType
		description = stringOr(mission.Description, "No description")
	}

	return fmt.Sprintf(`You are reviewing an image submitted for a citizen science mission.

Mission: %q
Mission Type: %s
Mission Description: %s

Analyze this image and respond in JSON:
{
  "relevant": true/false,
  "description": "<what you see in the image>",
  "matchesMission": true/false,
  "species_detected": "<species name if identifiable, or null>",
  "quality": "good" | "acceptable" | "poor",
  "score": <0-1 relevance score>
}`, title, missionType, description)
}

func stringOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
