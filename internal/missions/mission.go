// Package missions implements the mission domain for FieldScope: geofenced
// research tasks that frame observation scoring and carry the point bounties
// paid on completion.
package missions

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Geometry is a GeoJSON polygon stored as JSONB.
type Geometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// Scan implements sql.Scanner for JSONB columns.
func (g *Geometry) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, g)
	case string:
		return json.Unmarshal([]byte(v), g)
	case nil:
		*g = Geometry{}
		return nil
	default:
		return fmt.Errorf("unsupported geometry source type %T", src)
	}
}

// Value implements driver.Valuer for JSONB columns.
func (g Geometry) Value() (driver.Value, error) {
	return json.Marshal(g)
}

// Mission represents a research task with a bounty and scoring context.
type Mission struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	ScientificGoal  *string   `json:"scientific_goal"`
	DataProtocol    *string   `json:"data_protocol"`
	DataRequirement string    `json:"data_requirement"`
	BountyPoints    int       `json:"bounty_points"`
	MissionType     string    `json:"mission_type"`
	Geometry        Geometry  `json:"geometry"`
	CreatedBy       string    `json:"created_by"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

// UserMission tracks a contributor's acceptance of a mission. The
// (mission_id, user_name) pair is unique so a mission can be accepted at
// most once per contributor.
type UserMission struct {
	ID          uuid.UUID  `json:"id"`
	MissionID   uuid.UUID  `json:"mission_id"`
	UserName    string     `json:"user_name"`
	Status      string     `json:"status"`
	AcceptedAt  time.Time  `json:"accepted_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// UserMission statuses.
const (
	UserMissionAccepted  = "accepted"
	UserMissionCompleted = "completed"
)

// CreateCommand carries the data needed to publish a new mission.
type CreateCommand struct {
	Title           string   `json:"title"`
	Description     *string  `json:"description"`
	ScientificGoal  *string  `json:"scientific_goal"`
	DataProtocol    *string  `json:"data_protocol"`
	DataRequirement string   `json:"data_requirement"`
	BountyPoints    int      `json:"bounty_points"`
	MissionType     string   `json:"mission_type"`
	Geometry        Geometry `json:"geometry"`
	CreatedBy       string   `json:"created_by"`
}

// Validate checks required fields, applying the platform defaults the
// original protocol allows to be omitted.
func (c *CreateCommand) Validate() error {
	if c.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if c.Geometry.Type == "" || len(c.Geometry.Coordinates) == 0 {
		return fmt.Errorf("%w: geometry is required", ErrInvalidInput)
	}

	if c.DataRequirement == "" {
		c.DataRequirement = "both"
	}
	if c.BountyPoints == 0 {
		c.BountyPoints = 10
	}
	if c.MissionType == "" {
		c.MissionType = "Wildlife"
	}
	if c.CreatedBy == "" {
		c.CreatedBy = "Researcher"
	}

	return nil
}

// ParticipantCommand identifies the contributor accepting or completing
// a mission.
type ParticipantCommand struct {
	UserName string `json:"user_name"`
}

// CompletedPayload is the mission.completed event payload.
type CompletedPayload struct {
	MissionID     uuid.UUID `json:"mission_id"`
	MissionTitle  string    `json:"mission_title"`
	UserName      string    `json:"user_name"`
	BountyAwarded int       `json:"bounty_awarded"`
}
