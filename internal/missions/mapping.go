package missions

import (
	"net/url"
	"strconv"

	"github.com/fieldscope/fieldscope/pkg/query"
	"github.com/fieldscope/fieldscope/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "missions", "m").
	Project("id", "ID").
	Project("title", "Title").
	Project("description", "Description").
	Project("scientific_goal", "ScientificGoal").
	Project("data_protocol", "DataProtocol").
	Project("data_requirement", "DataRequirement").
	Project("bounty_points", "BountyPoints").
	Project("mission_type", "MissionType").
	Project("geometry", "Geometry").
	Project("created_by", "CreatedBy").
	Project("active", "Active").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for mission queries.
// Nil fields are ignored.
type Filters struct {
	Active      *bool   `json:"active,omitempty"`
	MissionType *string `json:"mission_type,omitempty"`
	CreatedBy   *string `json:"created_by,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Active", f.Active).
		WhereEquals("MissionType", f.MissionType).
		WhereEquals("CreatedBy", f.CreatedBy)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if a := values.Get("active"); a != "" {
		if v, err := strconv.ParseBool(a); err == nil {
			f.Active = &v
		}
	}

	if mt := values.Get("mission_type"); mt != "" {
		f.MissionType = &mt
	}

	if cb := values.Get("created_by"); cb != "" {
		f.CreatedBy = &cb
	}

	return f
}

func scanMission(s repository.Scanner) (Mission, error) {
	var m Mission
	err := s.Scan(
		&m.ID,
		&m.Title,
		&m.Description,
		&m.ScientificGoal,
		&m.DataProtocol,
		&m.DataRequirement,
		&m.BountyPoints,
		&m.MissionType,
		&m.Geometry,
		&m.CreatedBy,
		&m.Active,
		&m.CreatedAt,
	)
	return m, err
}

func scanUserMission(s repository.Scanner) (UserMission, error) {
	var um UserMission
	err := s.Scan(
		&um.ID,
		&um.MissionID,
		&um.UserName,
		&um.Status,
		&um.AcceptedAt,
		&um.CompletedAt,
	)
	return um, err
}
