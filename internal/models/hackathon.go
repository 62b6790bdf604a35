package models

import "time"

type HackathonStatus string

const (
	HackathonUpcoming HackathonStatus = "UPCOMING"
	HackathonActive   HackathonStatus = "ACTIVE"
	HackathonEnded    HackathonStatus = "ENDED"
)

type Hackathon struct {
	ID          string `gorm:"primaryKey;type:text" json:"id"`
	Title       string `json:"title"`
	Slug        string `gorm:"uniqueIndex" json:"slug"`
	Description string `json:"description"`

	StartDate time.Time `gorm:"index" json:"startDate"`
	EndDate   time.Time `gorm:"index" json:"endDate"`

	// Closed hackathons are joined through an approved ParticipationRequest.
	IsOpen          bool `gorm:"default:true" json:"isOpen"`
	ScoresFinalized bool `gorm:"default:false" json:"scoresFinalized"`

	CreatedBy string `json:"createdBy"`

	Tasks []HackathonTask `gorm:"foreignKey:HackathonID" json:"tasks,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StatusAt derives the hackathon phase from its dates.
func (h *Hackathon) StatusAt(now time.Time) HackathonStatus {
	switch {
	case now.Before(h.StartDate):
		return HackathonUpcoming
	case now.Before(h.EndDate):
		return HackathonActive
	default:
		return HackathonEnded
	}
}

func (h *Hackathon) HasStarted(now time.Time) bool {
	return !now.Before(h.StartDate)
}

// HackathonTask links a task into a hackathon at a given position.
type HackathonTask struct {
	HackathonID string `gorm:"primaryKey;type:text" json:"hackathonId"`
	TaskID      string `gorm:"primaryKey;type:text" json:"taskId"`
	Position    int    `gorm:"default:0" json:"position"`

	Task Task `gorm:"foreignKey:TaskID" json:"task"`
}

type HackathonParticipant struct {
	ID           string     `gorm:"primaryKey;type:text" json:"id"`
	HackathonID  string     `gorm:"uniqueIndex:idx_hackathon_participant" json:"hackathonId"`
	UserID       string     `gorm:"uniqueIndex:idx_hackathon_participant;index" json:"userId"`
	TotalScore   float64    `gorm:"default:0" json:"totalScore"`
	JoinedAt     time.Time  `json:"joinedAt"`
	LastScoredAt *time.Time `json:"lastScoredAt"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

type ParticipationRequest struct {
	ID          string        `gorm:"primaryKey;type:text" json:"id"`
	HackathonID string        `gorm:"uniqueIndex:idx_hackathon_request" json:"hackathonId"`
	UserID      string        `gorm:"uniqueIndex:idx_hackathon_request" json:"userId"`
	Status      RequestStatus `gorm:"type:text;default:'PENDING';index" json:"status"`
	Message     string        `json:"message"`
	ReviewedBy  *string       `json:"reviewedBy"`
	ReviewedAt  *time.Time    `json:"reviewedAt"`
	CreatedAt   time.Time     `json:"createdAt"`

	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Hackathon Hackathon `gorm:"foreignKey:HackathonID" json:"hackathon,omitempty"`
}
