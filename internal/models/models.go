package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	PasswordHash string    `json:"-"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Ticket is a user-submitted request tracked through the status lifecycle.
// Rating is a legacy column kept for wire compatibility; it is not synced with Feedback.
type Ticket struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user"`
	UserName     string     `json:"user_name,omitempty"`
	Status       Status     `json:"status"`
	Category     string     `json:"category"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	AdminComment string     `json:"admin_comment"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ResolvedAt   *time.Time `json:"resolved_at"`
	Rating       *float64   `json:"rating,omitempty"`
	Feedback     *Feedback  `json:"feedback"`
}

const DefaultCategory = "Autre"

type Feedback struct {
	ID           int64     `json:"id"`
	RequestID    int64     `json:"request_id"`
	UserID       *int64    `json:"-"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
	RequestTitle string    `json:"request_title,omitempty"`
	ClientName   string    `json:"client_name,omitempty"`
}

type Notification struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"-"`
	RequestID    int64     `json:"request_id"`
	RequestTitle string    `json:"request_title"`
	Message      string    `json:"message"`
	IsRead       bool      `json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	SenderUser = "user"
	SenderAI   = "ai"
)

type AIConversation struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Message   string    `json:"message"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

type RecentTicket struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Category  string    `json:"category"`
}

type Stats struct {
	Total             int            `json:"total"`
	StatusCounts      map[Status]int `json:"statusCounts"`
	AvgRating         float64        `json:"avgRating"`
	AvgResolutionTime float64        `json:"avgResolutionTime"`
	RecentRequests    []RecentTicket `json:"recentRequests"`
}
