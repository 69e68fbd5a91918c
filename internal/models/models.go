package models

import "time"

// Roles carried in tokens and stored on users. Comparisons are case-insensitive.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Lead statuses. Any of them may be set directly; there is no enforced order.
const (
	LeadStatusNew       = "New"
	LeadStatusHandled   = "Handled"
	LeadStatusCompleted = "Completed"
)

// ValidLeadStatus reports whether s is one of the three lead statuses.
func ValidLeadStatus(s string) bool {
	switch s {
	case LeadStatusNew, LeadStatusHandled, LeadStatusCompleted:
		return true
	}
	return false
}

// Staff request types and status.
const (
	RequestRegistration   = "registration"
	RequestPasswordUpdate = "password_update"
	RequestPending        = "Pending"
)

// AuthorRef is a write-time snapshot of who did something. Name is never
// re-resolved when read back.
type AuthorRef struct {
	ID   string `json:"_id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// User is an admin console account (admin or staff).
type User struct {
	ID           string    `json:"_id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	FullName     string    `json:"fullName,omitempty" bson:"full_name,omitempty"`
	Email        string    `json:"email,omitempty" bson:"email,omitempty"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Branch       string    `json:"branch,omitempty" bson:"branch,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// DisplayName is the name snapshotted onto remarks, messages and deletions.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Remark is one audit note on a lead. Remarks are only ever appended.
type Remark struct {
	Text string    `json:"text" bson:"text"`
	By   string    `json:"by" bson:"by"`
	Name string    `json:"name" bson:"name"`
	Date time.Time `json:"date" bson:"date"`
}

// Lead is one inbound prospect contact.
//
// IsDeleted implies DeletedBy and DeletedAt are both set.
type Lead struct {
	ID        string     `json:"_id" bson:"_id"`
	Name      string     `json:"name" bson:"name"`
	Email     string     `json:"email,omitempty" bson:"email,omitempty"`
	Phone     string     `json:"phone" bson:"phone"`
	Interest  string     `json:"interest,omitempty" bson:"interest,omitempty"`
	Source    string     `json:"source" bson:"source"`
	Status    string     `json:"status" bson:"status"`
	Remarks   []Remark   `json:"remarks" bson:"remarks"`
	IsDeleted bool       `json:"isDeleted" bson:"is_deleted"`
	DeletedBy *AuthorRef `json:"deletedBy" bson:"deleted_by"`
	DeletedAt *time.Time `json:"deletedAt" bson:"deleted_at"`
	CreatedAt time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updated_at"`
}

// Message is one chat message. A nil Recipient means the general room.
type Message struct {
	ID         string    `json:"_id" bson:"_id"`
	Sender     string    `json:"sender" bson:"sender"`
	SenderName string    `json:"senderName" bson:"sender_name"`
	Content    string    `json:"content" bson:"content"`
	Recipient  *string   `json:"recipient" bson:"recipient"`
	Read       bool      `json:"read" bson:"read"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

// IsDirect reports whether the message is addressed to a single recipient.
func (m *Message) IsDirect() bool {
	return m.Recipient != nil
}

// StaffRequest is a pending self-service registration or password change.
// PasswordHash holds the bcrypt hash of the proposed password.
type StaffRequest struct {
	ID           string    `json:"_id" bson:"_id"`
	FullName     string    `json:"fullName" bson:"full_name"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone" bson:"phone"`
	Branch       string    `json:"branch" bson:"branch"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Status       string    `json:"status" bson:"status"`
	Type         string    `json:"type" bson:"type"`
	UserID       *string   `json:"userId,omitempty" bson:"user_id,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

// Statistic is a headline number shown on the public site ("Placed Students": "1000+").
type Statistic struct {
	ID    string `json:"_id" bson:"_id"`
	Label string `json:"label" bson:"label"`
	Value string `json:"value" bson:"value"`
	Icon  string `json:"icon,omitempty" bson:"icon,omitempty"`
}

// Category groups courses on the public site. Lower priority lists first.
type Category struct {
	ID        string    `json:"_id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Priority  int       `json:"priority" bson:"priority"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// Default review values applied when the admin leaves them out.
const (
	DefaultReviewRole   = "Student"
	DefaultReviewRating = 5
)

// Review is a testimonial shown on the public site in Order sequence.
type Review struct {
	ID        string    `json:"_id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Role      string    `json:"role" bson:"role"`
	Review    string    `json:"review" bson:"review"`
	Rating    int       `json:"rating" bson:"rating"`
	Image     string    `json:"image" bson:"image"`
	Order     int       `json:"order" bson:"order"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}
