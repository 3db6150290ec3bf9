package member

import (
	"errors"

	"github.com/google/uuid"

	"github.com/masthead-press/masthead/internal/infrastructure/store"
)

// Common errors
var (
	ErrMemberNotFound = errors.New("member not found")
	ErrInvalidRole    = errors.New("invalid member role")
	ErrEmailTaken     = errors.New("email already registered")
)

// Member is a person on the editorial roster. Email is the natural key
// used by the submission router to resolve respondents; members are
// archived rather than deleted so historical assignments keep resolving.
type Member struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	Archived bool      `json:"archived"`
}

func (m *Member) toRow() store.Row {
	archived := "false"
	if m.Archived {
		archived = "true"
	}
	return store.Row{
		"member_id": m.ID.String(),
		"full_name": m.FullName,
		"email":     m.Email,
		"role":      m.Role,
		"archived":  archived,
	}
}

func memberFromRow(row store.Row) (*Member, error) {
	id, err := uuid.Parse(row["member_id"])
	if err != nil {
		return nil, err
	}
	return &Member{
		ID:       id,
		FullName: row["full_name"],
		Email:    row["email"],
		Role:     row["role"],
		Archived: row["archived"] == "true",
	}, nil
}
