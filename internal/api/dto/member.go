package dto

// CreateMemberRequest is the payload for registering a staff member.
type CreateMemberRequest struct {
	FullName string `json:"full_name" validate:"required,not_empty,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required,not_empty"`
}

// ListMembersQuery filters the roster listing.
type ListMembersQuery struct {
	IncludeArchived bool `form:"include_archived"`
}

// ChangeRoleRequest is the payload for changing a member's role.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,not_empty"`
}

// MemberResponse is the wire shape of a member.
type MemberResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Archived bool   `json:"archived"`
}
