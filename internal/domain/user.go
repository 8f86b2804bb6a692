package domain

// User is a registered account. Password is only ever populated on roster
// entries held by the session manager; the current-session projection is
// always Redacted.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Location string `json:"location,omitempty"`
}

// Redacted returns a copy of u with the password removed.
func (u User) Redacted() User {
	u.Password = ""
	return u
}

// ProfilePatch lists the profile fields a signed-in user may change.
// Nil fields are left unchanged. ID and password are not patchable.
type ProfilePatch struct {
	Name     *string
	Email    *string
	Phone    *string
	Bio      *string
	Location *string
}

// Apply merges the non-nil fields of p into u.
func (p ProfilePatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	return u
}
