package account

type Role string

const (
	RoleGuest Role = "GUEST"
	RoleHost  Role = "HOST"
)

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterForm is the sign-up form. Profile picture, description and legal
// documents only apply to hosts.
type RegisterForm struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
	PhoneNumber     string `json:"phoneNumber"`
	BirthDate       string `json:"birthDate"`
	Role            Role   `json:"role"`

	ProfilePicture string `json:"profilePicture,omitempty"`
	Description    string `json:"description,omitempty"`
	LegalDocument1 string `json:"legalDocument1,omitempty"`
	LegalDocument2 string `json:"legalDocument2,omitempty"`
	LegalDocument3 string `json:"legalDocument3,omitempty"`
}

// Registration is the payload the backend's register endpoint accepts.
type Registration struct {
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	Name           string   `json:"name"`
	PhoneNumber    string   `json:"phoneNumber"`
	BirthDate      string   `json:"birthDate"`
	Role           Role     `json:"role"`
	ProfilePicture string   `json:"profilePicture,omitempty"`
	Description    string   `json:"description,omitempty"`
	LegalDocuments []string `json:"legalDocuments,omitempty"`
}

type User struct {
	ID             int64    `json:"id"`
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	PhoneNumber    string   `json:"phoneNumber"`
	BirthDate      string   `json:"birthDate"`
	Role           Role     `json:"role"`
	ProfilePicture string   `json:"profilePicture,omitempty"`
	Description    string   `json:"description,omitempty"`
	LegalDocuments []string `json:"legalDocuments,omitempty"`
}
