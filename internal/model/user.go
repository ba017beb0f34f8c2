package model

type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

var AllRoles = []Role{
	RoleStudent,
	RoleInstructor,
	RoleAdmin,
}

func (r Role) IsValid() bool {
	for _, v := range AllRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Profile is the signed-in user's copy of their own record. Purchases show
// up under either key depending on the backend version.
type Profile struct {
	ID                string   `json:"_id"`
	Name              string   `json:"name"`
	Email             string   `json:"email,omitempty"`
	Phone             string   `json:"phone,omitempty"`
	Avatar            string   `json:"avatar,omitempty"`
	Role              Role     `json:"role,omitempty"`
	PurchasedTests    []string `json:"purchasedTests,omitempty"`
	EnrolledMockTests []string `json:"enrolledMockTests,omitempty"`
}

func (p *Profile) HasPurchased(mockTestID string) bool {
	if p == nil {
		return false
	}
	for _, id := range p.PurchasedTests {
		if id == mockTestID {
			return true
		}
	}
	for _, id := range p.EnrolledMockTests {
		if id == mockTestID {
			return true
		}
	}
	return false
}
