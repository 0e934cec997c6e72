package domain

// AccountType is the billing arrangement with a client.
type AccountType string

const (
	AccountCOD    AccountType = "COD"
	AccountCredit AccountType = "Credit"
)

var AccountTypes = []AccountType{AccountCOD, AccountCredit}

func (a AccountType) Valid() bool { return contains(AccountTypes, a) }

// Client is the law firm or person on whose behalf documents are served.
type Client struct {
	ID            string      `json:"id" bson:"_id"`
	Name          string      `json:"name" bson:"name"`
	ContactPerson string      `json:"contactPerson" bson:"contact_person"`
	Email         string      `json:"email" bson:"email"`
	PhoneNumber   string      `json:"phoneNumber" bson:"phone_number"`
	Address       string      `json:"address,omitempty" bson:"address,omitempty"`
	AccountType   AccountType `json:"accountType" bson:"account_type"`
}

// ClientSummary is the reference view of a client embedded in a document read.
type ClientSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

func (c *Client) Summary() *ClientSummary {
	return &ClientSummary{ID: c.ID, Name: c.Name, Email: c.Email, PhoneNumber: c.PhoneNumber}
}

// Office is a sheriff's office a deputy works from.
type Office string

const (
	OfficeMidrand  Office = "Midrand"
	OfficeSandton  Office = "Sandton"
	OfficePretoria Office = "Pretoria"
)

var Offices = []Office{OfficeMidrand, OfficeSandton, OfficePretoria}

func (o Office) Valid() bool { return contains(Offices, o) }

// Deputy is a field officer who attempts service. AssignedCases is derived
// from Document.AssignedDeputy and is only written by the assignment index.
type Deputy struct {
	ID              string   `json:"id" bson:"_id"`
	Name            string   `json:"name" bson:"name"`
	Office          Office   `json:"office" bson:"office"`
	PhoneNumber     string   `json:"phoneNumber" bson:"phone_number"`
	Email           string   `json:"email,omitempty" bson:"email,omitempty"`
	IsActive        bool     `json:"isActive" bson:"is_active"`
	AssignedCases   []string `json:"assignedCases" bson:"assigned_cases"`
	AdditionalNotes string   `json:"additionalNotes,omitempty" bson:"additional_notes,omitempty"`
}

// DeputySummary is the reference view of a deputy embedded in a document read.
type DeputySummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Office      Office `json:"office"`
}

func (d *Deputy) Summary() *DeputySummary {
	return &DeputySummary{ID: d.ID, Name: d.Name, PhoneNumber: d.PhoneNumber, Office: d.Office}
}
