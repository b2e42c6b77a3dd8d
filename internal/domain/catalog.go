package domain

type College struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	AllowedDomains      string `json:"allowed_domains"`
	AllowExternalEmails bool   `json:"allow_external_emails"`
}

type Canteen struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	CollegeID   int    `json:"college_id"`
	VendorEmail string `json:"vendor_email"`
	VendorPhone string `json:"vendor_phone"`
	IsOpen      bool   `json:"is_open"`
}

// Price is in the smallest currency unit.
type MenuItem struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Category  string `json:"category,omitempty"`
	Available bool   `json:"available"`
	CanteenID int    `json:"canteen_id"`
}
