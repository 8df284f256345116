package models

// UserProfile holds the res.users fields shown on the profile screen.
// Pointer fields are nil when the server reports the field as empty
// (Odoo returns boolean false for empty scalar fields).
type UserProfile struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Login       string  `json:"login"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Mobile      *string `json:"mobile,omitempty"`
	Website     *string `json:"website,omitempty"`
	Function    *string `json:"function,omitempty"` // Job title
	ImageBase64 *string `json:"image_base64,omitempty"`
	Lang        *string `json:"lang,omitempty"`
	Timezone    *string `json:"tz,omitempty"`
	Signature   *string `json:"signature,omitempty"`
}

// Language is one installed server language (res.lang)
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
