package domain

// SubAccount is a secondary identity (business page, creator profile)
// required by some platforms for automated publishing
type SubAccount struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AccessToken string `json:"-"`
	// LinkedAccountID points at a paired identity, e.g. a business page
	// that also has a linked creator profile
	LinkedAccountID string `json:"linked_account_id,omitempty"`
}
