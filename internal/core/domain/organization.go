package domain

// Organization is the tenant boundary. It is owned by the tenant onboarding
// module; the ledger only references it.
type Organization struct {
	OrganizationID string `json:"organization_id"`
	Slug           string `json:"slug"`
	Name           string `json:"name"`
}
