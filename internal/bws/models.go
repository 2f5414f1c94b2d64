package bws

// Wire types for the bitwarden-sdk-server REST API. Field names follow the
// server's mixed casing.

// SecretIdentifier is one entry of a secrets listing.
type SecretIdentifier struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId,omitempty"`
	Key            string `json:"key"`
}

// ListResponse is the body returned by GET /secrets.
type ListResponse struct {
	Data []SecretIdentifier `json:"data"`
}

// Keys returns the key of every listed secret, in listing order.
func (l ListResponse) Keys() []string {
	keys := make([]string, len(l.Data))
	for i, item := range l.Data {
		keys[i] = item.Key
	}
	return keys
}

type listRequest struct {
	OrganizationID string `json:"OrganizationID"`
}

type secretGetRequest struct {
	ID string `json:"ID"`
}

type secretsByIDsRequest struct {
	IDs []string `json:"IDS"`
}

// SecretCreateRequest is the body of POST /secret.
type SecretCreateRequest struct {
	Key            string   `json:"key"`
	Value          string   `json:"value"`
	Note           *string  `json:"note"`
	OrganizationID *string  `json:"OrganizationID"`
	ProjectIDs     []string `json:"ProjectIDS"`
}

// SecretPutRequest is the body of PUT /secret.
type SecretPutRequest struct {
	ID             string   `json:"id"`
	Key            string   `json:"key"`
	Value          string   `json:"value"`
	Note           *string  `json:"note"`
	OrganizationID *string  `json:"OrganizationID"`
	ProjectIDs     []string `json:"ProjectIDS"`
}
