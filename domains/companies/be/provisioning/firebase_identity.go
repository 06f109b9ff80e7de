package provisioning

import (
	"context"
	"fmt"

	firebaseauth "firebase.google.com/go/v4/auth"

	"github.com/acervolab/acervo-backend/domains/companies/be/service"
)

// FirebaseIdentity provisions client accounts through the Firebase Admin SDK.
// Admin calls carry service credentials, so the owner's browser session is
// never involved in creating the client login.
type FirebaseIdentity struct {
	client *firebaseauth.Client
}

// NewFirebaseIdentity constructs a provisioner backed by the given auth client.
func NewFirebaseIdentity(client *firebaseauth.Client) *FirebaseIdentity {
	if client == nil {
		panic("firebase auth client is required")
	}
	return &FirebaseIdentity{client: client}
}

// CreateClientUser registers the account and tags it with the client-admin role claim.
func (p *FirebaseIdentity) CreateClientUser(ctx context.Context, email, password, displayName string) (service.ProvisionedUser, error) {
	params := (&firebaseauth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName).
		EmailVerified(false)

	rec, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return service.ProvisionedUser{}, fmt.Errorf("create identity user: %w", err)
	}

	claims := map[string]interface{}{"role": service.RoleClientAdmin}
	if err := p.client.SetCustomUserClaims(ctx, rec.UID, claims); err != nil {
		// The account exists but is untagged; the saga compensates the company
		// and leaves the identity orphaned, same as any later-step failure.
		return service.ProvisionedUser{}, fmt.Errorf("set role claim: %w", err)
	}

	return service.ProvisionedUser{ID: rec.UID, Email: email}, nil
}

var _ service.IdentityProvisioner = (*FirebaseIdentity)(nil)
