package provisioning

import (
	"context"

	"github.com/google/uuid"

	"github.com/acervolab/acervo-backend/domains/companies/be/service"
)

// DevIdentity fabricates identity accounts locally. It pairs with the
// unsigned-token verifier so the whole stack runs without Firebase.
type DevIdentity struct{}

// NewDevIdentity constructs the stub provisioner.
func NewDevIdentity() *DevIdentity {
	return &DevIdentity{}
}

// CreateClientUser returns a made-up UID; nothing is registered anywhere.
func (p *DevIdentity) CreateClientUser(_ context.Context, email, _, _ string) (service.ProvisionedUser, error) {
	return service.ProvisionedUser{ID: "dev-" + uuid.NewString(), Email: email}, nil
}

var _ service.IdentityProvisioner = (*DevIdentity)(nil)
