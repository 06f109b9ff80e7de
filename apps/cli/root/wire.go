package root

import (
	"github.com/acervolab/acervo-backend/apps/cli/cmd/auth"
	"github.com/acervolab/acervo-backend/apps/cli/cmd/bootstrap"
	"github.com/acervolab/acervo-backend/apps/cli/cmd/catalog"
)

func init() {
	Root().AddCommand(auth.Command())
	Root().AddCommand(bootstrap.Command())
	Root().AddCommand(catalog.Command())
}
