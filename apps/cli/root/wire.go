package root

import (
	"github.com/slotwise/slotwise-saas/apps/cli/cmd/seed"
)

func init() {
	Root().AddCommand(seed.Command())
}
