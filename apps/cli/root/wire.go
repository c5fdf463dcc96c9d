package root

import (
	orgcmd "github.com/rlst8/rlst8/apps/cli/cmd/org"
	schemacmd "github.com/rlst8/rlst8/apps/cli/cmd/schema"
)

func init() {
	Root().AddCommand(schemacmd.Command())
	Root().AddCommand(orgcmd.Command())
}
