package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/shiftcall/internal/infrastructure/crypto"
)

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "keys",
		Short:       "Generate a SESSION_SECRET value (base64)",
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := crypto.NewSecret()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export SESSION_SECRET=%s\n", secret)
			return nil
		},
	}
}
