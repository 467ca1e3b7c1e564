package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"poolSnapshot/internal/dex"
)

func runSlot0(cmd *cobra.Command, args []string) error {
	out, err := json.Marshal(dex.Slot0Model(args[0]))
	if err != nil {
		return fmt.Errorf("marshal slot0: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
