// Package scenarios implements the scenarios command.
package scenarios

import (
	"fmt"
	"io"

	"fjacquet/budget-sim/cmd/root"
	"fjacquet/budget-sim/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the scenarios command
var Cmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List saved budget scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return List(c.GetScenarioStore(), cmd.OutOrStdout())
	},
}

// List writes one scenario name per line.
func List(repo store.ScenarioRepository, w io.Writer) error {
	names, err := repo.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		_, err = fmt.Fprintln(w, "No saved scenarios.")
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}
