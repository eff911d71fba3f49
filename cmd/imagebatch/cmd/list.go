package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/imagebatch/internal/imageset"
	"github.com/spf13/cobra"
)

// listCmd resolves the image set and prints it without preprocessing,
// useful for checking what a run would pick up.
var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List the images a run would resolve from a file or directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shuffle, _ := cmd.Flags().GetBool("shuffle")
		images, err := imageset.Resolve(args[0], imageset.Options{Shuffle: shuffle})
		if err != nil {
			return err
		}
		for _, p := range images {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d image(s)\n", len(images))
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("shuffle", false, "shuffle the resolved image order")
	rootCmd.AddCommand(listCmd)
}
