package cmd

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aita/godbf/dbf"
	"github.com/aita/godbf/diff"
)

var diffCmd = &cobra.Command{
	Use:   "diff [file name] [file name]",
	Short: "Compare two tables field by field",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := viper.GetStringSlice("diff.fields")
		if len(fields) == 0 {
			return errors.New("no fields to compare (use --fields or diff.fields)")
		}
		c := diff.New(fields...)
		c.MaxRowDiffs = viper.GetInt("diff.max-row-diffs")
		c.MaxDiffs = viper.GetInt("diff.max-diffs")
		c.BatchSize = viper.GetInt("diff.batch")
		c.Logger = logger

		matches, res, err := c.CompareFiles(args[0], args[1], dbf.WithLogger(logger))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "records:     %d / %d\n", res.Records[0], res.Records[1])
		fmt.Fprintf(out, "row diffs:   %d\n", res.Rows)
		fmt.Fprintf(out, "field diffs: %d\n", res.Diffs)
		names := make([]string, 0, len(res.PerField))
		for name := range res.PerField {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "  %-10s %d\n", name, res.PerField[name])
		}
		fmt.Fprintf(out, "matches:     %t\n", matches)
		return nil
	},
}

func init() {
	diffCmd.Flags().StringSlice("fields", nil, "fields to compare")
	diffCmd.Flags().Int("max-row-diffs", diff.DefaultMaxRowDiffs, "row difference limit (informational)")
	diffCmd.Flags().Int("max-diffs", diff.DefaultMaxDiffs, "field difference limit (informational)")
	diffCmd.Flags().Int("batch", diff.DefaultBatchSize, "records compared per batch")
	viper.BindPFlag("diff.fields", diffCmd.Flags().Lookup("fields"))
	viper.BindPFlag("diff.max-row-diffs", diffCmd.Flags().Lookup("max-row-diffs"))
	viper.BindPFlag("diff.max-diffs", diffCmd.Flags().Lookup("max-diffs"))
	viper.BindPFlag("diff.batch", diffCmd.Flags().Lookup("batch"))

	rootCmd.AddCommand(diffCmd)
}
