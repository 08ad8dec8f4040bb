package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"golang.org/x/text/encoding"

	"github.com/aita/godbf/dbf"
	"github.com/aita/godbf/internal/textenc"
)

func openTable(path string, readOnly bool) (*dbf.Table, error) {
	return dbf.Open(path, readOnly, dbf.WithLogger(logger))
}

func tableEncoding(t *dbf.Table, name string) (encoding.Encoding, error) {
	if strings.EqualFold(name, "auto") {
		hdr := t.Header()
		return textenc.ForDriver(hdr.LanguageDriver()), nil
	}
	return textenc.Lookup(name)
}

var infoCmd = &cobra.Command{
	Use:   "info [file name]",
	Short: "Print the header and fields of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTable(args[0], true)
		if err != nil {
			return err
		}
		hdr := t.Header()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "version:     0x%02X\n", byte(hdr.Version))
		fmt.Fprintf(out, "modified:    %s\n", hdr.Modified().Format("2006-01-02"))
		fmt.Fprintf(out, "records:     %d\n", hdr.RecordCount)
		fmt.Fprintf(out, "header len:  %d\n", hdr.HeaderLen)
		fmt.Fprintf(out, "record len:  %d\n", hdr.RecordLen)
		fmt.Fprintf(out, "fields:      %d\n", hdr.FieldCount())
		fmt.Fprintf(out, "memo region: %d\n", t.ReservedLen())
		fmt.Fprintf(out, "language:    0x%02X\n", hdr.LanguageDriver())
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tNAME\tTYPE\tLEN\tDEC\tOFFSET")
		for i, f := range t.Fields() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\n", i, f.Name, f.Type, f.Length, f.Decimals, f.Offset)
		}
		return multierr.Append(w.Flush(), t.Close())
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump [file name]",
	Short: "Print the records of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTable(args[0], true)
		if err != nil {
			return err
		}
		err = dump(cmd, t)
		return multierr.Append(err, t.Close())
	},
}

func dump(cmd *cobra.Command, t *dbf.Table) error {
	if viper.GetBool("dump.memory") {
		if err := t.EnableMemoryMode(0); err != nil {
			return err
		}
	}
	enc, err := tableEncoding(t, viper.GetString("dump.encoding"))
	if err != nil {
		return err
	}
	cols, err := selectColumns(t, viper.GetStringSlice("dump.fields"))
	if err != nil {
		return err
	}
	batch := viper.GetInt("dump.batch")
	if batch <= 0 {
		return errors.Errorf("invalid batch size %d", batch)
	}
	fields := t.Fields()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprint(w, "#\tDEL")
	for _, c := range cols {
		fmt.Fprintf(w, "\t%s", fields[c].Name)
	}
	fmt.Fprintln(w)

	total := t.RecordCount()
	for start := 0; start < total; start += batch {
		n := min(batch, total-start)
		if err := t.Read(start, n); err != nil {
			return err
		}
		for j := 0; j < n; j++ {
			if err := t.ReadGo(j); err != nil {
				return err
			}
			deleted, err := t.ReadDeleted()
			if err != nil {
				return err
			}
			mark := ""
			if deleted {
				mark = "*"
			}
			fmt.Fprintf(w, "%d\t%s", start+j, mark)
			for _, c := range cols {
				v, err := t.ReadString(c)
				if err != nil {
					return err
				}
				if v, err = textenc.Decode(enc, dbf.Trim(v)); err != nil {
					return errors.Wrapf(err, "decode %s of row %d", fields[c].Name, start+j)
				}
				fmt.Fprintf(w, "\t%s", v)
			}
			fmt.Fprintln(w)
		}
		logger.Debug("dumped batch", "start", start, "rows", n)
	}
	return w.Flush()
}

func selectColumns(t *dbf.Table, names []string) ([]int, error) {
	if len(names) == 0 {
		cols := make([]int, t.FieldCount())
		for i := range cols {
			cols[i] = i
		}
		return cols, nil
	}
	cols := make([]int, 0, len(names))
	for _, name := range names {
		c, err := t.FieldIndex(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, nil
}

// versionValue is a pflag.Value accepting a version byte in any base
// strconv understands, e.g. 0x8B.
type versionValue dbf.Version

var _ pflag.Value = (*versionValue)(nil)

func (v *versionValue) String() string {
	return fmt.Sprintf("0x%02X", byte(*v))
}

func (v *versionValue) Set(s string) error {
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return errors.Wrapf(err, "version %q", s)
	}
	*v = versionValue(n)
	return nil
}

func (*versionValue) Type() string {
	return "version"
}

var createVersion = versionValue(dbf.VersionDBase3)

var createCmd = &cobra.Command{
	Use:   "create [file name]",
	Short: "Create a new empty table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, err := cmd.Flags().GetStringSlice("field")
		if err != nil {
			return err
		}
		fields := make([]dbf.FieldSpec, 0, len(specs))
		for _, s := range specs {
			f, err := dbf.ParseFieldSpec(s)
			if err != nil {
				return err
			}
			fields = append(fields, f)
		}
		t, err := dbf.Create(args[0], dbf.Version(createVersion), fields, dbf.WithLogger(logger))
		if err != nil {
			return err
		}
		logger.Info("created table", "path", args[0], "fields", t.FieldCount())
		return t.Close()
	},
}

var appendCmd = &cobra.Command{
	Use:   "append [file name] [FIELD=value]...",
	Short: "Append one record to a table",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTable(args[0], false)
		if err != nil {
			return err
		}
		err = appendRecord(t, args[1:])
		return multierr.Append(err, t.Close())
	},
}

func appendRecord(t *dbf.Table, assignments []string) error {
	if viper.GetBool("append.memory") {
		if err := t.EnableMemoryMode(viper.GetInt("append.budget")); err != nil {
			return err
		}
	}
	enc, err := tableEncoding(t, viper.GetString("append.encoding"))
	if err != nil {
		return err
	}
	if err := t.PrepareAppend(1); err != nil {
		return err
	}
	if err := t.WriteGo(0); err != nil {
		return err
	}
	fields := t.Fields()
	for _, a := range assignments {
		name, value, ok := strings.Cut(a, "=")
		if !ok {
			return errors.Errorf("%q is not FIELD=value", a)
		}
		col, err := t.FieldIndex(name)
		if err != nil {
			return err
		}
		if err := writeValue(t, enc, fields[col], col, value); err != nil {
			return err
		}
	}
	if err := t.WriteCommit(); err != nil {
		return err
	}
	if err := t.FileCommit(); err != nil {
		return err
	}
	logger.Info("appended record", "path", t.Path(), "records", t.RecordCount())
	return nil
}

// writeValue stores value in col. Numeric fields are formatted to their
// declared width and decimals.
func writeValue(t *dbf.Table, enc encoding.Encoding, f dbf.Field, col int, value string) error {
	switch f.Type {
	case dbf.Numeric, dbf.Float:
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return errors.Wrapf(err, "field %s", f.Name)
		}
		return t.WriteDouble(col, v)
	}
	value, err := textenc.Encode(enc, value)
	if err != nil {
		return errors.Wrapf(err, "encode field %s", f.Name)
	}
	return t.WriteString(col, value)
}

var zapCmd = &cobra.Command{
	Use:   "zap [file name]",
	Short: "Remove every record from a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTable(args[0], false)
		if err != nil {
			return err
		}
		err = t.Zap()
		if err == nil {
			logger.Info("zapped table", "path", args[0])
		}
		return multierr.Append(err, t.Close())
	},
}

func init() {
	dumpCmd.Flags().StringSlice("fields", nil, "fields to print (default all)")
	dumpCmd.Flags().Int("batch", 16, "records read per batch")
	dumpCmd.Flags().Bool("memory", false, "load the whole table into memory first")
	dumpCmd.Flags().String("encoding", "raw", "code page of text fields (raw, auto, cp1252, gbk, ...)")
	viper.BindPFlag("dump.fields", dumpCmd.Flags().Lookup("fields"))
	viper.BindPFlag("dump.batch", dumpCmd.Flags().Lookup("batch"))
	viper.BindPFlag("dump.memory", dumpCmd.Flags().Lookup("memory"))
	viper.BindPFlag("dump.encoding", dumpCmd.Flags().Lookup("encoding"))

	createCmd.Flags().StringSlice("field", nil, "field as NAME:TYPE:LENGTH[:DECIMALS], repeatable")
	createCmd.Flags().Var(&createVersion, "version", "version byte of the new table")

	appendCmd.Flags().Bool("memory", false, "stage the record in a memory image")
	appendCmd.Flags().Int("budget", 16, "memory mode append budget")
	appendCmd.Flags().String("encoding", "raw", "code page to encode text fields with (raw, auto, cp1252, gbk, ...)")
	viper.BindPFlag("append.memory", appendCmd.Flags().Lookup("memory"))
	viper.BindPFlag("append.budget", appendCmd.Flags().Lookup("budget"))
	viper.BindPFlag("append.encoding", appendCmd.Flags().Lookup("encoding"))

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(appendCmd)
	rootCmd.AddCommand(zapCmd)
}
