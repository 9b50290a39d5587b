package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/PancyStudios/ModBotGo/pkg/config"
	"github.com/PancyStudios/ModBotGo/pkg/warnings"
	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// exportedWarning is one warning in an export document
type exportedWarning struct {
	At     string `json:"at" yaml:"at"`
	Reason string `json:"reason" yaml:"reason"`
}

func newRootCmd(out io.Writer) *cobra.Command {
	var dir string

	root := &cobra.Command{
		Use:          "warnings",
		Short:        "Inspect the warning records of ModBot",
		Version:      config.Version,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&dir, "dir", config.Get().WarningsDir, "directory holding the record files")

	open := func() (*warnings.Ledger, *warnings.FileStore) {
		store := warnings.NewFileStore(dir)
		return warnings.New(store), store
	}

	root.AddCommand(
		newListCmd(out, open),
		newShowCmd(out, open),
		newExportCmd(out, open),
	)
	return root
}

type opener func() (*warnings.Ledger, *warnings.FileStore)

func newListCmd(out io.Writer, open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every warned user with their warning count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, store := open()
			keys, err := store.Keys()
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Fprintln(out, "No warnings recorded.")
				return nil
			}

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"User", "Warnings", "Last warned"})
			table.SetBorder(false)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for _, key := range keys {
				entries, err := ledger.Entries(cmd.Context(), key)
				if err != nil {
					if errors.Is(err, warnings.ErrNotFound) {
						continue
					}
					return err
				}
				table.Append([]string{key, strconv.Itoa(len(entries)), stamp(entries[len(entries)-1])})
			}
			table.Render()
			return nil
		},
	}
}

func newShowCmd(out io.Writer, open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "show <userId>",
		Short: "Show the warnings of one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, _ := open()
			entries, err := ledger.Entries(cmd.Context(), args[0])
			if errors.Is(err, warnings.ErrNotFound) {
				fmt.Fprintf(out, "%s has no warnings.\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"#", "Date", "Reason"})
			table.SetBorder(false)
			table.SetAutoWrapText(false)
			for i, e := range entries {
				table.Append([]string{strconv.Itoa(i + 1), stamp(e), e.Reason})
			}
			table.Render()
			return nil
		},
	}
}

func newExportCmd(out io.Writer, open opener) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump every record as YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, store := open()
			doc, err := collect(cmd.Context(), ledger, store)
			if err != nil {
				return err
			}

			switch format {
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(doc); err != nil {
					return err
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			default:
				return fmt.Errorf("unknown format %q, use yaml or json", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	return cmd
}

// stamp formats when a warning was issued, "-" for unparsable lines
func stamp(e warnings.Entry) string {
	if e.At.IsZero() {
		return "-"
	}
	return e.At.Format(warnings.TimeLayout)
}

// collect reads every record into an export document keyed by user ID
func collect(ctx context.Context, ledger *warnings.Ledger, store *warnings.FileStore) (map[string][]exportedWarning, error) {
	keys, err := store.Keys()
	if err != nil {
		return nil, err
	}
	doc := make(map[string][]exportedWarning, len(keys))
	for _, key := range keys {
		entries, err := ledger.Entries(ctx, key)
		if errors.Is(err, warnings.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		list := make([]exportedWarning, 0, len(entries))
		for _, e := range entries {
			at := ""
			if !e.At.IsZero() {
				at = e.At.Format(time.RFC3339)
			}
			list = append(list, exportedWarning{At: at, Reason: e.Reason})
		}
		doc[key] = list
	}
	return doc, nil
}
