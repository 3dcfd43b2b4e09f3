package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/rarian/internal/collection"
	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/output"
	"github.com/Aman-CERP/rarian/internal/query"
	"github.com/Aman-CERP/rarian/internal/queryparser"
)

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <collection-name> <query-text>...",
		Short: "Evaluate a query against a collection and print matching UUIDs",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0], strings.Join(args[1:], " "))
		},
	}
}

func runSearch(cmd *cobra.Command, name, queryText string) error {
	q, err := queryparser.Parse(queryText)
	if err != nil {
		return fmt.Errorf("failed to parse query: %w", err)
	}

	root, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	env, err := openEnvironment(root, cfg, true)
	if err != nil {
		return fmt.Errorf("failed to open environment: %w", err)
	}
	defer func() { _ = env.Close() }()

	var uuids []string
	err = env.View(func(tx *kv.Tx) error {
		c, err := collection.Open(tx, name)
		if err != nil {
			return err
		}
		set, err := query.Eval(tx, c, q)
		if err != nil {
			return err
		}
		uuids = make([]string, 0, len(set))
		for u := range set {
			uuids = append(uuids, u.String())
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	sort.Strings(uuids)

	out := output.New(cmd.OutOrStdout())
	if len(uuids) == 0 {
		out.Status("", fmt.Sprintf("no matches for %q", queryText))
		return nil
	}
	for _, u := range uuids {
		out.Status("", u)
	}
	return nil
}
