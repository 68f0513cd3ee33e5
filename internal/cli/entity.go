package cli

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ledger/internal/convert"
	"github.com/mesh-intelligence/ledger/internal/logger"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

func (a *app) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind> <id>",
		Short: "Get an entity by ID with its associations",
		Long: "Get loads an entity and the rows its associations reference.\n\n" +
			"Valid kinds: " + validKinds + "\n\n" +
			"Example:\n  ledger get resource-data 3",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			return a.withTable(cmd, args[0], func(t types.Table) error {
				e, err := t.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), e)
			})
		},
	}
}

func (a *app) newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <kind> [column=value...]",
		Short: "Create an entity",
		Long: "Create inserts a new entity. Values are given per column; associations\n" +
			"take the referenced id under the role or foreign-key column name.\n\n" +
			"Example:\n  ledger create users login=alice activated=true\n" +
			"  ledger create resource-data gold=10.5 registerUser=1",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			return a.withTable(cmd, args[0], func(t types.Table) error {
				e, err := t.Set(cmd.Context(), 0, values)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), e)
			})
		},
	}
}

func (a *app) newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <kind> <id> [column=value...]",
		Short: "Replace an entity",
		Long:  "Update replaces every column of an existing entity; omitted columns become null.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			values, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}
			return a.withTable(cmd, args[0], func(t types.Table) error {
				e, err := t.Set(cmd.Context(), id, values)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), e)
			})
		},
	}
}

func (a *app) newPatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patch <kind> <id> column=value...",
		Short: "Change some columns of an entity",
		Long:  "Patch changes only the given columns. Use column=null to clear one.",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			values, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}
			return a.withTable(cmd, args[0], func(t types.Table) error {
				e, err := t.Patch(cmd.Context(), id, values)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), e)
			})
		},
	}
}

func (a *app) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete an entity by ID",
		Long:  "Delete removes an entity. Deleting a missing id succeeds; deleting a referenced row fails.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			return a.withTable(cmd, args[0], func(t types.Table) error {
				if err := t.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %d\n", args[0], id)
				return nil
			})
		},
	}
}

type listFlags struct {
	page    int
	size    int
	sort    []string
	by      string
	orphans string
	stream  bool
}

func (a *app) newListCmd() *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List entities with their associations",
		Long: "List streams entities of a kind, optionally filtered by an association\n" +
			"and paged.\n\n" +
			"Valid kinds: " + validKinds + "\n\n" +
			"Example:\n  ledger list resource-data --by registerUser=1 --sort gold,desc --size 20\n" +
			"  ledger list user-profiles --orphans user --stream",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := lf.filter()
			if err != nil {
				return err
			}
			return a.withTable(cmd, args[0], func(t types.Table) error {
				write := writeArray
				if lf.stream {
					write = writeNDJSON
				}
				n, err := write(cmd.OutOrStdout(), t.Fetch(cmd.Context(), filter))
				logger.FromContext(cmd.Context()).WithField("rows", n).Debug("listed")
				return err
			})
		},
	}
	f := cmd.Flags()
	f.IntVar(&lf.page, "page", 0, "page number, starting at 0")
	f.IntVar(&lf.size, "size", 0, "page size (0 lists every row)")
	f.StringArrayVar(&lf.sort, "sort", nil, "sort order column[,asc|desc]; repeatable")
	f.StringVar(&lf.by, "by", "", "only entities whose association references an id (role=id)")
	f.StringVar(&lf.orphans, "orphans", "", "only entities whose association is null (role)")
	f.BoolVar(&lf.stream, "stream", false, "write newline-delimited JSON as rows arrive")
	cmd.MarkFlagsMutuallyExclusive("by", "orphans")
	return cmd
}

func (lf listFlags) filter() (types.Filter, error) {
	var filter types.Filter
	if lf.size > 0 || lf.page > 0 || len(lf.sort) > 0 {
		if lf.page > 0 && lf.size == 0 {
			return filter, usageError("--page requires --size")
		}
		orders, err := parseOrders(lf.sort)
		if err != nil {
			return filter, err
		}
		filter.Page = &types.Pageable{Page: lf.page, Size: lf.size, Sort: orders}
	}
	switch {
	case lf.by != "":
		role, idText, ok := strings.Cut(lf.by, "=")
		if !ok || role == "" {
			return filter, usageError("invalid --by %q (expected role=id)", lf.by)
		}
		id, err := parseID(idText)
		if err != nil {
			return filter, err
		}
		filter.Association, filter.AssociationID = role, id
	case lf.orphans != "":
		filter.Association, filter.Orphans = lf.orphans, true
	}
	return filter, nil
}

func parseOrders(specs []string) ([]types.Order, error) {
	orders := make([]types.Order, 0, len(specs))
	for _, s := range specs {
		o, err := types.ParseOrder(s)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// withTable opens the store for one command, runs fn on the table of kind
// and closes the store. cmd's context is replaced by one carrying the
// operation logger.
func (a *app) withTable(cmd *cobra.Command, kind string, fn func(types.Table) error) error {
	ctx, store, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore(store, cmd.ErrOrStderr())
	cmd.SetContext(ctx)

	t, err := a.table(store, kind)
	if err != nil {
		return err
	}
	return fn(t)
}

// parseID reads a positive base-10 id with the converter's integer rules.
func parseID(text string) (int64, error) {
	v, err := convert.FromString(convert.KindID, text)
	if err != nil || v == nil || v.(int64) <= 0 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidID, text)
	}
	return v.(int64), nil
}

// parseAssignments parses column=value arguments. A column may be given once.
func parseAssignments(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		column, value, ok := strings.Cut(arg, "=")
		column = strings.TrimSpace(column)
		if !ok || column == "" {
			return nil, usageError("invalid assignment %q (expected column=value)", arg)
		}
		if lo.HasKey(values, column) {
			return nil, usageError("column %q given twice", column)
		}
		values[column] = value
	}
	return values, nil
}
