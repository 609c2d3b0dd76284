package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"github.com/spf13/cobra"
)

var globalCmd = &cobra.Command{
	Use:     "global",
	Short:   "Manage key/value global settings",
	GroupID: "site",
}

var globalListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List global settings",
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := api.GlobalSettings(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(list)
		}
		w := newTable("KEY", "GROUP", "KIND", "VALUE", "REV")
		for _, g := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", g.Key, g.Group, g.Value.Kind, truncate(g.Value.AsString(), 50), g.Revision)
		}
		return w.Flush()
	},
}

var globalGetCmd = &cobra.Command{
	Use:     "get <key>",
	Short:   "Show one global setting",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := api.GlobalSetting(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(g)
	},
}

// parseValue builds a Value from a CLI argument according to kind.
func parseValue(kind, raw string) (models.Value, error) {
	switch models.Kind(kind) {
	case models.KindString:
		return models.StringValue(raw), nil
	case models.KindNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.Value{}, fmt.Errorf("not a number: %q", raw)
		}
		return models.NumberValue(n), nil
	case models.KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return models.Value{}, fmt.Errorf("not a boolean: %q", raw)
		}
		return models.BoolValue(b), nil
	case models.KindObject:
		var o map[string]any
		if err := json.Unmarshal([]byte(raw), &o); err != nil {
			return models.Value{}, fmt.Errorf("not a JSON object: %w", err)
		}
		return models.ObjectValue(o), nil
	case models.KindNull:
		return models.NullValue(), nil
	}
	return models.Value{}, fmt.Errorf("unknown kind %q", kind)
}

var globalSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Short:   "Create (revision 0) or update a global setting",
	Args:    cobra.ExactArgs(2),
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		v, err := parseValue(kind, args[1])
		if err != nil {
			return err
		}
		g := models.GlobalSetting{Key: args[0], Value: v}
		g.Description, _ = cmd.Flags().GetString("description")
		g.Group, _ = cmd.Flags().GetString("group")
		g.Revision, _ = cmd.Flags().GetInt64("revision")

		saved, err := api.PutGlobalSetting(cmd.Context(), g)
		if err != nil {
			return printFieldErrors(err)
		}
		if jsonOutput {
			return printJSON(saved)
		}
		fmt.Printf("Saved %s (revision %d)\n", saved.Key, saved.Revision)
		return nil
	},
}

var globalDeleteCmd = &cobra.Command{
	Use:     "delete <key>",
	Short:   "Delete a global setting",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.DeleteGlobalSetting(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

func init() {
	globalSetCmd.Flags().String("kind", string(models.KindString), "value kind: string, number, bool, object, null")
	globalSetCmd.Flags().String("description", "", "description")
	globalSetCmd.Flags().String("group", models.SettingGroupGeneral, "group")
	globalSetCmd.Flags().Int64("revision", 0, "current revision (0 creates)")
	globalCmd.AddCommand(globalListCmd, globalGetCmd, globalSetCmd, globalDeleteCmd)
}
