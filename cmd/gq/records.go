package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"guardians/internal/domain"
	guardianssdk "guardians/sdk/go"
)

// columns picks the table columns per resource; JSON output shows everything.
var columns = map[string][]string{
	"guilds":    {"id", "name", "motto", "createdAt"},
	"guardians": {"id", "name", "role", "guildId", "joinedAt"},
	"bosses":    {"id", "title", "severity", "status", "createdAt"},
	"arsenals":  {"id", "name", "weaponIds", "createdAt"},
	"weapons":   {"id", "name", "type", "lastRunAt"},
	"campaigns": {"id", "name", "schedule", "lastTriggeredAt"},
	"wounds":    {"id", "guardianId", "severity", "status", "description", "healedAt"},
	"battles":   {"id", "guildId", "bossId", "arsenalId", "environment", "outcome"},
	"oracles":   {"id", "target", "kind", "prophecy"},
	"relics":    {"id", "type", "name", "battleId", "url"},
	"alliances": {"id", "name", "guildIds", "createdAt"},
}

func newClient() *guardianssdk.Client {
	return guardianssdk.New(viper.GetString("api"))
}

func resourceArg(name string) (string, error) {
	for _, d := range domain.Descriptors() {
		if d.Plural == name || d.Name == name {
			return d.Plural, nil
		}
	}
	names := make([]string, 0, len(columns))
	for plural := range columns {
		names = append(names, plural)
	}
	sort.Strings(names)
	return "", fmt.Errorf("unknown resource %q (have %s)", name, strings.Join(names, ", "))
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <resource>",
		Short: "List records of a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := resourceArg(args[0])
			if err != nil {
				return err
			}
			items, err := newClient().List(cmd.Context(), resource)
			if err != nil {
				return err
			}
			return printRecords(resource, items)
		},
	}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <resource> <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := resourceArg(args[0])
			if err != nil {
				return err
			}
			item, err := newClient().Get(cmd.Context(), resource, args[1])
			if err != nil {
				return err
			}
			return printRecords(resource, []guardianssdk.Record{item})
		},
	}
}

func createCmd() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:     "create <resource>",
		Short:   "Create a record",
		Example: `  gq create guilds --set name="Krakow Guild" --set motto="Knowledge and Steel"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := resourceArg(args[0])
			if err != nil {
				return err
			}
			fields, err := parseSets(sets)
			if err != nil {
				return err
			}
			item, err := newClient().Create(cmd.Context(), resource, fields)
			if err != nil {
				return err
			}
			return printRecords(resource, []guardianssdk.Record{item})
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value (values parse as JSON when possible)")
	return cmd
}

func patchCmd() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:     "patch <resource> <id>",
		Short:   "Update fields of a record",
		Example: `  gq patch bosses b-1 --set status=resolved`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := resourceArg(args[0])
			if err != nil {
				return err
			}
			fields, err := parseSets(sets)
			if err != nil {
				return err
			}
			if len(fields) == 0 {
				return fmt.Errorf("--set required")
			}
			item, err := newClient().Patch(cmd.Context(), resource, args[1], fields)
			if err != nil {
				return err
			}
			return printRecords(resource, []guardianssdk.Record{item})
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value (values parse as JSON when possible)")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete a record (unknown ids succeed)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := resourceArg(args[0])
			if err != nil {
				return err
			}
			if err := newClient().Delete(cmd.Context(), resource, args[1]); err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(map[string]any{"deleted": args[1]})
			}
			fmt.Printf("deleted %s %s\n", resource, args[1])
			return nil
		},
	}
}

func actCmd() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "act <resource> <id> <action>",
		Short: "Run a transition action",
		Long: `Run a transition action on one record. Actions per resource:
  guardians assign --set guildId=g-1 --set role=leader
  bosses status --set status=resolved
  arsenals add-weapon|remove-weapon --set weaponId=w-1
  weapons run [--set target=staging]
  campaigns run
  wounds heal
  battles resolve --set outcome=victory [--set notes=...]
  oracles predict [--set prophecy=...]
  relics url --set url=https://...
  alliances add-member|remove-member --set guildId=g-1`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := resourceArg(args[0])
			if err != nil {
				return err
			}
			body, err := parseSets(sets)
			if err != nil {
				return err
			}
			res, err := newClient().Act(cmd.Context(), resource, args[1], args[2], body)
			if err != nil {
				return err
			}
			if res == nil {
				fmt.Printf("%s %s: %s done\n", resource, args[1], args[2])
				return nil
			}
			return printJSON(res)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value (values parse as JSON when possible)")
	return cmd
}

func chronicleCmd() *cobra.Command {
	var f guardianssdk.ChronicleFilter
	cmd := &cobra.Command{
		Use:   "chronicle",
		Short: "Show recent mutation events",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := newClient().Chronicle(cmd.Context(), f)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(events)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"ID", "TS", "Type", "Entity", "Payload"})
			for _, ev := range events {
				payload, _ := json.Marshal(ev.Payload)
				tw.AppendRow(table.Row{ev.ID, ev.TS, ev.Type, ev.EntityID, string(payload)})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&f.Limit, "n", 20, "number of events")
	cmd.Flags().StringVar(&f.Type, "type", "", "event type filter (e.g. wound.healed)")
	cmd.Flags().StringVar(&f.EntityKind, "entity-kind", "", "entity kind (e.g. wound)")
	cmd.Flags().StringVar(&f.EntityID, "entity-id", "", "entity id")
	return cmd
}

// parseSets turns field=value pairs into a body. Values that parse as JSON
// keep their type; anything else is a string.
func parseSets(sets []string) (map[string]any, error) {
	fields := map[string]any{}
	for _, kv := range sets {
		key, raw, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, want field=value", kv)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		fields[key] = v
	}
	return fields, nil
}

func printRecords(resource string, items []guardianssdk.Record) error {
	if viper.GetBool("json") {
		if len(items) == 1 {
			return printJSON(items[0])
		}
		return printJSON(items)
	}
	cols := columns[resource]
	header := make(table.Row, 0, len(cols))
	for _, c := range cols {
		header = append(header, c)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(header)
	for _, item := range items {
		row := make(table.Row, 0, len(cols))
		for _, c := range cols {
			row = append(row, cell(item[c]))
		}
		tw.AppendRow(row)
	}
	tw.Render()
	return nil
}

func cell(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}
