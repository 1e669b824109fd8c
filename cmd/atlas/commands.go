package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"caseatlas-backend/atlas"
	"caseatlas-backend/config"
	"caseatlas-backend/models"
	"caseatlas-backend/repository"
	"caseatlas-backend/service"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the fields available as grouping axes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		printFields(cmd.OutOrStdout(), atlas.Fields())
		return nil
	},
}

var availableFlags struct {
	axes     []string
	position int
}

var availableCmd = &cobra.Command{
	Use:   "available",
	Short: "List the fields selectable for a slot of the chain",
	RunE: func(cmd *cobra.Command, _ []string) error {
		position := availableFlags.position
		if position < 0 {
			position = len(availableFlags.axes)
		}
		fields, err := service.NewAtlasService().AvailableFields(fieldIDs(availableFlags.axes), position)
		if err != nil {
			return err
		}
		printFields(cmd.OutOrStdout(), fields)
		return nil
	},
}

var groupFlags struct {
	axes    []string
	records string
	json    bool
}

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Group case records along the given axes",
	RunE:  runGroup,
}

func init() {
	f := availableCmd.Flags()
	f.StringArrayVar(&availableFlags.axes, "axis", nil, "Field id of a chain slot, in order (repeatable)")
	f.IntVar(&availableFlags.position, "position", -1, "Slot to describe (default: a new slot at the end)")

	g := groupCmd.Flags()
	g.StringArrayVar(&groupFlags.axes, "axis", nil, "Field id to group by, in order (repeatable)")
	g.StringVar(&groupFlags.records, "records", "", "Read records from a JSON file instead of Postgres")
	g.BoolVar(&groupFlags.json, "json", false, "Print the grouped view as JSON")
	_ = groupCmd.MarkFlagRequired("axis")
}

func runGroup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var records service.RecordLister
	if groupFlags.records != "" {
		loaded, err := loadRecordsFile(groupFlags.records)
		if err != nil {
			return err
		}
		records = loaded
	} else {
		config.LoadDotEnv()
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, err := repository.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		defer db.Close()
		records = repository.NewCaseRecordRepository(db)
	}

	result, err := service.NewAtlasService(service.AtlasWithRecords(records)).
		GroupCases(ctx, service.GroupCasesRequest{Axes: fieldIDs(groupFlags.axes)})
	if err != nil {
		return err
	}

	return writeGroups(cmd.OutOrStdout(), result, groupFlags.json)
}

func writeGroups(out io.Writer, result *service.GroupCasesResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if !result.Complete {
		fmt.Fprintln(out, "Chain is incomplete: every axis must name a field.")
		return nil
	}
	_, err := io.WriteString(out, atlas.RenderText(result.View))
	return err
}

func printFields(out io.Writer, fields []atlas.FieldSpec) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Label", "Domain", "Kind"})
	for _, f := range fields {
		t.AppendRow(table.Row{f.ID, f.Label, f.Domain, f.Kind})
	}
	t.Render()
}

func fieldIDs(values []string) []atlas.FieldID {
	ids := make([]atlas.FieldID, len(values))
	for i, v := range values {
		ids[i] = atlas.FieldID(v)
	}
	return ids
}

// fileRecords serves records decoded from a JSON array
type fileRecords []*models.CaseRecord

func (f fileRecords) List(context.Context) ([]*models.CaseRecord, error) {
	return f, nil
}

func loadRecordsFile(path string) (fileRecords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	var records fileRecords
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse records %s: %w", path, err)
	}
	return records, nil
}
