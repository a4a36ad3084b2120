package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/restbridge/restbridge/internal/query"
	"github.com/restbridge/restbridge/internal/types"
)

func init() {
	modelsCmd.AddCommand(browseCmd)
	modelsCmd.AddCommand(readCmd)
	modelsCmd.AddCommand(addCmd)
	modelsCmd.AddCommand(editCmd)
	modelsCmd.AddCommand(deleteCmd)

	browseCmd.Flags().Int("page", 0, "page number (1-based)")
	browseCmd.Flags().Int("size", 0, "records per page")
	browseCmd.Flags().String("order", "", "sort expression, e.g. 'name asc,id desc'")
	browseCmd.Flags().String("fields", "", "comma-separated projection")
	browseCmd.Flags().StringArray("filter", nil, "filter condition as key=value, repeatable (e.g. id_in=1,3,5)")

	readCmd.Flags().String("fields", "", "comma-separated projection")

	addCmd.Flags().String("data", "", "record values as a JSON object")
	_ = addCmd.MarkFlagRequired("data")

	editCmd.Flags().String("data", "", "record values as a JSON object")
	_ = editCmd.MarkFlagRequired("data")
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Browse and edit records of a model",
}

// GetModelsCmd returns the models command
func GetModelsCmd() *cobra.Command {
	return modelsCmd
}

var browseCmd = &cobra.Command{
	Use:   "browse <model>",
	Short: "List records of a model",
	Long:  `List one page of records of a model, with optional filters, sorting and projection.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}

		if page, _ := cmd.Flags().GetInt("page"); page > 0 {
			q.Set(query.KeyPage, strconv.Itoa(page))
		}
		if size, _ := cmd.Flags().GetInt("size"); size > 0 {
			q.Set(query.KeySize, strconv.Itoa(size))
		}
		if order, _ := cmd.Flags().GetString("order"); order != "" {
			q.Set(query.KeyOrder, order)
		}
		if fields, _ := cmd.Flags().GetString("fields"); fields != "" {
			q.Set(query.KeyFields, fields)
		}

		filters, _ := cmd.Flags().GetStringArray("filter")
		for _, f := range filters {
			key, value, ok := strings.Cut(f, "=")
			if !ok {
				return fmt.Errorf("invalid filter %q, expected key=value", f)
			}
			q.Add(key, value)
		}

		page, err := apiClient.BrowseRecords(context.Background(), args[0], q)
		if err != nil {
			return fmt.Errorf("error browsing records: %w", err)
		}
		return printJSON(page)
	},
}

var readCmd = &cobra.Command{
	Use:   "read <model> <id>",
	Short: "Fetch one record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRecordID(args[1])
		if err != nil {
			return err
		}

		var fields []string
		if raw, _ := cmd.Flags().GetString("fields"); raw != "" {
			fields = strings.Split(raw, ",")
		}

		record, err := apiClient.ReadRecord(context.Background(), args[0], id, fields)
		if err != nil {
			return fmt.Errorf("error reading record: %w", err)
		}
		return printJSON(record)
	},
}

var addCmd = &cobra.Command{
	Use:   "add <model>",
	Short: "Create a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseData(cmd)
		if err != nil {
			return err
		}

		response, err := apiClient.AddRecord(context.Background(), args[0], values)
		if err != nil {
			return fmt.Errorf("error creating record: %w", err)
		}
		return printJSON(response)
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <model> <id>",
	Short: "Update a record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRecordID(args[1])
		if err != nil {
			return err
		}

		values, err := parseData(cmd)
		if err != nil {
			return err
		}

		if err := apiClient.EditRecord(context.Background(), args[0], id, values); err != nil {
			return fmt.Errorf("error updating record: %w", err)
		}

		fmt.Println("OK")
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <model> <id>",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := parseRecordID(args[1])
		if err != nil {
			return err
		}

		if err := apiClient.DeleteRecord(context.Background(), args[0], id); err != nil {
			return fmt.Errorf("error deleting record: %w", err)
		}

		fmt.Println("OK")
		return nil
	},
}

func parseRecordID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid record id %q", raw)
	}
	return id, nil
}

func parseData(cmd *cobra.Command) (types.Record, error) {
	raw, _ := cmd.Flags().GetString("data")

	values := types.Record{}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("invalid --data, expected a JSON object: %w", err)
	}
	return values, nil
}

// printJSON pretty prints the response
func printJSON(v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Println(string(prettyJSON))
	return nil
}
