package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/client"
	"github.com/spf13/cobra"
)

// columns lists the table columns per resource.
var columns = map[string][]string{
	client.ResourceServices:     {"title", "category", "order", "is_active"},
	client.ResourceFAQs:         {"question", "category", "order", "is_active"},
	client.ResourceTestimonials: {"name", "company", "rating", "is_active"},
	client.ResourceBlogs:        {"title", "slug", "author", "category"},
}

func resourceArg(args []string) (string, error) {
	if _, ok := columns[args[0]]; !ok {
		return "", fmt.Errorf("unknown resource %q (services, faqs, testimonials, blogs)", args[0])
	}
	return args[0], nil
}

// readDoc reads a JSON object from path, or stdin when path is "-" or "".
func readDoc(path string) (map[string]any, error) {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var doc map[string]any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse JSON document: %w", err)
	}
	return doc, nil
}

var contentCmd = &cobra.Command{
	Use:     "content",
	Short:   "Manage services, FAQs, testimonials and blog posts",
	GroupID: "content",
}

var contentListCmd = &cobra.Command{
	Use:   "list <resource>",
	Short: "List entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := resourceArg(args)
		if err != nil {
			return err
		}
		all, _ := cmd.Flags().GetBool("all")
		var items []map[string]any
		if err := api.List(cmd.Context(), res, all, &items); err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(items)
		}
		cols := columns[res]
		header := append([]string{"ID", "REV"}, cols...)
		w := newTable(header...)
		for _, it := range items {
			row := fmt.Sprintf("%v\t%v", it["id"], it["revision"])
			for _, c := range cols {
				row += "\t" + truncate(fmt.Sprint(valueOr(it[c], "")), 50)
			}
			fmt.Fprintln(w, row)
		}
		return w.Flush()
	},
}

func valueOr(v, def any) any {
	if v == nil {
		return def
	}
	return v
}

var contentGetCmd = &cobra.Command{
	Use:   "get <resource> <id>",
	Short: "Show one entry (blogs accept a slug)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := resourceArg(args)
		if err != nil {
			return err
		}
		var doc map[string]any
		if err := api.Get(cmd.Context(), res, args[1], &doc); err != nil {
			return err
		}
		return printJSON(doc)
	},
}

var contentCreateCmd = &cobra.Command{
	Use:     "create <resource>",
	Short:   "Create an entry from a JSON document",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := resourceArg(args)
		if err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("file")
		doc, err := readDoc(file)
		if err != nil {
			return err
		}
		var out map[string]any
		if err := api.Create(cmd.Context(), res, doc, &out); err != nil {
			return printFieldErrors(err)
		}
		if jsonOutput {
			return printJSON(out)
		}
		fmt.Printf("Created %s %v\n", res, out["id"])
		return nil
	},
}

var contentUpdateCmd = &cobra.Command{
	Use:     "update <resource> <id>",
	Short:   "Replace an entry from a JSON document carrying its revision",
	Args:    cobra.ExactArgs(2),
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := resourceArg(args)
		if err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("file")
		doc, err := readDoc(file)
		if err != nil {
			return err
		}
		if rev, _ := cmd.Flags().GetInt64("revision"); rev > 0 {
			doc["revision"] = rev
		}
		if _, ok := doc["revision"]; !ok {
			return errors.New("the document has no revision; pass --revision or include it")
		}
		var out map[string]any
		if err := api.Update(cmd.Context(), res, args[1], doc, &out); err != nil {
			var ce *client.ConflictError
			if errors.As(err, &ce) {
				fmt.Fprintln(os.Stderr, "Stored version:")
				fmt.Fprintln(os.Stderr, string(ce.Current))
			}
			return printFieldErrors(err)
		}
		if jsonOutput {
			return printJSON(out)
		}
		fmt.Printf("Updated %s %v (revision %v)\n", res, out["id"], out["revision"])
		return nil
	},
}

var contentDeleteCmd = &cobra.Command{
	Use:     "delete <resource> <id>",
	Short:   "Delete an entry",
	Args:    cobra.ExactArgs(2),
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := resourceArg(args)
		if err != nil {
			return err
		}
		if err := api.Delete(cmd.Context(), res, args[1]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s %s\n", res, args[1])
		return nil
	},
}

// printFieldErrors lists validation fields before returning err.
func printFieldErrors(err error) error {
	var ae *client.APIError
	if errors.As(err, &ae) {
		for f, msg := range ae.Fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", f, msg)
		}
	}
	return err
}

func init() {
	contentListCmd.Flags().Bool("all", false, "include inactive entries (admin)")
	contentCreateCmd.Flags().StringP("file", "f", "-", "JSON document (- for stdin)")
	contentUpdateCmd.Flags().StringP("file", "f", "-", "JSON document (- for stdin)")
	contentUpdateCmd.Flags().Int64("revision", 0, "revision the document was read at")
	contentCmd.AddCommand(contentListCmd, contentGetCmd, contentCreateCmd, contentUpdateCmd, contentDeleteCmd)
}
