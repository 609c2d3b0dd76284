package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:     "upload <image>",
	Short:   "Upload an image (JPEG, PNG, GIF or WebP)",
	GroupID: "content",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		up, err := api.UploadImage(cmd.Context(), args[0], f)
		if err != nil {
			return printFieldErrors(err)
		}
		if jsonOutput {
			return printJSON(up)
		}
		fmt.Printf("Stored %s (%d bytes)\n%s\n", up.Path, up.Size, up.URL)
		return nil
	},
}

var uploadRemoveCmd = &cobra.Command{
	Use:     "rm <path>",
	Short:   "Delete an uploaded image by its storage path",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.DeleteUpload(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

func init() {
	uploadCmd.AddCommand(uploadRemoveCmd)
}
