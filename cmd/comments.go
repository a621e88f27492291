package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/perspectshift/internal/export"
	"github.com/lehigh-university-libraries/perspectshift/internal/models"
)

func newCommentsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and write comments for an uploaded image",
	}

	cmd.AddCommand(newCommentsListCmd(opts))
	cmd.AddCommand(newCommentsAddCmd(opts))
	cmd.AddCommand(newCommentsExportCmd(opts))

	return cmd
}

func newCommentsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <image-id>",
		Short: "Print the comments for an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comments, err := opts.client().Comments(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load comments: %w", err)
			}
			printComments(cmd.OutOrStdout(), comments)
			return nil
		},
	}
}

func newCommentsAddCmd(opts *rootOptions) *cobra.Command {
	var perspective string

	cmd := &cobra.Command{
		Use:     "add <image-id> <text>",
		Short:   "Add a comment to an image",
		Example: `  perspectshift comments add 3f9c... "The roofline reads better from above" --perspective birds_eye`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := models.ParsePerspective(perspective)
			if err != nil {
				return err
			}
			text := args[1]
			if strings.TrimSpace(text) == "" {
				return errors.New("comment text must not be empty")
			}

			comment := models.Comment{
				ID:          uuid.NewString(),
				ImageID:     args[0],
				Text:        text,
				Perspective: string(p),
			}
			if err := opts.client().AddComment(cmd.Context(), args[0], comment); err != nil {
				return fmt.Errorf("failed to add comment: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added comment %s\n", comment.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&perspective, "perspective", string(models.DefaultPerspective), "Perspective the comment was written from")

	return cmd
}

func newCommentsExportCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <image-id>",
		Short: "Export an image's comments to YAML or Parquet",
		Example: `  perspectshift comments export 3f9c... --output comments.yaml
  perspectshift comments export 3f9c... --output comments.parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comments, err := opts.client().Comments(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load comments: %w", err)
			}
			if err := export.Comments(output, args[0], comments); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d comments to %s\n", len(comments), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.yaml, .yml or .parquet)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
